// Package errors provides standardized error handling for the careers site
// and its workflow workers.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Wizard errors
const (
	ErrCodeStepIncomplete      ErrorCode = "STEP_INCOMPLETE"
	ErrCodeDocumentTooLarge    ErrorCode = "DOCUMENT_TOO_LARGE"
	ErrCodeUnsupportedDocument ErrorCode = "UNSUPPORTED_DOCUMENT"
	ErrCodeSubmissionFailed    ErrorCode = "SUBMISSION_FAILED"
	ErrCodeSubmissionInFlight  ErrorCode = "SUBMISSION_IN_FLIGHT"
)

// Content errors
const (
	ErrCodeCareerNotFound    ErrorCode = "CAREER_NOT_FOUND"
	ErrCodeCareerQueryFailed ErrorCode = "CAREER_QUERY_FAILED"
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
)

// Submission pipeline / workflow errors
const (
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeDatabaseInsertFailed        ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateApplication        ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeWorkflowStartFailed         ErrorCode = "WORKFLOW_START_FAILED"
	ErrCodeRoutingFailed               ErrorCode = "ROUTING_FAILED"
	ErrCodeNotificationSendFailed      ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeApplicationNotFound         ErrorCode = "APPLICATION_NOT_FOUND"
)

// Generic infrastructure errors
const (
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeNotFound        ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another StandardError by code so callers can use errors.Is
// against a constructed template.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error thrown to the Zeebe workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for job fail/throw variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewStepIncompleteError reports missing required fields at a step boundary.
func NewStepIncompleteError(step int) *StandardError {
	return newError(ErrCodeStepIncomplete, "Please fill in all required fields",
		fmt.Sprintf("step: %d", step), false, nil)
}

// NewDocumentTooLargeError reports an upload over the size limit.
func NewDocumentTooLargeError(name string, size, limit int64) *StandardError {
	return newError(ErrCodeDocumentTooLarge, "File size must be less than 5MB",
		fmt.Sprintf("document: %s, size: %d, limit: %d", name, size, limit), false, nil)
}

// NewUnsupportedDocumentError reports an upload with a rejected format.
func NewUnsupportedDocumentError(name string) *StandardError {
	return newError(ErrCodeUnsupportedDocument, "Accepted formats: PDF, DOC, DOCX",
		fmt.Sprintf("document: %s", name), false, nil)
}

// NewSubmissionFailedError wraps a sink failure. Always retryable by the user.
func NewSubmissionFailedError(jobID string, err error) *StandardError {
	return newError(ErrCodeSubmissionFailed, "Failed to submit application. Please try again.",
		fmt.Sprintf("jobId: %s, error: %v", jobID, err), true, err)
}

// NewSubmissionInFlightError reports a duplicate submit while one is pending.
func NewSubmissionInFlightError(jobID string) *StandardError {
	return newError(ErrCodeSubmissionInFlight, "Your application is already being submitted",
		fmt.Sprintf("jobId: %s", jobID), false, nil)
}

// NewCareerNotFoundError reports an unknown or inactive job id.
func NewCareerNotFoundError(jobID string) *StandardError {
	return newError(ErrCodeCareerNotFound, "Career not found",
		fmt.Sprintf("jobId: %s", jobID), false, nil)
}

// NewCareerQueryFailedError creates a retryable database error for career reads.
func NewCareerQueryFailedError(err error) *StandardError {
	return newError(ErrCodeCareerQueryFailed, "Career query failed", err.Error(), true, err)
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(query string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Career search failed",
		fmt.Sprintf("query: %s, error: %v", query, err), true, err)
}

// NewApplicationValidationFailedError creates a non-retryable validation error.
func NewApplicationValidationFailedError(details string) *StandardError {
	return newError(ErrCodeApplicationValidationFailed, "Application data validation failed", details, false, nil)
}

// NewDatabaseInsertFailedError creates a retryable insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert failed", err.Error(), true, err)
}

// NewDuplicateApplicationError creates a non-retryable duplicate error.
func NewDuplicateApplicationError(jobID, email string) *StandardError {
	return newError(ErrCodeDuplicateApplication, "An application for this position already exists",
		fmt.Sprintf("jobId: %s, email: %s", jobID, email), false, nil)
}

// NewWorkflowStartFailedError creates a retryable workflow error.
func NewWorkflowStartFailedError(processID string, err error) *StandardError {
	return newError(ErrCodeWorkflowStartFailed, "Failed to start application workflow",
		fmt.Sprintf("processId: %s, error: %v", processID, err), true, err)
}

// NewRoutingFailedError creates a retryable routing error.
func NewRoutingFailedError(err error) *StandardError {
	return newError(ErrCodeRoutingFailed, "Application routing failed", err.Error(), true, err)
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification send failed",
		fmt.Sprintf("channel: %s, error: %v", channel, err), true, err)
}

// NewApplicationNotFoundError creates a non-retryable lookup error.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return newError(ErrCodeApplicationNotFound, "Application not found",
		fmt.Sprintf("applicationId: %s", applicationID), false, nil)
}

// NewBusinessRuleError creates a non-retryable business rule error.
func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRule, message, details, false, nil)
}

// NewExternalServiceError creates a retryable external service error.
func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service error: %s", service), err.Error(), true, err)
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Timeout calling %s", service), err.Error(), true, err)
}

// NewResourceNotFoundError creates a non-retryable not-found error.
func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("Resource not found in %s", service), details, false, nil)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeCareerQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeRoutingFailed,
		ErrCodeWorkflowStartFailed,
		ErrCodeExternalService:
		return 3
	case ErrCodeTimeout,
		ErrCodeSearchQueryFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Zeebe.
// BPMN codes are identical to internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError if one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in err's chain, or
// INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "STEP") || strings.Contains(codeStr, "DOCUMENT") ||
		strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SUBMISSION"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "CAREER") || strings.Contains(codeStr, "SEARCH"):
		return "CONTENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "DUPLICATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "WORKFLOW") || strings.Contains(codeStr, "ROUTING"):
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
