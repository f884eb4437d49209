package sendnotification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"techflow-careers/internal/common/aws"
	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

type template struct {
	subject string
	body    string
}

var templates = map[string]template{
	TypeHiringTeam: {
		subject: "New application: {{jobTitle}}",
		body: "{{applicantName}} <{{applicantEmail}}> applied for {{jobTitle}}.\n" +
			"Application: {{applicationId}}\nPriority: {{priority}}\nTeam: {{hiringTeam}}",
	},
	TypeApplicantReceipt: {
		subject: "We received your application for {{jobTitle}}",
		body: "Hi {{applicantName}},\n\nThank you for applying to {{jobTitle}} at TechFlow. " +
			"We'll review your application and get back to you within 5 business days.\n\n" +
			"Reference: {{applicationId}}",
	},
	TypeHighPriority: {
		subject: "High priority application: {{jobTitle}}",
		body:    "{{applicantName}} applied for {{jobTitle}} ({{applicationId}}).",
	},
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	sesClient    aws.SESService
	snsClient    aws.SNSService
	now          func() time.Time
}

// NewHandler builds the handler. sesClient and snsClient may be nil when the
// matching channel is disabled.
func NewHandler(config *Config, sesClient aws.SESService, snsClient aws.SNSService, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
		sesClient:    sesClient,
		snsClient:    snsClient,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, apperrors.NewBusinessRuleError("Invalid job variables", err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, apperrors.NewBusinessRuleError("Missing notification input", "applicationId is required")
	}

	data := map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"jobTitle":       input.JobTitle,
		"applicantName":  input.Applicant.Name,
		"applicantEmail": input.Applicant.Email,
		"priority":       input.RoutingPriority,
		"hiringTeam":     input.HiringTeam,
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
	}

	if h.emailEnabled() && h.config.HiringEmail != "" {
		if err := h.sendEmail(ctx, h.config.HiringEmail, TypeHiringTeam, data); err != nil {
			return nil, apperrors.NewNotificationSendFailedError("email", err)
		}
		output.HiringNotified = true
	}

	// The receipt is only sent to applicants who opted in.
	if h.emailEnabled() && input.Preferences.Notifications && input.Applicant.Email != "" {
		if err := h.sendEmail(ctx, input.Applicant.Email, TypeApplicantReceipt, data); err != nil {
			h.logger.Warn("applicant receipt failed", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"error":         err,
			})
		} else {
			output.ApplicantNotified = true
		}
	}

	if h.snsEnabled() && input.RoutingPriority == priorityHigh {
		tmpl := templates[TypeHighPriority]
		msgID, err := aws.PublishToTopic(ctx, h.snsClient, h.config.HiringTopicARN,
			renderTemplate(tmpl.subject, data), renderTemplate(tmpl.body, data))
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError("sns", err)
		}
		output.TopicMessageID = msgID
	}

	if output.HiringNotified || output.ApplicantNotified || output.TopicMessageID != "" {
		output.Status = StatusSent
	}
	output.SentAt = h.now().Format(time.RFC3339)

	h.logger.Info("notifications processed", map[string]interface{}{
		"applicationId":     input.ApplicationID,
		"status":            output.Status,
		"applicantNotified": output.ApplicantNotified,
		"hiringNotified":    output.HiringNotified,
	})
	return output, nil
}

func (h *Handler) emailEnabled() bool {
	return h.config.EmailEnabled && h.sesClient != nil
}

func (h *Handler) snsEnabled() bool {
	return h.config.SNSEnabled && h.snsClient != nil && h.config.HiringTopicARN != ""
}

func (h *Handler) sendEmail(ctx context.Context, to, notificationType string, data map[string]interface{}) error {
	tmpl := templates[notificationType]
	_, err := aws.SendEmail(ctx, h.sesClient, aws.Email{
		From:    h.config.FromEmail,
		To:      []string{to},
		Subject: renderTemplate(tmpl.subject, data),
		Body:    renderTemplate(tmpl.body, data),
	})
	return err
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.CodeOf(err))).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

// renderTemplate substitutes {{key}} placeholders and drops any left without
// a value.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}
