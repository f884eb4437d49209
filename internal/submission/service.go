// Package submission is the sink behind the application wizard. It
// validates the finished record, stores it in PostgreSQL and starts the
// job-application workflow.
package submission

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/common/metrics"
	"techflow-careers/internal/models"
)

// CareerLookup resolves a job id to an active career.
type CareerLookup interface {
	GetCareer(ctx context.Context, id string) (*models.Career, error)
}

// ApplicationRecorder persists an application.
type ApplicationRecorder interface {
	Record(ctx context.Context, jobID string, data *models.ApplicationData) (*models.ApplicationRecord, error)
}

type Config struct {
	ProcessID string
	Timeout   time.Duration
}

// Service implements wizard.Sink.
type Service struct {
	config   Config
	careers  CareerLookup
	recorder ApplicationRecorder
	workflow ProcessStarter
	logger   logger.Logger
}

// NewService wires the pipeline. workflow may be nil, in which case
// applications are stored but not forwarded.
func NewService(cfg Config, careers CareerLookup, recorder ApplicationRecorder, workflow ProcessStarter, log logger.Logger) *Service {
	return &Service{
		config:   cfg,
		careers:  careers,
		recorder: recorder,
		workflow: workflow,
		logger:   log.WithFields(map[string]interface{}{"component": "submission"}),
	}
}

func (s *Service) SubmitJobApplication(ctx context.Context, jobID string, data *models.ApplicationData) error {
	start := time.Now()
	err := s.submit(ctx, jobID, data)
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(string(apperrors.CodeOf(err)))
	}
	metrics.Submissions.WithLabelValues(outcome).Inc()
	return err
}

func (s *Service) submit(ctx context.Context, jobID string, data *models.ApplicationData) error {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	career, err := s.careers.GetCareer(ctx, jobID)
	if err != nil {
		return err
	}
	if !career.IsActive {
		return apperrors.NewCareerNotFoundError(jobID)
	}

	result, err := ValidateApplication(data)
	if err != nil {
		return apperrors.NewApplicationValidationFailedError(err.Error())
	}
	if !result.Valid {
		s.logger.Warn("application failed schema validation", map[string]interface{}{
			"jobId":  jobID,
			"errors": result.GetErrorMessages(),
		})
		return apperrors.NewApplicationValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	rec, err := s.recorder.Record(ctx, jobID, data)
	if err != nil {
		var stdErr *apperrors.StandardError
		if !errors.As(err, &stdErr) {
			err = apperrors.NewDatabaseInsertFailedError(err)
		}
		return err
	}

	s.logger.Info("application recorded", map[string]interface{}{
		"applicationId": rec.ID,
		"jobId":         jobID,
	})

	s.forward(ctx, rec, career)
	return nil
}

// forward starts the workflow. The application is already stored, so a
// failure here is logged and not reported to the applicant.
func (s *Service) forward(ctx context.Context, rec *models.ApplicationRecord, career *models.Career) {
	if s.workflow == nil {
		return
	}

	key, err := s.workflow.StartProcess(ctx, s.config.ProcessID, newWorkflowVariables(rec, career))
	if err != nil {
		s.logger.Warn("failed to start application workflow", map[string]interface{}{
			"applicationId": rec.ID,
			"processId":     s.config.ProcessID,
			"error":         err,
		})
		return
	}

	s.logger.Info("application workflow started", map[string]interface{}{
		"applicationId":      rec.ID,
		"processInstanceKey": key,
	})
}
