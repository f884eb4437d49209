package routeapplication

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"techflow-careers/internal/common/database"
	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "route-application"

	careerRoutingQuery = `SELECT department, featured FROM careers WHERE id = $1`
	markRoutedQuery    = `UPDATE applications SET status = $2 WHERE id = $1`
)

type Handler struct {
	config       *Config
	db           *sql.DB
	redis        redis.Cmdable
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, db *sql.DB, rdb redis.Cmdable, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		redis:        rdb,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
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
	if input.ApplicationID == "" || input.JobID == "" {
		return nil, apperrors.NewBusinessRuleError("Missing routing input", "applicationId and jobId are required")
	}

	routing, err := h.careerRouting(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	res, err := h.db.ExecContext(ctx, markRoutedQuery, input.ApplicationID, StatusRouted)
	if err != nil {
		return nil, apperrors.NewRoutingFailedError(fmt.Errorf("update application status: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperrors.NewApplicationNotFoundError(input.ApplicationID)
	}

	output := &Output{
		RoutingPriority: determinePriority(routing),
		HiringTeam:      hiringTeam(routing.Department),
		RoutedAt:        h.now().Format(time.RFC3339),
	}

	h.logger.Info("application routed", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"jobId":         input.JobID,
		"priority":      output.RoutingPriority,
		"hiringTeam":    output.HiringTeam,
	})
	return output, nil
}

// careerRouting reads the career's department and featured flag, through
// Redis when possible.
func (h *Handler) careerRouting(ctx context.Context, jobID string) (careerRouting, error) {
	cacheKey := "career:routing:" + jobID

	var routing careerRouting
	if err := database.GetJSON(ctx, h.redis, cacheKey, &routing); err == nil {
		return routing, nil
	} else if !errors.Is(err, database.ErrCacheMiss) {
		h.logger.Warn("routing cache read failed", map[string]interface{}{"jobId": jobID, "error": err})
	}

	err := h.db.QueryRowContext(ctx, careerRoutingQuery, jobID).Scan(&routing.Department, &routing.Featured)
	if errors.Is(err, sql.ErrNoRows) {
		return careerRouting{}, apperrors.NewCareerNotFoundError(jobID)
	}
	if err != nil {
		return careerRouting{}, apperrors.NewRoutingFailedError(fmt.Errorf("load career %s: %w", jobID, err))
	}

	if err := database.SetJSON(ctx, h.redis, cacheKey, routing, h.config.CacheTTL); err != nil {
		h.logger.Warn("routing cache write failed", map[string]interface{}{"jobId": jobID, "error": err})
	}
	return routing, nil
}

// determinePriority: featured roles first, then engineering, then the rest.
func determinePriority(r careerRouting) string {
	switch {
	case r.Featured:
		return PriorityHigh
	case strings.EqualFold(r.Department, "Engineering"):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func hiringTeam(department string) string {
	team := strings.ToLower(strings.TrimSpace(department))
	if team == "" {
		return "talent"
	}
	return strings.ReplaceAll(team, " ", "-")
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
