package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"techflow-careers/internal/common/database"
	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/models"

	"github.com/google/uuid"
)

const (
	duplicateCheckQuery = `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND LOWER(email) = LOWER($2))`

	insertApplicationQuery = `
		INSERT INTO applications (id, job_id, email, data, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	insertDocumentQuery = `
		INSERT INTO application_documents (application_id, slot, name, content_type, size, content)
		VALUES ($1, $2, $3, $4, $5, $6)`

	insertAuditQuery = `
		INSERT INTO audit_log (application_id, action, details, created_at)
		VALUES ($1, $2, $3, $4)`
)

// Recorder persists submitted applications to PostgreSQL.
type Recorder struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewRecorder(db *sql.DB, log logger.Logger) *Recorder {
	return &Recorder{
		db:     db,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// Record stores the application and its documents in one transaction. A
// second application for the same job and email is rejected with
// DUPLICATE_APPLICATION.
func (r *Recorder) Record(ctx context.Context, jobID string, data *models.ApplicationData) (*models.ApplicationRecord, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode application: %w", err)
	}

	rec := &models.ApplicationRecord{
		ID:          r.newID(),
		JobID:       jobID,
		Email:       data.PersonalInfo.Email,
		Data:        data,
		Status:      models.StatusSubmitted,
		SubmittedAt: r.now(),
	}

	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, duplicateCheckQuery, jobID, rec.Email).Scan(&exists); err != nil {
			return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("duplicate check: %w", err))
		}
		if exists {
			return apperrors.NewDuplicateApplicationError(jobID, rec.Email)
		}

		if _, err := tx.ExecContext(ctx, insertApplicationQuery,
			rec.ID, rec.JobID, rec.Email, payload, rec.Status, rec.SubmittedAt,
		); err != nil {
			return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("insert application: %w", err))
		}

		for _, slot := range models.DocumentSlots {
			doc := data.Documents.Get(slot)
			if doc == nil {
				continue
			}
			if _, err := tx.ExecContext(ctx, insertDocumentQuery,
				rec.ID, string(slot), doc.Name, doc.ContentType, doc.Size, doc.Content,
			); err != nil {
				return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("insert %s: %w", slot, err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.audit(ctx, rec)
	return rec, nil
}

// audit is best effort; the application is already committed.
func (r *Recorder) audit(ctx context.Context, rec *models.ApplicationRecord) {
	details, _ := json.Marshal(map[string]interface{}{
		"jobId": rec.JobID,
		"email": rec.Email,
	})
	if _, err := r.db.ExecContext(ctx, insertAuditQuery, rec.ID, "application_submitted", details, rec.SubmittedAt); err != nil {
		r.logger.Warn("failed to write audit log", map[string]interface{}{
			"applicationId": rec.ID,
			"error":         err,
		})
	}
}
