package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeApplication() *models.ApplicationData {
	data := models.NewApplicationData()
	data.PersonalInfo = models.PersonalInfo{
		FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "555-0100", Location: "San Francisco",
	}
	data.Experience = models.Experience{CurrentRole: "Engineer", Experience: "4-5", Availability: "2-weeks"}
	data.Documents.Resume = &models.Document{
		Name: "cv.pdf", Size: 3, ContentType: "application/pdf", Content: []byte("pdf"),
	}
	data.Questions = models.Questions{WhyInterested: "Growth", WhyCompany: "Mission"}
	return data
}

func newTestRecorder(t *testing.T) (*Recorder, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := NewRecorder(db, logger.NewTestLogger(t))
	r.newID = func() string { return "3f8a2c1e-0000-4000-8000-000000000001" }
	r.now = func() time.Time { return time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC) }
	return r, mock
}

func TestRecorder_Record_Success(t *testing.T) {
	r, mock := newTestRecorder(t)
	data := completeApplication()
	data.Documents.CoverLetter = &models.Document{Name: "letter.docx", Size: 6, Content: []byte("letter")}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("1", "john@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(
			"3f8a2c1e-0000-4000-8000-000000000001",
			"1",
			"john@example.com",
			sqlmock.AnyArg(), // JSON payload
			"submitted",
			sqlmock.AnyArg(), // submitted_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO application_documents`).
		WithArgs("3f8a2c1e-0000-4000-8000-000000000001", "resume", "cv.pdf", "application/pdf", int64(3), []byte("pdf")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO application_documents`).
		WithArgs("3f8a2c1e-0000-4000-8000-000000000001", "coverLetter", "letter.docx", "", int64(6), []byte("letter")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("3f8a2c1e-0000-4000-8000-000000000001", "application_submitted", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, err := r.Record(context.Background(), "1", data)

	require.NoError(t, err)
	assert.Equal(t, "3f8a2c1e-0000-4000-8000-000000000001", rec.ID)
	assert.Equal(t, "submitted", rec.Status)
	assert.Equal(t, "john@example.com", rec.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_Record_Duplicate(t *testing.T) {
	r, mock := newTestRecorder(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("1", "john@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	rec, err := r.Record(context.Background(), "1", completeApplication())

	assert.Nil(t, rec)
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_Record_InsertFailureRollsBack(t *testing.T) {
	r, mock := newTestRecorder(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := r.Record(context.Background(), "1", completeApplication())

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_Record_AuditFailureIsNotFatal(t *testing.T) {
	r, mock := newTestRecorder(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO application_documents`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(errors.New("relation \"audit_log\" does not exist"))

	rec, err := r.Record(context.Background(), "1", completeApplication())

	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}
