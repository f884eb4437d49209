package submission

import (
	"context"
	"time"

	"techflow-careers/internal/models"
)

// ProcessStarter starts a workflow process instance. *camunda.Client
// implements it.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, vars interface{}) (int64, error)
}

// WorkflowVariables are the process variables of a job-application
// instance. Document contents stay in PostgreSQL.
type WorkflowVariables struct {
	ApplicationID string             `json:"applicationId"`
	JobID         string             `json:"jobId"`
	JobTitle      string             `json:"jobTitle"`
	Department    string             `json:"department"`
	Featured      bool               `json:"featured"`
	Applicant     Applicant          `json:"applicant"`
	Experience    string             `json:"experience"`
	Availability  string             `json:"availability"`
	Preferences   models.Preferences `json:"preferences"`
	Documents     []string           `json:"documents"`
	SubmittedAt   string             `json:"submittedAt"`
}

type Applicant struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func newWorkflowVariables(rec *models.ApplicationRecord, career *models.Career) WorkflowVariables {
	data := rec.Data
	vars := WorkflowVariables{
		ApplicationID: rec.ID,
		JobID:         rec.JobID,
		Applicant: Applicant{
			Name:     data.PersonalInfo.FullName(),
			Email:    data.PersonalInfo.Email,
			Phone:    data.PersonalInfo.Phone,
			Location: data.PersonalInfo.Location,
		},
		Experience:   data.Experience.Experience,
		Availability: data.Experience.Availability,
		Preferences:  data.Preferences,
		Documents:    []string{},
		SubmittedAt:  rec.SubmittedAt.Format(time.RFC3339),
	}
	if career != nil {
		vars.JobTitle = career.Title
		vars.Department = career.Department
		vars.Featured = career.Featured
	}
	for _, slot := range models.DocumentSlots {
		if data.Documents.Get(slot) != nil {
			vars.Documents = append(vars.Documents, string(slot))
		}
	}
	return vars
}
