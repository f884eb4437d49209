package sendnotification

import "techflow-careers/internal/models"

// Input is the subset of the job-application process variables the
// notification step reads, plus the route-application output.
type Input struct {
	ApplicationID   string             `json:"applicationId"`
	JobTitle        string             `json:"jobTitle"`
	Applicant       Applicant          `json:"applicant"`
	Preferences     models.Preferences `json:"preferences"`
	RoutingPriority string             `json:"routingPriority,omitempty"`
	HiringTeam      string             `json:"hiringTeam,omitempty"`
}

type Applicant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Output struct {
	NotificationID    string `json:"notificationId"`
	Status            string `json:"status"` // "sent", "disabled"
	ApplicantNotified bool   `json:"applicantNotified"`
	HiringNotified    bool   `json:"hiringNotified"`
	TopicMessageID    string `json:"topicMessageId,omitempty"`
	SentAt            string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeHiringTeam       = "hiring_team"
	TypeApplicantReceipt = "applicant_receipt"
	TypeHighPriority     = "high_priority"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

const priorityHigh = "high"
