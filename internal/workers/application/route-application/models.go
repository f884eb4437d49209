package routeapplication

// Input is read from the job-application process variables.
type Input struct {
	ApplicationID string `json:"applicationId"`
	JobID         string `json:"jobId"`
}

type Output struct {
	RoutingPriority string `json:"routingPriority"`
	HiringTeam      string `json:"hiringTeam"`
	RoutedAt        string `json:"routedAt"`
}

// careerRouting is the cached part of a career that routing depends on.
type careerRouting struct {
	Department string `json:"department"`
	Featured   bool   `json:"featured"`
}

// Priority levels
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const StatusRouted = "routed"
