package wizard

import "time"

// DefaultMessageTTL is how long a feedback message stays visible.
const DefaultMessageTTL = 3500 * time.Millisecond

type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageSuccess:
		return "success"
	case MessageError:
		return "error"
	default:
		return "info"
	}
}

// Message is the feedback shown for the latest wizard action. Each wizard
// owns its own message; there is no shared toast state.
type Message struct {
	Kind      MessageKind
	Text      string
	ExpiresAt time.Time
}

// Active reports whether the message should still be shown at now.
func (m Message) Active(now time.Time) bool {
	return m.Text != "" && now.Before(m.ExpiresAt)
}

const (
	msgStepIncomplete   = "Please fill in all required fields"
	msgTooLarge         = "File size must be less than 5MB"
	msgUnsupported      = "Accepted formats: PDF, DOC, DOCX"
	msgSubmitted        = "Application submitted successfully!"
	msgSubmitFailed     = "Failed to submit application. Please try again."
	msgSubmitInProgress = "Your application is already being submitted"
)
