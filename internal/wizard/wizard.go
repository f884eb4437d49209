// Package wizard implements the multi-step job application controller: it
// owns the aggregate record, gates progression on per-step validation and
// hands the finished record to a Sink exactly once per submission attempt.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/models"
)

var (
	ErrStepIncomplete      = errors.New("required fields missing")
	ErrInvalidTransition   = errors.New("transition not allowed in current state")
	ErrStepNotActive       = errors.New("step is not active")
	ErrSubmissionInFlight  = errors.New("submission already in progress")
	ErrSubmissionFailed    = errors.New("submission failed")
	ErrDocumentTooLarge    = errors.New("document exceeds size limit")
	ErrUnsupportedDocument = errors.New("unsupported document format")
	ErrUnknownSlot         = errors.New("unknown document slot")
)

// Sink receives completed applications. It is called outside the wizard's
// lock with a private copy of the record.
type Sink interface {
	SubmitJobApplication(ctx context.Context, jobID string, data *models.ApplicationData) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, jobID string, data *models.ApplicationData) error

func (f SinkFunc) SubmitJobApplication(ctx context.Context, jobID string, data *models.ApplicationData) error {
	return f(ctx, jobID, data)
}

type Option func(*Wizard)

// WithClock replaces time.Now for message expiry.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func WithMessageTTL(ttl time.Duration) Option {
	return func(w *Wizard) {
		if ttl > 0 {
			w.messageTTL = ttl
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(w *Wizard) { w.logger = log }
}

// Wizard is safe for concurrent use.
type Wizard struct {
	jobID    string
	jobTitle string
	sink     Sink

	now        func() time.Time
	messageTTL time.Duration
	logger     logger.Logger

	mu    sync.Mutex
	state State
	data  *models.ApplicationData
	msg   Message
	// generation changes on Reset and Close so a submission that started
	// before can tell its result is stale.
	generation uint64
}

// New opens a wizard for jobID with a fresh record in StateStep1.
func New(jobID, jobTitle string, sink Sink, opts ...Option) *Wizard {
	w := &Wizard{
		jobID:      jobID,
		jobTitle:   jobTitle,
		sink:       sink,
		now:        time.Now,
		messageTTL: DefaultMessageTTL,
		logger:     logger.NewNoOpLogger(),
		state:      StateStep1,
		data:       models.NewApplicationData(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithFields(map[string]interface{}{"jobId": jobID})
	return w
}

func (w *Wizard) JobID() string    { return w.jobID }
func (w *Wizard) JobTitle() string { return w.jobTitle }

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wizard) Progress() Progress {
	w.mu.Lock()
	defer w.mu.Unlock()
	return progressFor(w.state)
}

// Data returns a copy of the current record.
func (w *Wizard) Data() *models.ApplicationData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.Clone()
}

// ActiveMessage returns the latest feedback message until it expires.
func (w *Wizard) ActiveMessage() (Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.msg.Active(w.now()) {
		return w.msg, true
	}
	return Message{}, false
}

func (w *Wizard) setMessage(kind MessageKind, text string) {
	w.msg = Message{Kind: kind, Text: text, ExpiresAt: w.now().Add(w.messageTTL)}
}

func (w *Wizard) clearMessage() {
	w.msg = Message{}
}

// notEditing maps the non-editing states to their error.
func (w *Wizard) notEditing() error {
	if w.state == StateSubmitting {
		w.setMessage(MessageInfo, msgSubmitInProgress)
		return ErrSubmissionInFlight
	}
	return ErrInvalidTransition
}

// Next validates the current step and advances. From the last step it
// returns ErrInvalidTransition; use Submit instead.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	step, ok := w.state.Step()
	if !ok {
		return w.notEditing()
	}
	if step == StepQuestions {
		return ErrInvalidTransition
	}
	if !ValidateStep(step, w.data) {
		w.setMessage(MessageError, msgStepIncomplete)
		return ErrStepIncomplete
	}

	w.state = stateFor(step + 1)
	w.clearMessage()
	return nil
}

// Previous moves back one step without validation. It is a no-op on the
// first step.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	step, ok := w.state.Step()
	if !ok {
		return w.notEditing()
	}
	if step > StepPersonalInfo {
		w.state = stateFor(step - 1)
	}
	return nil
}

// Submit validates the record and hands a copy to the sink. On success the
// record is discarded and the wizard is Submitted; on failure it returns to
// the last step with the record intact.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateStep4 {
		err := w.notEditing()
		w.mu.Unlock()
		return err
	}
	if _, invalid := firstInvalidStep(StepQuestions, w.data); invalid {
		w.setMessage(MessageError, msgStepIncomplete)
		w.mu.Unlock()
		return ErrStepIncomplete
	}

	w.state = StateSubmitting
	w.clearMessage()
	gen := w.generation
	snapshot := w.data.Clone()
	w.mu.Unlock()

	sinkErr := w.sink.SubmitJobApplication(ctx, w.jobID, snapshot)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		w.logger.Warn("submission finished after wizard was reset", map[string]interface{}{
			"succeeded": sinkErr == nil,
		})
		if sinkErr != nil {
			return fmt.Errorf("%w: %w", ErrSubmissionFailed, sinkErr)
		}
		return nil
	}

	if sinkErr != nil {
		w.state = StateStep4
		w.setMessage(MessageError, msgSubmitFailed)
		w.logger.Error("application submission failed", map[string]interface{}{"error": sinkErr})
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, sinkErr)
	}

	w.state = StateSubmitted
	w.data = models.NewApplicationData()
	w.setMessage(MessageSuccess, msgSubmitted)
	w.logger.Info("application submitted", nil)
	return nil
}

// Reset returns to StateStep1 with a fresh record from any state.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
}

// Close discards an unsubmitted record. A submission still in flight keeps
// running but its result no longer affects the wizard.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		w.logger.Info("wizard closed during submission", nil)
	}
	w.reset()
}

func (w *Wizard) reset() {
	w.generation++
	w.state = StateStep1
	w.data = models.NewApplicationData()
	w.clearMessage()
}

func (w *Wizard) requireStep(step Step) error {
	current, ok := w.state.Step()
	if !ok {
		return w.notEditing()
	}
	if current != step {
		return ErrStepNotActive
	}
	return nil
}

func (w *Wizard) PatchPersonalInfo(p models.PersonalInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepPersonalInfo); err != nil {
		return err
	}
	w.data.PersonalInfo = p
	return nil
}

func (w *Wizard) PatchExperience(e models.Experience) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepExperience); err != nil {
		return err
	}
	w.data.Experience = e
	return nil
}

func (w *Wizard) PatchQuestions(q models.Questions) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepQuestions); err != nil {
		return err
	}
	w.data.Questions = q
	return nil
}

func (w *Wizard) PatchPreferences(p models.Preferences) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepQuestions); err != nil {
		return err
	}
	w.data.Preferences = p
	return nil
}

// Upload stores doc under slot. Oversized or unsupported documents are
// rejected and leave every slot untouched.
func (w *Wizard) Upload(slot models.DocumentSlot, doc *models.Document) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(StepDocuments); err != nil {
		return err
	}
	if _, err := models.ParseDocumentSlot(string(slot)); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if doc == nil {
		return ErrUnsupportedDocument
	}
	if doc.Size > models.MaxDocumentSize || int64(len(doc.Content)) > models.MaxDocumentSize {
		w.setMessage(MessageError, msgTooLarge)
		return ErrDocumentTooLarge
	}
	if !acceptedExtension(doc.Extension()) {
		w.setMessage(MessageError, msgUnsupported)
		return ErrUnsupportedDocument
	}

	stored := *doc
	stored.Content = append([]byte(nil), doc.Content...)
	w.data.Documents.Set(slot, &stored)
	w.setMessage(MessageSuccess, fmt.Sprintf("%s uploaded successfully", slot.Label()))
	return nil
}

// RemoveDocument clears slot. Allowed on any editable step.
func (w *Wizard) RemoveDocument(slot models.DocumentSlot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.Editing() {
		return w.notEditing()
	}
	if _, err := models.ParseDocumentSlot(string(slot)); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	w.data.Documents.Set(slot, nil)
	w.setMessage(MessageInfo, fmt.Sprintf("%s removed", slot.Label()))
	return nil
}

func acceptedExtension(ext string) bool {
	for _, accepted := range models.AcceptedDocumentExtensions {
		if ext == accepted {
			return true
		}
	}
	return false
}
