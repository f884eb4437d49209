package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"techflow-careers/internal/common/metrics"
	"techflow-careers/internal/models"
	"techflow-careers/internal/wizard"
	"techflow-careers/internal/wizard/fields"
	"techflow-careers/internal/wizard/steps"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxUploadBody bounds a whole upload request. It leaves room above the
// document limit so oversized files still reach the wizard and get its
// message.
const maxUploadBody = 4 * models.MaxDocumentSize

type applyPage struct {
	Title      string
	JobID      string
	JobTitle   string
	State      wizard.State
	Progress   wizard.Progress
	Message    *wizard.Message
	Submitting bool
	Submitted  bool

	Step        steps.View
	StepNumber  int
	First       bool
	Last        bool
	Guidelines  []string
	Questions   []fields.Field
	Preferences []fields.Field
	Marker      string
}

func applyPath(jobID string) string {
	return fmt.Sprintf("/careers/%s/apply", jobID)
}

func careerPath(jobID string) string {
	return fmt.Sprintf("/careers/%s", jobID)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// handleApplyOpen opens the wizard with a fresh record, replacing any
// application the session had in progress for this job.
func (s *Server) handleApplyOpen(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]
	career, err := s.activeCareer(r, jobID)
	if err != nil {
		s.renderError(w, err)
		return
	}

	sid, err := s.sessionID(w, r)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.wizards.Open(sid, jobID, career.Title)
	metrics.WizardTransitions.WithLabelValues("open", "ok").Inc()
	s.redirect(w, r, applyPath(jobID))
}

// currentWizard returns the session's open wizard for the job, or redirects
// to the job page when the dialog is not open.
func (s *Server) currentWizard(w http.ResponseWriter, r *http.Request) (*wizard.Wizard, bool) {
	jobID := mux.Vars(r)["jobID"]
	sid, ok := s.existingSessionID(r)
	if ok {
		if wz, found := s.wizards.Get(sid, jobID); found {
			return wz, true
		}
	}
	s.redirect(w, r, careerPath(jobID))
	return nil, false
}

func (s *Server) handleApplyShow(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.currentWizard(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "apply", buildApplyPage(wz))
}

func buildApplyPage(wz *wizard.Wizard) applyPage {
	state := wz.State()
	page := applyPage{
		Title:      "Apply for " + wz.JobTitle(),
		JobID:      wz.JobID(),
		JobTitle:   wz.JobTitle(),
		State:      state,
		Progress:   wz.Progress(),
		Submitting: state == wizard.StateSubmitting,
		Submitted:  state == wizard.StateSubmitted,
		Marker:     steps.PreferencesMarker,
	}
	if msg, ok := wz.ActiveMessage(); ok {
		page.Message = &msg
	}

	step, editing := state.Step()
	if !editing {
		return page
	}

	data := wz.Data()
	page.StepNumber = int(step)
	page.First = step == wizard.StepPersonalInfo
	page.Last = step == wizard.StepQuestions

	switch step {
	case wizard.StepPersonalInfo:
		page.Step = steps.PersonalInfoStep{Data: data.PersonalInfo}
	case wizard.StepExperience:
		page.Step = steps.ExperienceStep{Data: data.Experience}
	case wizard.StepDocuments:
		docs := steps.DocumentsStep{Data: data.Documents}
		page.Step = docs
		page.Guidelines = docs.Guidelines()
	case wizard.StepQuestions:
		qs := steps.QuestionsStep{Data: data.Questions, Preferences: data.Preferences}
		page.Step = qs
		page.Questions = qs.QuestionFields()
		page.Preferences = qs.PreferenceFields()
	}
	return page
}

// handleApplyStep binds the posted form into the active step, then runs
// the requested action. The outcome is reported through the wizard's
// message on the redirected page.
func (s *Server) handleApplyStep(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.currentWizard(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	action := r.PostForm.Get("action")
	switch action {
	case "next", "previous", "submit":
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	bindActiveStep(wz, r.PostForm)

	var err error
	switch action {
	case "next":
		from, _ := wz.State().Step()
		if err = wz.Next(); err == nil && s.opts.Observability != nil {
			s.opts.Observability.RecordStepCompleted(r.Context(), int(from))
		}
	case "previous":
		err = wz.Previous()
	case "submit":
		err = s.submit(r.Context(), wz)
	}
	recordTransition(action, err)
	if err != nil {
		s.logger.Debug("wizard action rejected", map[string]interface{}{
			"jobId":  wz.JobID(),
			"action": action,
			"error":  err,
		})
	}

	s.redirect(w, r, applyPath(wz.JobID()))
}

// submit detaches from the request so a dropped connection does not
// cancel a submission the sink has already started.
func (s *Server) submit(ctx context.Context, wz *wizard.Wizard) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.SubmitTimeout)
	defer cancel()

	if obs := s.opts.Observability; obs != nil {
		var span trace.Span
		ctx, span = obs.StartSpan(ctx, "wizard.submit", attribute.String("job.id", wz.JobID()))
		defer span.End()
		err := wz.Submit(ctx)
		if err != nil {
			span.RecordError(err)
		}
		return err
	}
	return wz.Submit(ctx)
}

// bindActiveStep applies the posted values of whichever step is active.
// Patches are rejected by the wizard when nothing is editable.
func bindActiveStep(wz *wizard.Wizard, form fields.Values) {
	step, ok := wz.State().Step()
	if !ok {
		return
	}
	switch step {
	case wizard.StepPersonalInfo:
		_ = wz.PatchPersonalInfo(steps.PersonalInfoStep{}.Bind(form))
	case wizard.StepExperience:
		_ = wz.PatchExperience(steps.ExperienceStep{}.Bind(form))
	case wizard.StepQuestions:
		qs := steps.QuestionsStep{}
		_ = wz.PatchQuestions(qs.Bind(form))
		if prefs, ok := qs.BindPreferences(form); ok {
			_ = wz.PatchPreferences(prefs)
		}
	}
}

func recordTransition(action string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, wizard.ErrStepIncomplete):
		outcome = "incomplete"
	case errors.Is(err, wizard.ErrSubmissionFailed):
		outcome = "failed"
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		outcome = "in_flight"
	default:
		outcome = "rejected"
	}
	metrics.WizardTransitions.WithLabelValues(action, outcome).Inc()
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.currentWizard(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(s.opts.MaxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "File size must be less than 5MB", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	slot, err := models.ParseDocumentSlot(r.FormValue("slot"))
	if err != nil {
		http.Error(w, "unknown document slot", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc := &models.Document{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	if header.Size <= models.MaxDocumentSize {
		content, err := io.ReadAll(io.LimitReader(file, models.MaxDocumentSize+1))
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		doc.Content = content
	}

	err = wz.Upload(slot, doc)
	recordTransition("upload", err)
	s.redirect(w, r, applyPath(wz.JobID()))
}

func (s *Server) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.currentWizard(w, r)
	if !ok {
		return
	}
	slot, err := models.ParseDocumentSlot(mux.Vars(r)["slot"])
	if err != nil {
		http.Error(w, "unknown document slot", http.StatusBadRequest)
		return
	}

	recordTransition("remove", wz.RemoveDocument(slot))
	s.redirect(w, r, applyPath(wz.JobID()))
}

// handleApplyReset is "Apply for Another Position": a fresh record on the
// same job.
func (s *Server) handleApplyReset(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.currentWizard(w, r)
	if !ok {
		return
	}
	wz.Reset()
	recordTransition("reset", nil)
	s.redirect(w, r, applyPath(wz.JobID()))
}

func (s *Server) handleApplyClose(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]
	if sid, ok := s.existingSessionID(r); ok {
		s.wizards.Close(sid, jobID)
	}
	recordTransition("close", nil)
	s.redirect(w, r, careerPath(jobID))
}
