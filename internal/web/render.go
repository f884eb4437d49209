package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/wizard"
	"techflow-careers/internal/wizard/fields"
)

//go:embed templates/*.html
var templateFS embed.FS

type uploadCard struct {
	JobID string
	Field fields.Field
}

var pageFuncs = template.FuncMap{
	"messageClass": func(k wizard.MessageKind) string { return "message message-" + k.String() },
	"uploadCard":   func(jobID string, f fields.Field) uploadCard { return uploadCard{JobID: jobID, Field: f} },
}

func parsePages() (*template.Template, error) {
	pages, err := template.New("pages").Funcs(pageFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return pages, nil
}

// render executes page into a buffer first so a template error never
// produces a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, page, data); err != nil {
		s.logger.Error("template execution failed", map[string]interface{}{"page": page, "error": err})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Title   string
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	status, message := httpStatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{"error": err})
	}
	s.render(w, status, "error", errorPage{Title: http.StatusText(status), Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeJSONError(w http.ResponseWriter, err error) {
	status, message := httpStatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("api request failed", map[string]interface{}{"error": err})
	}
	writeJSON(w, status, map[string]string{
		"code":    string(apperrors.CodeOf(err)),
		"message": message,
	})
}

func httpStatusFor(err error) (int, string) {
	stdErr, ok := apperrors.AsStandardError(err)
	if !ok {
		return http.StatusInternalServerError, "Something went wrong. Please try again later."
	}
	switch stdErr.Code {
	case apperrors.ErrCodeCareerNotFound, apperrors.ErrCodeNotFound:
		return http.StatusNotFound, stdErr.Message
	case apperrors.ErrCodeSearchQueryFailed, apperrors.ErrCodeExternalService:
		return http.StatusBadGateway, stdErr.Message
	case apperrors.ErrCodeCareerQueryFailed, apperrors.ErrCodeTimeout:
		return http.StatusServiceUnavailable, stdErr.Message
	case apperrors.ErrCodeBusinessRule:
		return http.StatusBadRequest, stdErr.Message
	}
	return http.StatusInternalServerError, stdErr.Message
}
