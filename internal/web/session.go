package web

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	sessionName  = "techflow_session"
	sessionIDKey = "sid"
)

// sessionID returns the browser's session id, issuing one if needed. A
// cookie that fails to decode is replaced.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		s.logger.Debug("discarding undecodable session", map[string]interface{}{"error": err})
	}
	if id, ok := sess.Values[sessionIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	sess.Values[sessionIDKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// existingSessionID returns the session id without issuing one.
func (s *Server) existingSessionID(r *http.Request) (string, bool) {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values[sessionIDKey].(string)
	return id, ok && id != ""
}
