package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/learnandgrow/rostersync/internal/core"
	"github.com/learnandgrow/rostersync/internal/logging"
)

// ErrorResponse is the JSON shape of every API error. Code is
// machine-readable; Message and Action are safe to show to a user.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error with the request ID and returns
// the client-safe mapping from core.MapError.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	status := statusForError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// respondBadRequest is for request-shape problems the engine never sees.
func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   message,
		Message: message,
		Code:    "BAD_REQUEST",
	})
}

// statusForError picks the HTTP status for an engine error. Structural
// spreadsheet problems are the client's to fix; storage failures are ours.
func statusForError(err error) int {
	var hnf *core.HeaderNotFoundError
	var mc *core.MissingColumnsError
	if errors.As(err, &hnf) || errors.As(err, &mc) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
