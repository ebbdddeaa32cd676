package web

import (
	"encoding/json"
	"net/http"
)

// retireID is one requested employee id. The upstream spreadsheet tooling
// exports ids as strings while older clients send plain numbers; both
// shapes decode here. Invalid values are dropped by the engine, not
// rejected at the boundary.
type retireID string

func (id *retireID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = retireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = retireID(n.String())
	return nil
}

// retireRequest is the JSON body for retirement endpoints.
type retireRequest struct {
	IDs []retireID `json:"ids"`
}

func (r retireRequest) idStrings() []string {
	out := make([]string, len(r.IDs))
	for i, id := range r.IDs {
		out[i] = string(id)
	}
	return out
}

// handleRetire soft-deletes the active subset of the requested ids.
func (s *Server) handleRetire(w http.ResponseWriter, r *http.Request) {
	var req retireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "body must be JSON with an ids array")
		return
	}
	if len(req.IDs) == 0 {
		respondBadRequest(w, "ids must not be empty")
		return
	}

	report, err := s.service.RetireByIDs(r.Context(), req.idStrings())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleRetirePreview shows which of the requested ids would be retired,
// without mutating anything.
func (s *Server) handleRetirePreview(w http.ResponseWriter, r *http.Request) {
	var req retireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "body must be JSON with an ids array")
		return
	}

	preview, err := s.service.PreviewRetire(r.Context(), req.idStrings())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}
