package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListEmployees returns a page of the active roster. Supports page,
// limit and search query parameters.
func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)
	limit := parseIntParam(r, "limit", 20)
	search := r.URL.Query().Get("search")

	result, err := s.service.ListEmployees(r.Context(), page, limit, search)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetEmployee returns a single active employee by id.
func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id <= 0 {
		respondBadRequest(w, "id must be a positive integer")
		return
	}

	rec, found, err := s.service.GetEmployee(r.Context(), int32(id))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "employee not found",
			Message: "employee not found",
			Code:    "NOT_FOUND",
		})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleListDivisions returns all divisions ordered by name.
func (s *Server) handleListDivisions(w http.ResponseWriter, r *http.Request) {
	divisions, err := s.service.Divisions(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, divisions)
}

// handleListDepartments returns the departments of one division, for the
// dependent dropdown. div_id is required.
func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	divID := parseIntParam(r, "div_id", 0)
	if divID <= 0 {
		respondBadRequest(w, "div_id query parameter is required")
		return
	}

	departments, err := s.service.DepartmentsByDivision(r.Context(), int32(divID))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

// handleListPositions returns all positions ordered by name.
func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.service.Positions(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

// handleHealth reports service and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"reason": "database unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseIntParam reads an integer query parameter, falling back to def when
// absent or unparseable.
func parseIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
