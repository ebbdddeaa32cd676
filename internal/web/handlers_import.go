package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/learnandgrow/rostersync/internal/core"
	"github.com/learnandgrow/rostersync/internal/logging"
)

// importRequest is the JSON body for the row-matrix import endpoints.
type importRequest struct {
	Rows [][]string `json:"rows"`
}

// handleImport runs a committing import over a JSON row matrix.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	s.runImportFromJSON(w, r, core.ModeCommitting)
}

// handleTestImport runs the same pipeline in testing mode: full
// classification, zero writes.
func (s *Server) handleTestImport(w http.ResponseWriter, r *http.Request) {
	s.runImportFromJSON(w, r, core.ModeTesting)
}

func (s *Server) runImportFromJSON(w http.ResponseWriter, r *http.Request, mode core.Mode) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "body must be JSON with a rows array")
		return
	}
	if len(req.Rows) == 0 {
		respondBadRequest(w, "rows must not be empty")
		return
	}

	report, err := s.service.RunImport(r.Context(), req.Rows, mode, s.cfg.Import.BatchSize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleImportFile accepts a multipart .xlsx or .csv upload. The mode query
// parameter selects between test (default) and commit.
func (s *Server) handleImportFile(w http.ResponseWriter, r *http.Request) {
	mode := core.ModeTesting
	if r.URL.Query().Get("mode") == "commit" {
		mode = core.ModeCommitting
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		respondBadRequest(w, "could not parse multipart upload; check the file size")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(w, "could not read uploaded file")
		return
	}

	rows, err := core.ParseWorkbook(header.Filename, data)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	logging.WithFields(r.Context(),
		"file", header.Filename,
		"bytes", len(data),
		"mode", mode.String(),
	).Info("workbook parsed", "rows", len(rows))

	report, err := s.service.RunImport(r.Context(), rows, mode, s.cfg.Import.BatchSize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleAttrition compares the active roster against the uploaded sheet's
// name column. Read-only.
func (s *Server) handleAttrition(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "body must be JSON with a rows array")
		return
	}

	report, err := s.service.DetectAttrition(r.Context(), req.Rows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
