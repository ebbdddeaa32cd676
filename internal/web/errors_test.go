package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnandgrow/rostersync/internal/core"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "header not found is the client's problem",
			err:  &core.HeaderNotFoundError{Sentinel: "พ1", RowsScanned: 3},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "missing columns is the client's problem",
			err:  &core.MissingColumnsError{Roles: []core.Role{core.RoleDivision}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "storage failure is ours",
			err:  &core.StorageError{Op: "insert employee", Err: errors.New("boom")},
			want: http.StatusInternalServerError,
		},
		{
			name: "unknown error is ours",
			err:  errors.New("surprise"),
			want: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodPost, "/api/employees/import", nil)
	rec := httptest.NewRecorder()

	s.respondError(rec, req, &core.HeaderNotFoundError{Sentinel: "พ1", RowsScanned: 5})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp.Code != "HEADER_NOT_FOUND" {
		t.Errorf("code = %q, want HEADER_NOT_FOUND", resp.Code)
	}
	if resp.Message == "" || resp.Action == "" {
		t.Errorf("response missing user guidance: %+v", resp)
	}
}
