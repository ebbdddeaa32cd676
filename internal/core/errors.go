package core

import (
	"errors"
	"fmt"
	"strings"
)

// HeaderNotFoundError means no row in the matrix carried the sentinel token
// in its first cell. The import aborts before any row is processed.
type HeaderNotFoundError struct {
	Sentinel    string
	RowsScanned int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header row not found: no cell equal to %q in the first column of %d rows", e.Sentinel, e.RowsScanned)
}

// MissingColumnsError lists every role the column mapper could not assign
// to a header column. The import aborts before any row is processed.
type MissingColumnsError struct {
	Roles []Role
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = r.String()
	}
	return "header is missing required columns: " + strings.Join(names, ", ")
}

// RowError is a recoverable per-row failure. It is accumulated in the
// report and never aborts the pass.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Detail    string `json:"detail"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.RowNumber, e.Detail)
}

// StorageError wraps an unexpected failure from the storage gateway. It
// always aborts the whole pass via rollback.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// storageErr wraps err unless it is nil or already a *StorageError.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// UserMessage is a client-safe rendering of an error, used by the web
// layer. Code is machine-readable; Action suggests what the caller can do.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// MapError converts an engine error into a UserMessage. Unknown errors map
// to a generic internal-error message so no storage details leak out.
func MapError(err error) UserMessage {
	var hnf *HeaderNotFoundError
	if errors.As(err, &hnf) {
		return UserMessage{
			Code:    "HEADER_NOT_FOUND",
			Message: hnf.Error(),
			Action:  "Check that the workbook contains the header marker in its first column.",
		}
	}

	var mc *MissingColumnsError
	if errors.As(err, &mc) {
		return UserMessage{
			Code:    "MISSING_COLUMNS",
			Message: mc.Error(),
			Action:  "Add the missing header columns and re-upload.",
		}
	}

	var se *StorageError
	if errors.As(err, &se) {
		return UserMessage{
			Code:    "STORAGE_FAILURE",
			Message: "The database rejected the operation; nothing was saved.",
			Action:  "Retry the import. If the problem persists contact an administrator.",
		}
	}

	return UserMessage{
		Code:    "INTERNAL",
		Message: "An unexpected error occurred.",
	}
}
