package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AuditAction is the type of run being recorded.
type AuditAction string

const (
	ActionImport     AuditAction = "import"
	ActionImportTest AuditAction = "import_test"
	ActionAttrition  AuditAction = "attrition"
	ActionRetire     AuditAction = "retire"
)

// auditEntry is one row in roster_audit. Audit writes happen outside the
// import transaction: a failed run should still leave a trace, and a
// failed audit write must never fail the run.
type auditEntry struct {
	RunID         string
	Action        AuditAction
	Actor         string
	IPAddress     string
	UserAgent     string
	TotalRows     int
	Created       int
	Updated       int
	Unchanged     int
	Errors        int
	FailureReason string
	Duration      time.Duration
}

// recordAudit writes the entry, logging instead of returning on failure.
func (s *Service) recordAudit(ctx context.Context, e auditEntry) {
	e.RunID = uuid.New().String()
	e.Actor = actorFromContext(ctx)
	e.IPAddress = ipFromContext(ctx)
	e.UserAgent = userAgentFromContext(ctx)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO roster_audit
			(run_id, action, actor, ip_address, user_agent,
			 total_rows, created_count, updated_count, unchanged_count, error_count,
			 failure_reason, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`,
		e.RunID, string(e.Action), e.Actor, e.IPAddress, e.UserAgent,
		e.TotalRows, e.Created, e.Updated, e.Unchanged, e.Errors,
		e.FailureReason, e.Duration.Milliseconds(),
	)
	if err != nil {
		slog.Error("audit write failed",
			"run_id", e.RunID,
			"action", string(e.Action),
			"error", err,
		)
		return
	}

	slog.Info("run recorded",
		"run_id", e.RunID,
		"action", string(e.Action),
		"actor", e.Actor,
		"total_rows", e.TotalRows,
		"created", e.Created,
		"updated", e.Updated,
		"unchanged", e.Unchanged,
		"errors", e.Errors,
		"duration_ms", e.Duration.Milliseconds(),
	)
}

// auditForImport builds an audit entry from an import report.
func auditForImport(report *ImportReport, mode Mode, failure error, d time.Duration) auditEntry {
	e := auditEntry{Action: ActionImport, Duration: d}
	if mode == ModeTesting {
		e.Action = ActionImportTest
	}
	if failure != nil {
		e.FailureReason = failure.Error()
		return e
	}
	e.TotalRows = report.TotalRows
	e.Created = len(report.Created)
	e.Updated = len(report.Updated)
	e.Unchanged = len(report.Unchanged)
	e.Errors = len(report.Errors)
	return e
}
