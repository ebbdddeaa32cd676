package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Service exposes the reconciliation engine. One Service serves many
// concurrent imports; each RunImport call owns private dimension
// snapshots, so there is no shared mutable state between invocations. Two
// concurrent committing imports can still race on auto-creating the same
// dimension value; callers that need exclusivity must serialize imports
// themselves.
type Service struct {
	pool  *pgxpool.Pool
	vocab Vocabulary
}

// NewService creates a Service using the default workbook vocabulary.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool, vocab: DefaultVocabulary()}
}

// NewServiceWithVocabulary creates a Service with a custom header
// vocabulary, for workbooks in a different locale.
func NewServiceWithVocabulary(pool *pgxpool.Pool, vocab Vocabulary) *Service {
	return &Service{pool: pool, vocab: vocab}
}

// RunImport reconciles the row matrix against the database. In
// ModeCommitting every write happens inside one transaction spanning the
// whole pass; any storage failure rolls the pass back in full. In
// ModeTesting the roster tables are never written and repeated runs
// against the same state yield identical reports; the run itself is still
// recorded to the audit trail, which is telemetry, not roster state.
// batchSize > 0 adds per-batch sub-totals to the report without affecting
// transactional behavior.
func (s *Service) RunImport(ctx context.Context, rows [][]string, mode Mode, batchSize int) (*ImportReport, error) {
	start := time.Now()
	report, err := s.runImport(ctx, rows, mode, batchSize)

	s.recordAudit(ctx, auditForImport(report, mode, err, time.Since(start)))
	if err != nil {
		return nil, err
	}

	slog.Info("import pass finished",
		"mode", mode.String(),
		"total_rows", report.TotalRows,
		"created", len(report.Created),
		"updated", len(report.Updated),
		"unchanged", len(report.Unchanged),
		"errors", len(report.Errors),
		"skipped", report.Skipped,
	)
	return report, nil
}

func (s *Service) runImport(ctx context.Context, rows [][]string, mode Mode, batchSize int) (*ImportReport, error) {
	if !mode.commits() {
		return runImport(ctx, newPGStore(s.pool), s.vocab, rows, mode, batchSize)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	report, err := runImport(ctx, newPGStore(tx), s.vocab, rows, mode, batchSize)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit transaction", err)
	}
	return report, nil
}

// DetectAttrition compares the active roster against the spreadsheet's
// name column. Read-only.
func (s *Service) DetectAttrition(ctx context.Context, rows [][]string) (*AttritionReport, error) {
	report, err := detectAttrition(ctx, newPGStore(s.pool), s.vocab, rows)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, auditEntry{
		Action:    ActionAttrition,
		TotalRows: report.SheetNameCount,
	})
	return report, nil
}

// RetireByIDs soft-deletes the active subset of the given employee ids in
// a single transaction and reports requested vs affected counts.
func (s *Service) RetireByIDs(ctx context.Context, ids []string) (*RetirementReport, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	report, err := retireByIDs(ctx, newPGStore(tx), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit transaction", err)
	}

	s.recordAudit(ctx, auditEntry{
		Action:    ActionRetire,
		TotalRows: report.RequestedCount,
		Updated:   report.AffectedCount,
	})

	slog.Info("mass retirement applied",
		"requested", report.RequestedCount,
		"affected", report.AffectedCount,
	)
	return report, nil
}

// PreviewRetire reports which of the given ids reference active employees
// without mutating anything.
func (s *Service) PreviewRetire(ctx context.Context, ids []string) (*RetirementPreview, error) {
	return previewRetire(ctx, newPGStore(s.pool), ids)
}
