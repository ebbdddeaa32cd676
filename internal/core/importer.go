package core

import "context"

// runImport drives a full import pass over the row matrix. Header location
// and column mapping run once, dimension tables are preloaded once, then
// every data row flows through row reconciliation and person
// reconciliation strictly in spreadsheet order: later rows must observe
// dimension rows auto-created by earlier ones, so there is no parallelism
// inside a pass.
//
// The gateway the caller hands in defines the transactional scope: the
// committing path wraps it in a single transaction spanning all rows (and
// all batches), the testing path reads straight from the pool. Row errors
// accumulate in the report; any error returned from here is structural
// (header/columns) or a storage failure, and means no usable report.
func runImport(ctx context.Context, gw Gateway, vocab Vocabulary, rows [][]string, mode Mode, batchSize int) (*ImportReport, error) {
	headerIdx, err := FindHeader(rows, vocab.Sentinel)
	if err != nil {
		return nil, err
	}
	cm, err := MapColumns(rows[headerIdx], vocab)
	if err != nil {
		return nil, err
	}

	dims, err := loadDimensions(ctx, gw)
	if err != nil {
		return nil, err
	}

	dataRows := rows[headerIdx+1:]
	report := &ImportReport{
		Mode:      mode,
		ModeLabel: mode.String(),
		HeaderRow: headerIdx,
		TotalRows: len(dataRows),
	}

	batch := newBatchTracker(batchSize, headerIdx+2)

	for i, row := range dataRows {
		// Row numbers are 1-based spreadsheet coordinates, so the first
		// data row is headerIdx+2.
		rowNumber := headerIdx + i + 2

		outcome, err := dims.reconcileRow(ctx, gw, row, cm, rowNumber, mode)
		if err != nil {
			return nil, err
		}

		switch {
		case outcome.Skipped:
			report.Skipped++
			batch.observe(rowNumber, func(b *BatchSummary) { b.Skipped++ })

		case outcome.ErrDetail != "":
			report.Errors = append(report.Errors, RowError{RowNumber: rowNumber, Detail: outcome.ErrDetail})
			batch.observe(rowNumber, func(b *BatchSummary) { b.Errors++ })

		default:
			po, err := reconcilePerson(ctx, gw, outcome.Resolved, mode)
			if err != nil {
				return nil, err
			}
			switch po.Status {
			case StatusCreated, StatusWouldCreate:
				report.Created = append(report.Created, po)
				batch.observe(rowNumber, func(b *BatchSummary) { b.Created++ })
			case StatusUpdated, StatusWouldUpdate:
				report.Updated = append(report.Updated, po)
				batch.observe(rowNumber, func(b *BatchSummary) { b.Updated++ })
			default:
				report.Unchanged = append(report.Unchanged, po)
				batch.observe(rowNumber, func(b *BatchSummary) { b.Unchanged++ })
			}
		}
	}

	report.NewDivisions = dims.newDivisions
	report.NewDepartments = dims.newDepartments
	report.NewPositions = dims.newPositions
	report.Batches = batch.finish()
	return report, nil
}

// batchTracker accumulates per-batch sub-totals. Batches are a reporting
// convenience only; they never influence transaction boundaries.
type batchTracker struct {
	size    int
	current BatchSummary
	count   int
	out     []BatchSummary
}

func newBatchTracker(size, firstRow int) *batchTracker {
	if size <= 0 {
		return &batchTracker{}
	}
	return &batchTracker{
		size:    size,
		current: BatchSummary{Index: 0, FirstRow: firstRow},
	}
}

func (t *batchTracker) observe(rowNumber int, apply func(*BatchSummary)) {
	if t.size <= 0 {
		return
	}
	apply(&t.current)
	t.current.LastRow = rowNumber
	t.count++
	if t.count == t.size {
		t.out = append(t.out, t.current)
		t.current = BatchSummary{Index: t.current.Index + 1, FirstRow: rowNumber + 1}
		t.count = 0
	}
}

func (t *batchTracker) finish() []BatchSummary {
	if t.size <= 0 {
		return nil
	}
	if t.count > 0 {
		t.out = append(t.out, t.current)
	}
	return t.out
}
