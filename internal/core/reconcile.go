package core

import "context"

// rowOutcome is the result of running one data row through extraction and
// dimension resolution.
type rowOutcome struct {
	RowNumber int
	Skipped   bool
	ErrDetail string // non-empty for a per-row error
	Resolved  resolvedRow
}

// resolvedRow is a row that is ready for person-level reconciliation.
type resolvedRow struct {
	RowNumber int
	Name      string
	Dims      resolvedDimensions
}

// reconcileRow chains the row extractor and the dimension resolver for one
// data row. A blank row short-circuits to Skipped; any missing value or
// unresolved dimension becomes a single row error carrying every problem.
// A non-nil error is always a storage failure and aborts the pass.
func (ds *dimensionSet) reconcileRow(ctx context.Context, gw Gateway, row []string, cm ColumnMap, rowNumber int, mode Mode) (rowOutcome, error) {
	out := rowOutcome{RowNumber: rowNumber}

	vals, missing, empty := extractRow(row, cm)
	if empty {
		out.Skipped = true
		return out, nil
	}
	if len(missing) > 0 {
		out.ErrDetail = missingFieldsDetail(missing)
		return out, nil
	}

	dims, detail, err := ds.resolve(ctx, gw, vals, mode)
	if err != nil {
		return out, err
	}
	if detail != "" {
		out.ErrDetail = detail
		return out, nil
	}

	out.Resolved = resolvedRow{RowNumber: rowNumber, Name: vals.Name, Dims: dims}
	return out, nil
}

// reconcilePerson classifies a resolved row against the active roster and,
// in committing mode, applies the insert or update. Equality is a
// field-by-field comparison of (position_id, department_id); division is
// implied by department and never compared directly.
func reconcilePerson(ctx context.Context, gw Gateway, r resolvedRow, mode Mode) (PersonOutcome, error) {
	out := PersonOutcome{
		RowNumber:      r.RowNumber,
		Name:           r.Name,
		PositionID:     r.Dims.PositionID,
		DepartmentID:   r.Dims.DepartmentID,
		DivisionName:   r.Dims.DivisionName,
		DepartmentName: r.Dims.DepartmentName,
		PositionName:   r.Dims.PositionName,
	}

	existing, found, err := gw.FindActiveEmployee(ctx, r.Name)
	if err != nil {
		return out, err
	}

	switch {
	case !found:
		if !mode.commits() {
			out.Status = StatusWouldCreate
			return out, nil
		}
		id, err := gw.InsertEmployee(ctx, r.Name, r.Dims.PositionID, r.Dims.DepartmentID)
		if err != nil {
			return out, err
		}
		out.Status = StatusCreated
		out.EmployeeID = id

	case existing.PositionID != r.Dims.PositionID || existing.DepartmentID != r.Dims.DepartmentID:
		out.EmployeeID = existing.ID
		out.PrevPositionID = existing.PositionID
		out.PrevDeptID = existing.DepartmentID
		if !mode.commits() {
			out.Status = StatusWouldUpdate
			return out, nil
		}
		if err := gw.UpdateEmployeeAssignment(ctx, existing.ID, r.Dims.PositionID, r.Dims.DepartmentID); err != nil {
			return out, err
		}
		out.Status = StatusUpdated

	default:
		out.Status = StatusUnchanged
		out.EmployeeID = existing.ID
	}
	return out, nil
}
