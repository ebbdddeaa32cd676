package core

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// EmployeePage is one page of the employee listing.
type EmployeePage struct {
	Employees  []EmployeeRecord `json:"employees"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// maxPageLimit caps the page size, mirroring the original API.
const maxPageLimit = 100

// ListEmployees returns a page of active employees, optionally filtered by
// a case-insensitive name substring.
func (s *Service) ListEmployees(ctx context.Context, page, limit int, search string) (*EmployeePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := (page - 1) * limit

	where := `WHERE e.is_deleted = 0`
	args := []any{limit, offset}
	if search != "" {
		where += ` AND e.emp_name ILIKE '%' || $3 || '%'`
		args = append(args, search)
	}

	rows, err := s.pool.Query(ctx, employeeRecordSelect+" "+where+`
		ORDER BY e.emp_name
		LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, storageErr("list employees", err)
	}
	defer rows.Close()

	records, err := scanEmployeeRecords(rows)
	if err != nil {
		return nil, err
	}

	countArgs := args[2:]
	countWhere := `WHERE e.is_deleted = 0`
	if search != "" {
		countWhere += ` AND e.emp_name ILIKE '%' || $1 || '%'`
	}
	var total int
	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM employee e `+countWhere, countArgs...,
	).Scan(&total)
	if err != nil {
		return nil, storageErr("count employees", err)
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		page = 0
	}
	return &EmployeePage{
		Employees:  records,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// GetEmployee returns one active employee with joined dimension names.
// The second return value is false when no active employee has that id.
func (s *Service) GetEmployee(ctx context.Context, id int32) (EmployeeRecord, bool, error) {
	records, err := newPGStore(s.pool).ActiveEmployeesByIDs(ctx, []int32{id})
	if err != nil {
		return EmployeeRecord{}, false, err
	}
	if len(records) == 0 {
		return EmployeeRecord{}, false, nil
	}
	return records[0], true, nil
}

// Divisions lists all divisions ordered by name, for dropdowns.
func (s *Service) Divisions(ctx context.Context) ([]Division, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, div_name FROM division ORDER BY div_name`)
	if err != nil {
		return nil, storageErr("list divisions", err)
	}
	defer rows.Close()
	return scanDivisions(rows)
}

// DepartmentsByDivision lists the departments of one division ordered by
// name, for the dependent dropdown.
func (s *Service) DepartmentsByDivision(ctx context.Context, divisionID int32) ([]Department, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, dept_name, div_id FROM dept WHERE div_id = $1 ORDER BY dept_name`, divisionID)
	if err != nil {
		return nil, storageErr("list departments", err)
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.DivisionID); err != nil {
			return nil, storageErr("scan department", err)
		}
		out = append(out, d)
	}
	return out, storageErr("list departments", rows.Err())
}

// Positions lists all positions ordered by name, for dropdowns.
func (s *Service) Positions(ctx context.Context) ([]Position, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, position_name FROM position ORDER BY position_name`)
	if err != nil {
		return nil, storageErr("list positions", err)
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, storageErr("scan position", err)
		}
		out = append(out, p)
	}
	return out, storageErr("list positions", rows.Err())
}

// Ping verifies database connectivity for the health endpoint.
func (s *Service) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanDivisions(rows pgx.Rows) ([]Division, error) {
	var out []Division
	for rows.Next() {
		var d Division
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, storageErr("scan division", err)
		}
		out = append(out, d)
	}
	return out, storageErr("list divisions", rows.Err())
}
