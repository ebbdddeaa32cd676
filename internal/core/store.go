package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations the store needs. Satisfied by both
// *pgxpool.Pool and pgx.Tx, so the same queries run inside and outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Gateway is the set of parameterized queries the engine issues within one
// unit of work. Implemented by pgStore for PostgreSQL and by a fake in
// tests. Every value bound to a query originates from the spreadsheet or
// the caller; no SQL is ever assembled from cell content.
type Gateway interface {
	LoadDivisions(ctx context.Context) ([]Division, error)
	LoadDepartments(ctx context.Context) ([]Department, error)
	LoadPositions(ctx context.Context) ([]Position, error)

	InsertDivision(ctx context.Context, name string) (int32, error)
	InsertDepartment(ctx context.Context, name string, divisionID int32) (int32, error)
	InsertPosition(ctx context.Context, name string) (int32, error)

	FindActiveEmployee(ctx context.Context, name string) (Employee, bool, error)
	InsertEmployee(ctx context.Context, name string, positionID, departmentID int32) (int32, error)
	UpdateEmployeeAssignment(ctx context.Context, id, positionID, departmentID int32) error

	ActiveEmployees(ctx context.Context) ([]EmployeeRecord, error)
	ActiveEmployeesByIDs(ctx context.Context, ids []int32) ([]EmployeeRecord, error)
	RetireEmployees(ctx context.Context, ids []int32) (int64, error)
}

// pgStore implements Gateway against the original register schema:
// division(id, div_name), dept(id, dept_name, div_id),
// position(id, position_name),
// employee(id, emp_name, position_id, dept_id, is_deleted, is_register).
type pgStore struct {
	db DBTX
}

func newPGStore(db DBTX) *pgStore { return &pgStore{db: db} }

func (s *pgStore) LoadDivisions(ctx context.Context) ([]Division, error) {
	rows, err := s.db.Query(ctx, `SELECT id, div_name FROM division ORDER BY id`)
	if err != nil {
		return nil, storageErr("load divisions", err)
	}
	defer rows.Close()

	var out []Division
	for rows.Next() {
		var d Division
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, storageErr("scan division", err)
		}
		out = append(out, d)
	}
	return out, storageErr("load divisions", rows.Err())
}

func (s *pgStore) LoadDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.db.Query(ctx, `SELECT id, dept_name, div_id FROM dept ORDER BY id`)
	if err != nil {
		return nil, storageErr("load departments", err)
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
	return out, storageErr("load departments", rows.Err())
}

func (s *pgStore) LoadPositions(ctx context.Context) ([]Position, error) {
	rows, err := s.db.Query(ctx, `SELECT id, position_name FROM position ORDER BY id`)
	if err != nil {
		return nil, storageErr("load positions", err)
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
	return out, storageErr("load positions", rows.Err())
}

func (s *pgStore) InsertDivision(ctx context.Context, name string) (int32, error) {
	var id int32
	err := s.db.QueryRow(ctx,
		`INSERT INTO division (div_name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	return id, storageErr("insert division", err)
}

func (s *pgStore) InsertDepartment(ctx context.Context, name string, divisionID int32) (int32, error) {
	var id int32
	err := s.db.QueryRow(ctx,
		`INSERT INTO dept (dept_name, div_id) VALUES ($1, $2) RETURNING id`, name, divisionID,
	).Scan(&id)
	return id, storageErr("insert department", err)
}

func (s *pgStore) InsertPosition(ctx context.Context, name string) (int32, error) {
	var id int32
	err := s.db.QueryRow(ctx,
		`INSERT INTO position (position_name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	return id, storageErr("insert position", err)
}

func (s *pgStore) FindActiveEmployee(ctx context.Context, name string) (Employee, bool, error) {
	// is_deleted/is_register are 0/1 smallints, carried over from the
	// original MySQL schema.
	var e Employee
	var reg int16
	err := s.db.QueryRow(ctx, `
		SELECT id, emp_name, position_id, dept_id, is_register
		FROM employee
		WHERE is_deleted = 0 AND LOWER(TRIM(emp_name)) = LOWER(TRIM($1))
		ORDER BY id
		LIMIT 1`, name,
	).Scan(&e.ID, &e.Name, &e.PositionID, &e.DepartmentID, &reg)
	if err == pgx.ErrNoRows {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, storageErr("find employee", err)
	}
	e.Registered = reg != 0
	return e, true, nil
}

func (s *pgStore) InsertEmployee(ctx context.Context, name string, positionID, departmentID int32) (int32, error) {
	var id int32
	err := s.db.QueryRow(ctx, `
		INSERT INTO employee (emp_name, position_id, dept_id, is_deleted, is_register)
		VALUES ($1, $2, $3, 0, 0)
		RETURNING id`, name, positionID, departmentID,
	).Scan(&id)
	return id, storageErr("insert employee", err)
}

func (s *pgStore) UpdateEmployeeAssignment(ctx context.Context, id, positionID, departmentID int32) error {
	_, err := s.db.Exec(ctx, `
		UPDATE employee SET position_id = $2, dept_id = $3
		WHERE id = $1 AND is_deleted = 0`, id, positionID, departmentID)
	return storageErr("update employee", err)
}

const employeeRecordSelect = `
	SELECT e.id, e.emp_name,
	       COALESCE(p.position_name, ''),
	       COALESCE(d.dept_name, ''),
	       COALESCE(v.div_name, ''),
	       e.is_register
	FROM employee e
	LEFT JOIN position p ON e.position_id = p.id
	LEFT JOIN dept d ON e.dept_id = d.id
	LEFT JOIN division v ON d.div_id = v.id`

func (s *pgStore) ActiveEmployees(ctx context.Context) ([]EmployeeRecord, error) {
	rows, err := s.db.Query(ctx, employeeRecordSelect+`
		WHERE e.is_deleted = 0
		ORDER BY e.emp_name`)
	if err != nil {
		return nil, storageErr("load roster", err)
	}
	defer rows.Close()
	return scanEmployeeRecords(rows)
}

func (s *pgStore) ActiveEmployeesByIDs(ctx context.Context, ids []int32) ([]EmployeeRecord, error) {
	rows, err := s.db.Query(ctx, employeeRecordSelect+`
		WHERE e.is_deleted = 0 AND e.id = ANY($1)
		ORDER BY e.id`, ids)
	if err != nil {
		return nil, storageErr("load employees by id", err)
	}
	defer rows.Close()
	return scanEmployeeRecords(rows)
}

func (s *pgStore) RetireEmployees(ctx context.Context, ids []int32) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE employee SET is_deleted = 1 WHERE is_deleted = 0 AND id = ANY($1)`, ids)
	if err != nil {
		return 0, storageErr("retire employees", err)
	}
	return tag.RowsAffected(), nil
}

func scanEmployeeRecords(rows pgx.Rows) ([]EmployeeRecord, error) {
	var out []EmployeeRecord
	for rows.Next() {
		var r EmployeeRecord
		var reg int16
		if err := rows.Scan(&r.ID, &r.Name, &r.PositionName, &r.DepartmentName, &r.DivisionName, &reg); err != nil {
			return nil, storageErr("scan employee record", err)
		}
		r.Registered = reg != 0
		out = append(out, r)
	}
	return out, storageErr("load employee records", rows.Err())
}
