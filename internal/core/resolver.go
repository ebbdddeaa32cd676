package core

import (
	"context"
	"fmt"
	"strings"
)

// dimensionSet is the in-memory snapshot of the three dimension tables,
// loaded once per import run and private to it. Auto-created rows are
// appended immediately so every later row in the same pass sees them.
// Lookups take the first match in load order, which keeps resolution
// deterministic even if storage holds names differing only by case.
type dimensionSet struct {
	divisions   []Division
	departments []Department
	positions   []Position

	newDivisions   []string
	newDepartments []string
	newPositions   []string
}

// loadDimensions preloads all three dimension tables through the gateway.
func loadDimensions(ctx context.Context, gw Gateway) (*dimensionSet, error) {
	divs, err := gw.LoadDivisions(ctx)
	if err != nil {
		return nil, err
	}
	depts, err := gw.LoadDepartments(ctx)
	if err != nil {
		return nil, err
	}
	pos, err := gw.LoadPositions(ctx)
	if err != nil {
		return nil, err
	}
	return &dimensionSet{divisions: divs, departments: depts, positions: pos}, nil
}

func (ds *dimensionSet) findDivision(name string) (Division, bool) {
	for _, d := range ds.divisions {
		if sameName(d.Name, name) {
			return d, true
		}
	}
	return Division{}, false
}

// findDepartment matches by name within the given division only. A
// department with the same name under a different division never matches.
func (ds *dimensionSet) findDepartment(name string, divisionID int32) (Department, bool) {
	for _, d := range ds.departments {
		if d.DivisionID == divisionID && sameName(d.Name, name) {
			return d, true
		}
	}
	return Department{}, false
}

func (ds *dimensionSet) findPosition(name string) (Position, bool) {
	for _, p := range ds.positions {
		if sameName(p.Name, name) {
			return p, true
		}
	}
	return Position{}, false
}

// resolvedDimensions carries the ids and display names of a fully resolved
// (division, department, position) triple.
type resolvedDimensions struct {
	DivisionID   int32
	DepartmentID int32
	PositionID   int32

	DivisionName   string
	DepartmentName string
	PositionName   string
}

// resolve maps the three dimension names of one row to ids, in the strict
// order division → department → position. In committing mode unresolved
// values are auto-created through the gateway and appended to the
// snapshot. In testing mode every unresolved value is collected so the row
// reports them all at once; department resolution is skipped entirely when
// its parent division did not resolve, and the error references the
// attempted division name instead.
//
// Returns (dims, "", nil) on success, (_, detail, nil) for a per-row
// resolution failure, and a non-nil error only for storage failures.
func (ds *dimensionSet) resolve(ctx context.Context, gw Gateway, vals rowValues, mode Mode) (resolvedDimensions, string, error) {
	var out resolvedDimensions
	var unresolved []string

	div, ok := ds.findDivision(vals.Division)
	if !ok && mode.commits() {
		id, err := gw.InsertDivision(ctx, vals.Division)
		if err != nil {
			return out, "", err
		}
		div = Division{ID: id, Name: vals.Division}
		ds.divisions = append(ds.divisions, div)
		ds.newDivisions = append(ds.newDivisions, vals.Division)
		ok = true
	}
	if ok {
		out.DivisionID = div.ID
		out.DivisionName = div.Name
	} else {
		unresolved = append(unresolved, fmt.Sprintf("division %q not found", vals.Division))
	}

	if ok {
		dept, deptOK := ds.findDepartment(vals.Department, div.ID)
		if !deptOK && mode.commits() {
			id, err := gw.InsertDepartment(ctx, vals.Department, div.ID)
			if err != nil {
				return out, "", err
			}
			dept = Department{ID: id, Name: vals.Department, DivisionID: div.ID}
			ds.departments = append(ds.departments, dept)
			ds.newDepartments = append(ds.newDepartments, vals.Department)
			deptOK = true
		}
		if deptOK {
			out.DepartmentID = dept.ID
			out.DepartmentName = dept.Name
		} else {
			unresolved = append(unresolved, fmt.Sprintf("department %q not found under division %q", vals.Department, div.Name))
		}
	} else {
		unresolved = append(unresolved, fmt.Sprintf("department %q not checked: division %q is unresolved", vals.Department, vals.Division))
	}

	pos, posOK := ds.findPosition(vals.Position)
	if !posOK && mode.commits() {
		id, err := gw.InsertPosition(ctx, vals.Position)
		if err != nil {
			return out, "", err
		}
		pos = Position{ID: id, Name: vals.Position}
		ds.positions = append(ds.positions, pos)
		ds.newPositions = append(ds.newPositions, vals.Position)
		posOK = true
	}
	if posOK {
		out.PositionID = pos.ID
		out.PositionName = pos.Name
	} else {
		unresolved = append(unresolved, fmt.Sprintf("position %q not found", vals.Position))
	}

	if len(unresolved) > 0 {
		return out, strings.Join(unresolved, "; "), nil
	}
	return out, "", nil
}
