package core

import (
	"context"
	"errors"
	"fmt"
)

// fakeGateway is an in-memory Gateway for engine tests. It mirrors the SQL
// store's behavior: active-only employee queries, case-insensitive name
// lookup, sequential ids. Setting failOn to an op name makes that op
// return a wrapped error, for storage-failure paths.
type fakeGateway struct {
	divisions   []Division
	departments []Department
	positions   []Position
	employees   []fakeEmployee

	nextID  int32
	failOn  string
	inserts []string // op log, e.g. "division:สายงานY"
}

type fakeEmployee struct {
	Employee
	deleted bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{nextID: 100}
}

func (g *fakeGateway) addDivision(name string) int32 {
	g.nextID++
	g.divisions = append(g.divisions, Division{ID: g.nextID, Name: name})
	return g.nextID
}

func (g *fakeGateway) addDepartment(name string, divisionID int32) int32 {
	g.nextID++
	g.departments = append(g.departments, Department{ID: g.nextID, Name: name, DivisionID: divisionID})
	return g.nextID
}

func (g *fakeGateway) addPosition(name string) int32 {
	g.nextID++
	g.positions = append(g.positions, Position{ID: g.nextID, Name: name})
	return g.nextID
}

func (g *fakeGateway) addEmployee(name string, positionID, departmentID int32) int32 {
	g.nextID++
	g.employees = append(g.employees, fakeEmployee{Employee: Employee{
		ID: g.nextID, Name: name, PositionID: positionID, DepartmentID: departmentID,
	}})
	return g.nextID
}

func (g *fakeGateway) fail(op string) error {
	if g.failOn == op {
		return storageErr(op, errors.New("boom"))
	}
	return nil
}

func (g *fakeGateway) LoadDivisions(context.Context) ([]Division, error) {
	if err := g.fail("load divisions"); err != nil {
		return nil, err
	}
	return append([]Division(nil), g.divisions...), nil
}

func (g *fakeGateway) LoadDepartments(context.Context) ([]Department, error) {
	if err := g.fail("load departments"); err != nil {
		return nil, err
	}
	return append([]Department(nil), g.departments...), nil
}

func (g *fakeGateway) LoadPositions(context.Context) ([]Position, error) {
	if err := g.fail("load positions"); err != nil {
		return nil, err
	}
	return append([]Position(nil), g.positions...), nil
}

func (g *fakeGateway) InsertDivision(_ context.Context, name string) (int32, error) {
	if err := g.fail("insert division"); err != nil {
		return 0, err
	}
	g.inserts = append(g.inserts, "division:"+name)
	return g.addDivision(name), nil
}

func (g *fakeGateway) InsertDepartment(_ context.Context, name string, divisionID int32) (int32, error) {
	if err := g.fail("insert department"); err != nil {
		return 0, err
	}
	g.inserts = append(g.inserts, fmt.Sprintf("department:%s@%d", name, divisionID))
	return g.addDepartment(name, divisionID), nil
}

func (g *fakeGateway) InsertPosition(_ context.Context, name string) (int32, error) {
	if err := g.fail("insert position"); err != nil {
		return 0, err
	}
	g.inserts = append(g.inserts, "position:"+name)
	return g.addPosition(name), nil
}

func (g *fakeGateway) FindActiveEmployee(_ context.Context, name string) (Employee, bool, error) {
	if err := g.fail("find employee"); err != nil {
		return Employee{}, false, err
	}
	for _, e := range g.employees {
		if !e.deleted && sameName(e.Name, name) {
			return e.Employee, true, nil
		}
	}
	return Employee{}, false, nil
}

func (g *fakeGateway) InsertEmployee(_ context.Context, name string, positionID, departmentID int32) (int32, error) {
	if err := g.fail("insert employee"); err != nil {
		return 0, err
	}
	g.inserts = append(g.inserts, "employee:"+name)
	return g.addEmployee(name, positionID, departmentID), nil
}

func (g *fakeGateway) UpdateEmployeeAssignment(_ context.Context, id, positionID, departmentID int32) error {
	if err := g.fail("update employee"); err != nil {
		return err
	}
	for i := range g.employees {
		if g.employees[i].ID == id && !g.employees[i].deleted {
			g.employees[i].PositionID = positionID
			g.employees[i].DepartmentID = departmentID
			g.inserts = append(g.inserts, fmt.Sprintf("update:%d", id))
			return nil
		}
	}
	return nil
}

func (g *fakeGateway) ActiveEmployees(context.Context) ([]EmployeeRecord, error) {
	if err := g.fail("load roster"); err != nil {
		return nil, err
	}
	var out []EmployeeRecord
	for _, e := range g.employees {
		if !e.deleted {
			out = append(out, g.record(e))
		}
	}
	return out, nil
}

func (g *fakeGateway) ActiveEmployeesByIDs(_ context.Context, ids []int32) ([]EmployeeRecord, error) {
	if err := g.fail("load employees by id"); err != nil {
		return nil, err
	}
	want := make(map[int32]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []EmployeeRecord
	for _, e := range g.employees {
		if !e.deleted && want[e.ID] {
			out = append(out, g.record(e))
		}
	}
	return out, nil
}

func (g *fakeGateway) RetireEmployees(_ context.Context, ids []int32) (int64, error) {
	if err := g.fail("retire employees"); err != nil {
		return 0, err
	}
	want := make(map[int32]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var affected int64
	for i := range g.employees {
		if !g.employees[i].deleted && want[g.employees[i].ID] {
			g.employees[i].deleted = true
			affected++
		}
	}
	return affected, nil
}

func (g *fakeGateway) record(e fakeEmployee) EmployeeRecord {
	rec := EmployeeRecord{ID: e.ID, Name: e.Name, Registered: e.Registered}
	for _, p := range g.positions {
		if p.ID == e.PositionID {
			rec.PositionName = p.Name
		}
	}
	for _, d := range g.departments {
		if d.ID == e.DepartmentID {
			rec.DepartmentName = d.Name
			for _, v := range g.divisions {
				if v.ID == d.DivisionID {
					rec.DivisionName = v.Name
				}
			}
		}
	}
	return rec
}
