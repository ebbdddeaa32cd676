package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// sheetWithHeader builds a row matrix with two title rows, the sentinel
// header at index 2, and the given data rows in canonical column order
// (no., name, position, division, department).
func sheetWithHeader(dataRows ...[]string) [][]string {
	rows := [][]string{
		{"รายชื่อพนักงาน"},
		{""},
		{"พ1", "ชื่อ-นามสกุล", "ตำแหน่ง", "สายงาน", "สำนัก"},
	}
	return append(rows, dataRows...)
}

func TestRunImportHeaderNotFound(t *testing.T) {
	gw := newFakeGateway()
	rows := [][]string{{"just"}, {"some"}, {"notes"}}

	_, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeTesting, 0)
	var hnf *HeaderNotFoundError
	if !errors.As(err, &hnf) {
		t.Fatalf("error = %v, want HeaderNotFoundError", err)
	}
}

func TestRunImportMissingColumnsAbortsBeforeRows(t *testing.T) {
	gw := newFakeGateway()
	rows := [][]string{
		{"พ1", "ชื่อ", "ตำแหน่ง"}, // division and department headers absent
		{"1", "สมชาย", "วิศวกร"},
	}

	_, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	var mc *MissingColumnsError
	if !errors.As(err, &mc) {
		t.Fatalf("error = %v, want MissingColumnsError", err)
	}
	if len(gw.inserts) != 0 {
		t.Errorf("structural failure still wrote: %v", gw.inserts)
	}
}

func TestRunImportCommittingCreatesEverything(t *testing.T) {
	// Fresh database: the row's division, department, position and
	// person all get created, in hierarchy order.
	gw := newFakeGateway()
	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	report, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}

	if report.HeaderRow != 2 {
		t.Errorf("HeaderRow = %d, want 2", report.HeaderRow)
	}
	if len(report.Created) != 1 {
		t.Fatalf("created = %d, want 1", len(report.Created))
	}
	po := report.Created[0]
	if po.Status != StatusCreated {
		t.Errorf("status = %s, want %s", po.Status, StatusCreated)
	}
	if po.RowNumber != 4 {
		t.Errorf("row number = %d, want 4 (1-based, after header at sheet row 3)", po.RowNumber)
	}
	if po.DivisionName != "สายงานY" || po.DepartmentName != "สำนักZ" || po.PositionName != "ตำแหน่งX" {
		t.Errorf("resolved names = %q/%q/%q", po.DivisionName, po.DepartmentName, po.PositionName)
	}

	if len(report.NewDivisions) != 1 || report.NewDivisions[0] != "สายงานY" {
		t.Errorf("NewDivisions = %v", report.NewDivisions)
	}
	if len(report.NewDepartments) != 1 || len(report.NewPositions) != 1 {
		t.Errorf("NewDepartments = %v, NewPositions = %v", report.NewDepartments, report.NewPositions)
	}

	wantOrder := []string{"division:", "department:", "position:", "employee:"}
	if len(gw.inserts) != len(wantOrder) {
		t.Fatalf("inserts = %v", gw.inserts)
	}
	for i, prefix := range wantOrder {
		if !strings.HasPrefix(gw.inserts[i], prefix) {
			t.Errorf("insert[%d] = %q, want prefix %q", i, gw.inserts[i], prefix)
		}
	}
}

func TestRunImportTestingReportsUnresolvedDimensions(t *testing.T) {
	gw := newFakeGateway()
	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	report, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeTesting, 0)
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %+v, want one row error", report.Errors)
	}
	detail := report.Errors[0].Detail
	for _, want := range []string{"สายงานY", "สำนักZ", "ตำแหน่งX"} {
		if !strings.Contains(detail, want) {
			t.Errorf("error detail %q missing %q", detail, want)
		}
	}
	if len(gw.inserts) != 0 {
		t.Errorf("testing mode wrote: %v", gw.inserts)
	}
}

func TestRunImportTestingIsIdempotent(t *testing.T) {
	gw := newFakeGateway()
	divID := gw.addDivision("สายงานY")
	deptID := gw.addDepartment("สำนักZ", divID)
	posID := gw.addPosition("ตำแหน่งX")
	gw.addEmployee("ชื่อA", posID, deptID)

	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
		[]string{"2", "ชื่อB", "ตำแหน่งX", "สายงานY", "สำนักZ"},
		[]string{"3", "ชื่อC", "ตำแหน่งใหม่", "สายงานY", "สำนักZ"},
	)

	first, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeTesting, 0)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeTesting, 0)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("testing mode not idempotent:\nfirst:  %s\nsecond: %s", a, b)
	}
	if len(gw.inserts) != 0 {
		t.Errorf("testing mode wrote: %v", gw.inserts)
	}
}

func TestRunImportRoundTripUnchanged(t *testing.T) {
	gw := newFakeGateway()
	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	first, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.Created) != 1 {
		t.Fatalf("first run created = %d, want 1", len(first.Created))
	}

	second, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Created) != 0 || len(second.Updated) != 0 {
		t.Fatalf("second run created=%d updated=%d, want all unchanged", len(second.Created), len(second.Updated))
	}
	if len(second.Unchanged) != 1 {
		t.Fatalf("second run unchanged = %d, want 1", len(second.Unchanged))
	}
	if second.Unchanged[0].Status != StatusUnchanged {
		t.Errorf("status = %s, want %s", second.Unchanged[0].Status, StatusUnchanged)
	}
	if len(second.NewDivisions)+len(second.NewDepartments)+len(second.NewPositions) != 0 {
		t.Errorf("second run re-created dimensions: %v %v %v",
			second.NewDivisions, second.NewDepartments, second.NewPositions)
	}
}

func TestRunImportNoDuplicateDimensionsForCaseVariants(t *testing.T) {
	gw := newFakeGateway()
	divID := gw.addDivision("Engineering")
	gw.addDepartment("Platform", divID)
	gw.addPosition("Developer")

	rows := sheetWithHeader(
		[]string{"1", "Alice", "DEVELOPER", "engineering", "PLATFORM"},
	)

	report, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if len(report.NewDivisions)+len(report.NewDepartments)+len(report.NewPositions) != 0 {
		t.Errorf("case variants created duplicates: %v %v %v",
			report.NewDivisions, report.NewDepartments, report.NewPositions)
	}
	if len(report.Created) != 1 {
		t.Errorf("created = %d, want 1 (the person)", len(report.Created))
	}
}

func TestRunImportUpdatesChangedAssignment(t *testing.T) {
	gw := newFakeGateway()
	divID := gw.addDivision("สายงานY")
	deptID := gw.addDepartment("สำนักZ", divID)
	dept2ID := gw.addDepartment("สำนักW", divID)
	posID := gw.addPosition("ตำแหน่งX")
	empID := gw.addEmployee("ชื่อA", posID, dept2ID)

	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	report, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if len(report.Updated) != 1 {
		t.Fatalf("updated = %d, want 1", len(report.Updated))
	}
	up := report.Updated[0]
	if up.EmployeeID != empID {
		t.Errorf("employee id = %d, want %d", up.EmployeeID, empID)
	}
	if up.PrevDeptID != dept2ID || up.DepartmentID != deptID {
		t.Errorf("department %d→%d, want %d→%d", up.PrevDeptID, up.DepartmentID, dept2ID, deptID)
	}
	if up.PrevPositionID != posID {
		t.Errorf("previous position = %d, want %d", up.PrevPositionID, posID)
	}
}

func TestRunImportRowErrorDoesNotPoisonSiblings(t *testing.T) {
	gw := newFakeGateway()
	rows := sheetWithHeader(
		[]string{"1", "", "ตำแหน่งX", "สายงานY", "สำนักZ"}, // missing name
		[]string{},                                       // blank, skipped
		[]string{"3", "ชื่อB", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	report, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %+v, want 1", report.Errors)
	}
	if report.Errors[0].RowNumber != 4 {
		t.Errorf("error row = %d, want 4", report.Errors[0].RowNumber)
	}
	if got := report.Errors[0].Error(); !strings.HasPrefix(got, "Row 4: ") {
		t.Errorf("error string = %q, want Row 4 prefix", got)
	}
	if report.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", report.Skipped)
	}
	if len(report.Created) != 1 || report.Created[0].Name != "ชื่อB" {
		t.Errorf("created = %+v, want row 6 person", report.Created)
	}
}

func TestRunImportStorageFailureAbortsPass(t *testing.T) {
	gw := newFakeGateway()
	gw.failOn = "insert employee"
	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	_, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want StorageError", err)
	}
}

func TestRunImportBatchSubTotals(t *testing.T) {
	gw := newFakeGateway()
	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
		[]string{"2", "ชื่อB", "ตำแหน่งX", "สายงานY", "สำนักZ"},
		[]string{"3", "", "ตำแหน่งX", "สายงานY", "สำนักZ"},
		[]string{"4", "ชื่อC", "ตำแหน่งX", "สายงานY", "สำนักZ"},
		[]string{"5", "ชื่อD", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	report, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 2)
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}

	if len(report.Batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(report.Batches))
	}
	if b := report.Batches[0]; b.Created != 2 || b.FirstRow != 4 || b.LastRow != 5 {
		t.Errorf("batch 0 = %+v", b)
	}
	if b := report.Batches[1]; b.Errors != 1 || b.Created != 1 {
		t.Errorf("batch 1 = %+v", b)
	}
	if b := report.Batches[2]; b.Created != 1 || b.Index != 2 {
		t.Errorf("batch 2 = %+v", b)
	}

	// Batching is reporting only: aggregate classification matches the
	// unbatched run.
	if len(report.Created) != 4 || len(report.Errors) != 1 {
		t.Errorf("aggregate created=%d errors=%d, want 4/1", len(report.Created), len(report.Errors))
	}
}

func TestRunImportDimensionVisibilityAcrossRows(t *testing.T) {
	// Row 1 auto-creates the dimensions; row 2 referencing the same
	// names must reuse them instead of creating duplicates.
	gw := newFakeGateway()
	rows := sheetWithHeader(
		[]string{"1", "ชื่อA", "ตำแหน่งX", "สายงานY", "สำนักZ"},
		[]string{"2", "ชื่อB", "ตำแหน่งX", "สายงานY", "สำนักZ"},
	)

	report, err := runImport(context.Background(), gw, DefaultVocabulary(), rows, ModeCommitting, 0)
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if len(report.NewDivisions) != 1 || len(report.NewDepartments) != 1 || len(report.NewPositions) != 1 {
		t.Errorf("dimension creations = %v %v %v, want one each",
			report.NewDivisions, report.NewDepartments, report.NewPositions)
	}
	if report.Created[0].DepartmentID != report.Created[1].DepartmentID {
		t.Errorf("rows resolved to different departments: %d vs %d",
			report.Created[0].DepartmentID, report.Created[1].DepartmentID)
	}
}
