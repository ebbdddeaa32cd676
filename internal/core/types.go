package core

// Mode selects whether an import run persists its writes.
type Mode int

const (
	// ModeTesting classifies rows without writing anything. Rows that
	// depend on a dimension value that does not exist yet are reported as
	// errors, because auto-provisioning is skipped.
	ModeTesting Mode = iota

	// ModeCommitting persists all writes in a single transaction and
	// auto-provisions missing dimension values.
	ModeCommitting
)

func (m Mode) String() string {
	if m == ModeCommitting {
		return "committing"
	}
	return "testing"
}

// commits reports whether storage mutations are allowed in this mode.
// Every write in the engine is gated on this single check.
func (m Mode) commits() bool { return m == ModeCommitting }

// Role identifies the semantic meaning of a spreadsheet column.
type Role int

const (
	RoleName Role = iota
	RolePosition
	RoleDivision
	RoleDepartment
)

// roleCount is the number of roles the column mapper must assign.
const roleCount = 4

func (r Role) String() string {
	switch r {
	case RoleName:
		return "Employee name"
	case RolePosition:
		return "Position"
	case RoleDivision:
		return "Division"
	case RoleDepartment:
		return "Department"
	}
	return "Unknown"
}

// RoleVocabulary pairs a role with the header prefixes that identify it.
type RoleVocabulary struct {
	Role     Role
	Prefixes []string
}

// Vocabulary describes how to locate and interpret the header row. The
// sentinel token marks the header row; the role list is ordered and the
// first matching prefix wins, so the prefix sets must be disjoint.
type Vocabulary struct {
	Sentinel string
	Roles    []RoleVocabulary
}

// DefaultVocabulary returns the vocabulary of the source workbook: Thai
// headers with English fallbacks, header row marked by "พ1" in the first
// column.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Sentinel: "พ1",
		Roles: []RoleVocabulary{
			{Role: RoleName, Prefixes: []string{"ชื่อ", "name"}},
			{Role: RolePosition, Prefixes: []string{"ตำแหน่ง", "position"}},
			{Role: RoleDivision, Prefixes: []string{"สายงาน", "division"}},
			{Role: RoleDepartment, Prefixes: []string{"สำนัก", "department"}},
		},
	}
}

// ColumnMap maps each role to its column index in the data rows.
type ColumnMap map[Role]int

// Division is the top of the organizational hierarchy.
type Division struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Department belongs to exactly one division. The same department name may
// legitimately exist under two different divisions.
type Department struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	DivisionID int32  `json:"divisionId"`
}

// Position is a global dimension, not scoped by division.
type Position struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Employee is an active roster entry. Soft-deleted employees never appear
// here; the store filters them out of every query.
type Employee struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	PositionID   int32  `json:"positionId"`
	DepartmentID int32  `json:"departmentId"`
	Registered   bool   `json:"registered"`
}

// EmployeeRecord is an employee joined with the display names of its
// dimensions, used for attrition and retirement reporting.
type EmployeeRecord struct {
	ID             int32  `json:"id"`
	Name           string `json:"name"`
	PositionName   string `json:"positionName"`
	DepartmentName string `json:"departmentName"`
	DivisionName   string `json:"divisionName"`
	Registered     bool   `json:"registered"`
}

// PersonStatus classifies the person-level outcome of one resolved row.
type PersonStatus string

const (
	StatusCreated     PersonStatus = "created"
	StatusWouldCreate PersonStatus = "would_create"
	StatusUpdated     PersonStatus = "updated"
	StatusWouldUpdate PersonStatus = "would_update"
	StatusUnchanged   PersonStatus = "unchanged"
)

// PersonOutcome is the final classification of one spreadsheet row.
// PrevPositionID/PrevDepartmentID are populated only for updates.
type PersonOutcome struct {
	RowNumber      int          `json:"rowNumber"`
	Status         PersonStatus `json:"status"`
	EmployeeID     int32        `json:"employeeId,omitempty"`
	Name           string       `json:"name"`
	PositionID     int32        `json:"positionId"`
	DepartmentID   int32        `json:"departmentId"`
	DivisionName   string       `json:"divisionName"`
	DepartmentName string       `json:"departmentName"`
	PositionName   string       `json:"positionName"`
	PrevPositionID int32        `json:"prevPositionId,omitempty"`
	PrevDeptID     int32        `json:"prevDepartmentId,omitempty"`
}

// BatchSummary holds per-batch sub-totals when the caller requests batched
// progress reporting. Batch boundaries are never commit boundaries.
type BatchSummary struct {
	Index     int `json:"index"`
	FirstRow  int `json:"firstRow"`
	LastRow   int `json:"lastRow"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Errors    int `json:"errors"`
	Skipped   int `json:"skipped"`
}

// ImportReport is returned from RunImport. The same input against the same
// database state produces an identical report in testing mode, which is why
// run identifiers and timings live in the audit trail instead.
type ImportReport struct {
	Mode           Mode            `json:"-"`
	ModeLabel      string          `json:"mode"`
	HeaderRow      int             `json:"headerRow"`
	TotalRows      int             `json:"totalRows"`
	Skipped        int             `json:"skipped"`
	Created        []PersonOutcome `json:"created"`
	Updated        []PersonOutcome `json:"updated"`
	Unchanged      []PersonOutcome `json:"unchanged"`
	Errors         []RowError      `json:"errors"`
	NewDivisions   []string        `json:"newDivisions,omitempty"`
	NewDepartments []string        `json:"newDepartments,omitempty"`
	NewPositions   []string        `json:"newPositions,omitempty"`
	Batches        []BatchSummary  `json:"batches,omitempty"`
}

// AttritionReport is the result of comparing the active roster against the
// name set of a spreadsheet.
type AttritionReport struct {
	ActiveCount      int              `json:"activeCount"`
	SheetNameCount   int              `json:"sheetNameCount"`
	MissingFromSheet []EmployeeRecord `json:"missingFromSheet"`
	NewInSheet       []string         `json:"newInSheet"`
}

// RetirementReport is the result of a mass retirement.
type RetirementReport struct {
	RequestedCount int              `json:"requestedCount"`
	AffectedCount  int              `json:"affectedCount"`
	Retired        []EmployeeRecord `json:"retired"`
}

// RetirementPreview lists what a retirement would affect, without mutating.
type RetirementPreview struct {
	RequestedCount int              `json:"requestedCount"`
	FoundCount     int              `json:"foundCount"`
	Candidates     []EmployeeRecord `json:"candidates"`
}
