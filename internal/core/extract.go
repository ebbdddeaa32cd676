package core

import "strings"

// rowValues holds the four role values of one data row, trimmed.
type rowValues struct {
	Name       string
	Division   string
	Department string
	Position   string
}

// extractRow pulls the four role values out of a data row. Returns
// empty=true for a fully blank row (reported as skipped, never as error).
// Otherwise missing lists every role whose value is absent, in vocabulary
// order, so the caller can name them all in a single row error.
func extractRow(row []string, cm ColumnMap) (vals rowValues, missing []Role, empty bool) {
	if isEmptyRow(row) {
		return rowValues{}, nil, true
	}

	vals = rowValues{
		Name:       cellAt(row, cm[RoleName]),
		Division:   cellAt(row, cm[RoleDivision]),
		Department: cellAt(row, cm[RoleDepartment]),
		Position:   cellAt(row, cm[RolePosition]),
	}

	for _, r := range []Role{RoleName, RolePosition, RoleDivision, RoleDepartment} {
		if roleValue(vals, r) == "" {
			missing = append(missing, r)
		}
	}
	return vals, missing, false
}

// roleValue returns the extracted value for a role.
func roleValue(vals rowValues, r Role) string {
	switch r {
	case RoleName:
		return vals.Name
	case RolePosition:
		return vals.Position
	case RoleDivision:
		return vals.Division
	case RoleDepartment:
		return vals.Department
	}
	return ""
}

// missingFieldsDetail renders a missing-values row error, e.g.
// "missing required values: Employee name, Division".
func missingFieldsDetail(missing []Role) string {
	names := make([]string, len(missing))
	for i, r := range missing {
		names[i] = r.String()
	}
	return "missing required values: " + strings.Join(names, ", ")
}
