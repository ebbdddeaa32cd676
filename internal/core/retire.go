package core

import (
	"context"
	"strconv"
	"strings"
)

// parseIDList normalizes a caller-supplied identifier list to unique valid
// integers. Values that do not parse are silently dropped; order of first
// appearance is preserved.
func parseIDList(raw []string) []int32 {
	seen := make(map[int32]bool, len(raw))
	var out []int32
	for _, v := range raw {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil || n <= 0 {
			continue
		}
		id := int32(n)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// retireByIDs soft-deletes the active subset of the requested ids in one
// statement. The caller is expected to run this inside a transaction; the
// candidate lookup and the update see the same snapshot.
func retireByIDs(ctx context.Context, gw Gateway, raw []string) (*RetirementReport, error) {
	ids := parseIDList(raw)
	report := &RetirementReport{RequestedCount: len(ids)}
	if len(ids) == 0 {
		return report, nil
	}

	found, err := gw.ActiveEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return report, nil
	}

	affected, err := gw.RetireEmployees(ctx, ids)
	if err != nil {
		return nil, err
	}

	report.AffectedCount = int(affected)
	report.Retired = found
	return report, nil
}

// previewRetire performs only the active-subset lookup, no mutation.
func previewRetire(ctx context.Context, gw Gateway, raw []string) (*RetirementPreview, error) {
	ids := parseIDList(raw)
	preview := &RetirementPreview{RequestedCount: len(ids)}
	if len(ids) == 0 {
		return preview, nil
	}

	found, err := gw.ActiveEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	preview.FoundCount = len(found)
	preview.Candidates = found
	return preview, nil
}
