package core

import "context"

// detectAttrition computes the bidirectional set difference between the
// active roster and the spreadsheet's person-name column. A name counts
// toward the sheet set even when its dimensions would not resolve; only
// the name column matters here. Comparison uses the same trim+fold
// normalization as the importer; no fuzzy matching.
func detectAttrition(ctx context.Context, gw Gateway, vocab Vocabulary, rows [][]string) (*AttritionReport, error) {
	roster, err := gw.ActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}

	report := &AttritionReport{ActiveCount: len(roster)}

	// An empty roster means every sheet name would be "new" and nothing
	// can be missing; skip the sheet scan entirely.
	if len(roster) == 0 {
		return report, nil
	}

	headerIdx, err := FindHeader(rows, vocab.Sentinel)
	if err != nil {
		return nil, err
	}
	cm, err := MapColumns(rows[headerIdx], vocab)
	if err != nil {
		return nil, err
	}

	// Sheet name set, preserving first-seen display form and order.
	sheetNames := make(map[string]string)
	var sheetOrder []string
	for _, row := range rows[headerIdx+1:] {
		name := cellAt(row, cm[RoleName])
		if name == "" {
			continue
		}
		key := foldName(name)
		if _, seen := sheetNames[key]; !seen {
			sheetNames[key] = name
			sheetOrder = append(sheetOrder, key)
		}
	}
	report.SheetNameCount = len(sheetNames)

	dbNames := make(map[string]bool, len(roster))
	for _, rec := range roster {
		key := foldName(rec.Name)
		dbNames[key] = true
		if _, inSheet := sheetNames[key]; !inSheet {
			report.MissingFromSheet = append(report.MissingFromSheet, rec)
		}
	}

	for _, key := range sheetOrder {
		if !dbNames[key] {
			report.NewInSheet = append(report.NewInSheet, sheetNames[key])
		}
	}

	return report, nil
}
