package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, an Excel formula prefix (="..."), and stray
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// foldName produces the canonical comparison key for a name: trimmed and
// Unicode case-folded. Every cross-source match in the engine goes through
// this one function. cases.Caser is not safe for concurrent use, so a new
// one is taken per call.
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// sameName reports whether two names are equal after normalization.
func sameName(a, b string) bool {
	return foldName(a) == foldName(b)
}

// isEmptyRow reports whether every cell is absent or blank after trimming.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cellAt returns the trimmed cell at index i, or "" when the row is too
// short or the index is unmapped (negative).
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return CleanCell(row[i])
}
