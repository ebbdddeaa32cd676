package core

import "strings"

// FindHeader scans the row matrix from the top and returns the index of the
// first row whose first cell, after trimming, equals the sentinel token.
// The whole matrix is scanned; leading title and note rows of any length
// are tolerated.
func FindHeader(rows [][]string, sentinel string) (int, error) {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(row[0]) == sentinel {
			return i, nil
		}
	}
	return -1, &HeaderNotFoundError{Sentinel: sentinel, RowsScanned: len(rows)}
}

// MapColumns classifies each populated header cell into a role by
// case-insensitive prefix matching against the vocabulary. The role list is
// ordered and the first matching prefix wins; a column is assigned at most
// one role and a role keeps its first assigned column. Returns a
// MissingColumnsError naming every role without a column.
func MapColumns(header []string, vocab Vocabulary) (ColumnMap, error) {
	cm := make(ColumnMap, roleCount)

	for i, cell := range header {
		cell = foldName(cell)
		if cell == "" {
			continue
		}
		for _, rv := range vocab.Roles {
			if matchesPrefix(cell, rv.Prefixes) {
				if _, taken := cm[rv.Role]; !taken {
					cm[rv.Role] = i
				}
				break
			}
		}
	}

	var missing []Role
	for _, rv := range vocab.Roles {
		if _, ok := cm[rv.Role]; !ok {
			missing = append(missing, rv.Role)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Roles: missing}
	}
	return cm, nil
}

// matchesPrefix reports whether the folded cell starts with any of the
// role's prefixes. Prefixes are folded on the fly so vocabulary values can
// be written in natural casing.
func matchesPrefix(foldedCell string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(foldedCell, foldName(p)) {
			return true
		}
	}
	return false
}
