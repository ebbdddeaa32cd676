package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// MaxWorkbookSize is the maximum accepted upload size (20MB). Roster
// extracts are small; anything bigger is a wrong file.
var MaxWorkbookSize int64 = 20 * 1024 * 1024

// ParseWorkbook turns an uploaded .xlsx or .csv file into the row matrix
// the engine consumes. For workbooks only the first sheet is read, which
// matches how the extract is produced.
func ParseWorkbook(fileName string, data []byte) ([][]string, error) {
	if int64(len(data)) > MaxWorkbookSize {
		return nil, fmt.Errorf("file exceeds %dMB limit", MaxWorkbookSize/(1024*1024))
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm", ".xls":
		return parseXLSX(data)
	case ".csv":
		return parseCSV(sanitizeUTF8(data))
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(fileName))
	}
}

func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return records, nil
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD so the CSV
// reader never chokes on legacy encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.Bytes()
}
