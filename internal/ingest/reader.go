// Package ingest reads an OEWS source spreadsheet and runs the full
// normalization, scoring, deduplication, and load pipeline over it.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Rows is the raw contents of one source file: the header row plus every
// data row, cells as untyped strings in column order.
type Rows struct {
	Header []string
	Data   [][]string
}

// ReadSource loads a source file by extension. BLS publishes the official
// workbooks as .xlsx; .csv covers derived exports and test fixtures.
func ReadSource(path string) (Rows, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return readWorkbook(path)
	case ".csv":
		return readCSV(path)
	default:
		return Rows{}, fmt.Errorf("unsupported source format %q (want .xlsx or .csv)", ext)
	}
}

func readWorkbook(path string) (Rows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Rows{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Rows{}, fmt.Errorf("workbook %s has no sheets", path)
	}
	// The official OEWS workbooks carry the data on the first sheet.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Rows{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return splitHeader(path, rows)
}

func readCSV(path string) (Rows, error) {
	f, err := os.Open(path)
	if err != nil {
		return Rows{}, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return Rows{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	return splitHeader(path, rows)
}

func splitHeader(path string, rows [][]string) (Rows, error) {
	if len(rows) == 0 {
		return Rows{}, fmt.Errorf("source %s is empty", path)
	}
	return Rows{Header: rows[0], Data: rows[1:]}, nil
}

// CellMap pairs one data row with the header, skipping cells past the
// header width (trailing garbage columns appear in some exports).
func (r Rows) CellMap(row []string) map[string]string {
	cells := make(map[string]string, len(r.Header))
	for i, h := range r.Header {
		if i >= len(row) {
			break
		}
		cells[strings.TrimSpace(h)] = row[i]
	}
	return cells
}
