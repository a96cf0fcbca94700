// Package source loads the two tabular inputs (indicator and metadata)
// from CSV or XLSX files into typed records.
package source

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadStats summarizes what a loader kept, fixed, and dropped.
type LoadStats struct {
	Rows        int `json:"rows"`         // rows returned
	BadCells    int `json:"bad_cells"`    // numeric cells that failed to parse (kept as missing)
	SkippedRows int `json:"skipped_rows"` // rows unusable even as partial records
}

// readTable reads a whole CSV or XLSX file, returning the header row and the
// data rows. The format is chosen by file extension.
func readTable(path string) ([]string, [][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "source: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err != nil {
		return nil, nil, eris.Wrapf(err, "source: read header of %s", path)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrapf(err, "source: read %s", path)
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "source: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.Errorf("source: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			cells = append(cells, c.String())
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}

	return header, rows, nil
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name from a record, returning empty string if not found.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[strings.ToLower(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// requireColumns returns an error naming the first required column absent
// from the header.
func requireColumns(colIdx map[string]int, path string, names ...string) error {
	for _, name := range names {
		if _, ok := colIdx[strings.ToLower(name)]; !ok {
			return eris.Errorf("source: %s is missing required column %q", path, name)
		}
	}
	return nil
}

// parseYear parses a year cell. Cells like "2020-06" keep their leading
// four-digit year.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	if len(s) >= 4 {
		if y, err := strconv.Atoi(s[:4]); err == nil {
			return y, true
		}
	}
	return 0, false
}
