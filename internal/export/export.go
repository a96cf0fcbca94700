// Package export writes view row-sets to CSV files and XLSX workbooks.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/wash-insights/sanireport/internal/pipeline"
)

// WriteCSV writes one view's rows as <dir>/<view>.csv with the view's
// declared column order.
func WriteCSV(dir string, res *pipeline.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	path := filepath.Join(dir, res.View+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(res.Columns); err != nil {
		return "", eris.Wrapf(err, "export: write header of %s", path)
	}
	for _, row := range res.Rows {
		record := make([]string, 0, len(res.Columns))
		for _, col := range res.Columns {
			record = append(record, cellString(row, col))
		}
		if err := w.Write(record); err != nil {
			return "", eris.Wrapf(err, "export: write row of %s", path)
		}
	}

	return path, nil
}

// WriteWorkbook writes every view as one sheet of a single XLSX workbook.
func WriteWorkbook(path string, results []*pipeline.Result) error {
	file := xlsx.NewFile()

	for _, res := range results {
		sheet, err := file.AddSheet(res.View)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", res.View)
		}

		header := sheet.AddRow()
		for _, col := range res.Columns {
			header.AddCell().Value = col
		}

		for _, row := range res.Rows {
			out := sheet.AddRow()
			for _, col := range res.Columns {
				cell := out.AddCell()
				switch col {
				case "Country", "Age_Group":
					cell.Value = cellString(row, col)
				case "Year":
					cell.SetInt(row.Year)
				case "Value":
					cell.SetFloat(row.Value)
				case "GDP_Per_Capita":
					cell.SetFloat(row.GDP)
				case "Population":
					cell.SetFloat(row.Population)
				}
			}
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

// cellString formats one column of a row for CSV output.
func cellString(row pipeline.Row, col string) string {
	switch col {
	case "Country":
		return row.Country
	case "Year":
		return strconv.Itoa(row.Year)
	case "Value":
		return strconv.FormatFloat(row.Value, 'f', -1, 64)
	case "Age_Group":
		return row.AgeGroup
	case "GDP_Per_Capita":
		return strconv.FormatFloat(row.GDP, 'f', -1, 64)
	case "Population":
		return strconv.FormatFloat(row.Population, 'f', -1, 64)
	default:
		return ""
	}
}
