package source

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/model"
)

// LoadIndicator reads the indicator source file into raw indicator rows.
// Rows without a country or a parsable year are skipped and counted;
// unparsable observation values are kept as missing and counted.
func LoadIndicator(path string) ([]model.IndicatorRow, LoadStats, error) {
	var stats LoadStats

	header, records, err := readTable(path)
	if err != nil {
		return nil, stats, err
	}

	colIdx := mapColumns(header)
	if err := requireColumns(colIdx, path, "country", "indicator", "time_period", "obs_value", "current_age"); err != nil {
		return nil, stats, err
	}

	rows := make([]model.IndicatorRow, 0, len(records))
	for _, record := range records {
		country := strings.TrimSpace(getCol(record, colIdx, "country"))
		year, yearOK := parseYear(getCol(record, colIdx, "time_period"))
		if country == "" || !yearOK {
			stats.SkippedRows++
			continue
		}

		value, bad := parseValue(getCol(record, colIdx, "obs_value"))
		if bad {
			stats.BadCells++
		}

		rows = append(rows, model.IndicatorRow{
			Country:   country,
			Indicator: strings.TrimSpace(getCol(record, colIdx, "indicator")),
			Year:      year,
			Value:     value,
			AgeGroup:  strings.TrimSpace(getCol(record, colIdx, "current_age")),
		})
	}
	stats.Rows = len(rows)

	zap.L().Info("loaded indicator source",
		zap.String("path", path),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped_rows", stats.SkippedRows),
		zap.Int("bad_cells", stats.BadCells),
	)
	return rows, stats, nil
}

// parseValue parses a numeric cell. An empty cell is missing but not bad;
// a non-empty unparsable cell is missing and bad.
func parseValue(s string) (v float64, bad bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Missing(), false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Missing(), true
	}
	return f, false
}
