package source

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/model"
)

// metaNumericColumns maps metadata source columns to their record fields.
// A column absent from the header leaves every record's field missing.
var metaNumericColumns = []string{
	"population_total",
	"gdp_per_capita",
	"gni",
	"life_expectancy",
	"inflation",
}

// LoadMetadata reads the country metadata source file. Only the country
// column is required; absent numeric columns are logged and left missing.
func LoadMetadata(path string) ([]model.CountryMeta, LoadStats, error) {
	var stats LoadStats

	header, records, err := readTable(path)
	if err != nil {
		return nil, stats, err
	}

	colIdx := mapColumns(header)
	if err := requireColumns(colIdx, path, "country"); err != nil {
		return nil, stats, err
	}
	for _, name := range metaNumericColumns {
		if _, ok := colIdx[name]; !ok {
			zap.L().Warn("metadata source missing column; values will be missing",
				zap.String("path", path),
				zap.String("column", name),
			)
		}
	}

	rows := make([]model.CountryMeta, 0, len(records))
	for _, record := range records {
		country := strings.TrimSpace(getCol(record, colIdx, "country"))
		if country == "" {
			stats.SkippedRows++
			continue
		}

		meta := model.CountryMeta{Country: country}
		for _, field := range []struct {
			col string
			dst *float64
		}{
			{"population_total", &meta.Population},
			{"gdp_per_capita", &meta.GDPPerCapita},
			{"gni", &meta.GNI},
			{"life_expectancy", &meta.LifeExpectancy},
			{"inflation", &meta.Inflation},
		} {
			v, bad := parseValue(getCol(record, colIdx, field.col))
			if bad {
				stats.BadCells++
			}
			*field.dst = v
		}

		rows = append(rows, meta)
	}
	stats.Rows = len(rows)

	zap.L().Info("loaded metadata source",
		zap.String("path", path),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped_rows", stats.SkippedRows),
		zap.Int("bad_cells", stats.BadCells),
	)
	return rows, stats, nil
}
