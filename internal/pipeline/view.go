package pipeline

import (
	"sort"

	"github.com/wash-insights/sanireport/internal/model"
)

// Row is one output row of a view. Fields a view does not populate are
// zero (strings, years) or missing (numbers).
type Row struct {
	Country    string  `json:"country"`
	Year       int     `json:"year,omitempty"`
	Value      float64 `json:"value"`
	AgeGroup   string  `json:"age_group,omitempty"`
	GDP        float64 `json:"gdp_per_capita,omitempty"`
	Population float64 `json:"population,omitempty"`
}

// Result is the output of one view: its rows plus the filtering audit.
type Result struct {
	View    string         `json:"view"`
	Title   string         `json:"title"`
	Columns []string       `json:"columns"`
	Rows    []Row          `json:"rows"`
	Stat    model.ViewStat `json:"stat"`
}

// View derives one chart-ready row-set from the joined table. Build must
// guarantee no missing values in the columns it declares.
type View interface {
	// Name returns the unique identifier for this view (e.g., "top10").
	Name() string

	// Title returns the chart title.
	Title() string

	// Columns returns the ordered output columns for export.
	Columns() []string

	// Build derives the view's rows and records every drop it makes.
	Build(joined []model.JoinedRow) *Result
}

// Registry returns all views in report order.
func Registry(topN int) []View {
	return []View{
		&TopN{N: topN, Exclude: 100},
		&LatestMap{},
		&GDPScatter{},
		&TimeSeries{},
		&GDPBubble{},
	}
}

// latestPerCountry keeps the most recent observation per country. Sort
// order is Country asc, Year desc, AgeGroup asc, so a tie on the most
// recent year resolves to the alphabetically first age group rather than
// incidental input order.
func latestPerCountry(joined []model.JoinedRow) []model.JoinedRow {
	sorted := make([]model.JoinedRow, len(joined))
	copy(sorted, joined)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Country != sorted[j].Country {
			return sorted[i].Country < sorted[j].Country
		}
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].AgeGroup < sorted[j].AgeGroup
	})

	out := sorted[:0]
	seen := ""
	first := true
	for _, row := range sorted {
		if !first && row.Country == seen {
			continue
		}
		out = append(out, row)
		seen = row.Country
		first = false
	}
	return out
}
