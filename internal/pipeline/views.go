package pipeline

import (
	"sort"

	"github.com/wash-insights/sanireport/internal/model"
)

// TopN ranks countries by observed value across all years and keeps the
// first N. Rows with a missing value are dropped, as are rows whose value
// equals Exclude exactly (the saturated 100% rows that would flatten the
// chart's variance).
type TopN struct {
	N       int
	Exclude float64
}

func (v *TopN) Name() string      { return "top10" }
func (v *TopN) Title() string     { return "Top countries by school sanitation coverage" }
func (v *TopN) Columns() []string { return []string{"Country", "Year", "Value", "Age_Group"} }

func (v *TopN) Build(joined []model.JoinedRow) *Result {
	res := &Result{View: v.Name(), Title: v.Title(), Columns: v.Columns()}
	res.Stat = model.ViewStat{View: v.Name(), RowsIn: len(joined)}

	candidates := make([]model.JoinedRow, 0, len(joined))
	for _, row := range joined {
		if model.IsMissing(row.Value) {
			res.Stat.DroppedMissingValue++
			continue
		}
		if row.Value == v.Exclude {
			res.Stat.DroppedExcluded++
			continue
		}
		candidates = append(candidates, row)
	}

	// Value desc, Country asc on ties so equal values rank deterministically.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Value != candidates[j].Value {
			return candidates[i].Value > candidates[j].Value
		}
		return candidates[i].Country < candidates[j].Country
	})

	n := v.N
	if n <= 0 {
		n = 10
	}
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	for _, row := range candidates {
		res.Rows = append(res.Rows, Row{
			Country:    row.Country,
			Year:       row.Year,
			Value:      row.Value,
			AgeGroup:   row.AgeGroup,
			GDP:        model.Missing(),
			Population: model.Missing(),
		})
	}
	res.Stat.RowsOut = len(res.Rows)
	return res
}

// LatestMap keeps the most recent valued observation per country for the
// world choropleth.
type LatestMap struct{}

func (v *LatestMap) Name() string      { return "latest" }
func (v *LatestMap) Title() string     { return "Latest school sanitation coverage by country" }
func (v *LatestMap) Columns() []string { return []string{"Country", "Year", "Value", "Age_Group"} }

func (v *LatestMap) Build(joined []model.JoinedRow) *Result {
	res := &Result{View: v.Name(), Title: v.Title(), Columns: v.Columns()}
	res.Stat = model.ViewStat{View: v.Name(), RowsIn: len(joined)}

	for _, row := range latestPerCountry(joined) {
		if model.IsMissing(row.Value) {
			res.Stat.DroppedMissingValue++
			continue
		}
		res.Rows = append(res.Rows, Row{
			Country:    row.Country,
			Year:       row.Year,
			Value:      row.Value,
			AgeGroup:   row.AgeGroup,
			GDP:        model.Missing(),
			Population: model.Missing(),
		})
	}
	res.Stat.RowsOut = len(res.Rows)
	res.Stat.DroppedSuperseded = res.Stat.RowsIn - res.Stat.RowsOut - res.Stat.DroppedMissingValue
	return res
}

// GDPScatter pairs each country's latest value with its GDP per capita.
// Rows missing either coordinate are dropped so the regression fit sees
// complete pairs only.
type GDPScatter struct{}

func (v *GDPScatter) Name() string  { return "gdp" }
func (v *GDPScatter) Title() string { return "School sanitation coverage vs GDP per capita" }
func (v *GDPScatter) Columns() []string {
	return []string{"Country", "Year", "Value", "GDP_Per_Capita"}
}

func (v *GDPScatter) Build(joined []model.JoinedRow) *Result {
	res := &Result{View: v.Name(), Title: v.Title(), Columns: v.Columns()}
	res.Stat = model.ViewStat{View: v.Name(), RowsIn: len(joined)}

	latest := latestPerCountry(joined)
	for _, row := range latest {
		if model.IsMissing(row.Value) {
			res.Stat.DroppedMissingValue++
			continue
		}
		if row.Meta == nil || model.IsMissing(row.Meta.GDPPerCapita) {
			res.Stat.DroppedMissingMeta++
			continue
		}
		res.Rows = append(res.Rows, Row{
			Country:    row.Country,
			Year:       row.Year,
			Value:      row.Value,
			AgeGroup:   row.AgeGroup,
			GDP:        row.Meta.GDPPerCapita,
			Population: model.Missing(),
		})
	}
	res.Stat.RowsOut = len(res.Rows)
	res.Stat.DroppedSuperseded = res.Stat.RowsIn - len(latest)
	return res
}

// TimeSeries keeps every valued (country, year) observation.
type TimeSeries struct{}

func (v *TimeSeries) Name() string      { return "series" }
func (v *TimeSeries) Title() string     { return "School sanitation coverage over time" }
func (v *TimeSeries) Columns() []string { return []string{"Country", "Year", "Value", "Age_Group"} }

func (v *TimeSeries) Build(joined []model.JoinedRow) *Result {
	res := &Result{View: v.Name(), Title: v.Title(), Columns: v.Columns()}
	res.Stat = model.ViewStat{View: v.Name(), RowsIn: len(joined)}

	for _, row := range joined {
		if model.IsMissing(row.Value) {
			res.Stat.DroppedMissingValue++
			continue
		}
		res.Rows = append(res.Rows, Row{
			Country:    row.Country,
			Year:       row.Year,
			Value:      row.Value,
			AgeGroup:   row.AgeGroup,
			GDP:        model.Missing(),
			Population: model.Missing(),
		})
	}
	res.Stat.RowsOut = len(res.Rows)
	return res
}

// GDPBubble is the GDP snapshot with population-sized markers. Rows missing
// value or GDP are dropped; a missing population is floored to 1 so the
// marker still renders at minimum size.
type GDPBubble struct{}

func (v *GDPBubble) Name() string  { return "bubble" }
func (v *GDPBubble) Title() string { return "Coverage vs GDP per capita, sized by population" }
func (v *GDPBubble) Columns() []string {
	return []string{"Country", "Year", "Value", "GDP_Per_Capita", "Population"}
}

func (v *GDPBubble) Build(joined []model.JoinedRow) *Result {
	res := &Result{View: v.Name(), Title: v.Title(), Columns: v.Columns()}
	res.Stat = model.ViewStat{View: v.Name(), RowsIn: len(joined)}

	latest := latestPerCountry(joined)
	for _, row := range latest {
		if model.IsMissing(row.Value) {
			res.Stat.DroppedMissingValue++
			continue
		}
		if row.Meta == nil || model.IsMissing(row.Meta.GDPPerCapita) {
			res.Stat.DroppedMissingMeta++
			continue
		}
		population := row.Meta.Population
		if model.IsMissing(population) {
			population = 1
		}
		res.Rows = append(res.Rows, Row{
			Country:    row.Country,
			Year:       row.Year,
			Value:      row.Value,
			AgeGroup:   row.AgeGroup,
			GDP:        row.Meta.GDPPerCapita,
			Population: population,
		})
	}
	res.Stat.RowsOut = len(res.Rows)
	res.Stat.DroppedSuperseded = res.Stat.RowsIn - len(latest)
	return res
}
