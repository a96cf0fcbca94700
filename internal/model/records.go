// Package model defines the record types flowing through the report pipeline.
package model

import "math"

// IndicatorRow is one raw row from the indicator source before filtering.
type IndicatorRow struct {
	Country   string  `json:"country"`
	Indicator string  `json:"indicator"`
	Year      int     `json:"time_period"`
	Value     float64 `json:"obs_value"` // NaN when the cell was empty or unparsable
	AgeGroup  string  `json:"current_age"`
}

// Observation is one canonical indicator row after filter and rename.
// It always carries exactly these four fields.
type Observation struct {
	Country  string  `json:"country"`
	Year     int     `json:"year"`
	Value    float64 `json:"value"`
	AgeGroup string  `json:"age_group"`
}

// CountryMeta holds the per-country socio-economic attributes from the
// metadata source. Numeric fields are NaN when missing.
type CountryMeta struct {
	Country        string  `json:"country"`
	Population     float64 `json:"population_total"`
	GDPPerCapita   float64 `json:"gdp_per_capita"`
	GNI            float64 `json:"gni"`
	LifeExpectancy float64 `json:"life_expectancy"`
	Inflation      float64 `json:"inflation"`
}

// JoinedRow is one observation left-joined with its country metadata.
// Meta is nil when the country name matched no metadata row.
type JoinedRow struct {
	Observation
	Meta *CountryMeta `json:"meta,omitempty"`
}

// Missing returns the sentinel used for absent numeric cells.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a numeric cell was absent or unparsable.
func IsMissing(v float64) bool { return math.IsNaN(v) }
