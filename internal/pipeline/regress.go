package pipeline

import (
	"gonum.org/v1/gonum/stat"
)

// Regression holds the OLS fit of coverage against GDP per capita.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
	N         int     `json:"n"`
}

// FitRegression fits value = intercept + slope * gdp over the scatter
// view's rows. Returns nil with fewer than two points, where a line is
// undefined.
func FitRegression(rows []Row) *Regression {
	if len(rows) < 2 {
		return nil
	}

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.GDP
		ys[i] = r.Value
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)

	return &Regression{
		Slope:     slope,
		Intercept: intercept,
		R2:        r2,
		N:         len(rows),
	}
}
