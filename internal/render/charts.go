// Package render turns view row-sets into echarts chart objects and writes
// the assembled HTML report.
package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wash-insights/sanireport/internal/pipeline"
)

// Bar builds the top-N bar chart.
func Bar(res *pipeline.Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: res.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	countries := make([]string, 0, len(res.Rows))
	data := make([]opts.BarData, 0, len(res.Rows))
	for _, r := range res.Rows {
		countries = append(countries, r.Country)
		data = append(data, opts.BarData{
			Name:  r.Country,
			Value: r.Value,
		})
	}

	bar.SetXAxis(countries).AddSeries("Coverage (%)", data)
	return bar
}

// Choropleth builds the world map of latest values per country.
func Choropleth(res *pipeline.Result) *charts.Map {
	mp := charts.NewMap()
	mp.RegisterMapType("world")
	mp.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: res.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        100,
		}),
	)

	data := make([]opts.MapData, 0, len(res.Rows))
	for _, r := range res.Rows {
		data = append(data, opts.MapData{Name: r.Country, Value: r.Value})
	}

	mp.AddSeries("Coverage (%)", data)
	return mp
}

// Scatter builds the GDP scatter with the OLS fit overlaid as a two-point
// line across the observed GDP range.
func Scatter(res *pipeline.Result, reg *pipeline.Regression) *charts.Scatter {
	sc := charts.NewScatter()
	subtitle := ""
	if reg != nil {
		subtitle = fmt.Sprintf("OLS fit: slope %.6f, R² %.3f (n=%d)", reg.Slope, reg.R2, reg.N)
	}
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: res.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "GDP per capita (USD)", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Coverage (%)"}),
	)

	data := make([]opts.ScatterData, 0, len(res.Rows))
	minGDP, maxGDP := math.Inf(1), math.Inf(-1)
	for _, r := range res.Rows {
		data = append(data, opts.ScatterData{
			Name:  r.Country,
			Value: []interface{}{r.GDP, r.Value},
		})
		minGDP = math.Min(minGDP, r.GDP)
		maxGDP = math.Max(maxGDP, r.GDP)
	}
	sc.AddSeries("Countries", data)

	if reg != nil && maxGDP > minGDP {
		line := charts.NewLine()
		line.AddSeries("OLS fit", []opts.LineData{
			{Value: []interface{}{minGDP, reg.Intercept + reg.Slope*minGDP}},
			{Value: []interface{}{maxGDP, reg.Intercept + reg.Slope*maxGDP}},
		})
		sc.Overlap(line)
	}

	return sc
}

// Series builds the multi-country time series line chart, one series per
// country over a numeric year axis.
func Series(res *pipeline.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: res.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Year", Min: "dataMin", Max: "dataMax"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Coverage (%)"}),
	)

	byCountry := make(map[string][]pipeline.Row)
	for _, r := range res.Rows {
		byCountry[r.Country] = append(byCountry[r.Country], r)
	}

	countries := make([]string, 0, len(byCountry))
	for c := range byCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	for _, country := range countries {
		rows := byCountry[country]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
		data := make([]opts.LineData, 0, len(rows))
		for _, r := range rows {
			data = append(data, opts.LineData{Value: []interface{}{r.Year, r.Value}})
		}
		line.AddSeries(country, data)
	}

	return line
}

// Bubble builds the GDP scatter sized by population. Marker area scales
// with the square root of population so large countries don't swallow the
// chart.
func Bubble(res *pipeline.Result) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: res.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "GDP per capita (USD)", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Coverage (%)"}),
	)

	maxPop := 1.0
	for _, r := range res.Rows {
		maxPop = math.Max(maxPop, r.Population)
	}

	data := make([]opts.ScatterData, 0, len(res.Rows))
	for _, r := range res.Rows {
		size := int(6 + 34*math.Sqrt(r.Population/maxPop))
		data = append(data, opts.ScatterData{
			Name:       r.Country,
			Value:      []interface{}{r.GDP, r.Value},
			SymbolSize: size,
		})
	}
	sc.AddSeries("Countries", data)

	return sc
}
