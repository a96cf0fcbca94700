package pipeline

import (
	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/countryname"
	"github.com/wash-insights/sanireport/internal/model"
)

// Pipeline runs the full preparation: filter, rename, join, and the view
// recipes. It holds no state between runs; Run on unchanged inputs yields
// identical outcomes.
type Pipeline struct {
	Indicator  string
	Normalizer countryname.Normalizer
	Views      []View
}

// New builds a pipeline with the default view registry.
func New(indicator string, n countryname.Normalizer, topN int) *Pipeline {
	if n == nil {
		n = countryname.Default()
	}
	return &Pipeline{
		Indicator:  indicator,
		Normalizer: n,
		Views:      Registry(topN),
	}
}

// Outcome is everything one run produced.
type Outcome struct {
	Joined     []model.JoinedRow
	Matched    int
	Filtered   int
	Results    []*Result
	Regression *Regression
}

// Run prepares the joined table and builds every registered view.
func (p *Pipeline) Run(indicatorRows []model.IndicatorRow, metaRows []model.CountryMeta) *Outcome {
	log := zap.L().With(zap.String("indicator", p.Indicator))

	obs := FilterIndicator(indicatorRows, p.Indicator)
	log.Info("filtered indicator rows",
		zap.Int("in", len(indicatorRows)),
		zap.Int("kept", len(obs)),
	)

	joined, matched := Join(obs, metaRows, p.Normalizer)

	out := &Outcome{
		Joined:   joined,
		Matched:  matched,
		Filtered: len(obs),
	}

	for _, view := range p.Views {
		res := view.Build(joined)
		out.Results = append(out.Results, res)
		log.Info("built view",
			zap.String("view", res.View),
			zap.Int("rows_in", res.Stat.RowsIn),
			zap.Int("rows_out", res.Stat.RowsOut),
			zap.Int("dropped", res.Stat.Dropped()),
		)

		if res.View == "gdp" {
			out.Regression = FitRegression(res.Rows)
		}
	}

	return out
}

// ResultByView returns the named view's result, or nil.
func (o *Outcome) ResultByView(name string) *Result {
	for _, r := range o.Results {
		if r.View == name {
			return r
		}
	}
	return nil
}
