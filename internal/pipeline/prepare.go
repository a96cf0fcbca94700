// Package pipeline prepares the joined analytical table and derives the
// per-chart view row-sets from it.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/countryname"
	"github.com/wash-insights/sanireport/internal/model"
)

// FilterIndicator keeps rows whose indicator exactly matches name and
// renames them to the canonical observation schema. Zero matches is a valid
// (empty) result, not an error; the caller sees the count in the run audit.
func FilterIndicator(rows []model.IndicatorRow, name string) []model.Observation {
	obs := make([]model.Observation, 0, len(rows))
	for _, r := range rows {
		if r.Indicator != name {
			continue
		}
		obs = append(obs, model.Observation{
			Country:  r.Country,
			Year:     r.Year,
			Value:    r.Value,
			AgeGroup: r.AgeGroup,
		})
	}
	if len(obs) == 0 {
		zap.L().Warn("no rows matched indicator; all views will be empty",
			zap.String("indicator", name),
		)
	}
	return obs
}

// Join left-joins observations with country metadata on the normalized
// country name. Output cardinality equals len(obs) exactly; rows whose
// country matches no metadata keep a nil Meta. When several metadata rows
// normalize to the same key the last one wins, matching the original's
// name-only join that discards year resolution on the metadata side.
func Join(obs []model.Observation, metas []model.CountryMeta, n countryname.Normalizer) ([]model.JoinedRow, int) {
	index := make(map[string]*model.CountryMeta, len(metas))
	for i := range metas {
		index[n.Normalize(metas[i].Country)] = &metas[i]
	}

	joined := make([]model.JoinedRow, 0, len(obs))
	matched := 0
	for _, o := range obs {
		row := model.JoinedRow{Observation: o}
		if meta, ok := index[n.Normalize(o.Country)]; ok {
			row.Meta = meta
			matched++
		}
		joined = append(joined, row)
	}

	if unmatched := len(joined) - matched; unmatched > 0 {
		zap.L().Warn("observations without matching country metadata",
			zap.Int("unmatched", unmatched),
			zap.Int("total", len(joined)),
		)
	}
	return joined, matched
}
