package main

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/wash-insights/sanireport/internal/countryname"
	"github.com/wash-insights/sanireport/internal/model"
	"github.com/wash-insights/sanireport/internal/source"
	"github.com/wash-insights/sanireport/internal/store"
)

// sources holds both loaded inputs and their load statistics.
type sources struct {
	Indicator      []model.IndicatorRow
	IndicatorStats source.LoadStats
	Metadata       []model.CountryMeta
	MetadataStats  source.LoadStats
}

// loadSources reads the two input files concurrently. The pipeline itself
// stays synchronous; only file loading overlaps.
func loadSources(ctx context.Context, indicatorPath, metadataPath string) (*sources, error) {
	var src sources

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, stats, err := source.LoadIndicator(indicatorPath)
		src.Indicator, src.IndicatorStats = rows, stats
		return err
	})
	g.Go(func() error {
		rows, stats, err := source.LoadMetadata(metadataPath)
		src.Metadata, src.MetadataStats = rows, stats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

// newNormalizer builds the country-name normalizer named by data.normalizer.
// The alias normalizer layers the configured alias file over the builtin
// table when one is set.
func newNormalizer() (countryname.Normalizer, error) {
	switch cfg.Data.Normalizer {
	case "", "alias":
		if cfg.Data.AliasPath == "" {
			return countryname.Default(), nil
		}
		return countryname.LoadAliases(cfg.Data.AliasPath)
	case "fold":
		return countryname.Folder{}, nil
	case "exact":
		return countryname.Exact{}, nil
	default:
		return nil, eris.Errorf("config: unknown normalizer %q", cfg.Data.Normalizer)
	}
}

// initStore opens and migrates the run audit store.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
