package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/model"
	"github.com/wash-insights/sanireport/internal/pipeline"
	"github.com/wash-insights/sanireport/internal/render"
)

var (
	renderIndicatorPath string
	renderMetadataPath  string
	renderIndicator     string
	renderOutDir        string
	renderNoStore       bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run the pipeline and render the five charts plus insight notes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		indicatorPath := firstNonEmpty(renderIndicatorPath, cfg.Data.IndicatorPath)
		metadataPath := firstNonEmpty(renderMetadataPath, cfg.Data.MetadataPath)
		indicator := firstNonEmpty(renderIndicator, cfg.Data.Indicator)
		outDir := firstNonEmpty(renderOutDir, cfg.Report.OutputDir)

		if renderNoStore {
			_, err := runReport(ctx, indicatorPath, metadataPath, indicator, outDir, &model.Run{Indicator: indicator})
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return recordRun(ctx, st, indicator, func(run *model.Run) (*pipeline.Outcome, error) {
			return runReport(ctx, indicatorPath, metadataPath, indicator, outDir, run)
		})
	},
}

// runReport loads the sources, runs the pipeline, and writes the charts and
// insight notes. It fills run's counts as it goes.
func runReport(ctx context.Context, indicatorPath, metadataPath, indicator, outDir string, run *model.Run) (*pipeline.Outcome, error) {
	src, err := loadSources(ctx, indicatorPath, metadataPath)
	if err != nil {
		return nil, err
	}
	run.IndicatorRows = len(src.Indicator)
	run.MetadataRows = len(src.Metadata)

	normalizer, err := newNormalizer()
	if err != nil {
		return nil, err
	}

	p := pipeline.New(indicator, normalizer, cfg.Report.TopN)
	out := p.Run(src.Indicator, src.Metadata)
	run.FilteredRows = out.Filtered
	run.MatchedRows = out.Matched

	if err := render.WriteReport(outDir, out); err != nil {
		return nil, err
	}

	insightsPath := filepath.Join(outDir, "insights.md")
	if err := os.WriteFile(insightsPath, []byte(pipeline.FormatInsights(*run, out)), 0o644); err != nil {
		return nil, eris.Wrapf(err, "render: write %s", insightsPath)
	}

	zap.L().Info("report complete",
		zap.String("out_dir", outDir),
		zap.Int("observations", out.Filtered),
		zap.Int("matched", out.Matched),
	)
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	renderCmd.Flags().StringVar(&renderIndicatorPath, "indicator-file", "", "path to the indicator CSV/XLSX (default from config)")
	renderCmd.Flags().StringVar(&renderMetadataPath, "metadata-file", "", "path to the metadata CSV/XLSX (default from config)")
	renderCmd.Flags().StringVar(&renderIndicator, "indicator", "", "indicator name to filter on (default from config)")
	renderCmd.Flags().StringVar(&renderOutDir, "out", "", "output directory (default from config)")
	renderCmd.Flags().BoolVar(&renderNoStore, "no-store", false, "skip recording the run audit")
	rootCmd.AddCommand(renderCmd)
}
