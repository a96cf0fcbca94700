package main

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/export"
	"github.com/wash-insights/sanireport/internal/model"
	"github.com/wash-insights/sanireport/internal/pipeline"
)

var (
	exportIndicatorPath string
	exportMetadataPath  string
	exportIndicator     string
	exportView          string
	exportDir           string
	exportXLSX          bool
	exportNoCSV         bool
	exportNoStore       bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the pipeline and export view row-sets as CSV and XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		indicatorPath := firstNonEmpty(exportIndicatorPath, cfg.Data.IndicatorPath)
		metadataPath := firstNonEmpty(exportMetadataPath, cfg.Data.MetadataPath)
		indicator := firstNonEmpty(exportIndicator, cfg.Data.Indicator)
		dir := firstNonEmpty(exportDir, cfg.Report.OutputDir)

		if exportNoStore {
			_, err := runExport(ctx, indicatorPath, metadataPath, indicator, dir, &model.Run{Indicator: indicator})
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return recordRun(ctx, st, indicator, func(run *model.Run) (*pipeline.Outcome, error) {
			return runExport(ctx, indicatorPath, metadataPath, indicator, dir, run)
		})
	},
}

// runExport loads the sources, runs the pipeline, and writes the selected
// views as CSV files and optionally an XLSX workbook. It fills run's counts
// as it goes.
func runExport(ctx context.Context, indicatorPath, metadataPath, indicator, dir string, run *model.Run) (*pipeline.Outcome, error) {
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

	var selected []*pipeline.Result
	if exportView == "all" || exportView == "" {
		selected = out.Results
	} else {
		res := out.ResultByView(exportView)
		if res == nil {
			return nil, eris.Errorf("export: unknown view %q", exportView)
		}
		selected = []*pipeline.Result{res}
	}

	if !exportNoCSV {
		for _, res := range selected {
			path, err := export.WriteCSV(dir, res)
			if err != nil {
				return nil, err
			}
			zap.L().Info("exported view", zap.String("view", res.View), zap.String("path", path))
		}
	}

	if exportXLSX {
		path := filepath.Join(dir, "views.xlsx")
		if err := export.WriteWorkbook(path, selected); err != nil {
			return nil, err
		}
		zap.L().Info("exported workbook", zap.String("path", path))
	}

	return out, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportIndicatorPath, "indicator-file", "", "path to the indicator CSV/XLSX (default from config)")
	exportCmd.Flags().StringVar(&exportMetadataPath, "metadata-file", "", "path to the metadata CSV/XLSX (default from config)")
	exportCmd.Flags().StringVar(&exportIndicator, "indicator", "", "indicator name to filter on (default from config)")
	exportCmd.Flags().StringVar(&exportView, "view", "all", "view to export (all, top10, latest, gdp, series, bubble)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "also write a single XLSX workbook")
	exportCmd.Flags().BoolVar(&exportNoCSV, "no-csv", false, "skip per-view CSV files")
	exportCmd.Flags().BoolVar(&exportNoStore, "no-store", false, "skip recording the run audit")
	rootCmd.AddCommand(exportCmd)
}
