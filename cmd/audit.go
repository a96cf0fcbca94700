package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/wash-insights/sanireport/internal/model"
	"github.com/wash-insights/sanireport/internal/pipeline"
	"github.com/wash-insights/sanireport/internal/store"
)

// recordRun executes fn inside a run audit: it creates the run row, lets fn
// fill the run's counts as it executes the pipeline, then persists the
// final status and the per-view filtering statistics. A run whose fn fails
// is finished as failed with the error message recorded.
func recordRun(ctx context.Context, st store.Store, indicator string, fn func(run *model.Run) (*pipeline.Outcome, error)) error {
	run, err := st.CreateRun(ctx, indicator)
	if err != nil {
		return err
	}
	defer func() {
		if run.Status == model.RunStatusRunning {
			run.Status = model.RunStatusFailed
		}
		if err := st.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			zap.L().Error("finish run", zap.Error(err))
		}
	}()

	out, err := fn(run)
	if err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		return err
	}

	stats := make([]model.ViewStat, 0, len(out.Results))
	for _, res := range out.Results {
		stats = append(stats, res.Stat)
	}
	if err := st.SaveViewStats(ctx, run.ID, stats); err != nil {
		return err
	}
	run.Status = model.RunStatusComplete
	return nil
}
