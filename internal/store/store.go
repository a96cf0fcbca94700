// Package store persists the run audit trail: one row per pipeline run
// plus the per-view filtering statistics. Source data is never stored.
package store

import (
	"context"

	"github.com/wash-insights/sanireport/internal/model"
)

// Store defines the persistence interface for the run audit.
type Store interface {
	// CreateRun inserts a new running audit row and returns it with its id.
	CreateRun(ctx context.Context, indicator string) (*model.Run, error)

	// FinishRun marks a run complete or failed and records its counts.
	FinishRun(ctx context.Context, run *model.Run) error

	// SaveViewStats records the filtering decisions of one run's views.
	SaveViewStats(ctx context.Context, runID string, stats []model.ViewStat) error

	// GetRun returns one run with its view stats.
	GetRun(ctx context.Context, runID string) (*model.Run, []model.ViewStat, error)

	// ListRuns returns recent runs, most recently started first.
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
