package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wash-insights/sanireport/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestCreateAndFinishRun(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	run, err := st.CreateRun(ctx, "Proportion of schools with basic sanitation services")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	run.Status = model.RunStatusComplete
	run.IndicatorRows = 100
	run.FilteredRows = 40
	run.MetadataRows = 50
	run.MatchedRows = 38
	require.NoError(t, st.FinishRun(ctx, run))

	got, stats, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 40, got.FilteredRows)
	assert.Equal(t, 38, got.MatchedRows)
	assert.NotNil(t, got.FinishedAt)
	assert.Empty(t, stats)
}

func TestFinishRun_NotFound(t *testing.T) {
	st := newTestStore(t)
	err := st.FinishRun(context.Background(), &model.Run{ID: "missing", Status: model.RunStatusFailed})
	assert.Error(t, err)
}

func TestSaveAndGetViewStats(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	run, err := st.CreateRun(ctx, "indicator")
	require.NoError(t, err)

	stats := []model.ViewStat{
		{View: "top10", RowsIn: 40, RowsOut: 10, DroppedMissingValue: 3, DroppedExcluded: 2},
		{View: "latest", RowsIn: 40, RowsOut: 20, DroppedSuperseded: 18, DroppedMissingValue: 2},
	}
	require.NoError(t, st.SaveViewStats(ctx, run.ID, stats))

	_, got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by view name.
	assert.Equal(t, "latest", got[0].View)
	assert.Equal(t, 18, got[0].DroppedSuperseded)
	assert.Equal(t, "top10", got[1].View)
	assert.Equal(t, 2, got[1].DroppedExcluded)
}

func TestListRuns_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	first, err := st.CreateRun(ctx, "indicator")
	require.NoError(t, err)
	second, err := st.CreateRun(ctx, "indicator")
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
	assert.False(t, runs[0].StartedAt.Before(runs[1].StartedAt))
}

func TestGetRun_NotFound(t *testing.T) {
	st := newTestStore(t)
	_, _, err := st.GetRun(context.Background(), "missing")
	assert.Error(t, err)
}
