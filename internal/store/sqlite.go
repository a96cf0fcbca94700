package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/wash-insights/sanireport/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	indicator      TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	indicator_rows INTEGER NOT NULL DEFAULT 0,
	filtered_rows  INTEGER NOT NULL DEFAULT 0,
	metadata_rows  INTEGER NOT NULL DEFAULT 0,
	matched_rows   INTEGER NOT NULL DEFAULT 0,
	error          TEXT NOT NULL DEFAULT '',
	started_at     DATETIME NOT NULL,
	finished_at    DATETIME
);

CREATE TABLE IF NOT EXISTS view_stats (
	run_id                TEXT NOT NULL REFERENCES runs(id),
	view                  TEXT NOT NULL,
	rows_in               INTEGER NOT NULL,
	rows_out              INTEGER NOT NULL,
	dropped_missing_value INTEGER NOT NULL,
	dropped_missing_meta  INTEGER NOT NULL,
	dropped_excluded      INTEGER NOT NULL,
	dropped_superseded    INTEGER NOT NULL,
	PRIMARY KEY (run_id, view)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, indicator string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.New().String(),
		Indicator: indicator,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, indicator, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Indicator, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run *model.Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs
		 SET status = ?, indicator_rows = ?, filtered_rows = ?, metadata_rows = ?,
		     matched_rows = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		string(run.Status), run.IndicatorRows, run.FilteredRows, run.MetadataRows,
		run.MatchedRows, run.Error, now, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", run.ID)
	}
	return checkRowsAffected(res, "run", run.ID)
}

func (s *SQLiteStore) SaveViewStats(ctx context.Context, runID string, stats []model.ViewStat) error {
	for _, st := range stats {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO view_stats
			 (run_id, view, rows_in, rows_out, dropped_missing_value,
			  dropped_missing_meta, dropped_excluded, dropped_superseded)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, st.View, st.RowsIn, st.RowsOut, st.DroppedMissingValue,
			st.DroppedMissingMeta, st.DroppedExcluded, st.DroppedSuperseded,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: save view stat %s/%s", runID, st.View)
		}
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, []model.ViewStat, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, indicator, status, indicator_rows, filtered_rows, metadata_rows,
		        matched_rows, error, started_at, finished_at
		 FROM runs WHERE id = ?`, runID,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil, eris.Errorf("sqlite: run %s not found", runID)
	}
	if err != nil {
		return nil, nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, view, rows_in, rows_out, dropped_missing_value,
		        dropped_missing_meta, dropped_excluded, dropped_superseded
		 FROM view_stats WHERE run_id = ? ORDER BY view`, runID,
	)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "sqlite: get view stats %s", runID)
	}
	defer rows.Close()

	var stats []model.ViewStat
	for rows.Next() {
		var st model.ViewStat
		if err := rows.Scan(&st.RunID, &st.View, &st.RowsIn, &st.RowsOut,
			&st.DroppedMissingValue, &st.DroppedMissingMeta,
			&st.DroppedExcluded, &st.DroppedSuperseded); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan view stat")
		}
		stats = append(stats, st)
	}
	return run, stats, eris.Wrap(rows.Err(), "sqlite: iterate view stats")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, indicator, status, indicator_rows, filtered_rows, metadata_rows,
		        matched_rows, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var run model.Run
	var status string
	var finished sql.NullTime
	err := row.Scan(&run.ID, &run.Indicator, &status, &run.IndicatorRows,
		&run.FilteredRows, &run.MetadataRows, &run.MatchedRows, &run.Error,
		&run.StartedAt, &finished)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", kind, id)
	}
	if n == 0 {
		return eris.Errorf("sqlite: %s %s not found", kind, id)
	}
	return nil
}
