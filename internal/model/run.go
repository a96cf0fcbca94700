package model

import "time"

// RunStatus represents the current state of a report run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the audit record of one full pipeline execution.
type Run struct {
	ID            string     `json:"id"`
	Indicator     string     `json:"indicator"`
	Status        RunStatus  `json:"status"`
	IndicatorRows int        `json:"indicator_rows"` // raw rows loaded from the indicator source
	FilteredRows  int        `json:"filtered_rows"`  // rows matching the indicator name
	MetadataRows  int        `json:"metadata_rows"`  // raw rows loaded from the metadata source
	MatchedRows   int        `json:"matched_rows"`   // joined rows with non-nil metadata
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// ViewStat records the filtering decisions one view made during a run.
// RowsIn - RowsOut always equals the sum of the drop counters.
type ViewStat struct {
	RunID               string `json:"run_id,omitempty"`
	View                string `json:"view"`
	RowsIn              int    `json:"rows_in"`
	RowsOut             int    `json:"rows_out"`
	DroppedMissingValue int    `json:"dropped_missing_value"`
	DroppedMissingMeta  int    `json:"dropped_missing_meta"`
	DroppedExcluded     int    `json:"dropped_excluded"`   // e.g. the Value == 100 exclusion
	DroppedSuperseded   int    `json:"dropped_superseded"` // earlier years folded by latest-per-country
}

// Dropped returns the total number of rows this view discarded.
func (s ViewStat) Dropped() int {
	return s.DroppedMissingValue + s.DroppedMissingMeta + s.DroppedExcluded + s.DroppedSuperseded
}
