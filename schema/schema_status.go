package schema

import "time"

// AnalysisStatus represents the status of the history store.
type AnalysisStatus struct {
	Backend            string           `json:"backend" yaml:"backend"`
	Connected          bool             `json:"connected" yaml:"connected"`
	TotalRuns          int              `json:"total_runs" yaml:"total_runs"`
	LastRunID          int64            `json:"last_run_id" yaml:"last_run_id"`
	LastRunTime        time.Time        `json:"last_run_time" yaml:"last_run_time"`
	OldestRunTime      time.Time        `json:"oldest_run_time" yaml:"oldest_run_time"`
	TotalFilesAnalyzed int              `json:"total_files_analyzed" yaml:"total_files_analyzed"`
	TableSizes         map[string]int64 `json:"table_sizes" yaml:"table_sizes"`
}
