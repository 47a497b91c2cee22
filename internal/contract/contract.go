// Package contract provides interfaces and shared utilities for docscope's internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/docscope/schema"
)

// StoreManager defines the interface for managing the history store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetAnalysisStore() AnalysisStore
}

// AnalysisStore defines the interface for recording analysis runs and their per-file metrics.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordFileMetrics stores the flattened metrics of many files in one transaction
	RecordFileMetrics(analysisID int64, records []schema.FileMetricsRecord) error

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, summary schema.RunSummary) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllFileMetrics returns every recorded file row
	GetAllFileMetrics() ([]schema.FileMetricsRecord, error)

	// GetFileMetricsForRun returns the file rows of one run
	GetFileMetricsForRun(analysisID int64) ([]schema.FileMetricsRecord, error)

	// Close closes the underlying connection
	Close() error
}

// ProgressReporter receives per-file progress from the analysis pipeline.
// Implementations must be safe for concurrent use.
type ProgressReporter interface {
	Start(total int)
	Advance(path string)
	Finish()
}

// NopProgress discards all progress events.
type NopProgress struct{}

// Start implements ProgressReporter.
func (NopProgress) Start(int) {}

// Advance implements ProgressReporter.
func (NopProgress) Advance(string) {}

// Finish implements ProgressReporter.
func (NopProgress) Finish() {}
