package schema

import "time"

// AnalysisRunRecord represents a row from the docscope_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID         int64
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	TotalFilesAnalyzed int32
	FailedFiles        int32
	WellPct            float64
	PartialPct         float64
	PoorPct            float64
	ConfigParams       *string
}

// FileMetricsRecord represents a row from the docscope_file_metrics table.
type FileMetricsRecord struct {
	AnalysisID        int64
	FilePath          string
	Module            string
	AnalysisTime      time.Time
	DocScore          int32
	DocTier           string
	Classes           int32
	Functions         int32
	DocumentedItems   int32
	ComplexityDensity float64
	ComplexityTier    string
	MagicNumbers      int32
	AgeBucket         string
	TODOs             int32
	Deprecated        int32
	LongFunctions     int32
	MaxNesting        int32
}

// NewFileMetricsRecord flattens a FileMetrics for storage.
func NewFileMetricsRecord(id int64, at time.Time, m FileMetrics) FileMetricsRecord {
	return FileMetricsRecord{
		AnalysisID:        id,
		FilePath:          m.Path,
		Module:            m.Module,
		AnalysisTime:      at,
		DocScore:          int32(m.DocScore),
		DocTier:           string(m.DocTier),
		Classes:           int32(m.Classes),
		Functions:         int32(m.Functions),
		DocumentedItems:   int32(m.DocumentedItems()),
		ComplexityDensity: m.ComplexityDensity,
		ComplexityTier:    string(m.ComplexityTier),
		MagicNumbers:      int32(m.MagicNumbers),
		AgeBucket:         string(m.AgeBucket),
		TODOs:             int32(m.Smells.TODO),
		Deprecated:        int32(m.Smells.Deprecated),
		LongFunctions:     int32(m.Smells.LongFunctions),
		MaxNesting:        int32(m.Smells.MaxNesting),
	}
}

// RunSummary is what EndAnalysis persists about a finished run.
type RunSummary struct {
	TotalFiles  int
	FailedFiles int
	WellPct     float64
	PartialPct  float64
	PoorPct     float64
}

// ModuleDelta is the change of one module between two recorded runs.
type ModuleDelta struct {
	Module          string  `json:"module" yaml:"module"`
	Status          string  `json:"status" yaml:"status"`
	BaseFiles       int     `json:"base_files" yaml:"base_files"`
	TargetFiles     int     `json:"target_files" yaml:"target_files"`
	BaseMeanScore   float64 `json:"base_mean_score" yaml:"base_mean_score"`
	TargetMeanScore float64 `json:"target_mean_score" yaml:"target_mean_score"`
	DeltaScore      float64 `json:"delta_score" yaml:"delta_score"`
	BasePoorPct     float64 `json:"base_poor_pct" yaml:"base_poor_pct"`
	TargetPoorPct   float64 `json:"target_poor_pct" yaml:"target_poor_pct"`
}

// Module delta status values.
const (
	DeltaNew      = "new"
	DeltaInactive = "inactive"
	DeltaActive   = "active"
)

// RunComparison holds module deltas between two recorded runs.
type RunComparison struct {
	BaseRunID   int64         `json:"base_run_id" yaml:"base_run_id"`
	TargetRunID int64         `json:"target_run_id" yaml:"target_run_id"`
	Deltas      []ModuleDelta `json:"deltas" yaml:"deltas"`
	NetScore    float64       `json:"net_score_delta" yaml:"net_score_delta"`
}
