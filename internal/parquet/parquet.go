// Package parquet provides data structures and functions for exporting docscope
// results and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/docscope/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single recorded analysis run with metadata.
// This struct maps to the docscope_analysis_runs table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalFilesAnalyzed int32   `parquet:"total_files_analyzed,snappy"`
	FailedFiles        int32   `parquet:"failed_files,snappy"`
	WellPct            float64 `parquet:"well_pct,snappy"`
	PartialPct         float64 `parquet:"partial_pct,snappy"`
	PoorPct            float64 `parquet:"poor_pct,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileMetricsRow is one recorded file of an analysis run.
// This struct maps to the docscope_file_metrics table.
type FileMetricsRow struct {
	AnalysisID        int64     `parquet:"analysis_id,snappy"`
	FilePath          string    `parquet:"file_path,snappy"`
	Module            string    `parquet:"module,snappy"`
	AnalysisTime      time.Time `parquet:"analysis_time,snappy"`
	DocScore          int32     `parquet:"doc_score,snappy"`
	DocTier           string    `parquet:"doc_tier,snappy"`
	Classes           int32     `parquet:"classes,snappy"`
	Functions         int32     `parquet:"functions,snappy"`
	DocumentedItems   int32     `parquet:"documented_items,snappy"`
	ComplexityDensity float64   `parquet:"complexity_density,snappy"`
	ComplexityTier    string    `parquet:"complexity_tier,snappy"`
	MagicNumbers      int32     `parquet:"magic_numbers,snappy"`
	AgeBucket         string    `parquet:"age_bucket,snappy"`
	TODOs             int32     `parquet:"todos,snappy"`
	Deprecated        int32     `parquet:"deprecated,snappy"`
	LongFunctions     int32     `parquet:"long_functions,snappy"`
	MaxNesting        int32     `parquet:"max_nesting,snappy"`
}

// FileResult is one analyzed file as written by --output parquet.
type FileResult struct {
	Rank                int32   `parquet:"rank,snappy"`
	Path                string  `parquet:"path,snappy"`
	Module              string  `parquet:"module,snappy"`
	Lines               int32   `parquet:"lines,snappy"`
	CodeLines           int32   `parquet:"code_lines,snappy"`
	Classes             int32   `parquet:"classes,snappy"`
	Functions           int32   `parquet:"functions,snappy"`
	DocumentedClasses   int32   `parquet:"documented_classes,snappy"`
	DocumentedFunctions int32   `parquet:"documented_functions,snappy"`
	DocRatio            float64 `parquet:"doc_ratio,snappy"`
	DocToCodeRatio      float64 `parquet:"doc_to_code_ratio,snappy"`
	DocScore            int32   `parquet:"quality_score,snappy"`
	DocTier             string  `parquet:"category,snappy"`
	ComplexityDensity   float64 `parquet:"complexity_density,snappy"`
	ComplexityTier      string  `parquet:"complexity,snappy"`
	MagicNumbers        int32   `parquet:"magic_numbers,snappy"`
	AgeBucket           string  `parquet:"age,snappy"`
	TODOs               int32   `parquet:"todo,snappy"`
	FIXMEs              int32   `parquet:"fixme,snappy"`
	HACKs               int32   `parquet:"hack,snappy"`
	Deprecated          int32   `parquet:"deprecated,snappy"`
	LongFunctions       int32   `parquet:"long_functions,snappy"`
	MaxNesting          int32   `parquet:"max_nesting,snappy"`
}

// WriteRows writes rows of any tagged struct type to w.
// The schema is derived from the struct tags of T.
func WriteRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes data to it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteFileMetricsParquet writes a slice of FileMetricsRow structs to a Parquet file.
func WriteFileMetricsParquet(data []FileMetricsRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:         record.AnalysisID,
			StartTime:          record.StartTime,
			EndTime:            record.EndTime,
			RunDurationMs:      record.RunDurationMs,
			TotalFilesAnalyzed: record.TotalFilesAnalyzed,
			FailedFiles:        record.FailedFiles,
			WellPct:            record.WellPct,
			PartialPct:         record.PartialPct,
			PoorPct:            record.PoorPct,
			ConfigParams:       record.ConfigParams,
		}
	}
	return result
}

// ConvertFileMetricsRecords converts schema.FileMetricsRecord to FileMetricsRow for Parquet export.
func ConvertFileMetricsRecords(records []schema.FileMetricsRecord) []FileMetricsRow {
	result := make([]FileMetricsRow, len(records))
	for i, r := range records {
		result[i] = FileMetricsRow{
			AnalysisID:        r.AnalysisID,
			FilePath:          r.FilePath,
			Module:            r.Module,
			AnalysisTime:      r.AnalysisTime,
			DocScore:          r.DocScore,
			DocTier:           r.DocTier,
			Classes:           r.Classes,
			Functions:         r.Functions,
			DocumentedItems:   r.DocumentedItems,
			ComplexityDensity: r.ComplexityDensity,
			ComplexityTier:    r.ComplexityTier,
			MagicNumbers:      r.MagicNumbers,
			AgeBucket:         r.AgeBucket,
			TODOs:             r.TODOs,
			Deprecated:        r.Deprecated,
			LongFunctions:     r.LongFunctions,
			MaxNesting:        r.MaxNesting,
		}
	}
	return result
}

// ConvertRankedFiles converts ranked files to FileResult rows.
func ConvertRankedFiles(files []schema.RankedFile) []FileResult {
	result := make([]FileResult, len(files))
	for i, f := range files {
		result[i] = FileResult{
			Rank:                int32(f.Rank),
			Path:                f.Path,
			Module:              f.Module,
			Lines:               int32(f.Lines),
			CodeLines:           int32(f.CodeLines),
			Classes:             int32(f.Classes),
			Functions:           int32(f.Functions),
			DocumentedClasses:   int32(f.DocumentedClasses),
			DocumentedFunctions: int32(f.DocumentedFunctions),
			DocRatio:            f.DocRatio,
			DocToCodeRatio:      f.DocToCodeRatio,
			DocScore:            int32(f.DocScore),
			DocTier:             string(f.DocTier),
			ComplexityDensity:   f.ComplexityDensity,
			ComplexityTier:      string(f.ComplexityTier),
			MagicNumbers:        int32(f.MagicNumbers),
			AgeBucket:           string(f.AgeBucket),
			TODOs:               int32(f.Smells.TODO),
			FIXMEs:              int32(f.Smells.FIXME),
			HACKs:               int32(f.Smells.HACK),
			Deprecated:          int32(f.Smells.Deprecated),
			LongFunctions:       int32(f.Smells.LongFunctions),
			MaxNesting:          int32(f.Smells.MaxNesting),
		}
	}
	return result
}
