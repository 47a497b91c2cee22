package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/docscope/core/agg"
	"github.com/huangsam/docscope/core/loader"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	"golang.org/x/sync/errgroup"
)

// fileSlot is the outcome of one file. Each task writes only its own slot.
type fileSlot struct {
	metrics *schema.FileMetrics
	warning *schema.AnalysisFailure
	failure *schema.AnalysisFailure
}

// Analyze enumerates the roots of cfg, analyzes every file on a bounded worker
// pool and aggregates the results. Per-file problems are recorded in the
// diagnostics; cancellation of ctx returns the context error and no result.
func Analyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) (*schema.AnalysisResult, error) {
	if progress == nil {
		progress = contract.NopProgress{}
	}
	start := time.Now()

	// --- 1. Enumeration ---
	refs, walkWarnings, err := loader.EnumerateWithWarnings(ctx, cfg.Roots, cfg.Load)
	if err != nil {
		return nil, err
	}

	// --- 2. Per-file analysis ---
	slots, err := analyzeRefs(ctx, cfg, refs, progress)
	if err != nil {
		return nil, err
	}

	// --- 3. Collection ---
	files := make([]schema.FileMetrics, 0, len(slots))
	diag := schema.Diagnostics{
		Warnings: append([]schema.AnalysisFailure{}, walkWarnings...),
		Failures: []schema.AnalysisFailure{},
	}
	for _, s := range slots {
		switch {
		case s.metrics != nil:
			files = append(files, *s.metrics)
		case s.warning != nil:
			diag.Warnings = append(diag.Warnings, *s.warning)
		case s.failure != nil:
			diag.Failures = append(diag.Failures, *s.failure)
		}
	}

	// --- 4. Aggregation ---
	summary := agg.Aggregate(files, diag.Failures, agg.Options{Scope: cfg.Scope, Limit: cfg.ResultLimit})
	result := &schema.AnalysisResult{
		Roots:          cfg.Roots,
		ProjectSummary: summary,
		Files:          files,
		Diagnostics:    diag,
	}

	// --- 5. History ---
	recordRun(cfg, mgr, start, result)

	return result, nil
}

// analyzeRefs schedules one task per file with at most cfg.Workers running.
// The returned slots are in the order of refs.
func analyzeRefs(ctx context.Context, cfg *contract.Config, refs []schema.SourceRef, progress contract.ProgressReporter) ([]fileSlot, error) {
	slots := make([]fileSlot, len(refs))
	progress.Start(len(refs))
	defer progress.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, ref := range refs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slot, err := processRef(gctx, cfg.Analysis, ref)
			if err != nil {
				return err
			}
			slots[i] = slot
			progress.Advance(ref.RelPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// processRef reads and analyzes one file. Only context errors are returned;
// every other problem lands in the slot.
func processRef(ctx context.Context, opts schema.AnalysisOptions, ref schema.SourceRef) (fileSlot, error) {
	file, err := loader.Read(ref)
	if err != nil {
		w := loader.ReadWarning(ref, err)
		return fileSlot{warning: &w}, nil
	}

	m, err := AnalyzeSource(ctx, opts, file)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, schema.ErrFileTimeout) {
			return fileSlot{}, ctxErr
		}
		return fileSlot{failure: detectorFailure(ref, err)}, nil
	}
	return fileSlot{metrics: &m}, nil
}

func detectorFailure(ref schema.SourceRef, err error) *schema.AnalysisFailure {
	f := &schema.AnalysisFailure{
		Path:    ref.RelPath,
		Module:  ref.Module,
		Kind:    schema.DetectorFailure,
		Message: err.Error(),
	}
	var de *schema.DetectorError
	if errors.As(err, &de) {
		f.Detector = de.Detector
		f.Message = de.Err.Error()
	}
	return f
}

// AnalyzeSource runs every detector stage over one loaded file.
// A panicking stage is recovered into a *schema.DetectorError naming the stage.
// With opts.FileTimeout set, a file that runs past it fails with schema.ErrFileTimeout.
func AnalyzeSource(ctx context.Context, opts schema.AnalysisOptions, file schema.SourceFile) (schema.FileMetrics, error) {
	if opts.FileTimeout <= 0 {
		return runStages(NewFileMetricsBuilder(ctx, opts, file))
	}

	fileCtx, cancel := context.WithTimeout(ctx, opts.FileTimeout)
	defer cancel()
	b := NewFileMetricsBuilder(fileCtx, opts, file)

	type outcome struct {
		m   schema.FileMetrics
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		m, err := runStages(b)
		done <- outcome{m, err}
	}()

	select {
	case o := <-done:
		return o.m, o.err
	case <-fileCtx.Done():
		if ctx.Err() != nil {
			return schema.FileMetrics{}, ctx.Err()
		}
		// The stage keeps running in the background; its result is dropped.
		return schema.FileMetrics{}, &schema.DetectorError{Path: file.RelPath, Detector: b.Stage(), Err: schema.ErrFileTimeout}
	}
}

// runStages executes the required steps in order (Method Chaining).
func runStages(b *FileMetricsBuilder) (m schema.FileMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &schema.DetectorError{Path: b.file.RelPath, Detector: b.Stage(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	return b.
		Lex().                // Splits code from comments
		DetectDocs().         // Finds units and documentation tags
		EstimateComplexity(). // Control-flow density
		DetectMagicNumbers(). // Unexplained literals
		EstimateAge().        // Latest year in comments
		ScanSmells().         // Markers, long functions and nesting
		CalculateScore().     // Computes the final documentation score
		Build()
}

// recordRun stores the run in the history backend (if analysis tracking is enabled).
// Tracking failures are logged and never fail the analysis.
func recordRun(cfg *contract.Config, mgr contract.StoreManager, start time.Time, result *schema.AnalysisResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return
	}

	configParams := map[string]any{
		"roots":        cfg.Roots,
		"include_ext":  cfg.Load.IncludeExt,
		"exclude":      cfg.Load.Exclude,
		"source_dir":   cfg.Load.SourceDir,
		"workers":      cfg.Workers,
		"doc_tiers":    []int{cfg.Analysis.Cuts.Partial, cfg.Analysis.Cuts.Well},
		"complexity":   []float64{cfg.Analysis.Complexity.Moderate, cfg.Analysis.Complexity.Complex, cfg.Analysis.Complexity.VeryComplex},
		"scope":        string(cfg.Scope),
		"magic_digits": cfg.Analysis.Magic.MinDigits,
	}
	analysisID, err := store.BeginAnalysis(start, configParams)
	if err != nil {
		logTrackingError("BeginAnalysis", err)
		return
	}

	now := time.Now()
	records := make([]schema.FileMetricsRecord, 0, len(result.Files))
	for _, m := range result.Files {
		records = append(records, schema.NewFileMetricsRecord(analysisID, now, m))
	}
	if err := store.RecordFileMetrics(analysisID, records); err != nil {
		logTrackingError("RecordFileMetrics", err)
	}

	docs := result.Totals.Docs
	summary := schema.RunSummary{
		TotalFiles:  len(result.Files),
		FailedFiles: len(result.Diagnostics.Failures),
		WellPct:     docs.WellPct,
		PartialPct:  docs.PartialPct,
		PoorPct:     docs.PoorPct,
	}
	if err := store.EndAnalysis(analysisID, time.Now(), summary); err != nil {
		logTrackingError("EndAnalysis", err)
	}
}

// logTrackingError logs history tracking errors to stderr without disrupting analysis.
func logTrackingError(operation string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s", operation), err)
}
