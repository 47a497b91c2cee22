// Package core has core logic for analysis, checking and history comparison.
package core

import (
	"context"
	"os"
	"time"

	"github.com/huangsam/docscope/core/algo"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/internal/outwriter"
	"github.com/huangsam/docscope/schema"
)

// ExecutorFunc defines the function signature for executing different analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) error

// runWithHeader prints the header for text output and runs the analysis.
func runWithHeader(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) (*schema.AnalysisResult, error) {
	if cfg.Output == schema.TextOut && !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(os.Stderr, cfg)
	}
	return Analyze(ctx, cfg, mgr, progress)
}

// ExecuteAnalyze runs the full analysis and prints the complete result.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) error {
	start := time.Now()
	result, err := runWithHeader(ctx, cfg, mgr, progress)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAnalysis(result, cfg, time.Since(start))
}

// ExecuteFiles runs the analysis and prints files ranked by documentation score.
// It serves as the main entry point for the 'files' command.
func ExecuteFiles(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) error {
	start := time.Now()
	result, err := runWithHeader(ctx, cfg, mgr, progress)
	if err != nil {
		return err
	}
	ranked := algo.RankFiles(algo.FilterTier(result.Files, cfg.Tier), cfg.Ascending, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteFiles(ranked, cfg, time.Since(start))
}

// ExecuteModules runs the analysis and prints modules in priority order.
// It serves as the main entry point for the 'modules' command.
func ExecuteModules(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) error {
	start := time.Now()
	result, err := runWithHeader(ctx, cfg, mgr, progress)
	if err != nil {
		return err
	}
	summary := result.ProjectSummary
	summary.Priorities = algo.RankModules(summary.Priorities, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteModules(schema.EnrichModules(summary), cfg, time.Since(start))
}

// ExecuteMetrics displays the scoring rubric and the active thresholds.
// This is a static display that does not read any source file.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager, _ contract.ProgressReporter) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg)
}

// ExecuteHistoryCompare compares two recorded runs module by module.
func ExecuteHistoryCompare(_ context.Context, cfg *contract.Config, mgr contract.StoreManager, baseID, targetID int64) error {
	start := time.Now()
	var store contract.AnalysisStore
	if mgr != nil {
		store = mgr.GetAnalysisStore()
	}
	cmp, err := CompareRuns(store, baseID, targetID, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteComparison(cmp, cfg, time.Since(start))
}
