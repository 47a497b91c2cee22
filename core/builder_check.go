package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
)

// CheckResultBuilder builds the check result using a builder pattern.
type CheckResultBuilder struct {
	ctx      context.Context
	cfg      *contract.Config
	mgr      contract.StoreManager
	progress contract.ProgressReporter
	analysis *schema.AnalysisResult
	actual   map[schema.CheckMetric]float64
	result   *schema.CheckResult
}

// NewCheckResultBuilder creates a new builder for check results.
func NewCheckResultBuilder(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) *CheckResultBuilder {
	return &CheckResultBuilder{ctx: ctx, cfg: cfg, mgr: mgr, progress: progress}
}

// WithAnalysis uses an existing analysis instead of running one.
func (b *CheckResultBuilder) WithAnalysis(result *schema.AnalysisResult) *CheckResultBuilder {
	b.analysis = result
	return b
}

// RunAnalysis analyzes the configured roots unless an analysis was provided.
func (b *CheckResultBuilder) RunAnalysis() (*CheckResultBuilder, error) {
	if b.analysis != nil {
		return b, nil
	}
	result, err := Analyze(b.ctx, b.cfg, b.mgr, b.progress)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %v: %w", b.cfg.Roots, err)
	}
	b.analysis = result
	return b, nil
}

// ComputeMetrics extracts the gated values from the analysis.
func (b *CheckResultBuilder) ComputeMetrics() *CheckResultBuilder {
	totals := b.analysis.Totals
	b.actual = map[schema.CheckMetric]float64{
		schema.CheckWellPct:     totals.Docs.WellPct,
		schema.CheckPoorPct:     totals.Docs.PoorPct,
		schema.CheckClassPct:    totals.ClassDocPct,
		schema.CheckFunctionPct: totals.FunctionDocPct,
		schema.CheckFailedFiles: float64(len(b.analysis.Diagnostics.Failures)),
	}
	return b
}

// BuildResult compares the metrics against the thresholds and constructs the final CheckResult.
func (b *CheckResultBuilder) BuildResult() *CheckResultBuilder {
	thresholds := b.cfg.CheckThresholds
	if thresholds == nil {
		thresholds = schema.DefaultCheckThresholds()
	}

	violations := []schema.CheckViolation{}
	for _, metric := range schema.AllCheckMetrics {
		threshold, ok := thresholds[metric]
		if !ok || threshold < 0 {
			continue
		}
		actual := b.actual[metric]
		failed := actual < threshold
		if metric.IsMaximum() {
			failed = actual > threshold
		}
		if failed {
			violations = append(violations, schema.CheckViolation{
				Metric:    metric,
				Actual:    actual,
				Threshold: threshold,
				Maximum:   metric.IsMaximum(),
			})
		}
	}

	poorGate, ok := thresholds[schema.CheckPoorPct]
	if !ok {
		poorGate = -1
	}
	b.result = &schema.CheckResult{
		Passed:         len(violations) == 0,
		TotalFiles:     b.analysis.Totals.Files,
		Thresholds:     thresholds,
		Actual:         b.actual,
		Violations:     violations,
		FailingModules: failingModules(b.analysis.Modules, poorGate),
		Roots:          b.analysis.Roots,
	}
	return b
}

// GetResult returns the built CheckResult.
func (b *CheckResultBuilder) GetResult() *schema.CheckResult {
	return b.result
}

// failingModules lists modules whose poor share is above the poor gate,
// worst first. A negative gate lists nothing.
func failingModules(modules map[string]schema.ModuleSummary, poorGate float64) []schema.CheckModuleFailure {
	out := []schema.CheckModuleFailure{}
	if poorGate < 0 {
		return out
	}
	for name, m := range modules {
		if m.Docs.PoorPct > poorGate {
			out = append(out, schema.CheckModuleFailure{Module: name, Files: m.Files, PoorPct: m.Docs.PoorPct})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PoorPct != out[j].PoorPct {
			return out[i].PoorPct > out[j].PoorPct
		}
		return out[i].Module < out[j].Module
	})
	return out
}
