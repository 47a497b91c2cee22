// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints a complete analysis result using the configured output format.
func (ow *OutWriter) WriteAnalysis(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResult(result, cfg, duration)
}

// WriteFiles prints ranked files using the configured output format.
func (ow *OutWriter) WriteFiles(files []schema.FileMetrics, cfg *contract.Config, duration time.Duration) error {
	return WriteFileResults(schema.EnrichFiles(files), cfg, duration)
}

// WriteModules prints modules in priority order using the configured output format.
func (ow *OutWriter) WriteModules(modules []schema.RankedModule, cfg *contract.Config, duration time.Duration) error {
	return WriteModuleResults(modules, cfg, duration)
}

// WriteCheck prints a check result using the configured output format.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	return WriteCheckResult(result, cfg, duration)
}

// WriteMetrics prints the scoring rubric and active thresholds using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return PrintMetricsDefinitions(cfg)
}

// WriteComparison prints module deltas between two runs using the configured output format.
func (ow *OutWriter) WriteComparison(cmp schema.RunComparison, cfg *contract.Config, duration time.Duration) error {
	return WriteComparisonResults(cmp, cfg, duration)
}

// GetMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Module + Score + Label with borders/padding
	baseWidth := 40

	// Classes + Funcs + Doc% + Complexity + Magic + Age
	if cfg.Analysis.Detail {
		baseWidth += 55
	}

	// Table borders, separators, and padding
	baseWidth += 15

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
