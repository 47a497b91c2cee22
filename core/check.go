package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/internal/outwriter"
	"github.com/huangsam/docscope/schema"
)

// ErrCheckFailed is returned by ExecuteCheck when any gate is violated.
var ErrCheckFailed = errors.New("documentation check failed")

// maxModulesToShow caps the failing modules printed in text mode.
const maxModulesToShow = 5

// ExecuteCheck runs the check command for CI/CD gating.
// It analyzes the roots, compares the overall documentation metrics against
// the thresholds and returns ErrCheckFailed if any gate is violated.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, progress contract.ProgressReporter) error {
	start := time.Now()

	builder := NewCheckResultBuilder(ctx, cfg, mgr, progress)
	if _, err := builder.RunAnalysis(); err != nil {
		return err
	}
	result := builder.ComputeMetrics().BuildResult().GetResult()
	duration := time.Since(start)

	if cfg.Output == schema.TextOut {
		printCheckResult(os.Stdout, result, duration)
	} else if err := outwriter.NewOutWriter().WriteCheck(*result, cfg, duration); err != nil {
		return err
	}

	if !result.Passed {
		return fmt.Errorf("%w: %d violation(s) found", ErrCheckFailed, len(result.Violations))
	}
	return nil
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(w io.Writer, result *schema.CheckResult, duration time.Duration) {
	_, _ = fmt.Fprintln(w, "Documentation Check Results:")
	_, _ = fmt.Fprintf(w, "  Roots:  %v\n", result.Roots)
	_, _ = fmt.Fprintf(w, "Checked %d files in %v\n\n", result.TotalFiles, duration)

	for _, metric := range schema.AllCheckMetrics {
		threshold := result.Thresholds[metric]
		gate := "off"
		if threshold >= 0 {
			op := ">="
			if metric.IsMaximum() {
				op = "<="
			}
			gate = fmt.Sprintf("%s %.1f", op, threshold)
		}
		_, _ = fmt.Fprintf(w, "  %-9s %7.1f  (gate: %s)\n", metric+":", result.Actual[metric], gate)
	}
	_, _ = fmt.Fprintln(w)

	if result.Passed {
		_, _ = fmt.Fprintln(w, "All documentation gates passed")
		return
	}

	_, _ = fmt.Fprintf(w, "Documentation check failed: %d violation(s) found\n", len(result.Violations))
	for _, v := range result.Violations {
		cmp := "<"
		if v.Maximum {
			cmp = ">"
		}
		_, _ = fmt.Fprintf(w, "  - %s: %.1f %s threshold %.1f\n", v.Metric, v.Actual, cmp, v.Threshold)
	}

	if len(result.FailingModules) > 0 {
		_, _ = fmt.Fprintln(w, "\nModules above the poor gate:")
		for i, m := range result.FailingModules {
			if i >= maxModulesToShow {
				_, _ = fmt.Fprintf(w, "  ... and %d more\n", len(result.FailingModules)-i)
				break
			}
			_, _ = fmt.Fprintf(w, "  - %s (%d files, %.1f%% poor)\n", m.Module, m.Files, m.PoorPct)
		}
	}
}
