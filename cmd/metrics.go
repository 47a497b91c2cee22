package cmd

import (
	"github.com/huangsam/docscope/core"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the scoring rubric and the active thresholds.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the documentation scoring rubric and active thresholds",
	Long: `Show how files are scored and which thresholds are in effect.

Includes the five scoring components and their points, the tier cut points,
complexity, magic-number and smell thresholds, and the check gates.
Custom values from .docscope.yaml, env or flags are reflected.

No source file is read - this is purely informational.

Examples:
  # Show the default rubric
  docscope metrics --output text

  # View with custom thresholds from a config file
  docscope metrics --config .docscope.yaml --output yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, storeManager, nil); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
