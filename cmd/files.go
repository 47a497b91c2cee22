package cmd

import (
	"github.com/huangsam/docscope/core"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/spf13/cobra"
)

// filesCmd ranks individual files by documentation score.
var filesCmd = &cobra.Command{
	Use:   "files [roots...]",
	Short: "Show files ranked by documentation score.",
	Long: `Analyze the roots and rank individual files by documentation score.

Ties are broken by path so the ranking is stable across runs. By default the
best documented files come first; use --order asc to surface the worst.

Examples:
  # The ten least documented files
  docscope files --order asc --limit 10 --output text

  # Only poorly documented files with per-unit detail
  docscope files --tier poor --detail

  # Export the ranking to CSV
  docscope files --limit 1000 --output csv --output-file files.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg, storeManager, newProgress(cfg.UseProgress)); err != nil {
			contract.LogFatal("Cannot run files analysis", err)
		}
	},
}
