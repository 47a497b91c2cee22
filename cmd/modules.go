package cmd

import (
	"github.com/huangsam/docscope/core"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/spf13/cobra"
)

// modulesCmd shows module rollups in documentation priority order.
var modulesCmd = &cobra.Command{
	Use:   "modules [roots...]",
	Short: "Show modules in documentation priority order.",
	Long: `Analyze the roots and roll file metrics up to modules.

A module is the first path segment after --source-dir (or the first segment
of the relative path). Modules are ordered by priority: units times mean
complexity density times the share of poorly documented files.

Examples:
  # Module table for a Geant4 checkout
  docscope modules ~/geant4 --source-dir source --output text

  # Top 20 modules as JSON
  docscope modules --limit 20`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModules(rootCtx, cfg, storeManager, newProgress(cfg.UseProgress)); err != nil {
			contract.LogFatal("Cannot run modules analysis", err)
		}
	},
}
