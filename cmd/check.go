package cmd

import (
	"errors"
	"os"

	"github.com/huangsam/docscope/core"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/internal/iostore"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [roots...]",
	Short: "Enforce documentation gates for CI/CD pipelines (fails build on violations)",
	Long: `Analyze the roots and compare overall documentation metrics against gates.

Exits with status 1 when any gate is violated, so it can block merges.

Gates (a negative value disables a gate):
- well      minimum percentage of well documented files
- poor      maximum percentage of poorly documented files
- class     minimum percentage of documented classes
- function  minimum percentage of documented functions
- failed    maximum number of files that failed analysis

Gates can also be set under "thresholds:" in .docscope.yaml; the flag wins.

Examples:
  # Check with the default gates
  docscope check

  # Require half of all classes and functions to be documented
  docscope check --thresholds-override "class:50,function:50"

  # Machine-readable result for a CI annotation step
  docscope check --output json --output-file check.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteCheck(rootCtx, cfg, storeManager, newProgress(cfg.UseProgress))
		if errors.Is(err, core.ErrCheckFailed) {
			_ = stopProfiling()
			iostore.CloseStores()
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal("Documentation check failed", err)
		}
	},
}
