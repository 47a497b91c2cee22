package cmd

import (
	"github.com/huangsam/docscope/core"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the complete documentation and code-quality analysis.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [roots...]",
	Short: "Analyze C++ source trees for documentation coverage and code quality.",
	Long: `Score every header and source file under the given roots for Doxygen coverage.

Each file receives a documentation score from 0 to 100 and a tier (well, partial, poor).
The result also carries per-module rollups, a documentation priority list and
code-quality distributions:
- Complexity density per 100 code lines
- Magic numbers that are not unit-qualified
- Estimated code age from copyright years
- TODO/FIXME/HACK markers, deprecated APIs, long functions and deep nesting

Unreadable files are reported as warnings and never change the exit code.

Examples:
  # Analyze the current directory as JSON
  docscope analyze

  # Analyze a Geant4 checkout with modules read after "source/"
  docscope analyze ~/geant4 --source-dir source --output text

  # Write YAML to a file with per-unit scores
  docscope analyze src include --detail --output yaml --output-file report.yaml

  # Export per-file rows to Parquet for DuckDB
  docscope analyze --output parquet --output-file files.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager, newProgress(cfg.UseProgress)); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
