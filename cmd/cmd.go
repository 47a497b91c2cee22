// Package cmd defines the command-line interface for docscope.
package cmd

import (
	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)
	historyCmd.AddCommand(historyCompareCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("include-ext", ".hh,.h,.cc", "Comma-separated list of file extensions to analyze")
	rootCmd.PersistentFlags().String("exclude", "*/test/*,*/examples/*", "Comma-separated list of exclude globs (doublestar syntax)")
	rootCmd.PersistentFlags().String("source-dir", "", "Path segment after which the module name is read (e.g. source)")
	rootCmd.PersistentFlags().String("complexity-thresholds", "5,10,15", "Complexity density cut points T1,T2,T3 per 100 code lines")
	rootCmd.PersistentFlags().Int("magic-digits", 3, "Significant digits for a literal to count as a magic number")
	rootCmd.PersistentFlags().String("magic-allow", "100,1000", "Comma-separated literals that never count as magic numbers")
	rootCmd.PersistentFlags().String("magic-units", "", "Comma-separated unit tokens that exempt a literal (default Geant4/CLHEP units)")
	rootCmd.PersistentFlags().Int("magic-min-hits", 5, "Magic numbers for a file to be flagged")
	rootCmd.PersistentFlags().Int("long-function-lines", 100, "Function length in lines above which it counts as long")
	rootCmd.PersistentFlags().Int("nesting-depth", 6, "Brace depth above which a file counts as deeply nested")
	rootCmd.PersistentFlags().String("doc-tiers", "25,60", "Score cut points partial,well")
	rootCmd.PersistentFlags().String("deprecated-markers", "deprecated,DEPRECATED", "Comma-separated deprecation markers")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("file-timeout", "0s", "Per-file soft timeout (0s disables)")
	rootCmd.PersistentFlags().String("quality-scope", string(schema.AllScope), "Files feeding quality distributions: all or poor")
	rootCmd.PersistentFlags().String("output", string(schema.JSONOut), "Output format: json or yaml or text or csv or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Examples per tier and rows per table")
	rootCmd.PersistentFlags().Bool("detail", false, "Include per-unit documentation scores")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("progress", "auto", "Show a progress bar on stderr (auto/yes/no)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or bolt or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Connection string for mysql/postgresql, or a file path for sqlite/bolt")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of filesCmd to Viper
	filesCmd.Flags().String("tier", "", "Only show files of this tier: well or partial or poor")
	filesCmd.Flags().String("order", "desc", "Sort by score: asc or desc")
	if err := viper.BindPFlags(filesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding files flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().String("thresholds-override", "", "Documentation gates for CI/CD (format: 'well:30,poor:40,class:50,function:50,failed:0')")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}

	// Bind all flags of historyCompareCmd to Viper
	historyCompareCmd.Flags().Int64("base-run", 0, "Base run ID (0 means the second most recent run)")
	historyCompareCmd.Flags().Int64("target-run", 0, "Target run ID (0 means the most recent run)")
	if err := viper.BindPFlags(historyCompareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history compare flags", err)
	}
}
