package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/docscope/core"
	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/internal/iostore"
	"github.com/huangsam/docscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromConfig reads and validates the history backend settings.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("unsupported history backend: %s", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need the store without full shared setup.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}
	if err := iostore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyStore returns the store opened by historySetup.
func historyStore() contract.AnalysisStore {
	store := storeManager.GetAnalysisStore()
	if store == nil {
		contract.LogFatal("Run history is disabled", fmt.Errorf("set --history-backend"))
	}
	return store
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by analysis commands, except compare which renders
// output and needs the presentation settings.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded analysis runs and exports",
	Long: `Manage the documentation history recorded by analysis commands.

When --history-backend is set, every analyze, files, modules and check run stores:
- Run metadata (timestamp, configuration, duration, tier percentages)
- Per-file scores, tiers and code-quality metrics

This enables trend tracking across releases and data export for BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, bolt, or none (disabled)

Subcommands:
  status  - Show history statistics
  list    - List recorded runs
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations
  compare - Compare two runs module by module

Examples:
  # Record a run in the default SQLite file
  docscope analyze --history-backend sqlite

  # Check tracking status
  docscope history status --history-backend sqlite`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, connection state, run counts and table sizes.

Examples:
  docscope history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := historyStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iostore.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyListCmd lists recorded runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded analysis runs",
	Long: `List every recorded run with its file counts and tier percentages, oldest first.

Examples:
  docscope history list --history-backend bolt`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := historyStore().GetAllAnalysisRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		iostore.PrintHistoryRuns(os.Stdout, runs)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded history to Parquet for BI tools and analytics",
	Long: `Export all stored history to Parquet format for use with analytics tools.

Exports two datasets:
- Analysis runs - metadata about each analysis execution
- File metrics - per-file scores and quality metrics

Requires: --output-file parameter

Examples:
  # Export all data
  docscope history export --history-backend sqlite --output-file docscope

  # Use with DuckDB for analysis
  duckdb -c "SELECT module, avg(doc_score) FROM read_parquet('docscope.file_metrics.parquet') GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded history",
	Long: `Delete all stored analysis runs and file metrics.

For SQLite and bolt the database file is removed; for MySQL and PostgreSQL the
history tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  docscope history export --history-backend sqlite --output-file backup
  docscope history clear --history-backend sqlite`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the SQL history backends.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  docscope history migrate --history-backend sqlite

  # Rollback to initial state
  docscope history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// historyCompareCmd compares two recorded runs.
var historyCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two recorded runs module by module",
	Long: `Show how mean documentation scores and poor-file shares moved per module.

Runs default to the two most recent; modules are ordered by the size of the change.

Examples:
  # Compare the last two runs
  docscope history compare --history-backend sqlite --output text

  # Compare specific runs as CSV
  docscope history compare --history-backend sqlite --base-run 3 --target-run 7 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		baseID := viper.GetInt64("base-run")
		targetID := viper.GetInt64("target-run")
		if err := core.ExecuteHistoryCompare(rootCtx, cfg, storeManager, baseID, targetID); err != nil {
			contract.LogFatal("Failed to compare runs", err)
		}
	},
}
