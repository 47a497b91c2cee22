package iostore

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
)

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(w io.Writer, status schema.AnalysisStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(contract.DateTimeFormat))
		_, _ = fmt.Fprintf(w, "Total Files Analyzed: %d\n", status.TotalFilesAnalyzed)
	}

	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintHistoryRuns prints one line per recorded run, oldest first.
func PrintHistoryRuns(w io.Writer, runs []schema.AnalysisRunRecord) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No recorded runs.")
		return
	}
	_, _ = fmt.Fprintf(w, "%-6s %-25s %8s %6s %8s %8s %8s\n", "ID", "Started", "Files", "Failed", "Well%", "Partial%", "Poor%")
	for _, r := range runs {
		_, _ = fmt.Fprintf(w, "%-6d %-25s %8d %6d %8.1f %8.1f %8.1f\n",
			r.AnalysisID, r.StartTime.Format(contract.DateTimeFormat),
			r.TotalFilesAnalyzed, r.FailedFiles, r.WellPct, r.PartialPct, r.PoorPct)
	}
}
