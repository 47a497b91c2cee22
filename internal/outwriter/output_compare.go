package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteComparisonResults outputs module deltas between two recorded runs.
func WriteComparisonResults(cmp schema.RunComparison, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	if ok, err := writeStructured(cmp, cfg); ok {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVComparison(w, cmp, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(w, cmp, fmtFloat, duration)
		}, "Wrote table")
	}
}

// formatDelta adds an explicit sign and a color for the direction of change.
func formatDelta(v float64, fmtFloat func(float64) string) string {
	switch {
	case v > 0:
		return contract.WellColor.Sprint("+" + fmtFloat(v))
	case v < 0:
		return contract.PoorColor.Sprint(fmtFloat(v))
	default:
		return fmtFloat(v)
	}
}

func writeComparisonTable(w io.Writer, cmp schema.RunComparison, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Module", "Status", "Files", "Base", "Target", "Delta", "Poor%"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, d := range cmp.Deltas {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			d.Module,
			d.Status,
			fmt.Sprintf("%d -> %d", d.BaseFiles, d.TargetFiles),
			fmtFloat(d.BaseMeanScore),
			fmtFloat(d.TargetMeanScore),
			formatDelta(d.DeltaScore, fmtFloat),
			fmt.Sprintf("%s -> %s", fmtFloat(d.BasePoorPct), fmtFloat(d.TargetPoorPct)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Run %d -> run %d: net mean score %s\n", cmp.BaseRunID, cmp.TargetRunID, formatDelta(cmp.NetScore, fmtFloat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Comparison completed in %v\n", duration)
	return err
}

func writeCSVComparison(w io.Writer, cmp schema.RunComparison, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"base_run_id",
		"target_run_id",
		"module",
		"status",
		"base_files",
		"target_files",
		"base_mean_score",
		"target_mean_score",
		"delta_score",
		"base_poor_pct",
		"target_poor_pct",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		base := strconv.FormatInt(cmp.BaseRunID, 10)
		target := strconv.FormatInt(cmp.TargetRunID, 10)
		for _, d := range cmp.Deltas {
			rec := []string{
				base,
				target,
				d.Module,
				d.Status,
				fmt.Sprintf(intFmt, d.BaseFiles),
				fmt.Sprintf(intFmt, d.TargetFiles),
				fmtFloat(d.BaseMeanScore),
				fmtFloat(d.TargetMeanScore),
				fmtFloat(d.DeltaScore),
				fmtFloat(d.BasePoorPct),
				fmtFloat(d.TargetPoorPct),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
