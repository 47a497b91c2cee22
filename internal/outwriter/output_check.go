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
)

// WriteCheckResult outputs a documentation gate result.
func WriteCheckResult(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	if ok, err := writeStructured(result, cfg); ok {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVCheck(w, result, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckTable(w, result, fmtFloat, duration)
		}, "Wrote table")
	}
}

// gateStatus reports the gate text and whether the metric passes it.
func gateStatus(result schema.CheckResult, metric schema.CheckMetric, fmtFloat func(float64) string) (string, bool) {
	threshold, ok := result.Thresholds[metric]
	if !ok || threshold < 0 {
		return "off", true
	}
	actual := result.Actual[metric]
	if metric.IsMaximum() {
		return "<= " + fmtFloat(threshold), actual <= threshold
	}
	return ">= " + fmtFloat(threshold), actual >= threshold
}

func writeCheckTable(w io.Writer, result schema.CheckResult, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Actual", "Gate", "Status"})
	var data [][]string
	for _, metric := range schema.AllCheckMetrics {
		gate, passed := gateStatus(result, metric, fmtFloat)
		status := contract.WellColor.Sprint("pass")
		if !passed {
			status = contract.PoorColor.Sprint("fail")
		}
		data = append(data, []string{string(metric), fmtFloat(result.Actual[metric]), gate, status})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	verdict := "passed"
	if !result.Passed {
		verdict = "failed"
	}
	_, err := fmt.Fprintf(w, "Check %s for %d files in %v\n", verdict, result.TotalFiles, duration)
	return err
}

func writeCSVCheck(w io.Writer, result schema.CheckResult, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"metric", "actual", "gate", "passed"}, func(cw *csv.Writer) error {
		for _, metric := range schema.AllCheckMetrics {
			gate, passed := gateStatus(result, metric, fmtFloat)
			rec := []string{string(metric), fmtFloat(result.Actual[metric]), gate, strconv.FormatBool(passed)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
