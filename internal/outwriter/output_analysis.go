package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnalysisResult outputs a complete analysis run.
// JSON and YAML carry the whole result; CSV and Parquet carry one row per file.
func WriteAnalysisResult(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	if ok, err := writeStructured(result, cfg); ok {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

	files := schema.EnrichFiles(result.Files)
	switch cfg.Output {
	case schema.CSVOut:
		if err := writeFileCSVResults(files, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeFileParquetResults(files, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisText(w, result, cfg, fmtFloat, duration)
		}, "Wrote text")
	}
	return nil
}

// writeAnalysisText renders the summary, quality, priority, example and diagnostic sections.
func writeAnalysisText(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	steps := []func() error{
		func() error { return writeSummaryTable(w, result.Totals, result.FailedFiles, fmtFloat) },
		func() error { return writeQualityTable(w, result.Totals, fmtFloat) },
		func() error { return writePriorityTable(w, result.Priorities, fmtFloat) },
		func() error { return writeExamples(w, result.ProjectSummary, cfg) },
		func() error { return writeDiagnostics(w, result.Diagnostics, cfg.ResultLimit) },
		func() error { return writeFooter(w, cfg, duration) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// newKeyValueTable returns a two-column table with a left-aligned key column.
func newKeyValueTable(w io.Writer, title string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header([]string{title, "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
	})
	return table
}

func renderRows(table *tablewriter.Table, rows [][]string) error {
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func writeSummaryTable(w io.Writer, r schema.Rollup, failed int, fmtFloat func(float64) string) error {
	pct := func(v float64) string { return fmtFloat(v) + "%" }
	rows := [][]string{
		{"Files analyzed", strconv.Itoa(r.Files)},
		{"Failed files", strconv.Itoa(failed)},
		{"Mean score", fmtFloat(r.MeanScore)},
		{"Well documented", fmt.Sprintf("%d (%s)", r.Docs.Well, pct(r.Docs.WellPct))},
		{"Partially documented", fmt.Sprintf("%d (%s)", r.Docs.Partial, pct(r.Docs.PartialPct))},
		{"Poorly documented", fmt.Sprintf("%d (%s)", r.Docs.Poor, pct(r.Docs.PoorPct))},
		{"Classes documented", fmt.Sprintf("%d/%d (%s)", r.DocumentedClasses, r.Classes, pct(r.ClassDocPct))},
		{"Functions documented", fmt.Sprintf("%d/%d (%s)", r.DocumentedFunctions, r.Functions, pct(r.FunctionDocPct))},
	}
	return renderRows(newKeyValueTable(w, "Documentation"), rows)
}

func writeQualityTable(w io.Writer, r schema.Rollup, fmtFloat func(float64) string) error {
	pct := func(n int, v float64) string { return fmt.Sprintf("%d (%s%%)", n, fmtFloat(v)) }
	c, a, s := r.Complexity, r.Age, r.Smells
	rows := [][]string{
		{"Files in scope", strconv.Itoa(r.QualityFiles)},
		{"Complexity simple", pct(c.Simple, c.SimplePct)},
		{"Complexity moderate", pct(c.Moderate, c.ModeratePct)},
		{"Complexity complex", pct(c.Complex, c.ComplexPct)},
		{"Complexity very complex", pct(c.VeryComplex, c.VeryComplexPct)},
		{"Mean density", fmtFloat(c.MeanDensity)},
		{"Magic numbers", strconv.Itoa(r.Magic.TotalMagicNumbers)},
		{"Files flagged for magic numbers", pct(r.Magic.FilesWithMagicNumbers, r.Magic.FlaggedPct)},
		{"Age pre-2010", pct(a.Pre2010, a.Pre2010Pct)},
		{"Age 2010-2015", pct(a.From2010, a.From2010Pct)},
		{"Age 2016-2020", pct(a.From2016, a.From2016Pct)},
		{"Age 2021+", pct(a.From2021, a.From2021Pct)},
		{"Age unknown", strconv.Itoa(a.Unknown)},
		{"TODO / FIXME / HACK", fmt.Sprintf("%d / %d / %d", s.TODO, s.FIXME, s.HACK)},
		{"Deprecated files", strconv.Itoa(s.DeprecatedFiles)},
		{"Long functions", strconv.Itoa(s.LongFunctions)},
		{"Deep nesting files", fmt.Sprintf("%d (max depth %d)", s.DeepNestingFiles, s.MaxNesting)},
	}
	return renderRows(newKeyValueTable(w, "Code quality"), rows)
}

func writePriorityTable(w io.Writer, priorities []schema.ModulePriority, fmtFloat func(float64) string) error {
	if len(priorities) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Module", "Files", "Units", "Complexity", "Priority", "Poor%"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	rows := make([][]string, 0, len(priorities))
	for _, p := range priorities {
		rows = append(rows, []string{
			strconv.Itoa(p.Rank),
			p.Module,
			strconv.Itoa(p.Files),
			strconv.Itoa(p.Usage),
			fmtFloat(p.MeanComplexity),
			fmtFloat(p.Priority),
			fmtFloat(p.PoorPct),
		})
	}
	return renderRows(table, rows)
}

func writeExamples(w io.Writer, summary schema.ProjectSummary, cfg *contract.Config) error {
	for _, tier := range schema.AllDocTiers {
		examples := summary.FilesByCategory[tier]
		if len(examples) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s examples:\n", contract.GetColorLabel(tier)); err != nil {
			return err
		}
		for _, e := range examples {
			path := contract.TruncatePath(e.Path, GetMaxTablePathWidth(cfg))
			if _, err := fmt.Fprintf(w, "  %3d  %s (%d classes, %d functions)\n", e.Score, path, e.Classes, e.Functions); err != nil {
				return err
			}
		}
	}

	ex := summary.Examples
	for _, m := range ex.MagicNumbers {
		if _, err := fmt.Fprintf(w, "Magic numbers: %s (%d) %v\n", m.Path, m.Count, m.Samples); err != nil {
			return err
		}
	}
	for _, path := range ex.Deprecated {
		if _, err := fmt.Fprintf(w, "Deprecated: %s\n", path); err != nil {
			return err
		}
	}
	for _, n := range ex.DeepNesting {
		if _, err := fmt.Fprintf(w, "Deep nesting: %s (depth %d)\n", n.Path, n.Depth); err != nil {
			return err
		}
	}
	return nil
}

func writeDiagnostics(w io.Writer, diag schema.Diagnostics, limit int) error {
	if len(diag.Warnings) == 0 && len(diag.Failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Diagnostics: %d warning(s), %d failure(s)\n", len(diag.Warnings), len(diag.Failures)); err != nil {
		return err
	}
	all := append(append([]schema.AnalysisFailure{}, diag.Failures...), diag.Warnings...)
	for i, f := range all {
		if limit > 0 && i >= limit {
			_, err := fmt.Fprintf(w, "  ... and %d more\n", len(all)-i)
			return err
		}
		where := string(f.Kind)
		if f.Detector != "" {
			where += "/" + f.Detector
		}
		if _, err := fmt.Fprintf(w, "  [%s] %s: %s\n", where, f.Path, f.Message); err != nil {
			return err
		}
	}
	return nil
}
