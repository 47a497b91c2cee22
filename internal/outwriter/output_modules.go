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

// WriteModuleResults outputs modules in priority order, dispatching based on the output format configured.
func WriteModuleResults(modules []schema.RankedModule, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	if ok, err := writeStructured(modules, cfg); ok {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForModules(w, modules, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeModuleTable(modules, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeModuleTable generates and writes the human-readable table.
func writeModuleTable(modules []schema.RankedModule, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Module", "Files", "Class%", "Func%", "Mean", "Poor%", "Priority", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, m := range modules {
		data = append(data, []string{
			strconv.Itoa(m.Rank),
			m.Name,
			strconv.Itoa(m.Files),
			fmtFloat(m.ClassDocPct),
			fmtFloat(m.FunctionDocPct),
			fmtFloat(m.MeanScore),
			fmtFloat(m.Docs.PoorPct),
			fmtFloat(m.Priority),
			contract.GetColorLabel(schema.ModuleTier(m.Rollup)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	files := 0
	for _, m := range modules {
		files += m.Files
	}
	if _, err := fmt.Fprintf(writer, "Showing %d modules (%d files)\n", len(modules), files); err != nil {
		return err
	}
	return writeFooter(writer, cfg, duration)
}

// writeCSVResultsForModules writes one CSV record per module.
func writeCSVResultsForModules(w io.Writer, modules []schema.RankedModule, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"module",
		"label",
		"priority",
		"files",
		"classes",
		"functions",
		"class_documentation_pct",
		"function_documentation_pct",
		"mean_score",
		"well_documented_pct",
		"partially_documented_pct",
		"poorly_documented_pct",
		"mean_density",
		"magic_numbers",
		"deprecated",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range modules {
			rec := []string{
				strconv.Itoa(m.Rank),
				m.Name,
				m.Label,
				fmtFloat(m.Priority),
				fmt.Sprintf(intFmt, m.Files),
				fmt.Sprintf(intFmt, m.Classes),
				fmt.Sprintf(intFmt, m.Functions),
				fmtFloat(m.ClassDocPct),
				fmtFloat(m.FunctionDocPct),
				fmtFloat(m.MeanScore),
				fmtFloat(m.Docs.WellPct),
				fmtFloat(m.Docs.PartialPct),
				fmtFloat(m.Docs.PoorPct),
				fmtFloat(m.Complexity.MeanDensity),
				fmt.Sprintf(intFmt, m.Magic.TotalMagicNumbers),
				fmt.Sprintf(intFmt, m.Smells.DeprecatedFiles),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
