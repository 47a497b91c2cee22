package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/internal/parquet"
	"github.com/huangsam/docscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// fileCSVHeader is shared by the files and analyze CSV output.
var fileCSVHeader = []string{
	"rank",
	"path",
	"module",
	"quality_score",
	"category",
	"classes",
	"functions",
	"documented_classes",
	"documented_functions",
	"doc_ratio",
	"complexity_density",
	"complexity",
	"magic_numbers",
	"age",
	"todo",
	"fixme",
	"hack",
	"deprecated",
	"long_functions",
	"max_nesting",
}

// WriteFileResults outputs ranked files, dispatching based on the output format configured.
func WriteFileResults(files []schema.RankedFile, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	if ok, err := writeStructured(files, cfg); ok {
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	}

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
			return writeFileTable(files, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeFileCSVResults handles opening the file and calling the CSV writer.
func writeFileCSVResults(files []schema.RankedFile, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, fileCSVHeader, func(cw *csv.Writer) error {
			return writeCSVResultsForFiles(cw, files, fmtFloat, intFmt)
		})
	}, "Wrote CSV")
}

// writeFileParquetResults writes one row per file.
func writeFileParquetResults(files []schema.RankedFile, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.WriteRows(w, parquet.ConvertRankedFiles(files))
	}, "Wrote Parquet")
}

// writeFileTable generates and writes the human-readable table.
func writeFileTable(files []schema.RankedFile, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Path", "Module", "Score", "Label"}
	if cfg.Analysis.Detail {
		headers = append(headers, "Classes", "Funcs", "Doc%", "Complexity", "Magic", "Age")
	}
	table.Header(headers)

	// 2. Configure alignment to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	pathWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range files {
		row := []string{
			strconv.Itoa(f.Rank),
			contract.TruncatePath(f.Path, pathWidth),
			f.Module,
			fmt.Sprintf(intFmt, f.DocScore),
			contract.GetColorLabel(f.DocTier),
		}
		if cfg.Analysis.Detail {
			row = append(
				row,
				fmt.Sprintf(intFmt, f.Classes),
				fmt.Sprintf(intFmt, f.Functions),
				fmtFloat(f.DocRatio*100),
				string(f.ComplexityTier),
				fmt.Sprintf(intFmt, f.MagicNumbers),
				string(f.AgeBucket),
			)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	units, documented := 0, 0
	for _, f := range files {
		units += f.Items()
		documented += f.DocumentedItems()
	}
	if _, err := fmt.Fprintf(writer, "Showing %d files (%d of %d units documented)\n", len(files), documented, units); err != nil {
		return err
	}
	return writeFooter(writer, cfg, duration)
}

// writeFooter prints the closing line shared by the text tables.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	backend := string(cfg.HistoryBackend)
	if backend == "" {
		backend = "off"
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. History backend: %s\n", duration, cfg.Workers, backend)
	return err
}

// writeCSVResultsForFiles writes one CSV record per file.
func writeCSVResultsForFiles(w *csv.Writer, files []schema.RankedFile, fmtFloat func(float64) string, intFmt string) error {
	for _, f := range files {
		rec := []string{
			strconv.Itoa(f.Rank),
			f.Path,
			f.Module,
			fmt.Sprintf(intFmt, f.DocScore),
			string(f.DocTier),
			fmt.Sprintf(intFmt, f.Classes),
			fmt.Sprintf(intFmt, f.Functions),
			fmt.Sprintf(intFmt, f.DocumentedClasses),
			fmt.Sprintf(intFmt, f.DocumentedFunctions),
			fmtFloat(f.DocRatio),
			fmtFloat(f.ComplexityDensity),
			string(f.ComplexityTier),
			fmt.Sprintf(intFmt, f.MagicNumbers),
			string(f.AgeBucket),
			fmt.Sprintf(intFmt, f.Smells.TODO),
			fmt.Sprintf(intFmt, f.Smells.FIXME),
			fmt.Sprintf(intFmt, f.Smells.HACK),
			fmt.Sprintf(intFmt, f.Smells.Deprecated),
			fmt.Sprintf(intFmt, f.Smells.LongFunctions),
			fmt.Sprintf(intFmt, f.Smells.MaxNesting),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
