package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
)

// rubricOrder lists the scoring components in display order.
var rubricOrder = []schema.BreakdownKey{
	schema.BreakdownDocRatio,
	schema.BreakdownParam,
	schema.BreakdownReturn,
	schema.BreakdownBrief,
	schema.BreakdownDocToCode,
}

// rubricRules describes when each component earns its points.
var rubricRules = map[schema.BreakdownKey]string{
	schema.BreakdownDocRatio:  "documented units over all units: full above 0.7, half above 0.4, a sixth above 0.1",
	schema.BreakdownParam:     "any @param or \\param tag",
	schema.BreakdownReturn:    "any @return or \\return tag",
	schema.BreakdownBrief:     "any @brief, \\brief or ///< description",
	schema.BreakdownDocToCode: "documentation characters over code characters above 0.1",
}

// PrintMetricsDefinitions displays the scoring rubric and the active thresholds.
// This is a static display that does not read any source file.
func PrintMetricsDefinitions(cfg *contract.Config) error {
	renderModel := buildMetricsRenderModel(cfg)

	if ok, err := writeStructured(renderModel, cfg); ok {
		return err
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, renderModel)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printMetricsText(w, renderModel)
		}, "Wrote text")
	}
}

// buildMetricsRenderModel constructs the complete render model from the active config.
func buildMetricsRenderModel(cfg *contract.Config) *schema.MetricsRenderModel {
	components := make([]schema.MetricsComponent, 0, len(rubricOrder))
	for _, key := range rubricOrder {
		components = append(components, schema.MetricsComponent{
			Key:    key,
			Weight: schema.ScoreWeights[key],
			Rule:   rubricRules[key],
		})
	}

	thresholds := cfg.CheckThresholds
	if thresholds == nil {
		thresholds = schema.DefaultCheckThresholds()
	}

	opts := cfg.Analysis
	return &schema.MetricsRenderModel{
		Title:       "Documentation Scoring",
		Description: "Score = sum of earned component points (0-100)",
		Components:  components,
		Tiers:       opts.Cuts,
		Complexity:  opts.Complexity,
		Magic: schema.MetricsMagic{
			MinDigits: opts.Magic.MinDigits,
			Allow:     opts.Magic.Allow,
			Units:     len(opts.Magic.Units),
			MinHits:   opts.Magic.MinHits,
		},
		Smells: schema.MetricsSmells{
			DeprecatedMarkers: opts.Smells.DeprecatedMarkers,
			LongFunctionLines: opts.Smells.LongFunctionLines,
			NestingDepth:      opts.Smells.NestingDepth,
		},
		Check: thresholds,
	}
}

// printMetricsText displays the rubric in human-readable text format.
func printMetricsText(w io.Writer, m *schema.MetricsRenderModel) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.Title)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", len(m.Title)))
	fmt.Fprintf(&b, "%s\n\n", m.Description)
	for _, c := range m.Components {
		fmt.Fprintf(&b, "  %-12s %3d  %s\n", c.Key, c.Weight, c.Rule)
	}

	fmt.Fprintf(&b, "\nTiers: poor < %d <= partial < %d <= well\n", m.Tiers.Partial, m.Tiers.Well)
	fmt.Fprintf(&b, "Complexity per 100 code lines: moderate >= %g, complex >= %g, very complex >= %g\n",
		m.Complexity.Moderate, m.Complexity.Complex, m.Complexity.VeryComplex)
	fmt.Fprintf(&b, "Magic numbers: %d+ significant digits, allow %v, %d unit tokens, flagged at %d hits\n",
		m.Magic.MinDigits, m.Magic.Allow, m.Magic.Units, m.Magic.MinHits)
	fmt.Fprintf(&b, "Smells: long functions > %d lines, deep nesting > %d, markers %s\n",
		m.Smells.LongFunctionLines, m.Smells.NestingDepth, strings.Join(m.Smells.DeprecatedMarkers, ", "))

	fmt.Fprintf(&b, "\nCheck gates:\n")
	for _, metric := range schema.AllCheckMetrics {
		fmt.Fprintf(&b, "  %-9s %s\n", metric, formatGate(metric, m.Check))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatGate renders one gate of the check thresholds.
func formatGate(metric schema.CheckMetric, thresholds schema.CheckThresholds) string {
	v, ok := thresholds[metric]
	if !ok || v < 0 {
		return "off"
	}
	if metric.IsMaximum() {
		return "<= " + strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ">= " + strconv.FormatFloat(v, 'g', -1, 64)
}

// writeCSVMetrics writes the rubric as section,name,value records.
func writeCSVMetrics(w io.Writer, m *schema.MetricsRenderModel) error {
	return writeCSVWithHeader(w, []string{"section", "name", "value"}, func(cw *csv.Writer) error {
		var records [][]string
		for _, c := range m.Components {
			records = append(records, []string{"component", string(c.Key), strconv.Itoa(c.Weight)})
		}
		records = append(records,
			[]string{"tier", "partial", strconv.Itoa(m.Tiers.Partial)},
			[]string{"tier", "well", strconv.Itoa(m.Tiers.Well)},
			[]string{"complexity", "moderate", strconv.FormatFloat(m.Complexity.Moderate, 'g', -1, 64)},
			[]string{"complexity", "complex", strconv.FormatFloat(m.Complexity.Complex, 'g', -1, 64)},
			[]string{"complexity", "very_complex", strconv.FormatFloat(m.Complexity.VeryComplex, 'g', -1, 64)},
			[]string{"magic", "min_digits", strconv.Itoa(m.Magic.MinDigits)},
			[]string{"magic", "min_hits", strconv.Itoa(m.Magic.MinHits)},
			[]string{"smells", "long_function_lines", strconv.Itoa(m.Smells.LongFunctionLines)},
			[]string{"smells", "nesting_depth", strconv.Itoa(m.Smells.NestingDepth)},
		)
		for _, metric := range schema.AllCheckMetrics {
			records = append(records, []string{"check", string(metric), formatGate(metric, m.Check)})
		}
		for _, rec := range records {
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
