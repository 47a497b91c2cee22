package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"

	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMetricsRenderModel(t *testing.T) {
	cfg := testConfig(t, schema.TextOut, "")
	cfg.CheckThresholds = nil

	m := buildMetricsRenderModel(cfg)
	require.Len(t, m.Components, 5)

	total := 0
	for _, c := range m.Components {
		total += c.Weight
		assert.NotEmpty(t, c.Rule)
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, schema.BreakdownDocRatio, m.Components[0].Key)
	assert.Equal(t, schema.DefaultTierCuts, m.Tiers)
	assert.Equal(t, 3, m.Magic.MinDigits)
	assert.Equal(t, len(schema.DefaultUnitTokens), m.Magic.Units)
	assert.Equal(t, schema.DefaultCheckThresholds(), m.Check)
}

func TestFormatGate(t *testing.T) {
	thresholds := schema.CheckThresholds{schema.CheckWellPct: 30, schema.CheckPoorPct: -1, schema.CheckFailedFiles: 0}
	assert.Equal(t, ">= 30", formatGate(schema.CheckWellPct, thresholds))
	assert.Equal(t, "off", formatGate(schema.CheckPoorPct, thresholds))
	assert.Equal(t, "off", formatGate(schema.CheckClassPct, thresholds))
	assert.Equal(t, "<= 0", formatGate(schema.CheckFailedFiles, thresholds))
}

func TestPrintMetricsText(t *testing.T) {
	cfg := testConfig(t, schema.TextOut, "")
	cfg.Analysis.Cuts = schema.TierCuts{Partial: 30, Well: 70}

	var buf bytes.Buffer
	require.NoError(t, printMetricsText(&buf, buildMetricsRenderModel(cfg)))

	out := buf.String()
	assert.Contains(t, out, "Documentation Scoring\n=====================")
	assert.Contains(t, out, "doc_ratio")
	assert.Contains(t, out, "Tiers: poor < 30 <= partial < 70 <= well")
	assert.Contains(t, out, "moderate >= 5, complex >= 10, very complex >= 15")
	assert.Contains(t, out, "failed    <= 0")
}

func TestPrintMetricsJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut, "metrics.json")
	require.NoError(t, PrintMetricsDefinitions(cfg))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	assert.Equal(t, "Documentation Scoring", result["title"])
	assert.Len(t, result["components"], 5)
	assert.Contains(t, result, "check_thresholds")
}

func TestWriteCSVMetrics(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut, "")

	var buf bytes.Buffer
	require.NoError(t, writeCSVMetrics(&buf, buildMetricsRenderModel(cfg)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"section", "name", "value"}, records[0])
	assert.Equal(t, []string{"component", "doc_ratio", "30"}, records[1])
	assert.Equal(t, []string{"check", "failed", "<= 0"}, records[len(records)-1])
}
