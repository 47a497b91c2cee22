package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComparison() schema.RunComparison {
	return schema.RunComparison{
		BaseRunID:   3,
		TargetRunID: 4,
		NetScore:    5.5,
		Deltas: []schema.ModuleDelta{
			{Module: "hits", Status: schema.DeltaNew, TargetFiles: 2, TargetMeanScore: 40, DeltaScore: 40},
			{Module: "geometry", Status: schema.DeltaActive, BaseFiles: 3, TargetFiles: 3, BaseMeanScore: 50, TargetMeanScore: 45, DeltaScore: -5, BasePoorPct: 10, TargetPoorPct: 20},
		},
	}
}

func TestFormatDelta(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	fmtFloat, _ := createFormatters(1)
	assert.Equal(t, "+2.5", formatDelta(2.5, fmtFloat))
	assert.Equal(t, "-1.0", formatDelta(-1, fmtFloat))
	assert.Equal(t, "0.0", formatDelta(0, fmtFloat))
}

func TestWriteComparisonJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut, "compare.json")
	require.NoError(t, NewOutWriter().WriteComparison(sampleComparison(), cfg, time.Second))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	assert.Equal(t, float64(3), result["base_run_id"])
	assert.Equal(t, 5.5, result["net_score_delta"])
	assert.Len(t, result["deltas"], 2)
}

func TestWriteComparisonCSV(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)
	var buf bytes.Buffer
	require.NoError(t, writeCSVComparison(&buf, sampleComparison(), fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"3", "4", "geometry", "active", "3", "3", "50.0", "45.0", "-5.0", "10.0", "20.0"}, records[2])
}

func TestWriteComparisonTable(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	require.NoError(t, writeComparisonTable(&buf, sampleComparison(), fmtFloat, time.Second))

	out := buf.String()
	assert.Contains(t, out, "hits")
	assert.Contains(t, out, "0 -> 2")
	assert.Contains(t, out, "+40.0")
	assert.Contains(t, out, "Run 3 -> run 4: net mean score +5.5")
}
