package detect

import (
	"strings"
	"testing"

	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
)

func TestEstimateComplexityDensityScenario(t *testing.T) {
	var b strings.Builder
	for range 50 {
		b.WriteString("if (a) x();\n")
	}
	for range 50 {
		b.WriteString("y();\n")
	}
	thresholds := schema.ComplexityThresholds{Moderate: 10, Complex: 25, VeryComplex: 40}

	c := EstimateComplexity(newTestSource(b.String()), thresholds)

	assert.Equal(t, 50, c.Keywords)
	assert.Equal(t, 100, c.CodeLines)
	assert.InDelta(t, 50.0, c.Density, 1e-9)
	assert.Equal(t, schema.VeryComplexComplexity, c.Tier)
}

func TestEstimateComplexityIgnoresCommentsAndStrings(t *testing.T) {
	src := newTestSource(`// if for while switch
const char* s = "if while case";
/* catch ? */
int v = a ? b : c;
#if DEBUG
`)

	c := EstimateComplexity(src, schema.DefaultComplexityThresholds)

	assert.Equal(t, 1, c.Keywords)
	assert.Equal(t, 3, c.CodeLines)
}

func TestEstimateComplexityShortFileNormalization(t *testing.T) {
	src := newTestSource(strings.Repeat("for (;;) {}\n", 5) + strings.Repeat("z();\n", 5))

	c := EstimateComplexity(src, schema.DefaultComplexityThresholds)

	assert.Equal(t, 10, c.CodeLines)
	assert.InDelta(t, 5.0, c.Density, 1e-9)
	assert.Equal(t, schema.ModerateComplexity, c.Tier)
}

func TestClassifyComplexityBoundaries(t *testing.T) {
	th := schema.DefaultComplexityThresholds
	tests := []struct {
		density float64
		want    schema.ComplexityTier
	}{
		{0, schema.SimpleComplexity},
		{4.99, schema.SimpleComplexity},
		{5, schema.ModerateComplexity},
		{9.99, schema.ModerateComplexity},
		{10, schema.ComplexComplexity},
		{14.99, schema.ComplexComplexity},
		{15, schema.VeryComplexComplexity},
		{80, schema.VeryComplexComplexity},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyComplexity(tt.density, th), "density %v", tt.density)
	}
}
