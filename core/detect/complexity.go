package detect

import (
	"regexp"
	"strings"

	"github.com/huangsam/docscope/schema"
)

// minNormalizedLines is the line count small files are scaled to.
const minNormalizedLines = 100

var branchPattern = regexp.MustCompile(`\b(?:if|for|while|switch|case|catch)\b`)

// Complexity is the control-flow density estimate of one file.
type Complexity struct {
	Keywords  int
	CodeLines int
	Density   float64
	Tier      schema.ComplexityTier
}

// EstimateComplexity counts branch keywords and ternaries in code text.
func EstimateComplexity(src *Source, thresholds schema.ComplexityThresholds) Complexity {
	c := Complexity{}
	for _, line := range src.Lines {
		if !line.HasCode() {
			continue
		}
		c.CodeLines++
		if strings.HasPrefix(strings.TrimSpace(line.Code), "#") {
			continue
		}
		c.Keywords += len(branchPattern.FindAllStringIndex(line.Code, -1))
		c.Keywords += strings.Count(line.Code, "?")
	}
	c.Density = Density(c.Keywords, c.CodeLines)
	c.Tier = ClassifyComplexity(c.Density, thresholds)
	return c
}

// Density returns keywords per 100 code lines, treating short files as 100 lines long.
func Density(keywords, codeLines int) float64 {
	n := max(codeLines, minNormalizedLines)
	return float64(keywords) * 100 / float64(n)
}

// ClassifyComplexity maps a density onto its tier.
func ClassifyComplexity(density float64, t schema.ComplexityThresholds) schema.ComplexityTier {
	switch {
	case density >= t.VeryComplex:
		return schema.VeryComplexComplexity
	case density >= t.Complex:
		return schema.ComplexComplexity
	case density >= t.Moderate:
		return schema.ModerateComplexity
	default:
		return schema.SimpleComplexity
	}
}
