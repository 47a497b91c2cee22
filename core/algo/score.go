// Package algo has the documentation scoring engine and the ranking helpers.
package algo

import "github.com/huangsam/docscope/schema"

// Documentation ratio cut points for the ratio component.
const (
	highDocRatio   = 0.7
	mediumDocRatio = 0.4
	lowDocRatio    = 0.1

	// minDocToCode is the documentation-to-code character ratio that earns the component.
	minDocToCode = 0.1
)

// Input is everything the scoring engine looks at.
type Input struct {
	DocRatio       float64          // Documented units over all units
	Tags           schema.DocTagSet // Tags found in documentation blocks
	DocToCodeRatio float64          // Documentation characters over code characters
	Cuts           schema.TierCuts  // Zero value means schema.DefaultTierCuts
}

// Result is a score with its tier and per-component contributions.
type Result struct {
	Score     int
	Tier      schema.DocTier
	Breakdown map[schema.BreakdownKey]int
}

// Score computes the 0-100 documentation score. It is a pure function of its input.
func Score(in Input) Result {
	w := schema.ScoreWeights
	breakdown := map[schema.BreakdownKey]int{
		schema.BreakdownDocRatio:  0,
		schema.BreakdownParam:     0,
		schema.BreakdownReturn:    0,
		schema.BreakdownBrief:     0,
		schema.BreakdownDocToCode: 0,
	}

	switch {
	case in.DocRatio > highDocRatio:
		breakdown[schema.BreakdownDocRatio] = w[schema.BreakdownDocRatio]
	case in.DocRatio > mediumDocRatio:
		breakdown[schema.BreakdownDocRatio] = w[schema.BreakdownDocRatio] / 2
	case in.DocRatio > lowDocRatio:
		breakdown[schema.BreakdownDocRatio] = w[schema.BreakdownDocRatio] / 6
	}
	if in.Tags.HasParam() {
		breakdown[schema.BreakdownParam] = w[schema.BreakdownParam]
	}
	if in.Tags.HasReturn() {
		breakdown[schema.BreakdownReturn] = w[schema.BreakdownReturn]
	}
	if in.Tags.HasBrief() {
		breakdown[schema.BreakdownBrief] = w[schema.BreakdownBrief]
	}
	if in.DocToCodeRatio > minDocToCode {
		breakdown[schema.BreakdownDocToCode] = w[schema.BreakdownDocToCode]
	}

	total := 0
	for _, v := range breakdown {
		total += v
	}
	cuts := in.Cuts
	if cuts == (schema.TierCuts{}) {
		cuts = schema.DefaultTierCuts
	}
	return Result{Score: total, Tier: Classify(total, cuts), Breakdown: breakdown}
}

// Classify maps a score onto its documentation tier.
func Classify(score int, cuts schema.TierCuts) schema.DocTier {
	switch {
	case score >= cuts.Well:
		return schema.WellTier
	case score >= cuts.Partial:
		return schema.PartialTier
	default:
		return schema.PoorTier
	}
}

// ScoreUnits scores each unit on its own: ratio 1 when documented, its own tags,
// and the block-to-declaration character ratio.
func ScoreUnits(units []schema.DocumentableUnit, cuts schema.TierCuts) []schema.UnitScore {
	out := make([]schema.UnitScore, 0, len(units))
	for _, u := range units {
		in := Input{Tags: u.Tags, Cuts: cuts}
		if u.Documented {
			in.DocRatio = 1
			if u.DeclChars > 0 {
				in.DocToCodeRatio = float64(u.BlockChars) / float64(u.DeclChars)
			}
		}
		r := Score(in)
		out = append(out, schema.UnitScore{
			Kind:       u.Kind,
			Name:       u.Name,
			Line:       u.Line,
			Documented: u.Documented,
			Score:      r.Score,
			Tier:       r.Tier,
		})
	}
	return out
}
