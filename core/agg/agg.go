// Package agg rolls per-file metrics up to module and project summaries.
package agg

import (
	"sort"

	"github.com/huangsam/docscope/core/algo"
	"github.com/huangsam/docscope/schema"
)

// DefaultLimit is the number of examples kept per tier and per quality list.
const DefaultLimit = 5

// Options controls the reduction.
type Options struct {
	Scope schema.QualityScope // Files feeding the code-quality distributions
	Limit int                 // Examples per tier and per quality list
}

// Aggregate reduces file metrics to a ProjectSummary. It is a pure function
// of its inputs: metrics are sorted by path first, so input order never matters.
func Aggregate(metrics []schema.FileMetrics, failures []schema.AnalysisFailure, opts Options) schema.ProjectSummary {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	sorted := make([]schema.FileMetrics, len(metrics))
	copy(sorted, metrics)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	total := newAccumulator()
	modules := make(map[string]*accumulator)
	for _, m := range sorted {
		inScope := opts.Scope != schema.PoorScope || m.DocTier == schema.PoorTier
		total.add(m, inScope)
		acc, ok := modules[m.Module]
		if !ok {
			acc = newAccumulator()
			modules[m.Module] = acc
		}
		acc.add(m, inScope)
	}

	summary := schema.ProjectSummary{
		Totals:          total.rollup(),
		Modules:         make(map[string]schema.ModuleSummary, len(modules)),
		FilesByCategory: filesByCategory(sorted, opts.Limit),
		Examples:        qualityExamples(sorted, opts),
		FailedFiles:     len(failures),
	}
	priorities := make([]schema.ModulePriority, 0, len(modules))
	for name, acc := range modules {
		r := acc.rollup()
		summary.Modules[name] = schema.ModuleSummary{Name: name, Rollup: r}
		priorities = append(priorities, priorityOf(name, acc, r))
	}
	summary.Priorities = algo.RankModules(priorities, 0)
	return summary
}

// priorityOf computes usage x complexity, where usage is the number of
// documentable units and complexity is the mean density over all module files.
func priorityOf(name string, acc *accumulator, r schema.Rollup) schema.ModulePriority {
	usage := r.Classes + r.Functions
	mean := 0.0
	if r.Files > 0 {
		mean = acc.densityAll / float64(r.Files)
	}
	return schema.ModulePriority{
		Module:         name,
		Files:          r.Files,
		Usage:          usage,
		MeanComplexity: mean,
		Priority:       float64(usage) * mean,
		PoorPct:        r.Docs.PoorPct,
	}
}

// accumulator holds the running sums of one module or of the whole project.
type accumulator struct {
	r          schema.Rollup
	scoreSum   int
	densityAll float64
	densityQ   float64
	dated      int
}

func newAccumulator() *accumulator {
	return &accumulator{}
}

func (a *accumulator) add(m schema.FileMetrics, inScope bool) {
	r := &a.r
	r.Files++
	r.Classes += m.Classes
	r.Functions += m.Functions
	r.DocumentedClasses += m.DocumentedClasses
	r.DocumentedFunctions += m.DocumentedFunctions
	a.scoreSum += m.DocScore
	a.densityAll += m.ComplexityDensity

	switch m.DocTier {
	case schema.WellTier:
		r.Docs.Well++
	case schema.PartialTier:
		r.Docs.Partial++
	default:
		r.Docs.Poor++
	}

	if !inScope {
		return
	}
	r.QualityFiles++
	a.densityQ += m.ComplexityDensity

	switch m.ComplexityTier {
	case schema.ModerateComplexity:
		r.Complexity.Moderate++
	case schema.ComplexComplexity:
		r.Complexity.Complex++
	case schema.VeryComplexComplexity:
		r.Complexity.VeryComplex++
	default:
		r.Complexity.Simple++
	}

	if m.MagicFlagged {
		r.Magic.FilesWithMagicNumbers++
		r.Magic.TotalMagicNumbers += m.MagicNumbers
	}

	switch m.AgeBucket {
	case schema.AgePre2010:
		r.Age.Pre2010++
	case schema.Age2010:
		r.Age.From2010++
	case schema.Age2016:
		r.Age.From2016++
	case schema.Age2021:
		r.Age.From2021++
	default:
		r.Age.Unknown++
	}
	if m.AgeBucket != schema.AgeUnknown && m.AgeBucket != "" {
		a.dated++
	}

	s := m.Smells
	r.Smells.TODO += s.TODO
	r.Smells.FIXME += s.FIXME
	r.Smells.HACK += s.HACK
	r.Smells.DeprecatedMarkers += s.Deprecated
	if s.Deprecated > 0 {
		r.Smells.DeprecatedFiles++
	}
	r.Smells.LongFunctions += s.LongFunctions
	if s.DeepNesting {
		r.Smells.DeepNestingFiles++
	}
	r.Smells.MaxNesting = max(r.Smells.MaxNesting, s.MaxNesting)
}

// rollup finishes the percentages. Every denominator is checked, so an
// empty scope yields zeros rather than NaN.
func (a *accumulator) rollup() schema.Rollup {
	r := a.r
	r.ClassDocPct = pct(r.DocumentedClasses, r.Classes)
	r.FunctionDocPct = pct(r.DocumentedFunctions, r.Functions)
	r.DocPct = pct(r.DocumentedClasses+r.DocumentedFunctions, r.Classes+r.Functions)
	if r.Files > 0 {
		r.MeanScore = float64(a.scoreSum) / float64(r.Files)
	}

	r.Docs.WellPct = pct(r.Docs.Well, r.Files)
	r.Docs.PartialPct = pct(r.Docs.Partial, r.Files)
	r.Docs.PoorPct = pct(r.Docs.Poor, r.Files)

	q := r.QualityFiles
	r.Complexity.SimplePct = pct(r.Complexity.Simple, q)
	r.Complexity.ModeratePct = pct(r.Complexity.Moderate, q)
	r.Complexity.ComplexPct = pct(r.Complexity.Complex, q)
	r.Complexity.VeryComplexPct = pct(r.Complexity.VeryComplex, q)
	if q > 0 {
		r.Complexity.MeanDensity = a.densityQ / float64(q)
	}
	r.Magic.FlaggedPct = pct(r.Magic.FilesWithMagicNumbers, q)

	r.Age.Pre2010Pct = pct(r.Age.Pre2010, a.dated)
	r.Age.From2010Pct = pct(r.Age.From2010, a.dated)
	r.Age.From2016Pct = pct(r.Age.From2016, a.dated)
	r.Age.From2021Pct = pct(r.Age.From2021, a.dated)
	return r
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// filesByCategory keeps the best 'limit' files of each tier, by score then path.
func filesByCategory(sorted []schema.FileMetrics, limit int) map[schema.DocTier][]schema.FileExample {
	out := make(map[schema.DocTier][]schema.FileExample, len(schema.AllDocTiers))
	for _, tier := range schema.AllDocTiers {
		ranked := algo.RankFiles(algo.FilterTier(sorted, tier), false, limit)
		examples := make([]schema.FileExample, 0, len(ranked))
		for _, m := range ranked {
			examples = append(examples, schema.FileExample{
				Path:      m.Path,
				Module:    m.Module,
				Score:     m.DocScore,
				Classes:   m.Classes,
				Functions: m.Functions,
				DocRatio:  m.DocRatio,
			})
		}
		out[tier] = examples
	}
	return out
}

// qualityExamples lists the worst magic-number offenders, deprecated files
// and deeply nested files among the files in scope.
func qualityExamples(sorted []schema.FileMetrics, opts Options) schema.QualityExamples {
	var magic []schema.MagicOffender
	var nesting []schema.NestingExample
	ex := schema.QualityExamples{
		MagicNumbers: []schema.MagicOffender{},
		Deprecated:   []string{},
		DeepNesting:  []schema.NestingExample{},
	}
	for _, m := range sorted {
		if opts.Scope == schema.PoorScope && m.DocTier != schema.PoorTier {
			continue
		}
		if m.MagicFlagged {
			magic = append(magic, schema.MagicOffender{Path: m.Path, Count: m.MagicNumbers, Samples: m.MagicSamples})
		}
		if m.Smells.Deprecated > 0 && len(ex.Deprecated) < opts.Limit {
			ex.Deprecated = append(ex.Deprecated, m.Path)
		}
		if m.Smells.DeepNesting {
			nesting = append(nesting, schema.NestingExample{Path: m.Path, Depth: m.Smells.MaxNesting})
		}
	}

	sort.SliceStable(magic, func(i, j int) bool { return magic[i].Count > magic[j].Count })
	sort.SliceStable(nesting, func(i, j int) bool { return nesting[i].Depth > nesting[j].Depth })
	if len(magic) > opts.Limit {
		magic = magic[:opts.Limit]
	}
	if len(nesting) > opts.Limit {
		nesting = nesting[:opts.Limit]
	}
	ex.MagicNumbers = append(ex.MagicNumbers, magic...)
	ex.DeepNesting = append(ex.DeepNesting, nesting...)
	return ex
}
