package outwriter

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
)

func testConfig(t *testing.T, output schema.OutputMode, fileName string) *contract.Config {
	t.Helper()
	cfg := contract.NewDefaultConfig([]string{"."})
	cfg.Output = output
	cfg.Workers = 2
	cfg.Width = 120
	if fileName != "" {
		cfg.OutputFile = filepath.Join(t.TempDir(), fileName)
	}
	return cfg
}

func sampleFiles() []schema.FileMetrics {
	return []schema.FileMetrics{
		{
			Path: "geometry/include/G4Box.hh", Module: "geometry",
			Classes: 1, Functions: 3, DocumentedClasses: 1, DocumentedFunctions: 3,
			DocRatio: 1, DocScore: 100, DocTier: schema.WellTier,
			ComplexityDensity: 2.5, ComplexityTier: schema.SimpleComplexity,
			AgeBucket: schema.Age2021,
		},
		{
			Path: "tracking/src/G4Step.cc", Module: "tracking",
			Functions: 4, DocumentedFunctions: 1,
			DocRatio: 0.25, DocScore: 20, DocTier: schema.PoorTier,
			ComplexityDensity: 12, ComplexityTier: schema.ComplexComplexity,
			MagicNumbers: 6, MagicFlagged: true, AgeBucket: schema.AgePre2010,
			Smells: schema.SmellCounts{TODO: 2, FIXME: 1, Deprecated: 1, LongFunctions: 1, MaxNesting: 7, DeepNesting: true},
		},
	}
}

func sampleResult() *schema.AnalysisResult {
	files := sampleFiles()
	totals := schema.Rollup{
		Files: 2, Classes: 1, Functions: 7, DocumentedClasses: 1, DocumentedFunctions: 4,
		ClassDocPct: 100, FunctionDocPct: 57.1, DocPct: 62.5, MeanScore: 60,
		Docs:         schema.DocDistribution{Well: 1, Poor: 1, WellPct: 50, PoorPct: 50},
		QualityFiles: 2,
		Complexity:   schema.ComplexityDistribution{Simple: 1, Complex: 1, SimplePct: 50, ComplexPct: 50, MeanDensity: 7.25},
		Magic:        schema.MagicTotals{FilesWithMagicNumbers: 1, FlaggedPct: 50, TotalMagicNumbers: 6},
		Age:          schema.AgeDistribution{Pre2010: 1, From2021: 1, Pre2010Pct: 50, From2021Pct: 50},
		Smells:       schema.SmellTotals{TODO: 2, FIXME: 1, DeprecatedMarkers: 1, DeprecatedFiles: 1, LongFunctions: 1, DeepNestingFiles: 1, MaxNesting: 7},
	}
	geometry := schema.Rollup{Files: 1, Classes: 1, Functions: 3, DocumentedClasses: 1, DocumentedFunctions: 3,
		ClassDocPct: 100, FunctionDocPct: 100, MeanScore: 100, Docs: schema.DocDistribution{Well: 1, WellPct: 100}}
	tracking := schema.Rollup{Files: 1, Functions: 4, DocumentedFunctions: 1,
		FunctionDocPct: 25, MeanScore: 20, Docs: schema.DocDistribution{Poor: 1, PoorPct: 100}}

	return &schema.AnalysisResult{
		Roots: []string{"."},
		ProjectSummary: schema.ProjectSummary{
			Totals: totals,
			Modules: map[string]schema.ModuleSummary{
				"geometry": {Name: "geometry", Rollup: geometry},
				"tracking": {Name: "tracking", Rollup: tracking},
			},
			Priorities: []schema.ModulePriority{
				{Rank: 1, Module: "tracking", Files: 1, Usage: 4, MeanComplexity: 12, Priority: 48, PoorPct: 100},
				{Rank: 2, Module: "geometry", Files: 1, Usage: 4, MeanComplexity: 2.5, Priority: 10},
			},
			FilesByCategory: map[schema.DocTier][]schema.FileExample{
				schema.WellTier: {{Path: files[0].Path, Module: "geometry", Score: 100, Classes: 1, Functions: 3, DocRatio: 1}},
				schema.PoorTier: {{Path: files[1].Path, Module: "tracking", Score: 20, Functions: 4, DocRatio: 0.25}},
			},
			Examples: schema.QualityExamples{
				MagicNumbers: []schema.MagicOffender{{Path: files[1].Path, Count: 6, Samples: []string{"0.577", "1.414"}}},
				Deprecated:   []string{files[1].Path},
				DeepNesting:  []schema.NestingExample{{Path: files[1].Path, Depth: 7}},
			},
			FailedFiles: 1,
		},
		Files: files,
		Diagnostics: schema.Diagnostics{
			Warnings: []schema.AnalysisFailure{{Path: "run/G4Bin.cc", Kind: schema.ReadFailure, Message: "binary content"}},
			Failures: []schema.AnalysisFailure{{Path: "run/G4Bad.cc", Kind: schema.DetectorFailure, Detector: "smells", Message: "unbalanced braces"}},
		},
	}
}

func sampleModules() []schema.RankedModule {
	return schema.EnrichModules(sampleResult().ProjectSummary)
}
