package schema

// DocDistribution counts files per documentation tier.
type DocDistribution struct {
	Well       int     `json:"well_doc" yaml:"well_doc"`
	Partial    int     `json:"partial_doc" yaml:"partial_doc"`
	Poor       int     `json:"poor_doc" yaml:"poor_doc"`
	WellPct    float64 `json:"well_documented_pct" yaml:"well_documented_pct"`
	PartialPct float64 `json:"partially_documented_pct" yaml:"partially_documented_pct"`
	PoorPct    float64 `json:"poorly_documented_pct" yaml:"poorly_documented_pct"`
}

// ComplexityDistribution counts files per complexity tier.
type ComplexityDistribution struct {
	Simple         int     `json:"simple" yaml:"simple"`
	Moderate       int     `json:"moderate" yaml:"moderate"`
	Complex        int     `json:"complex" yaml:"complex"`
	VeryComplex    int     `json:"very_complex" yaml:"very_complex"`
	SimplePct      float64 `json:"simple_pct" yaml:"simple_pct"`
	ModeratePct    float64 `json:"moderate_pct" yaml:"moderate_pct"`
	ComplexPct     float64 `json:"complex_pct" yaml:"complex_pct"`
	VeryComplexPct float64 `json:"very_complex_pct" yaml:"very_complex_pct"`
	MeanDensity    float64 `json:"mean_density" yaml:"mean_density"`
}

// MagicTotals sums magic-number findings.
type MagicTotals struct {
	FilesWithMagicNumbers int     `json:"files_with_magic_numbers" yaml:"files_with_magic_numbers"`
	FlaggedPct            float64 `json:"flagged_pct" yaml:"flagged_pct"`
	TotalMagicNumbers     int     `json:"total_magic_numbers" yaml:"total_magic_numbers"`
}

// AgeDistribution counts files per age bucket.
// Percentages are taken over dated files only, so Unknown never contributes to them.
type AgeDistribution struct {
	Pre2010     int     `json:"pre_2010" yaml:"pre_2010"`
	From2010    int     `json:"2010_2015" yaml:"2010_2015"`
	From2016    int     `json:"2016_2020" yaml:"2016_2020"`
	From2021    int     `json:"2021_plus" yaml:"2021_plus"`
	Unknown     int     `json:"unknown" yaml:"unknown"`
	Pre2010Pct  float64 `json:"pre_2010_pct" yaml:"pre_2010_pct"`
	From2010Pct float64 `json:"2010_2015_pct" yaml:"2010_2015_pct"`
	From2016Pct float64 `json:"2016_2020_pct" yaml:"2016_2020_pct"`
	From2021Pct float64 `json:"2021_plus_pct" yaml:"2021_plus_pct"`
}

// SmellTotals sums code-smell findings.
type SmellTotals struct {
	TODO              int `json:"todo_comments" yaml:"todo_comments"`
	FIXME             int `json:"fixme_comments" yaml:"fixme_comments"`
	HACK              int `json:"hack_comments" yaml:"hack_comments"`
	DeprecatedMarkers int `json:"deprecated_markers" yaml:"deprecated_markers"`
	DeprecatedFiles   int `json:"deprecated" yaml:"deprecated"`
	LongFunctions     int `json:"long_functions" yaml:"long_functions"`
	DeepNestingFiles  int `json:"deep_nesting" yaml:"deep_nesting"`
	MaxNesting        int `json:"max_nesting" yaml:"max_nesting"`
}

// Rollup is the shared shape of module and project statistics.
type Rollup struct {
	Files               int     `json:"files" yaml:"files"`
	Classes             int     `json:"classes" yaml:"classes"`
	Functions           int     `json:"functions" yaml:"functions"`
	DocumentedClasses   int     `json:"doc_classes" yaml:"doc_classes"`
	DocumentedFunctions int     `json:"doc_functions" yaml:"doc_functions"`
	ClassDocPct         float64 `json:"class_documentation_pct" yaml:"class_documentation_pct"`
	FunctionDocPct      float64 `json:"function_documentation_pct" yaml:"function_documentation_pct"`
	DocPct              float64 `json:"doc_pct" yaml:"doc_pct"`
	MeanScore           float64 `json:"mean_score" yaml:"mean_score"`

	Docs DocDistribution `json:"documentation" yaml:"documentation"`

	// QualityFiles is the number of files feeding the distributions below.
	QualityFiles int                    `json:"quality_files" yaml:"quality_files"`
	Complexity   ComplexityDistribution `json:"complexity" yaml:"complexity"`
	Magic        MagicTotals            `json:"magic_numbers" yaml:"magic_numbers"`
	Age          AgeDistribution        `json:"age_indicators" yaml:"age_indicators"`
	Smells       SmellTotals            `json:"code_smells" yaml:"code_smells"`
}

// ModuleSummary is the rollup of every file sharing one module name.
type ModuleSummary struct {
	Name string `json:"name" yaml:"name"`

	Rollup `yaml:",inline"`
}

// ModulePriority ranks a module by how much work documenting it would pay off.
type ModulePriority struct {
	Rank           int     `json:"rank" yaml:"rank"`
	Module         string  `json:"module" yaml:"module"`
	Files          int     `json:"files" yaml:"files"`
	Usage          int     `json:"usage" yaml:"usage"`
	MeanComplexity float64 `json:"mean_complexity" yaml:"mean_complexity"`
	Priority       float64 `json:"priority" yaml:"priority"`
	PoorPct        float64 `json:"poorly_documented_pct" yaml:"poorly_documented_pct"`
}

// MagicOffender is a file with many magic numbers.
type MagicOffender struct {
	Path    string   `json:"file" yaml:"file"`
	Count   int      `json:"count" yaml:"count"`
	Samples []string `json:"samples" yaml:"samples"`
}

// NestingExample is a file with deep brace nesting.
type NestingExample struct {
	Path  string `json:"file" yaml:"file"`
	Depth int    `json:"depth" yaml:"depth"`
}

// FileExample is a compact per-tier listing entry.
type FileExample struct {
	Path      string  `json:"file" yaml:"file"`
	Module    string  `json:"module" yaml:"module"`
	Score     int     `json:"quality_score" yaml:"quality_score"`
	Classes   int     `json:"classes" yaml:"classes"`
	Functions int     `json:"functions" yaml:"functions"`
	DocRatio  float64 `json:"doc_ratio" yaml:"doc_ratio"`
}

// QualityExamples lists sample files for the code-quality findings.
type QualityExamples struct {
	MagicNumbers []MagicOffender  `json:"magic_numbers" yaml:"magic_numbers"`
	Deprecated   []string         `json:"deprecated" yaml:"deprecated"`
	DeepNesting  []NestingExample `json:"deep_nesting" yaml:"deep_nesting"`
}

// ProjectSummary aggregates every ModuleSummary of a run.
type ProjectSummary struct {
	Totals          Rollup                    `json:"summary" yaml:"summary"`
	Modules         map[string]ModuleSummary  `json:"modules" yaml:"modules"`
	Priorities      []ModulePriority          `json:"priorities" yaml:"priorities"`
	FilesByCategory map[DocTier][]FileExample `json:"files_by_category" yaml:"files_by_category"`
	Examples        QualityExamples           `json:"examples" yaml:"examples"`
	FailedFiles     int                       `json:"failed_files" yaml:"failed_files"`
}
