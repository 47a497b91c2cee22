// Package schema has the data model, constants and error types for all parts of docscope.
package schema

// SourceRef identifies a file selected by the loader before its content is read.
type SourceRef struct {
	Path    string // Absolute path on disk
	RelPath string // Slash-separated path used for display and exclusion matching
	Module  string // Owning module name
}

// SourceFile is one loaded source file. It is never mutated after loading.
type SourceFile struct {
	Path      string
	RelPath   string
	Module    string
	Content   string
	LineCount int
}

// CommentBlock is a contiguous span of comment lines within a SourceFile.
type CommentBlock struct {
	StartLine int       // 1-based first line
	EndLine   int       // 1-based last line
	Text      string    // Comment text including delimiters
	Kind      BlockKind // block-comment or line-comment-run
	Doc       bool      // Opened with a Doxygen marker (/**, /*!, ///, //!)
	Trailing  bool      // Started after code on the same line
}

// DocTagSet holds the documentation tags found for a unit or a file.
type DocTagSet struct {
	Brief           int  `json:"brief" yaml:"brief"`
	Params          int  `json:"params" yaml:"params"`
	Returns         int  `json:"returns" yaml:"returns"`
	HasDetailedText bool `json:"has_detailed_text" yaml:"has_detailed_text"`
}

// HasBrief reports whether a brief marker was seen.
func (t DocTagSet) HasBrief() bool { return t.Brief > 0 }

// HasParam reports whether a param marker was seen.
func (t DocTagSet) HasParam() bool { return t.Params > 0 }

// HasReturn reports whether a return marker was seen.
func (t DocTagSet) HasReturn() bool { return t.Returns > 0 }

// IsEmpty reports whether no tag and no prose was found.
func (t DocTagSet) IsEmpty() bool {
	return t.Brief == 0 && t.Params == 0 && t.Returns == 0 && !t.HasDetailedText
}

// Add returns the sum of two tag sets.
func (t DocTagSet) Add(o DocTagSet) DocTagSet {
	return DocTagSet{
		Brief:           t.Brief + o.Brief,
		Params:          t.Params + o.Params,
		Returns:         t.Returns + o.Returns,
		HasDetailedText: t.HasDetailedText || o.HasDetailedText,
	}
}

// DocumentableUnit is a class or function declaration site.
type DocumentableUnit struct {
	Kind       UnitKind
	Name       string
	Line       int
	Documented bool
	Tags       DocTagSet
	BlockChars int // Characters of the attached documentation block
	DeclChars  int // Characters of the declaration line
}

// UnitScore is the scored form of a DocumentableUnit.
type UnitScore struct {
	Kind       UnitKind `json:"kind" yaml:"kind"`
	Name       string   `json:"name" yaml:"name"`
	Line       int      `json:"line" yaml:"line"`
	Documented bool     `json:"documented" yaml:"documented"`
	Score      int      `json:"score" yaml:"score"`
	Tier       DocTier  `json:"tier" yaml:"tier"`
}

// MagicMatch is one magic-number hit.
type MagicMatch struct {
	Line    int
	Literal string
}

// SmellCounts holds the code-smell markers and structural findings of one file.
type SmellCounts struct {
	TODO          int  `json:"todo" yaml:"todo"`
	FIXME         int  `json:"fixme" yaml:"fixme"`
	HACK          int  `json:"hack" yaml:"hack"`
	Deprecated    int  `json:"deprecated" yaml:"deprecated"`
	LongFunctions int  `json:"long_functions" yaml:"long_functions"`
	MaxNesting    int  `json:"max_nesting" yaml:"max_nesting"`
	DeepNesting   bool `json:"deep_nesting" yaml:"deep_nesting"`
}

// FileMetrics is the per-file result of one analysis pass.
type FileMetrics struct {
	Path      string `json:"path" yaml:"path"`
	Module    string `json:"module" yaml:"module"`
	SizeBytes int    `json:"file_size" yaml:"file_size"`
	Lines     int    `json:"lines" yaml:"lines"`
	CodeLines int    `json:"code_lines" yaml:"code_lines"`

	Classes             int     `json:"classes" yaml:"classes"`
	Functions           int     `json:"functions" yaml:"functions"`
	DocumentedClasses   int     `json:"documented_classes" yaml:"documented_classes"`
	DocumentedFunctions int     `json:"documented_functions" yaml:"documented_functions"`
	DocBlocks           int     `json:"doc_blocks" yaml:"doc_blocks"`
	DocLines            int     `json:"doc_lines" yaml:"doc_lines"`
	BriefCount          int     `json:"brief_count" yaml:"brief_count"`
	ParamCount          int     `json:"param_count" yaml:"param_count"`
	ReturnCount         int     `json:"return_count" yaml:"return_count"`
	DocRatio            float64 `json:"doc_ratio" yaml:"doc_ratio"`
	DocToCodeRatio      float64 `json:"doc_to_code_ratio" yaml:"doc_to_code_ratio"`

	DocScore  int                  `json:"quality_score" yaml:"quality_score"`
	DocTier   DocTier              `json:"category" yaml:"category"`
	Breakdown map[BreakdownKey]int `json:"breakdown" yaml:"breakdown"`

	ComplexityKeywords int            `json:"complexity_keywords" yaml:"complexity_keywords"`
	ComplexityDensity  float64        `json:"complexity_density" yaml:"complexity_density"`
	ComplexityTier     ComplexityTier `json:"complexity" yaml:"complexity"`

	MagicNumbers int      `json:"magic_numbers" yaml:"magic_numbers"`
	MagicSamples []string `json:"magic_samples,omitempty" yaml:"magic_samples,omitempty"`
	MagicFlagged bool     `json:"magic_flagged" yaml:"magic_flagged"`

	AgeBucket  AgeBucket `json:"age" yaml:"age"`
	LatestYear int       `json:"latest_year,omitempty" yaml:"latest_year,omitempty"`

	Smells SmellCounts `json:"smells" yaml:"smells"`

	Units []UnitScore `json:"units,omitempty" yaml:"units,omitempty"`
}

// Items returns the number of documentable units in the file.
func (m FileMetrics) Items() int { return m.Classes + m.Functions }

// DocumentedItems returns the number of documented units in the file.
func (m FileMetrics) DocumentedItems() int { return m.DocumentedClasses + m.DocumentedFunctions }

// AnalysisFailure is a recovered per-file problem recorded in the run diagnostics.
type AnalysisFailure struct {
	Path     string      `json:"path" yaml:"path"`
	Module   string      `json:"module,omitempty" yaml:"module,omitempty"`
	Kind     FailureKind `json:"kind" yaml:"kind"`
	Detector string      `json:"detector,omitempty" yaml:"detector,omitempty"`
	Message  string      `json:"message" yaml:"message"`
}

// Diagnostics collects everything that went wrong without stopping the run.
// Warnings hold unreadable files; Failures hold files whose analysis failed.
type Diagnostics struct {
	Warnings []AnalysisFailure `json:"warnings" yaml:"warnings"`
	Failures []AnalysisFailure `json:"failures" yaml:"failures"`
}

// AnalysisResult is the complete output of one run.
type AnalysisResult struct {
	Roots []string `json:"roots" yaml:"roots"`

	ProjectSummary `yaml:",inline"`

	Files       []FileMetrics `json:"files" yaml:"files"`
	Diagnostics Diagnostics   `json:"diagnostics" yaml:"diagnostics"`
}
