package schema

// Custom string types for type safety.
type (
	// DocTier is the three-way documentation classification of a file or unit.
	DocTier string

	// ComplexityTier is the four-way control-flow density classification of a file.
	ComplexityTier string

	// AgeBucket is the era a file is placed in from year tokens in its comments.
	AgeBucket string

	// UnitKind is the kind of a documentable declaration.
	UnitKind string

	// BlockKind is the lexical shape of a comment block.
	BlockKind string

	// BreakdownKey represents keys used in scoring breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// FailureKind classifies a recovered per-file problem.
	FailureKind string

	// QualityScope selects which files feed the code-quality distributions.
	QualityScope string

	// DatabaseBackend represents the backend for run history.
	DatabaseBackend string
)

// Documentation tiers.
const (
	WellTier    DocTier = "well"
	PartialTier DocTier = "partial"
	PoorTier    DocTier = "poor"
)

// Complexity tiers.
const (
	SimpleComplexity      ComplexityTier = "simple"
	ModerateComplexity    ComplexityTier = "moderate"
	ComplexComplexity     ComplexityTier = "complex"
	VeryComplexComplexity ComplexityTier = "very-complex"
)

// Age buckets.
const (
	AgePre2010 AgeBucket = "pre-2010"
	Age2010    AgeBucket = "2010-2015"
	Age2016    AgeBucket = "2016-2020"
	Age2021    AgeBucket = "2021-plus"
	AgeUnknown AgeBucket = "unknown"
)

// Documentable unit kinds.
const (
	ClassUnit    UnitKind = "class"
	FunctionUnit UnitKind = "function"
)

// Comment block kinds.
const (
	BlockComment   BlockKind = "block-comment"
	LineCommentRun BlockKind = "line-comment-run"
)

// Breakdown keys used in the scoring logic.
const (
	BreakdownDocRatio  BreakdownKey = "doc_ratio"
	BreakdownParam     BreakdownKey = "param"
	BreakdownReturn    BreakdownKey = "return"
	BreakdownBrief     BreakdownKey = "brief"
	BreakdownDocToCode BreakdownKey = "doc_to_code"
)

// All output modes supported.
const (
	JSONOut    OutputMode = "json" // default
	YAMLOut    OutputMode = "yaml"
	TextOut    OutputMode = "text"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// Failure kinds recorded in diagnostics.
const (
	ReadFailure     FailureKind = "read"
	DetectorFailure FailureKind = "detector"
)

// Quality scopes.
const (
	AllScope  QualityScope = "all" // default
	PoorScope QualityScope = "poor"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	BoltBackend       DatabaseBackend = "bolt"
	NoneBackend       DatabaseBackend = "none"
)

// OtherModule is the module for files that sit outside any module directory.
const OtherModule = "other"

// AllDocTiers lists documentation tiers from best to worst.
var AllDocTiers = []DocTier{WellTier, PartialTier, PoorTier}

// AllComplexityTiers lists complexity tiers from lowest to highest.
var AllComplexityTiers = []ComplexityTier{SimpleComplexity, ModerateComplexity, ComplexComplexity, VeryComplexComplexity}

// DatedAgeBuckets lists the buckets that count towards age percentages.
var DatedAgeBuckets = []AgeBucket{AgePre2010, Age2010, Age2016, Age2021}

// ScoreWeights holds the fixed maximum contribution of each scoring component.
var ScoreWeights = map[BreakdownKey]int{
	BreakdownDocRatio:  30,
	BreakdownParam:     20,
	BreakdownReturn:    20,
	BreakdownBrief:     15,
	BreakdownDocToCode: 15,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	JSONOut:    {},
	YAMLOut:    {},
	TextOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidDocTiers lists all valid documentation tiers.
var ValidDocTiers = map[DocTier]struct{}{
	WellTier:    {},
	PartialTier: {},
	PoorTier:    {},
}

// ValidQualityScopes lists all valid quality scopes.
var ValidQualityScopes = map[QualityScope]struct{}{
	AllScope:  {},
	PoorScope: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	BoltBackend:       {},
	NoneBackend:       {},
}
