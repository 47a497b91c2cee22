package schema

import "time"

// TierCuts are the lowest scores of the partial and well tiers.
type TierCuts struct {
	Partial int `json:"partial" yaml:"partial"`
	Well    int `json:"well" yaml:"well"`
}

// DefaultTierCuts places well at 60 and partial at 25.
var DefaultTierCuts = TierCuts{Partial: 25, Well: 60}

// ComplexityThresholds are the T1, T2 and T3 density cut points.
type ComplexityThresholds struct {
	Moderate    float64 `json:"moderate" yaml:"moderate"`
	Complex     float64 `json:"complex" yaml:"complex"`
	VeryComplex float64 `json:"very_complex" yaml:"very_complex"`
}

// DefaultComplexityThresholds is 5, 10 and 15 keywords per 100 code lines.
var DefaultComplexityThresholds = ComplexityThresholds{Moderate: 5, Complex: 10, VeryComplex: 15}

// DefaultUnitTokens are CLHEP unit names that exempt a literal written as value*unit.
var DefaultUnitTokens = []string{
	"pm", "nm", "um", "micrometer", "mm", "millimeter", "mm2", "mm3", "cm", "centimeter", "cm2", "cm3",
	"m", "meter", "m2", "m3", "km", "kilometer", "pc", "parsec", "fermi", "angstrom", "barn", "millibarn", "microbarn",
	"rad", "radian", "mrad", "milliradian", "deg", "degree", "sr", "steradian",
	"ps", "ns", "nanosecond", "us", "microsecond", "ms", "millisecond", "s", "second", "minute", "hour", "day", "year",
	"Hz", "hertz", "kHz", "kilohertz", "MHz", "megahertz",
	"eV", "electronvolt", "keV", "kiloelectronvolt", "MeV", "megaelectronvolt", "GeV", "gigaelectronvolt",
	"TeV", "teraelectronvolt", "PeV", "petaelectronvolt", "joule",
	"g", "gram", "mg", "milligram", "kg", "kilogram",
	"watt", "newton", "pascal", "bar", "atmosphere", "hep_pascal",
	"ampere", "milliampere", "microampere", "nanoampere", "coulomb", "volt", "kilovolt", "megavolt",
	"ohm", "farad", "henry", "tesla", "kilogauss", "gauss", "weber",
	"kelvin", "mole", "becquerel", "curie", "gray", "candela", "perCent", "perThousand", "perMillion",
}

// MagicOptions configures the magic-number detector.
type MagicOptions struct {
	MinDigits int       // Significant digits a literal needs to qualify
	Allow     []float64 // Literal values that never count
	Units     []string  // Unit tokens that exempt value*unit
	MinHits   int       // Count at which a file is flagged
}

// DefaultMagicOptions returns the stock magic-number settings.
func DefaultMagicOptions() MagicOptions {
	return MagicOptions{
		MinDigits: 3,
		Allow:     []float64{100, 1000},
		Units:     append([]string(nil), DefaultUnitTokens...),
		MinHits:   5,
	}
}

// SmellOptions configures the code-smell scanner.
type SmellOptions struct {
	DeprecatedMarkers []string // Case-sensitive markers counted in comment text
	LongFunctionLines int      // Body spans above this are long
	NestingDepth      int      // Depths above this flag the file
}

// DefaultSmellOptions returns the stock code-smell settings.
func DefaultSmellOptions() SmellOptions {
	return SmellOptions{
		DeprecatedMarkers: []string{"deprecated", "DEPRECATED"},
		LongFunctionLines: 100,
		NestingDepth:      6,
	}
}

// LoadOptions configures file enumeration.
type LoadOptions struct {
	IncludeExt []string // Extensions with leading dot
	Exclude    []string // Doublestar globs matched against root-relative paths
	SourceDir  string   // Path segment after which the module name is read
}

// DefaultIncludeExt lists the extensions analyzed by default.
var DefaultIncludeExt = []string{".hh", ".h", ".cc"}

// DefaultExcludeGlobs lists the globs excluded by default.
var DefaultExcludeGlobs = []string{"*/test/*", "*/examples/*"}

// DefaultLoadOptions returns the stock loader settings.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		IncludeExt: append([]string(nil), DefaultIncludeExt...),
		Exclude:    append([]string(nil), DefaultExcludeGlobs...),
	}
}

// AnalysisOptions bundles everything a single file's pass needs.
type AnalysisOptions struct {
	Cuts        TierCuts
	Complexity  ComplexityThresholds
	Magic       MagicOptions
	Smells      SmellOptions
	NowYear     int
	Detail      bool
	FileTimeout time.Duration
}

// DefaultAnalysisOptions returns stock per-file settings for the given year.
func DefaultAnalysisOptions(nowYear int) AnalysisOptions {
	return AnalysisOptions{
		Cuts:       DefaultTierCuts,
		Complexity: DefaultComplexityThresholds,
		Magic:      DefaultMagicOptions(),
		Smells:     DefaultSmellOptions(),
		NowYear:    nowYear,
	}
}
