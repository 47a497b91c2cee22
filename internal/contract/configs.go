package contract

import (
	"fmt"
	"maps"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/docscope/core/loader"
	"github.com/huangsam/docscope/schema"
	"golang.org/x/term"
)

// Default values for configuration.
const (
	DefaultResultLimit = 5
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ThresholdsRawInput holds check gate definitions from the YAML config file.
type ThresholdsRawInput struct {
	Well     *float64 `mapstructure:"well"`
	Poor     *float64 `mapstructure:"poor"`
	Class    *float64 `mapstructure:"class"`
	Function *float64 `mapstructure:"function"`
	Failed   *float64 `mapstructure:"failed"`
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Roots       []string
	Load        schema.LoadOptions
	Analysis    schema.AnalysisOptions
	Workers     int
	Scope       schema.QualityScope
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	Tier        schema.DocTier
	Ascending   bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// CheckThresholds is a mapping of [CheckMetric] = gate value
	CheckThresholds schema.CheckThresholds

	UseColors   bool // Enable colored labels in table output
	UseProgress bool // Show a progress bar on stderr
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	Roots []string

	// --- Fields from rootCmd.PersistentFlags() ---
	IncludeExt           string `mapstructure:"include-ext"`
	Exclude              string `mapstructure:"exclude"`
	SourceDir            string `mapstructure:"source-dir"`
	ComplexityThresholds string `mapstructure:"complexity-thresholds"`
	MagicDigits          int    `mapstructure:"magic-digits"`
	MagicAllow           string `mapstructure:"magic-allow"`
	MagicUnits           string `mapstructure:"magic-units"`
	MagicMinHits         int    `mapstructure:"magic-min-hits"`
	LongFunctionLines    int    `mapstructure:"long-function-lines"`
	NestingDepth         int    `mapstructure:"nesting-depth"`
	DocTiers             string `mapstructure:"doc-tiers"`
	DeprecatedMarkers    string `mapstructure:"deprecated-markers"`
	Workers              int    `mapstructure:"workers"`
	FileTimeout          string `mapstructure:"file-timeout"`
	QualityScope         string `mapstructure:"quality-scope"`
	Output               string `mapstructure:"output"`
	OutputFile           string `mapstructure:"output-file"`
	Limit                int    `mapstructure:"limit"`
	Detail               bool   `mapstructure:"detail"`
	Precision            int    `mapstructure:"precision"`
	Color                string `mapstructure:"color"`
	Width                int    `mapstructure:"width"`
	Progress             string `mapstructure:"progress"`
	HistoryBackend       string `mapstructure:"history-backend"`
	HistoryDBConnect     string `mapstructure:"history-db-connect"`

	// --- Fields from filesCmd.Flags() ---
	Tier  string `mapstructure:"tier"`
	Order string `mapstructure:"order"`

	// --- Fields from checkCmd.Flags() ---
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Check thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Roots = append([]string(nil), c.Roots...)
	clone.Load.IncludeExt = append([]string(nil), c.Load.IncludeExt...)
	clone.Load.Exclude = append([]string(nil), c.Load.Exclude...)
	clone.Analysis.Magic.Allow = append([]float64(nil), c.Analysis.Magic.Allow...)
	clone.Analysis.Magic.Units = append([]string(nil), c.Analysis.Magic.Units...)
	clone.Analysis.Smells.DeprecatedMarkers = append([]string(nil), c.Analysis.Smells.DeprecatedMarkers...)
	if c.CheckThresholds != nil {
		clone.CheckThresholds = make(schema.CheckThresholds, len(c.CheckThresholds))
		maps.Copy(clone.CheckThresholds, c.CheckThresholds)
	}
	return &clone
}

// NewDefaultConfig returns a Config with every default applied, for library and MCP callers.
func NewDefaultConfig(roots []string) *Config {
	return &Config{
		Roots:           roots,
		Load:            schema.DefaultLoadOptions(),
		Analysis:        schema.DefaultAnalysisOptions(time.Now().Year()),
		Workers:         DefaultWorkers,
		Scope:           schema.AllScope,
		ResultLimit:     DefaultResultLimit,
		Precision:       DefaultPrecision,
		Output:          schema.JSONOut,
		CheckThresholds: schema.DefaultCheckThresholds(),
		HistoryBackend:  schema.NoneBackend,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct. Every failure is a *schema.ConfigurationError.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processLoadOptions(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisOptions(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCheckThresholds(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return schema.NewConfigError("history-backend", "'%s' must be sqlite, mysql, postgresql, bolt, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return &schema.ConfigurationError{Field: "history-db-connect", Err: err}
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation and scheduling fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Roots = input.Roots
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Analysis.Detail = input.Detail

	// Parse color flag
	colors, err := ParseBoolString(defaultString(input.Color, "yes"))
	if err != nil {
		return &schema.ConfigurationError{Field: "color", Err: err}
	}
	cfg.UseColors = colors

	// Parse progress flag
	switch p := strings.ToLower(defaultString(input.Progress, "auto")); p {
	case "auto":
		cfg.UseProgress = term.IsTerminal(int(os.Stderr.Fd()))
	default:
		on, err := ParseBoolString(p)
		if err != nil {
			return &schema.ConfigurationError{Field: "progress", Err: err}
		}
		cfg.UseProgress = on
	}

	// --- 1. ResultLimit Validation ---
	limit := input.Limit
	if limit == 0 {
		limit = DefaultResultLimit
	}
	if limit < 0 || limit > MaxResultLimit {
		return schema.NewConfigError("limit", "must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = limit

	// --- 2. Workers Validation ---
	workers := input.Workers
	if workers == 0 {
		workers = DefaultWorkers
	}
	if workers < 0 {
		return schema.NewConfigError("workers", "must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = workers

	// --- 3. Precision and Output Validation ---
	precision := input.Precision
	if precision == 0 {
		precision = DefaultPrecision
	}
	if precision < 1 || precision > 2 {
		return schema.NewConfigError("precision", "must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = precision

	cfg.Output = schema.OutputMode(strings.ToLower(defaultString(input.Output, string(schema.JSONOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return schema.NewConfigError("output", "'%s' must be json, yaml, text, csv, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return schema.NewConfigError("output-file", "is required for parquet output")
	}

	// --- 4. Scope, tier and order ---
	cfg.Scope = schema.QualityScope(strings.ToLower(defaultString(input.QualityScope, string(schema.AllScope))))
	if _, ok := schema.ValidQualityScopes[cfg.Scope]; !ok {
		return schema.NewConfigError("quality-scope", "'%s' must be all or poor", input.QualityScope)
	}

	cfg.Tier = schema.DocTier(strings.ToLower(input.Tier))
	if cfg.Tier != "" {
		if _, ok := schema.ValidDocTiers[cfg.Tier]; !ok {
			return schema.NewConfigError("tier", "'%s' must be well, partial, poor", input.Tier)
		}
	}

	switch strings.ToLower(defaultString(input.Order, "desc")) {
	case "asc":
		cfg.Ascending = true
	case "desc":
		cfg.Ascending = false
	default:
		return schema.NewConfigError("order", "'%s' must be asc or desc", input.Order)
	}
	return nil
}

// processLoadOptions parses the file selection options.
func processLoadOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.Load = schema.DefaultLoadOptions()
	cfg.Load.SourceDir = strings.Trim(input.SourceDir, "/")

	if input.IncludeExt != "" {
		exts := SplitList(input.IncludeExt)
		for i, e := range exts {
			if !strings.HasPrefix(e, ".") {
				exts[i] = "." + e
			}
		}
		if len(exts) == 0 {
			return schema.NewConfigError("include-ext", "at least one extension is required")
		}
		cfg.Load.IncludeExt = exts
	}

	if input.Exclude != "" {
		cfg.Load.Exclude = SplitList(input.Exclude)
	}
	return loader.ValidateGlobs(cfg.Load.Exclude)
}

// processAnalysisOptions parses the detector thresholds.
func processAnalysisOptions(cfg *Config, input *ConfigRawInput) error {
	opts := schema.DefaultAnalysisOptions(time.Now().Year())
	opts.Detail = input.Detail

	if input.ComplexityThresholds != "" {
		vals, err := ParseFloatList(input.ComplexityThresholds)
		if err != nil || len(vals) != 3 {
			return schema.NewConfigError("complexity-thresholds", "expected three numbers T1,T2,T3, got %q", input.ComplexityThresholds)
		}
		if vals[0] < 0 || vals[0] > vals[1] || vals[1] > vals[2] {
			return schema.NewConfigError("complexity-thresholds", "must be non-negative and ascending, got %q", input.ComplexityThresholds)
		}
		opts.Complexity = schema.ComplexityThresholds{Moderate: vals[0], Complex: vals[1], VeryComplex: vals[2]}
	}

	if input.DocTiers != "" {
		vals, err := ParseFloatList(input.DocTiers)
		if err != nil || len(vals) != 2 {
			return schema.NewConfigError("doc-tiers", "expected two numbers partial,well, got %q", input.DocTiers)
		}
		if vals[0] < 0 || vals[1] > 100 || vals[0] >= vals[1] {
			return schema.NewConfigError("doc-tiers", "must satisfy 0 <= partial < well <= 100, got %q", input.DocTiers)
		}
		opts.Cuts = schema.TierCuts{Partial: int(vals[0]), Well: int(vals[1])}
	}

	if input.MagicDigits != 0 {
		if input.MagicDigits < 1 {
			return schema.NewConfigError("magic-digits", "must be at least 1 (received %d)", input.MagicDigits)
		}
		opts.Magic.MinDigits = input.MagicDigits
	}
	if input.MagicAllow != "" {
		allow, err := ParseFloatList(input.MagicAllow)
		if err != nil {
			return &schema.ConfigurationError{Field: "magic-allow", Err: err}
		}
		opts.Magic.Allow = allow
	}
	if input.MagicUnits != "" {
		opts.Magic.Units = SplitList(input.MagicUnits)
	}
	if input.MagicMinHits != 0 {
		if input.MagicMinHits < 1 {
			return schema.NewConfigError("magic-min-hits", "must be at least 1 (received %d)", input.MagicMinHits)
		}
		opts.Magic.MinHits = input.MagicMinHits
	}

	if input.LongFunctionLines != 0 {
		if input.LongFunctionLines < 1 {
			return schema.NewConfigError("long-function-lines", "must be at least 1 (received %d)", input.LongFunctionLines)
		}
		opts.Smells.LongFunctionLines = input.LongFunctionLines
	}
	if input.NestingDepth != 0 {
		if input.NestingDepth < 1 {
			return schema.NewConfigError("nesting-depth", "must be at least 1 (received %d)", input.NestingDepth)
		}
		opts.Smells.NestingDepth = input.NestingDepth
	}
	if input.DeprecatedMarkers != "" {
		opts.Smells.DeprecatedMarkers = SplitList(input.DeprecatedMarkers)
	}

	if input.FileTimeout != "" {
		d, err := time.ParseDuration(input.FileTimeout)
		if err != nil || d < 0 {
			return schema.NewConfigError("file-timeout", "expected a non-negative duration such as 2s, got %q", input.FileTimeout)
		}
		opts.FileTimeout = d
	}

	cfg.Analysis = opts
	return nil
}

// processCheckThresholds builds the CI gate thresholds.
// Config file values override defaults; the --thresholds-override flag takes precedence over both.
func processCheckThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.DefaultCheckThresholds()

	fromFile := map[schema.CheckMetric]*float64{
		schema.CheckWellPct:     input.Thresholds.Well,
		schema.CheckPoorPct:     input.Thresholds.Poor,
		schema.CheckClassPct:    input.Thresholds.Class,
		schema.CheckFunctionPct: input.Thresholds.Function,
		schema.CheckFailedFiles: input.Thresholds.Failed,
	}
	for metric, v := range fromFile {
		if v != nil {
			thresholds[metric] = *v
		}
	}

	if input.ThresholdsStr != "" {
		parsed, err := parseCheckThresholdsString(input.ThresholdsStr)
		if err != nil {
			return &schema.ConfigurationError{Field: "thresholds-override", Err: err}
		}
		maps.Copy(thresholds, parsed)
	}

	for _, metric := range schema.AllCheckMetrics {
		if v := thresholds[metric]; metric != schema.CheckFailedFiles && v > 100 {
			return schema.NewConfigError("thresholds", "%s must not exceed 100 (received %.2f)", metric, v)
		}
	}

	cfg.CheckThresholds = thresholds
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// parseCheckThresholdsString parses a string like "well:30,poor:40,failed:0"
// into a map of CheckMetric to float64.
func parseCheckThresholdsString(s string) (schema.CheckThresholds, error) {
	thresholds := make(schema.CheckThresholds)

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid threshold format '%s', expected 'metric:value'", part)
		}

		metric := schema.CheckMetric(strings.ToLower(strings.TrimSpace(keyValue[0])))
		if !metric.Valid() {
			return nil, fmt.Errorf("invalid metric '%s', must be well, poor, class, function, or failed", keyValue[0])
		}

		valueStr := strings.TrimSpace(keyValue[1])
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold value '%s' for metric %s: %w", valueStr, metric, err)
		}
		thresholds[metric] = value
	}

	return thresholds, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
