package schema

// MetricsComponent is one scoring component of the documentation rubric.
type MetricsComponent struct {
	Key    BreakdownKey `json:"key" yaml:"key"`
	Weight int          `json:"weight" yaml:"weight"`
	Rule   string       `json:"rule" yaml:"rule"`
}

// MetricsMagic is the active magic-number configuration.
type MetricsMagic struct {
	MinDigits int       `json:"min_digits" yaml:"min_digits"`
	Allow     []float64 `json:"allow" yaml:"allow"`
	Units     int       `json:"unit_tokens" yaml:"unit_tokens"`
	MinHits   int       `json:"min_hits" yaml:"min_hits"`
}

// MetricsSmells is the active code-smell configuration.
type MetricsSmells struct {
	DeprecatedMarkers []string `json:"deprecated_markers" yaml:"deprecated_markers"`
	LongFunctionLines int      `json:"long_function_lines" yaml:"long_function_lines"`
	NestingDepth      int      `json:"nesting_depth" yaml:"nesting_depth"`
}

// MetricsRenderModel describes the rubric and every active threshold.
type MetricsRenderModel struct {
	Title       string               `json:"title" yaml:"title"`
	Description string               `json:"description" yaml:"description"`
	Components  []MetricsComponent   `json:"components" yaml:"components"`
	Tiers       TierCuts             `json:"tiers" yaml:"tiers"`
	Complexity  ComplexityThresholds `json:"complexity" yaml:"complexity"`
	Magic       MetricsMagic         `json:"magic_numbers" yaml:"magic_numbers"`
	Smells      MetricsSmells        `json:"code_smells" yaml:"code_smells"`
	Check       CheckThresholds      `json:"check_thresholds" yaml:"check_thresholds"`
}
