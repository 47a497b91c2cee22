package schema

// CheckMetric names a value the check command gates on.
type CheckMetric string

// Check metrics. Well, class and function are minimums; poor and failed are maximums.
const (
	CheckWellPct     CheckMetric = "well"
	CheckPoorPct     CheckMetric = "poor"
	CheckClassPct    CheckMetric = "class"
	CheckFunctionPct CheckMetric = "function"
	CheckFailedFiles CheckMetric = "failed"
)

// AllCheckMetrics lists check metrics in report order.
var AllCheckMetrics = []CheckMetric{CheckWellPct, CheckPoorPct, CheckClassPct, CheckFunctionPct, CheckFailedFiles}

// IsMaximum reports whether the threshold is an upper bound.
func (m CheckMetric) IsMaximum() bool {
	return m == CheckPoorPct || m == CheckFailedFiles
}

// CheckThresholds holds the gate values. A negative value disables that gate.
type CheckThresholds map[CheckMetric]float64

// Valid reports whether m is a known check metric.
func (m CheckMetric) Valid() bool {
	for _, c := range AllCheckMetrics {
		if m == c {
			return true
		}
	}
	return false
}

// DefaultCheckThresholds returns the gates applied when no override is given.
// Only the failed-files gate is active by default.
func DefaultCheckThresholds() CheckThresholds {
	return CheckThresholds{
		CheckWellPct:     -1,
		CheckPoorPct:     -1,
		CheckClassPct:    -1,
		CheckFunctionPct: -1,
		CheckFailedFiles: 0,
	}
}

// CheckViolation is one gate that failed.
type CheckViolation struct {
	Metric    CheckMetric `json:"metric" yaml:"metric"`
	Actual    float64     `json:"actual" yaml:"actual"`
	Threshold float64     `json:"threshold" yaml:"threshold"`
	Maximum   bool        `json:"maximum" yaml:"maximum"`
}

// CheckModuleFailure is a module whose poor share exceeds the poor gate.
type CheckModuleFailure struct {
	Module  string  `json:"module" yaml:"module"`
	Files   int     `json:"files" yaml:"files"`
	PoorPct float64 `json:"poorly_documented_pct" yaml:"poorly_documented_pct"`
}

// CheckResult holds the results of a documentation gate.
type CheckResult struct {
	Passed         bool                    `json:"passed" yaml:"passed"`
	TotalFiles     int                     `json:"total_files" yaml:"total_files"`
	Thresholds     CheckThresholds         `json:"thresholds" yaml:"thresholds"`
	Actual         map[CheckMetric]float64 `json:"actual" yaml:"actual"`
	Violations     []CheckViolation        `json:"violations" yaml:"violations"`
	FailingModules []CheckModuleFailure    `json:"failing_modules" yaml:"failing_modules"`
	Roots          []string                `json:"roots" yaml:"roots"`
}
