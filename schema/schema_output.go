package schema

// RankedFile adds presentation data to a FileMetrics.
type RankedFile struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Label string `json:"label" yaml:"label"`

	FileMetrics `yaml:",inline"`
}

// RankedModule adds presentation data to a ModuleSummary.
type RankedModule struct {
	Rank     int     `json:"rank" yaml:"rank"`
	Label    string  `json:"label" yaml:"label"`
	Priority float64 `json:"priority" yaml:"priority"`

	ModuleSummary `yaml:",inline"`
}

// GetPlainLabel returns a plain text label for a documentation tier.
func GetPlainLabel(tier DocTier) string {
	switch tier {
	case WellTier:
		return "Well"
	case PartialTier:
		return "Partial"
	default:
		return "Poor"
	}
}

// ModuleTier returns the dominant documentation tier of a module.
// Ties favor the worse tier.
func ModuleTier(r Rollup) DocTier {
	switch {
	case r.Docs.Poor >= r.Docs.Partial && r.Docs.Poor >= r.Docs.Well:
		return PoorTier
	case r.Docs.Partial >= r.Docs.Well:
		return PartialTier
	default:
		return WellTier
	}
}

// EnrichFiles adds rank and label to a list of file metrics.
func EnrichFiles(files []FileMetrics) []RankedFile {
	output := make([]RankedFile, len(files))
	for i, f := range files {
		output[i] = RankedFile{
			Rank:        i + 1,
			Label:       GetPlainLabel(f.DocTier),
			FileMetrics: f,
		}
	}
	return output
}

// EnrichModules pairs module summaries with their priority entries, in priority order.
func EnrichModules(summary ProjectSummary) []RankedModule {
	output := make([]RankedModule, 0, len(summary.Priorities))
	for _, p := range summary.Priorities {
		m, ok := summary.Modules[p.Module]
		if !ok {
			continue
		}
		output = append(output, RankedModule{
			Rank:          p.Rank,
			Label:         GetPlainLabel(ModuleTier(m.Rollup)),
			Priority:      p.Priority,
			ModuleSummary: m,
		})
	}
	return output
}
