package contract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// LogAnalysisHeader prints a concise, 2-line header for an analysis run.
func LogAnalysisHeader(w io.Writer, cfg *Config) {
	names := make([]string, 0, len(cfg.Roots))
	for _, r := range cfg.Roots {
		name := filepath.Base(r)
		if name == "" || name == "." {
			name = "current"
		}
		names = append(names, name)
	}

	// Line 1: The roots and the file selection
	_, _ = fmt.Fprintf(w, "Roots: %s (ext: %s)\n", strings.Join(names, ", "), strings.Join(cfg.Load.IncludeExt, ","))

	// Line 2: The thresholds the tiers depend on
	c := cfg.Analysis.Complexity
	_, _ = fmt.Fprintf(w, "Tiers: partial>=%d well>=%d | complexity %.0f/%.0f/%.0f | workers %d\n",
		cfg.Analysis.Cuts.Partial, cfg.Analysis.Cuts.Well, c.Moderate, c.Complex, c.VeryComplex, cfg.Workers)
}
