package core

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
)

// moduleStats is the per-module view of one recorded run.
type moduleStats struct {
	files    int
	scoreSum int
	poor     int
}

func (s moduleStats) meanScore() float64 {
	if s.files == 0 {
		return 0
	}
	return float64(s.scoreSum) / float64(s.files)
}

func (s moduleStats) poorPct() float64 {
	if s.files == 0 {
		return 0
	}
	return float64(s.poor) / float64(s.files) * 100
}

// groupRecords reduces the file rows of a run to per-module stats and project stats.
func groupRecords(records []schema.FileMetricsRecord) (map[string]moduleStats, moduleStats) {
	modules := make(map[string]moduleStats)
	var total moduleStats
	for _, r := range records {
		s := modules[r.Module]
		s.files++
		s.scoreSum += int(r.DocScore)
		total.files++
		total.scoreSum += int(r.DocScore)
		if schema.DocTier(r.DocTier) == schema.PoorTier {
			s.poor++
			total.poor++
		}
		modules[r.Module] = s
	}
	return modules, total
}

// determineStatus determines the status of a module based on its presence in both runs.
func determineStatus(baseExists, targetExists bool) string {
	switch {
	case !baseExists && targetExists:
		return schema.DeltaNew
	case baseExists && !targetExists:
		return schema.DeltaInactive
	default:
		return schema.DeltaActive
	}
}

// compareRuns computes per-module score deltas between two recorded runs.
// Deltas are ordered by absolute change, largest first, then by module name.
func compareRuns(baseID, targetID int64, base, target []schema.FileMetricsRecord, limit int) schema.RunComparison {
	baseModules, baseTotal := groupRecords(base)
	targetModules, targetTotal := groupRecords(target)

	names := make(map[string]struct{}, len(baseModules)+len(targetModules))
	for name := range baseModules {
		names[name] = struct{}{}
	}
	for name := range targetModules {
		names[name] = struct{}{}
	}

	deltas := make([]schema.ModuleDelta, 0, len(names))
	for name := range names {
		b, baseExists := baseModules[name]
		t, targetExists := targetModules[name]
		deltas = append(deltas, schema.ModuleDelta{
			Module:          name,
			Status:          determineStatus(baseExists, targetExists),
			BaseFiles:       b.files,
			TargetFiles:     t.files,
			BaseMeanScore:   b.meanScore(),
			TargetMeanScore: t.meanScore(),
			DeltaScore:      t.meanScore() - b.meanScore(),
			BasePoorPct:     b.poorPct(),
			TargetPoorPct:   t.poorPct(),
		})
	}

	sort.Slice(deltas, func(i, j int) bool {
		di, dj := math.Abs(deltas[i].DeltaScore), math.Abs(deltas[j].DeltaScore)
		if di != dj {
			return di > dj
		}
		return deltas[i].Module < deltas[j].Module
	})
	if limit > 0 && len(deltas) > limit {
		deltas = deltas[:limit]
	}

	return schema.RunComparison{
		BaseRunID:   baseID,
		TargetRunID: targetID,
		Deltas:      deltas,
		NetScore:    targetTotal.meanScore() - baseTotal.meanScore(),
	}
}

// CompareRuns loads two recorded runs and compares them per module.
// A zero targetID selects the latest run; a zero baseID selects the run before the target.
func CompareRuns(store contract.AnalysisStore, baseID, targetID int64, limit int) (schema.RunComparison, error) {
	if store == nil {
		return schema.RunComparison{}, errors.New("run history is disabled; set --history-backend")
	}
	if baseID == 0 || targetID == 0 {
		runs, err := store.GetAllAnalysisRuns()
		if err != nil {
			return schema.RunComparison{}, fmt.Errorf("failed to list runs: %w", err)
		}
		baseID, targetID, err = resolveRunIDs(runs, baseID, targetID)
		if err != nil {
			return schema.RunComparison{}, err
		}
	}

	base, err := store.GetFileMetricsForRun(baseID)
	if err != nil {
		return schema.RunComparison{}, fmt.Errorf("failed to load run %d: %w", baseID, err)
	}
	target, err := store.GetFileMetricsForRun(targetID)
	if err != nil {
		return schema.RunComparison{}, fmt.Errorf("failed to load run %d: %w", targetID, err)
	}
	return compareRuns(baseID, targetID, base, target, limit), nil
}

// resolveRunIDs fills in missing run IDs from the recorded runs, which are ordered oldest first.
func resolveRunIDs(runs []schema.AnalysisRunRecord, baseID, targetID int64) (int64, int64, error) {
	if targetID == 0 {
		if len(runs) == 0 {
			return 0, 0, errors.New("no recorded runs")
		}
		targetID = runs[len(runs)-1].AnalysisID
	}
	if baseID == 0 {
		for i := len(runs) - 1; i >= 0; i-- {
			if runs[i].AnalysisID < targetID {
				baseID = runs[i].AnalysisID
				break
			}
		}
		if baseID == 0 {
			return 0, 0, fmt.Errorf("no recorded run before run %d", targetID)
		}
	}
	return baseID, targetID, nil
}
