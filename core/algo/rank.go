package algo

import (
	"sort"

	"github.com/huangsam/docscope/schema"
)

// RankFiles sorts files by their documentation score and returns the top
// 'limit' files. Ties are broken by path. If limit is not positive or greater
// than the number of files, all files are returned in sorted order.
func RankFiles(files []schema.FileMetrics, ascending bool, limit int) []schema.FileMetrics {
	sorted := make([]schema.FileMetrics, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DocScore != sorted[j].DocScore {
			if ascending {
				return sorted[i].DocScore < sorted[j].DocScore
			}
			return sorted[i].DocScore > sorted[j].DocScore
		}
		return sorted[i].Path < sorted[j].Path
	})
	if limit > 0 && len(sorted) > limit {
		return sorted[:limit]
	}
	return sorted
}

// FilterTier keeps the files of one tier. An empty tier keeps all files.
func FilterTier(files []schema.FileMetrics, tier schema.DocTier) []schema.FileMetrics {
	if tier == "" {
		return files
	}
	out := make([]schema.FileMetrics, 0, len(files))
	for _, f := range files {
		if f.DocTier == tier {
			out = append(out, f)
		}
	}
	return out
}

// RankModules sorts module priorities by priority descending, then by name,
// assigns ranks and returns the top 'limit' entries.
func RankModules(priorities []schema.ModulePriority, limit int) []schema.ModulePriority {
	sort.SliceStable(priorities, func(i, j int) bool {
		if priorities[i].Priority != priorities[j].Priority {
			return priorities[i].Priority > priorities[j].Priority
		}
		return priorities[i].Module < priorities[j].Module
	})
	for i := range priorities {
		priorities[i].Rank = i + 1
	}
	if limit > 0 && len(priorities) > limit {
		return priorities[:limit]
	}
	return priorities
}
