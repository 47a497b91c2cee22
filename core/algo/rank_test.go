package algo

import (
	"testing"

	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankFiles(t *testing.T) {
	files := []schema.FileMetrics{
		{Path: "b.hh", DocScore: 40},
		{Path: "a.hh", DocScore: 40},
		{Path: "c.hh", DocScore: 90},
		{Path: "d.hh", DocScore: 5},
	}

	desc := RankFiles(files, false, 3)
	require.Len(t, desc, 3)
	assert.Equal(t, []string{"c.hh", "a.hh", "b.hh"}, paths(desc))

	asc := RankFiles(files, true, 0)
	assert.Equal(t, []string{"d.hh", "a.hh", "b.hh", "c.hh"}, paths(asc))

	assert.Equal(t, "b.hh", files[0].Path, "input must not be reordered")
}

func TestFilterTier(t *testing.T) {
	files := []schema.FileMetrics{
		{Path: "a", DocTier: schema.WellTier},
		{Path: "b", DocTier: schema.PoorTier},
	}

	assert.Equal(t, []string{"b"}, paths(FilterTier(files, schema.PoorTier)))
	assert.Len(t, FilterTier(files, ""), 2)
}

func TestRankModules(t *testing.T) {
	priorities := []schema.ModulePriority{
		{Module: "geometry", Priority: 10},
		{Module: "event", Priority: 30},
		{Module: "digits", Priority: 10},
	}

	ranked := RankModules(priorities, 2)

	require.Len(t, ranked, 2)
	assert.Equal(t, "event", ranked[0].Module)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "digits", ranked[1].Module)
	assert.Equal(t, 2, ranked[1].Rank)
}

func paths(files []schema.FileMetrics) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
