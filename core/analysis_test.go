package core

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/docscope/core/detect"
	"github.com/huangsam/docscope/internal/iostore"
	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	root := fixtureTree(t)

	result, err := Analyze(context.Background(), testConfig(root), nil, nil)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "geometry/G4Box.hh", result.Files[0].Path)
	assert.Equal(t, "geometry", result.Files[0].Module)
	assert.Equal(t, schema.WellTier, result.Files[0].DocTier)
	assert.Equal(t, 100, result.Files[0].DocScore)
	assert.Equal(t, "tracking/G4Step.cc", result.Files[1].Path)
	assert.Equal(t, schema.PoorTier, result.Files[1].DocTier)
	assert.Equal(t, 3, result.Files[1].Functions)

	// The binary file is a read warning, the unbalanced one a detector failure
	require.Len(t, result.Diagnostics.Warnings, 1)
	assert.Equal(t, "tracking/G4Bin.cc", result.Diagnostics.Warnings[0].Path)
	assert.Equal(t, schema.ReadFailure, result.Diagnostics.Warnings[0].Kind)
	require.Len(t, result.Diagnostics.Failures, 1)
	failure := result.Diagnostics.Failures[0]
	assert.Equal(t, "tracking/G4Bad.cc", failure.Path)
	assert.Equal(t, schema.DetectorFailure, failure.Kind)
	assert.Equal(t, detect.SmellsStage, failure.Detector)
	assert.Contains(t, failure.Message, schema.ErrUnbalancedBraces.Error())

	totals := result.Totals
	assert.Equal(t, 2, totals.Files)
	assert.Equal(t, 1, totals.Docs.Well)
	assert.Equal(t, 1, totals.Docs.Poor)
	assert.InDelta(t, 50.0, totals.Docs.WellPct, 1e-9)
	assert.Equal(t, 1, result.FailedFiles)
	assert.Contains(t, result.Modules, "geometry")
	assert.Contains(t, result.Modules, "tracking")
	assert.Equal(t, 1, result.Modules["tracking"].Files)
	assert.Equal(t, []string{root}, result.Roots)
}

func TestAnalyzeDeterministicAcrossWorkers(t *testing.T) {
	root := fixtureTree(t)
	writeTree(t, root, map[string]string{
		"digits/G4Digi.cc": poorSource,
		"hits/G4Hit.hh":    wellSource,
		"run/G4Run.cc":     "/// Runs it\nvoid Run();\n",
	})

	serial := testConfig(root)
	serial.Workers = 1
	parallel := testConfig(root)
	parallel.Workers = 8

	first, err := Analyze(context.Background(), serial, nil, nil)
	require.NoError(t, err)
	second, err := Analyze(context.Background(), parallel, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.ProjectSummary, second.ProjectSummary)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestAnalyzeConfigurationError(t *testing.T) {
	cfg := testConfig("/definitely/not/a/real/root")

	_, err := Analyze(context.Background(), cfg, nil, nil)

	var cfgErr *schema.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, schema.ErrRootNotFound)
}

func TestAnalyzeCanceled(t *testing.T) {
	root := fixtureTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Analyze(ctx, testConfig(root), nil, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeEmptyTree(t *testing.T) {
	result, err := Analyze(context.Background(), testConfig(t.TempDir()), nil, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Files)
	assert.Zero(t, result.Totals.Files)
	assert.Zero(t, result.Totals.Docs.WellPct)
	assert.NotNil(t, result.Diagnostics.Failures)
}

// recordingProgress counts progress events.
type recordingProgress struct {
	mu       sync.Mutex
	total    int
	advanced []string
	finished bool
}

func (p *recordingProgress) Start(total int) { p.total = total }

func (p *recordingProgress) Advance(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advanced = append(p.advanced, path)
}

func (p *recordingProgress) Finish() { p.finished = true }

func TestAnalyzeReportsProgress(t *testing.T) {
	root := fixtureTree(t)
	progress := &recordingProgress{}

	_, err := Analyze(context.Background(), testConfig(root), nil, progress)
	require.NoError(t, err)

	assert.Equal(t, 4, progress.total)
	assert.Len(t, progress.advanced, 4)
	assert.True(t, progress.finished)
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	root := fixtureTree(t)
	store := &iostore.MockAnalysisStore{}
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(store)

	store.On("BeginAnalysis", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	store.On("RecordFileMetrics", int64(7), mock.MatchedBy(func(records []schema.FileMetricsRecord) bool {
		return len(records) == 2 && records[0].FilePath == "geometry/G4Box.hh" && records[0].AnalysisID == 7
	})).Return(nil)
	store.On("EndAnalysis", int64(7), mock.AnythingOfType("time.Time"), schema.RunSummary{
		TotalFiles:  2,
		FailedFiles: 1,
		WellPct:     50,
		PoorPct:     50,
	}).Return(nil)

	_, err := Analyze(context.Background(), testConfig(root), mgr, nil)
	require.NoError(t, err)

	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestAnalyzeHistoryFailureDoesNotFailRun(t *testing.T) {
	root := fixtureTree(t)
	store := &iostore.MockAnalysisStore{}
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(store)
	store.On("BeginAnalysis", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	result, err := Analyze(context.Background(), testConfig(root), mgr, nil)
	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
	store.AssertNotCalled(t, "RecordFileMetrics", mock.Anything, mock.Anything)
}

func TestAnalyzeNilStore(t *testing.T) {
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetAnalysisStore").Return(nil)

	_, err := Analyze(context.Background(), testConfig(fixtureTree(t)), mgr, nil)
	assert.NoError(t, err)
}

func TestAnalyzeSource(t *testing.T) {
	opts := schema.DefaultAnalysisOptions(2026)
	file := schema.SourceFile{RelPath: "G4Box.hh", Module: "geometry", Content: wellSource, LineCount: 6}

	m, err := AnalyzeSource(context.Background(), opts, file)
	require.NoError(t, err)
	assert.Equal(t, 100, m.DocScore)
	assert.Nil(t, m.Units, "units are only kept in detail mode")

	opts.Detail = true
	opts.FileTimeout = time.Minute
	m, err = AnalyzeSource(context.Background(), opts, file)
	require.NoError(t, err)
	require.Len(t, m.Units, 1)
	assert.Equal(t, "Compute", m.Units[0].Name)
}

func TestAnalyzeSourceDetectorError(t *testing.T) {
	file := schema.SourceFile{RelPath: "bad.cc", Content: unbalancedSource, LineCount: 3}

	_, err := AnalyzeSource(context.Background(), schema.DefaultAnalysisOptions(2026), file)

	var de *schema.DetectorError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, detect.SmellsStage, de.Detector)
	assert.Equal(t, "bad.cc", de.Path)
	assert.ErrorIs(t, err, schema.ErrUnbalancedBraces)
}

func TestAnalyzeSourceCanceledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := schema.DefaultAnalysisOptions(2026)
	opts.FileTimeout = time.Minute

	_, err := AnalyzeSource(ctx, opts, schema.SourceFile{RelPath: "a.cc", Content: poorSource})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunStagesRecoversPanics(t *testing.T) {
	var nilCtx context.Context
	b := NewFileMetricsBuilder(nilCtx, schema.DefaultAnalysisOptions(2026), schema.SourceFile{RelPath: "boom.cc"})

	_, err := runStages(b)

	var de *schema.DetectorError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, detect.LexerStage, de.Detector)
	assert.Contains(t, de.Err.Error(), "panic:")
}

func TestFileTimeoutIsReportedAgainstFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/slow.cc": poorSource})
	ref := schema.SourceRef{Path: filepath.Join(root, "a", "slow.cc"), RelPath: "a/slow.cc", Module: "a"}

	// An expired file budget is reported against the file, not the run
	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	b := NewFileMetricsBuilder(expired, schema.DefaultAnalysisOptions(2026), schema.SourceFile{RelPath: ref.RelPath})
	_, err := runStages(b)
	require.ErrorIs(t, err, schema.ErrFileTimeout)

	failure := detectorFailure(ref, err)
	assert.Equal(t, detect.LexerStage, failure.Detector)
	assert.Equal(t, schema.ErrFileTimeout.Error(), failure.Message)
	assert.Equal(t, "a", failure.Module)

	slot, err := processRef(context.Background(), schema.DefaultAnalysisOptions(2026), ref)
	require.NoError(t, err)
	require.NotNil(t, slot.metrics)
	assert.Equal(t, "a/slow.cc", slot.metrics.Path)
}
