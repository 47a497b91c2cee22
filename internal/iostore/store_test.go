package iostore

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(id int64) []schema.FileMetricsRecord {
	now := time.Now()
	return []schema.FileMetricsRecord{
		{AnalysisID: id, FilePath: "geometry/src/G4Box.cc", Module: "geometry", AnalysisTime: now, DocScore: 70, DocTier: "well", Classes: 1, Functions: 4, DocumentedItems: 5, ComplexityDensity: 3.5, ComplexityTier: "simple", AgeBucket: "2021-plus"},
		{AnalysisID: id, FilePath: "tracking/src/G4Step.cc", Module: "tracking", AnalysisTime: now, DocScore: 12, DocTier: "poor", Functions: 9, MagicNumbers: 6, AgeBucket: "pre-2010", TODOs: 2, Deprecated: 1, LongFunctions: 1, MaxNesting: 7},
	}
}

// openStores returns one store per embedded backend, each in its own temp file.
func openStores(t *testing.T) map[schema.DatabaseBackend]contract.AnalysisStore {
	t.Helper()
	dir := t.TempDir()

	sqlStore, err := NewAnalysisStore(schema.SQLiteBackend, filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	boltStore, err := NewAnalysisStore(schema.BoltBackend, filepath.Join(dir, "history.bolt"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlStore.Close()
		_ = boltStore.Close()
	})
	return map[schema.DatabaseBackend]contract.AnalysisStore{
		schema.SQLiteBackend: sqlStore,
		schema.BoltBackend:   boltStore,
	}
}

func TestAnalysisStore_NoneBackend(t *testing.T) {
	store, err := NewAnalysisStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginAnalysis(time.Now(), map[string]any{"workers": 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)
	assert.NoError(t, store.RecordFileMetrics(1, sampleRecords(1)))
	assert.NoError(t, store.EndAnalysis(1, time.Now(), schema.RunSummary{TotalFiles: 2}))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	runs, err := store.GetAllAnalysisRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, store.Close())
}

func TestAnalysisStore_UnsupportedBackend(t *testing.T) {
	_, err := NewAnalysisStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}

func TestAnalysisStore_RoundTrip(t *testing.T) {
	for backend, store := range openStores(t) {
		t.Run(string(backend), func(t *testing.T) {
			start := time.Now().Add(-time.Second)
			id, err := store.BeginAnalysis(start, map[string]any{"roots": []string{"source"}})
			require.NoError(t, err)
			assert.Greater(t, id, int64(0))

			require.NoError(t, store.RecordFileMetrics(id, sampleRecords(id)))
			require.NoError(t, store.EndAnalysis(id, time.Now(), schema.RunSummary{
				TotalFiles: 2, FailedFiles: 1, WellPct: 50, PoorPct: 50,
			}))

			runs, err := store.GetAllAnalysisRuns()
			require.NoError(t, err)
			require.Len(t, runs, 1)
			run := runs[0]
			assert.Equal(t, id, run.AnalysisID)
			assert.Equal(t, int32(2), run.TotalFilesAnalyzed)
			assert.Equal(t, int32(1), run.FailedFiles)
			assert.InDelta(t, 50.0, run.WellPct, 0.001)
			require.NotNil(t, run.EndTime)
			require.NotNil(t, run.RunDurationMs)
			assert.GreaterOrEqual(t, *run.RunDurationMs, int32(1000))
			require.NotNil(t, run.ConfigParams)
			assert.Contains(t, *run.ConfigParams, "source")
			assert.WithinDuration(t, start, run.StartTime, time.Millisecond)

			files, err := store.GetFileMetricsForRun(id)
			require.NoError(t, err)
			require.Len(t, files, 2)
			assert.Equal(t, "geometry/src/G4Box.cc", files[0].FilePath)
			assert.Equal(t, "tracking", files[1].Module)
			assert.Equal(t, int32(7), files[1].MaxNesting)
			assert.Equal(t, "poor", files[1].DocTier)

			missing, err := store.GetFileMetricsForRun(id + 100)
			require.NoError(t, err)
			assert.Empty(t, missing)
		})
	}
}

func TestAnalysisStore_MultipleRuns(t *testing.T) {
	for backend, store := range openStores(t) {
		t.Run(string(backend), func(t *testing.T) {
			var ids []int64
			for range 3 {
				id, err := store.BeginAnalysis(time.Now(), nil)
				require.NoError(t, err)
				require.NoError(t, store.RecordFileMetrics(id, sampleRecords(id)))
				require.NoError(t, store.EndAnalysis(id, time.Now(), schema.RunSummary{TotalFiles: 2}))
				ids = append(ids, id)
			}
			assert.Less(t, ids[0], ids[1])
			assert.Less(t, ids[1], ids[2])

			runs, err := store.GetAllAnalysisRuns()
			require.NoError(t, err)
			require.Len(t, runs, 3)
			assert.Equal(t, ids[0], runs[0].AnalysisID, "runs are oldest first")

			all, err := store.GetAllFileMetrics()
			require.NoError(t, err)
			assert.Len(t, all, 6)
			assert.Equal(t, ids[0], all[0].AnalysisID)

			status, err := store.GetStatus()
			require.NoError(t, err)
			assert.True(t, status.Connected)
			assert.Equal(t, 3, status.TotalRuns)
			assert.Equal(t, ids[2], status.LastRunID)
			assert.Equal(t, 6, status.TotalFilesAnalyzed)
			assert.Equal(t, int64(3), status.TableSizes[analysisRunsTable])
			assert.Equal(t, int64(6), status.TableSizes[fileMetricsTable])
			assert.False(t, status.LastRunTime.Before(status.OldestRunTime))
		})
	}
}

func TestAnalysisStore_EndUnknownRun(t *testing.T) {
	for backend, store := range openStores(t) {
		t.Run(string(backend), func(t *testing.T) {
			assert.Error(t, store.EndAnalysis(42, time.Now(), schema.RunSummary{}))
		})
	}
}

func TestSQLStore_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	id, err := store.BeginAnalysis(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Migrations are already applied; reopening is a no-op
	store, err = NewSQLStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].AnalysisID)
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &SQLStore{backend: schema.SQLiteBackend}
	assert.Equal(t, "SELECT ? FROM t", lite.rebind("SELECT ? FROM t"))
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		expected string
	}{
		{schema.SQLiteBackend, `"docscope_analysis_runs"`},
		{schema.PostgreSQLBackend, `"docscope_analysis_runs"`},
		{schema.MySQLBackend, "`docscope_analysis_runs`"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteTableName(analysisRunsTable, tt.backend))
		})
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"docscope_file_metrics", false},
		{"_private", false},
		{"", true},
		{"1table", true},
		{"runs; DROP TABLE x", true},
		{"name-with-dash", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDBTimeScan(t *testing.T) {
	ref := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)
	tests := []struct {
		name  string
		src   any
		valid bool
		want  time.Time
	}{
		{"native", ref, true, ref},
		{"rfc3339", ref.Format(time.RFC3339Nano), true, ref},
		{"bytes", []byte("2024-03-01 12:30:00"), true, ref.Truncate(time.Second)},
		{"null", nil, false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dbTime
			require.NoError(t, got.Scan(tt.src))
			assert.Equal(t, tt.valid, got.Valid)
			assert.True(t, tt.want.Equal(got.Time))
		})
	}

	var bad dbTime
	assert.Error(t, bad.Scan("yesterday"))
	assert.Error(t, bad.Scan(42))
}

func TestClearHistory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	store, err := NewSQLStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, dbPath)

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath))
	assert.NoFileExists(t, dbPath)

	// Clearing twice is fine
	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath))

	boltPath := filepath.Join(dir, "history.bolt")
	bolt, err := NewBoltStore(boltPath)
	require.NoError(t, err)
	require.NoError(t, bolt.Close())
	require.NoError(t, ClearHistory(schema.BoltBackend, boltPath))
	assert.NoFileExists(t, boltPath)

	assert.NoError(t, ClearHistory(schema.NoneBackend, ""))
	assert.Error(t, ClearHistory(schema.DatabaseBackend("oracle"), ""))
}

func TestMigrateHistory_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	var buf bytes.Buffer
	require.NoError(t, migrateHistory(&buf, schema.SQLiteBackend, path, -1))
	assert.Contains(t, buf.String(), "already at the latest version")

	buf.Reset()
	require.NoError(t, migrateHistory(&buf, schema.SQLiteBackend, path, 1))
	assert.Contains(t, buf.String(), "from version 2 to version 1")

	buf.Reset()
	require.NoError(t, migrateHistory(&buf, schema.SQLiteBackend, path, 0))
	assert.Contains(t, buf.String(), "rolled back from version 1 to version 0")

	buf.Reset()
	require.NoError(t, migrateHistory(&buf, schema.SQLiteBackend, path, -1))
	assert.Contains(t, buf.String(), "to version 2")
}

func TestMigrateHistory_Unsupported(t *testing.T) {
	assert.Error(t, MigrateHistory(schema.NoneBackend, "", -1))
	assert.Error(t, MigrateHistory(schema.BoltBackend, "", -1))
}

func TestPrintHistoryStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryStatus(&buf, schema.AnalysisStatus{Backend: "none"})
	assert.Contains(t, buf.String(), "History Backend: none")
	assert.Contains(t, buf.String(), "Connected: false")
	assert.NotContains(t, buf.String(), "Total Runs")

	buf.Reset()
	PrintHistoryStatus(&buf, schema.AnalysisStatus{
		Backend:    "sqlite",
		Connected:  true,
		TotalRuns:  2,
		LastRunID:  2,
		TableSizes: map[string]int64{fileMetricsTable: 10, analysisRunsTable: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "Total Runs: 2")
	assert.Contains(t, out, "Last Run ID: 2")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(analysisRunsTable)), bytes.Index(buf.Bytes(), []byte(fileMetricsTable)))
}

func TestPrintHistoryRuns(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryRuns(&buf, nil)
	assert.Equal(t, "No recorded runs.\n", buf.String())

	buf.Reset()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	PrintHistoryRuns(&buf, []schema.AnalysisRunRecord{
		{AnalysisID: 1, StartTime: start, TotalFilesAnalyzed: 40, WellPct: 25, PartialPct: 25, PoorPct: 50},
		{AnalysisID: 2, StartTime: start.Add(time.Hour), TotalFilesAnalyzed: 42, FailedFiles: 1, WellPct: 30},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Poor%")
	assert.Contains(t, lines[1], "2026-03-01T12:00:00Z")
	assert.Contains(t, lines[1], "50.0")
	assert.True(t, strings.HasPrefix(lines[2], "2 "))
}

func TestExportHistory(t *testing.T) {
	store := &MockAnalysisStore{}
	store.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite", Connected: true, TotalRuns: 1,
		TableSizes: map[string]int64{fileMetricsTable: 2}}, nil)
	store.On("GetAllAnalysisRuns").Return([]schema.AnalysisRunRecord{{AnalysisID: 1, StartTime: time.Now()}}, nil)
	store.On("GetAllFileMetrics").Return(sampleRecords(1), nil)

	out := filepath.Join(t.TempDir(), "export")
	var buf bytes.Buffer
	require.NoError(t, ExportHistory(&buf, store, out))
	assert.FileExists(t, out+".analysis_runs.parquet")
	assert.FileExists(t, out+".file_metrics.parquet")
	assert.Contains(t, buf.String(), "Exported 2 file records")
	store.AssertExpectations(t)
}

func TestExportHistory_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, ExportHistory(&buf, &MockAnalysisStore{}, ""))
	assert.Error(t, ExportHistory(&buf, nil, "out"))

	empty := &MockAnalysisStore{}
	empty.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite", Connected: true}, nil)
	err := ExportHistory(&buf, empty, filepath.Join(t.TempDir(), "out"))
	assert.ErrorContains(t, err, "no analysis data")
}
