package iostore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	"go.etcd.io/bbolt"
)

var (
	bucketRuns  = []byte(analysisRunsTable)
	bucketFiles = []byte(fileMetricsTable)
)

// errRunNotFound is returned when a run ID has no record.
var errRunNotFound = errors.New("analysis run not found")

// BoltStore implements AnalysisStore in an embedded bbolt file.
// Runs are keyed by ID; file rows live in one nested bucket per run, keyed by path.
type BoltStore struct {
	db *bbolt.DB
}

var _ contract.AnalysisStore = &BoltStore{} // Compile-time check

// NewBoltStore opens or creates the bolt history file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db at %q: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRuns, bucketFiles} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (s *BoltStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	params := string(configJSON)

	var id int64
	err = s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		seq, err := runs.NextSequence()
		if err != nil {
			return err
		}
		id = int64(seq)
		return putRun(runs, schema.AnalysisRunRecord{AnalysisID: id, StartTime: startTime, ConfigParams: &params})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return id, nil
}

func putRun(b *bbolt.Bucket, r schema.AnalysisRunRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return b.Put(itob(r.AnalysisID), data)
}

func getRun(b *bbolt.Bucket, id int64) (schema.AnalysisRunRecord, error) {
	var r schema.AnalysisRunRecord
	data := b.Get(itob(id))
	if data == nil {
		return r, fmt.Errorf("%w: %d", errRunNotFound, id)
	}
	err := json.Unmarshal(data, &r)
	return r, err
}

// RecordFileMetrics stores the file rows of a run in one transaction.
func (s *BoltStore) RecordFileMetrics(analysisID int64, records []schema.FileMetricsRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		run, err := tx.Bucket(bucketFiles).CreateBucketIfNotExists(itob(analysisID))
		if err != nil {
			return err
		}
		for _, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if err := run.Put([]byte(r.FilePath), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert file metrics: %w", err)
	}
	return nil
}

// EndAnalysis updates the analysis run with completion data.
func (s *BoltStore) EndAnalysis(analysisID int64, endTime time.Time, summary schema.RunSummary) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		r, err := getRun(runs, analysisID)
		if err != nil {
			return err
		}
		durationMs := int32(endTime.Sub(r.StartTime).Milliseconds())
		r.EndTime = &endTime
		r.RunDurationMs = &durationMs
		r.TotalFilesAnalyzed = int32(summary.TotalFiles)
		r.FailedFiles = int32(summary.FailedFiles)
		r.WellPct = summary.WellPct
		r.PartialPct = summary.PartialPct
		r.PoorPct = summary.PoorPct
		return putRun(runs, r)
	})
	if err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *BoltStore) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(schema.BoltBackend),
		Connected:  true,
		TableSizes: make(map[string]int64),
	}

	runs, err := s.GetAllAnalysisRuns()
	if err != nil {
		return status, err
	}
	status.TotalRuns = len(runs)
	for _, r := range runs {
		status.TotalFilesAnalyzed += int(r.TotalFilesAnalyzed)
	}
	if len(runs) > 0 {
		status.LastRunID = runs[len(runs)-1].AnalysisID
		status.LastRunTime = runs[len(runs)-1].StartTime
		status.OldestRunTime = runs[0].StartTime
	}

	err = s.db.View(func(tx *bbolt.Tx) error {
		var files int64
		bucket := tx.Bucket(bucketFiles)
		err := bucket.ForEachBucket(func(k []byte) error {
			files += int64(bucket.Bucket(k).Stats().KeyN)
			return nil
		})
		status.TableSizes[analysisRunsTable] = int64(len(runs))
		status.TableSizes[fileMetricsTable] = files
		return err
	})
	return status, err
}

// GetAllAnalysisRuns retrieves all analysis runs, oldest first.
func (s *BoltStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	var results []schema.AnalysisRunRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(_, v []byte) error {
			var r schema.AnalysisRunRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			results = append(results, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis runs: %w", err)
	}
	return results, nil
}

// GetAllFileMetrics retrieves every recorded file row, ordered by run then path.
func (s *BoltStore) GetAllFileMetrics() ([]schema.FileMetricsRecord, error) {
	var results []schema.FileMetricsRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		files := tx.Bucket(bucketFiles)
		return files.ForEachBucket(func(k []byte) error {
			return appendRecords(files.Bucket(k), &results)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read file metrics: %w", err)
	}
	return results, nil
}

// GetFileMetricsForRun retrieves the file rows of one run.
func (s *BoltStore) GetFileMetricsForRun(analysisID int64) ([]schema.FileMetricsRecord, error) {
	var results []schema.FileMetricsRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		run := tx.Bucket(bucketFiles).Bucket(itob(analysisID))
		if run == nil {
			return nil
		}
		return appendRecords(run, &results)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read file metrics for run %d: %w", analysisID, err)
	}
	return results, nil
}

func appendRecords(b *bbolt.Bucket, out *[]schema.FileMetricsRecord) error {
	return b.ForEach(func(_, v []byte) error {
		var r schema.FileMetricsRecord
		if err := json.Unmarshal(v, &r); err != nil {
			return err
		}
		*out = append(*out, r)
		return nil
	})
}

// Close closes the bolt file.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
