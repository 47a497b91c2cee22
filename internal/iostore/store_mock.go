package iostore

import (
	"time"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetAnalysisStore implements the StoreManager interface.
func (m *MockStoreManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AnalysisStore)
	return store
}

// MockAnalysisStore is a mock implementation of AnalysisStore for testing.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

// BeginAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordFileMetrics implements the AnalysisStore interface.
func (m *MockAnalysisStore) RecordFileMetrics(analysisID int64, records []schema.FileMetricsRecord) error {
	args := m.Called(analysisID, records)
	return args.Error(0)
}

// EndAnalysis implements the AnalysisStore interface.
func (m *MockAnalysisStore) EndAnalysis(analysisID int64, endTime time.Time, summary schema.RunSummary) error {
	args := m.Called(analysisID, endTime, summary)
	return args.Error(0)
}

// GetStatus implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

// GetAllAnalysisRuns implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return runs, args.Error(1)
}

// GetAllFileMetrics implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetAllFileMetrics() ([]schema.FileMetricsRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.FileMetricsRecord)
	return records, args.Error(1)
}

// GetFileMetricsForRun implements the AnalysisStore interface.
func (m *MockAnalysisStore) GetFileMetricsForRun(analysisID int64) ([]schema.FileMetricsRecord, error) {
	args := m.Called(analysisID)
	records, _ := args.Get(0).([]schema.FileMetricsRecord)
	return records, args.Error(1)
}

// Close implements the AnalysisStore interface.
func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
