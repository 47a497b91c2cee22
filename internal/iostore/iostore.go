// Package iostore is for recording analysis runs in a history backend.
package iostore

import (
	"sync"

	"github.com/huangsam/docscope/internal/contract"
)

// Table names for history tracking.
const (
	analysisRunsTable = "docscope_analysis_runs"
	fileMetricsTable  = "docscope_file_metrics"
)

// HistoryTables lists the history tables in creation order.
var HistoryTables = []string{analysisRunsTable, fileMetricsTable}

// HistoryStoreManager holds the history store of the running process.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	analysis     contract.AnalysisStore
}

var _ contract.StoreManager = &HistoryStoreManager{} // Compile-time check

// GetAnalysisStore returns the history AnalysisStore, or nil when tracking is off.
func (mgr *HistoryStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
