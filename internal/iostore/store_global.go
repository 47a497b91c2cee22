package iostore

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &HistoryStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the history store.
// An empty backend leaves history tracking disabled.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewAnalysisStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}
		Manager.Lock()
		Manager.analysis = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.analysis != nil {
			_ = Manager.analysis.Close()
		}
	})
}

// NewAnalysisStore opens the history store for the backend.
// The none backend returns a store that records nothing.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	switch backend {
	case schema.BoltBackend:
		path := connStr
		if path == "" {
			path = contract.GetHistoryBoltFilePath()
		}
		return NewBoltStore(path)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
		return NewSQLStore(backend, connStr)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// ClearHistory removes all recorded runs for the specified backend.
// For SQLite and bolt, it deletes the database file.
// For SQL servers (MySQL/PostgreSQL), it drops the history tables.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(defaultPath(connStr, contract.GetHistoryDBFilePath()))

	case schema.BoltBackend:
		return removeFile(defaultPath(connStr, contract.GetHistoryBoltFilePath()))

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		// Drop in reverse creation order, then the migration bookkeeping
		for i := len(HistoryTables) - 1; i >= 0; i-- {
			if err := dropTable(db, backend, HistoryTables[i]); err != nil {
				return err
			}
		}
		return dropTable(db, backend, migrationsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

func defaultPath(connStr, fallback string) string {
	if connStr != "" {
		return connStr
	}
	return fallback
}

// removeFile removes a database file; a missing file is not an error.
func removeFile(path string) error {
	if path == "" {
		return fmt.Errorf("database file path cannot be empty")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove database file %s: %w", path, err)
	}
	return nil
}
