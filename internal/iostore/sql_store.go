package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/docscope/internal/contract"
	"github.com/huangsam/docscope/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// SQLStore implements AnalysisStore on top of database/sql.
type SQLStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &SQLStore{} // Compile-time check

// driverNames maps SQL backends to their database/sql driver.
var driverNames = map[schema.DatabaseBackend]string{
	schema.SQLiteBackend:     "sqlite",
	schema.MySQLBackend:      "mysql",
	schema.PostgreSQLBackend: "pgx",
}

// openDB opens and pings the database of a SQL backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, ok := driverNames[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct: user:password@tcp(host:port)/dbname?parseTime=true"
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct: host=localhost port=5432 user=postgres dbname=mydb"
		default:
			connDetail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// NewSQLStore opens a SQL history store and applies pending migrations.
// The none backend returns a store that records nothing.
func NewSQLStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	if backend == schema.NoneBackend {
		return &SQLStore{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &SQLStore{db: db, backend: backend}, nil
}

func (s *SQLStore) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// rebind rewrites ? placeholders into the positional form PostgreSQL expects.
func (s *SQLStore) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (s *SQLStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	table := quoteTableName(analysisRunsTable, s.backend)
	var analysisID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING analysis_id`, table)
		err = s.db.QueryRow(query, startTime, string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, table)
		var result sql.Result
		result, err = s.db.Exec(query, formatTime(startTime, s.backend), string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// RecordFileMetrics stores the file rows of a run in one transaction.
func (s *SQLStore) RecordFileMetrics(analysisID int64, records []schema.FileMetricsRecord) error {
	if s.disabled() || len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := s.rebind(fmt.Sprintf(`INSERT INTO %s (analysis_id, file_path, module, analysis_time,
		doc_score, doc_tier, classes, functions, documented_items,
		complexity_density, complexity_tier, magic_numbers, age_bucket,
		todos, deprecated, long_functions, max_nesting)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(fileMetricsTable, s.backend)))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare file metrics insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(
			analysisID, r.FilePath, r.Module, formatTime(r.AnalysisTime, s.backend),
			r.DocScore, r.DocTier, r.Classes, r.Functions, r.DocumentedItems,
			r.ComplexityDensity, r.ComplexityTier, r.MagicNumbers, r.AgeBucket,
			r.TODOs, r.Deprecated, r.LongFunctions, r.MaxNesting,
		); err != nil {
			return fmt.Errorf("failed to insert file metrics for %s: %w", r.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit file metrics: %w", err)
	}
	return nil
}

// EndAnalysis updates the analysis run with completion data.
func (s *SQLStore) EndAnalysis(analysisID int64, endTime time.Time, summary schema.RunSummary) error {
	if s.disabled() {
		return nil
	}

	table := quoteTableName(analysisRunsTable, s.backend)
	var start dbTime
	query := s.rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = ?`, table))
	if err := s.db.QueryRow(query, analysisID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(start.Time).Milliseconds()
	update := s.rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_files_analyzed = ?,
		failed_files = ?, well_pct = ?, partial_pct = ?, poor_pct = ? WHERE analysis_id = ?`, table))
	if _, err := s.db.Exec(update, formatTime(endTime, s.backend), durationMs, summary.TotalFiles,
		summary.FailedFiles, summary.WellPct, summary.PartialPct, summary.PoorPct, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *SQLStore) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	runs := quoteTableName(analysisRunsTable, s.backend)
	row := s.db.QueryRow(fmt.Sprintf(
		"SELECT COUNT(*), COALESCE(MAX(analysis_id), 0), COALESCE(SUM(total_files_analyzed), 0) FROM %s", runs))
	if err := row.Scan(&status.TotalRuns, &status.LastRunID, &status.TotalFilesAnalyzed); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest dbTime
		if err := s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runs)).Scan(&last); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		if err := s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runs)).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = last.Time
		status.OldestRunTime = oldest.Time
	}

	for _, table := range HistoryTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs, oldest first.
func (s *SQLStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, start_time, end_time, run_duration_ms, total_files_analyzed,
		failed_files, well_pct, partial_pct, poor_pct, config_params FROM %s ORDER BY analysis_id`,
		quoteTableName(analysisRunsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		var start, end dbTime
		if err := rows.Scan(&record.AnalysisID, &start, &end, &record.RunDurationMs, &record.TotalFilesAnalyzed,
			&record.FailedFiles, &record.WellPct, &record.PartialPct, &record.PoorPct, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		record.StartTime = start.Time
		if end.Valid {
			t := end.Time
			record.EndTime = &t
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllFileMetrics retrieves every recorded file row.
func (s *SQLStore) GetAllFileMetrics() ([]schema.FileMetricsRecord, error) {
	return s.queryFileMetrics("", nil)
}

// GetFileMetricsForRun retrieves the file rows of one run.
func (s *SQLStore) GetFileMetricsForRun(analysisID int64) ([]schema.FileMetricsRecord, error) {
	return s.queryFileMetrics("WHERE analysis_id = ?", []any{analysisID})
}

func (s *SQLStore) queryFileMetrics(where string, args []any) ([]schema.FileMetricsRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := s.rebind(fmt.Sprintf(`SELECT analysis_id, file_path, module, analysis_time,
		doc_score, doc_tier, classes, functions, documented_items,
		complexity_density, complexity_tier, magic_numbers, age_bucket,
		todos, deprecated, long_functions, max_nesting
		FROM %s %s ORDER BY analysis_id, file_path`, quoteTableName(fileMetricsTable, s.backend), where))
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query file metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileMetricsRecord
	for rows.Next() {
		var r schema.FileMetricsRecord
		var at dbTime
		if err := rows.Scan(&r.AnalysisID, &r.FilePath, &r.Module, &at,
			&r.DocScore, &r.DocTier, &r.Classes, &r.Functions, &r.DocumentedItems,
			&r.ComplexityDensity, &r.ComplexityTier, &r.MagicNumbers, &r.AgeBucket,
			&r.TODOs, &r.Deprecated, &r.LongFunctions, &r.MaxNesting); err != nil {
			return nil, fmt.Errorf("failed to scan file metrics: %w", err)
		}
		r.AnalysisTime = at.Time
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file metrics: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
