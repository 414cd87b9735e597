package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jzuercher123/AJAXSpider/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl history.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all runs rather
// than one file per seed. This keeps run history queryable in one place
// and simplifies backup/restore operations.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "ajaxspider.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; extra connections just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the path of the underlying database file.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Runs store one row per crawl, keyed by the run's UUID
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		start_url TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		concurrency INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		urls_visited INTEGER NOT NULL,
		result_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_start_url ON runs(start_url);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- Results store the per-request outcomes of each run
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		method TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT,
		content_length INTEGER,
		headers TEXT,
		UNIQUE(run_id, url, method)
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_url ON results(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertRun stores a completed run's statistics.
func (cdb *CrawlDB) InsertRun(ctx context.Context, run *model.Run) error {
	query := `
	INSERT INTO runs (id, start_url, max_depth, concurrency, started_at, duration_ms, urls_visited, result_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := cdb.db.ExecContext(ctx, query,
		run.ID,
		run.StartURL,
		run.MaxDepth,
		run.Concurrency,
		run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		run.Duration.Milliseconds(),
		run.URLsVisited,
		run.ResultCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// InsertResults stores the results of one run in a single transaction.
// Re-inserting a (run, url, method) triple updates the stored outcome.
func (cdb *CrawlDB) InsertResults(ctx context.Context, runID string, results []model.CrawlResult) error {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
	INSERT INTO results (run_id, url, method, status_code, content_type, content_length, headers)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, url, method) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		content_length = excluded.content_length,
		headers = excluded.headers
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // close error is irrelevant after exec

	for _, result := range results {
		headersJSON, err := json.Marshal(result.Headers)
		if err != nil {
			return fmt.Errorf("failed to serialize headers: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			runID,
			result.URL,
			result.Method,
			result.StatusCode,
			result.ContentType,
			result.ContentLength,
			string(headersJSON),
		); err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}

	return nil
}

// GetRun retrieves a run by its UUID. Returns nil without error when the
// run does not exist.
func (cdb *CrawlDB) GetRun(ctx context.Context, id string) (*model.Run, error) {
	query := `
	SELECT id, start_url, max_depth, concurrency, started_at, duration_ms, urls_visited, result_count
	FROM runs
	WHERE id = ?
	`

	var run model.Run
	var startedAt string
	var durationMS int64

	err := cdb.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.StartURL,
		&run.MaxDepth,
		&run.Concurrency,
		&startedAt,
		&durationMS,
		&run.URLsVisited,
		&run.ResultCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.Duration = time.Duration(durationMS) * time.Millisecond

	return &run, nil
}

// ListRuns returns all stored runs, newest first.
func (cdb *CrawlDB) ListRuns(ctx context.Context) ([]*model.Run, error) {
	query := `
	SELECT id, start_url, max_depth, concurrency, started_at, duration_ms, urls_visited, result_count
	FROM runs
	ORDER BY started_at DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		var run model.Run
		var startedAt string
		var durationMS int64

		if err := rows.Scan(
			&run.ID,
			&run.StartURL,
			&run.MaxDepth,
			&run.Concurrency,
			&startedAt,
			&durationMS,
			&run.URLsVisited,
			&run.ResultCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt = parseTimestamp(startedAt)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// GetResults retrieves the results of one run in insertion order.
func (cdb *CrawlDB) GetResults(ctx context.Context, runID string) ([]model.CrawlResult, error) {
	query := `
	SELECT url, method, status_code, content_type, content_length, headers
	FROM results
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var results []model.CrawlResult
	for rows.Next() {
		var result model.CrawlResult
		var contentType sql.NullString
		var contentLength sql.NullInt64
		var headersJSON sql.NullString

		if err := rows.Scan(
			&result.URL,
			&result.Method,
			&result.StatusCode,
			&contentType,
			&contentLength,
			&headersJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		result.ContentType = contentType.String
		result.ContentLength = contentLength.Int64

		if headersJSON.Valid && headersJSON.String != "" {
			if err := json.Unmarshal([]byte(headersJSON.String), &result.Headers); err != nil {
				return nil, fmt.Errorf("failed to parse headers: %w", err)
			}
		}

		results = append(results, result)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
