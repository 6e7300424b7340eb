package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB provides SQLite-based storage for cached documents, cached analyses,
// and crawl sessions.
//
// Design decision: We keep both shared caches and the per-requester
// session tables in a single database file rather than separate files
// because:
//  1. Cache deletion must cascade to analyses in one transaction
//  2. A single writer connection serializes same-key cache writes
//  3. Backup and inspection stay a one-file operation
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
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

// Open opens or creates the database at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, "legalscan.db")

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

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer. A single connection also makes
	// concurrent Store calls for the same document URL execute one at a
	// time, which the caches rely on.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	d := &DB{
		db:     sqlDB,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := d.createTables(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the path of the underlying database file.
func (d *DB) Path() string {
	return d.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (d *DB) createTables() error {
	schema := `
	-- Shared document cache, one row per document URL
	CREATE TABLE IF NOT EXISTS cached_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL,
		document_url TEXT NOT NULL UNIQUE,
		document_type TEXT NOT NULL,
		title TEXT,
		raw_text TEXT NOT NULL,
		text_hash TEXT NOT NULL,
		word_count INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL DEFAULT 'fresh',
		last_fetched DATETIME DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_base_url ON cached_documents(base_url);
	CREATE INDEX IF NOT EXISTS idx_documents_type ON cached_documents(document_type);
	CREATE INDEX IF NOT EXISTS idx_documents_last_fetched ON cached_documents(last_fetched);

	-- Shared analysis cache, one row per document URL
	CREATE TABLE IF NOT EXISTS cached_analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL,
		document_url TEXT NOT NULL UNIQUE,
		text_hash TEXT NOT NULL,
		summary_short TEXT,
		summary_long TEXT,
		word_frequency TEXT,
		measurements TEXT,
		provider TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_document_id ON cached_analyses(document_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_text_hash ON cached_analyses(text_hash);

	-- Crawl sessions, one row per crawl request
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		document_count INTEGER NOT NULL DEFAULT 0,
		analyzed_count INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);

	-- Per-requester document copies, frozen at crawl time
	CREATE TABLE IF NOT EXISTS session_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		url TEXT NOT NULL,
		document_type TEXT NOT NULL,
		title TEXT,
		raw_text TEXT NOT NULL,
		text_hash TEXT NOT NULL,
		word_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_session_documents_session ON session_documents(session_id);
	CREATE INDEX IF NOT EXISTS idx_session_documents_user ON session_documents(user_id);

	-- Per-requester analysis copies, bound to session document copies
	CREATE TABLE IF NOT EXISTS session_analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		summary_short TEXT,
		summary_long TEXT,
		word_frequency TEXT,
		measurements TEXT,
		provider TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_session_analyses_document ON session_analyses(document_id);
	CREATE INDEX IF NOT EXISTS idx_session_analyses_user ON session_analyses(user_id);
	`

	_, err := d.db.ExecContext(context.Background(), schema)
	return err
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
