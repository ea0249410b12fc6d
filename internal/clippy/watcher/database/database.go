// Package database provides SQLite persistence for analysis statistics and watcher logs
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/log"

	// Import pure-Go SQLite driver for database/sql (no CGO required)
	_ "modernc.org/sqlite"
)

// MaxAnalyses is how many analysis rows are retained for statistics
const MaxAnalyses = 1000

// DB wraps database operations for the watcher
type DB struct {
	db      *sql.DB
	mu      sync.RWMutex
	enabled bool
	path    string
}

// New creates a new database instance
func New(dbPath string, enabled bool) *DB {
	return &DB{
		path:    dbPath,
		enabled: enabled,
	}
}

// Init initializes the database connection and creates tables
func (d *DB) Init() error {
	if !d.enabled {
		log.DebugH2("Database logging disabled")
		return nil
	}

	dbPath := d.path
	log.DebugH2("Initializing SQLite database: %s", dbPath)

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL lets the CLI read statistics while the daemon writes
	dbPath += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with a single writer
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.mu.Lock()
	d.db = db
	d.mu.Unlock()

	if err := d.createTables(); err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}

	log.DebugH2("Database initialized successfully")
	return nil
}

// createTables creates the necessary database tables
func (d *DB) createTables() error {
	db := d.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	createLogsTable := `
		CREATE TABLE IF NOT EXISTS watcher_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			level TEXT NOT NULL,
			component TEXT NOT NULL,
			file_path TEXT,
			message TEXT NOT NULL,
			error TEXT,
			duration INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON watcher_logs(timestamp);
		CREATE INDEX IF NOT EXISTS idx_logs_level ON watcher_logs(level);
	`

	// timestamp is unix milliseconds
	createAnalysesTable := `
		CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path TEXT NOT NULL,
			severity TEXT NOT NULL,
			message TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_analyses_severity ON analyses(severity);
	`

	// Per-file totals survive pruning of the analyses table
	createFileIssuesTable := `
		CREATE TABLE IF NOT EXISTS file_issues (
			file_path TEXT PRIMARY KEY,
			issue_count INTEGER NOT NULL DEFAULT 0
		);
	`

	if _, err := db.Exec(createLogsTable); err != nil {
		return fmt.Errorf("failed to create watcher_logs table: %w", err)
	}

	if _, err := db.Exec(createAnalysesTable); err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}

	if _, err := db.Exec(createFileIssuesTable); err != nil {
		return fmt.Errorf("failed to create file_issues table: %w", err)
	}

	log.DebugH3("Database tables created successfully")
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		log.DebugH3("Closing database connection")
		err := d.db.Close()
		d.db = nil
		return err
	}
	return nil
}

// GetDB returns the underlying database connection (for queries)
func (d *DB) GetDB() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// IsEnabled returns whether the database is enabled
func (d *DB) IsEnabled() bool {
	return d.enabled
}

func (d *DB) conn() (*sql.DB, error) {
	if !d.enabled {
		return nil, errors.ErrDatabaseDisabled
	}
	db := d.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return db, nil
}
