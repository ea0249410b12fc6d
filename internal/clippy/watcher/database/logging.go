package database

import (
	"fmt"
	"time"
)

// LogToDatabase logs a message to the database
func (d *DB) LogToDatabase(level, component, filePath, message, errorMsg string, duration int64) {
	if !d.enabled {
		return
	}

	db := d.GetDB()
	if db == nil {
		return
	}

	query := `
		INSERT INTO watcher_logs (level, component, file_path, message, error, duration)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, level, component, filePath, message, errorMsg, duration)
	if err != nil {
		// Don't use log.Error here to avoid potential recursion
		fmt.Printf("Failed to log to database: %v\n", err)
	}
}

// RecordAnalysis stores one delivered verdict and bumps the file's issue count.
// Rows beyond MaxAnalyses are pruned oldest first.
func (d *DB) RecordAnalysis(filePath, severity, message string, ts time.Time) {
	if !d.enabled {
		return
	}

	db := d.GetDB()
	if db == nil {
		return
	}

	tx, err := db.Begin()
	if err != nil {
		fmt.Printf("Failed to record analysis: %v\n", err)
		return
	}

	statements := []struct {
		query string
		args  []any
	}{
		{
			`INSERT INTO analyses (file_path, severity, message, timestamp) VALUES (?, ?, ?, ?)`,
			[]any{filePath, severity, message, ts.UnixMilli()},
		},
		{
			`INSERT INTO file_issues (file_path, issue_count) VALUES (?, 1)
			 ON CONFLICT(file_path) DO UPDATE SET issue_count = issue_count + 1`,
			[]any{filePath},
		},
		{
			`DELETE FROM analyses WHERE id <= (SELECT MAX(id) FROM analyses) - ?`,
			[]any{MaxAnalyses},
		},
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt.query, stmt.args...); err != nil {
			_ = tx.Rollback()
			fmt.Printf("Failed to record analysis: %v\n", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("Failed to record analysis: %v\n", err)
	}
}
