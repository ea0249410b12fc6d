package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
)

const (
	problemFileLimit    = 5
	recentAnalysesLimit = 10
)

// GetRecentLogs retrieves recent log entries from the database
func (d *DB) GetRecentLogs(limit int) ([]types.WatcherLog, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, timestamp, level, component, file_path, message, error, duration
		FROM watcher_logs
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var logs []types.WatcherLog
	for rows.Next() {
		var log types.WatcherLog
		var filePath, errorMsg sql.NullString
		var duration sql.NullInt64

		err := rows.Scan(
			&log.ID, &log.Timestamp, &log.Level, &log.Component,
			&filePath, &log.Message, &errorMsg, &duration,
		)
		if err != nil {
			return nil, err
		}

		log.FilePath = filePath.String
		log.Error = errorMsg.String
		log.Duration = duration.Int64

		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// GetStatistics summarizes the retained analyses
func (d *DB) GetStatistics() (*types.Statistics, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}

	stats := &types.Statistics{
		ProblemFiles:   []types.ProblemFile{},
		RecentAnalyses: []types.AnalysisRecord{},
	}

	rows, err := db.Query(`SELECT severity, COUNT(*) FROM analyses GROUP BY severity`)
	if err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			_ = rows.Close()
			return nil, err
		}
		switch severity {
		case "low":
			stats.SeverityDistribution.Low = count
		case "medium":
			stats.SeverityDistribution.Medium = count
		case "high":
			stats.SeverityDistribution.High = count
		}
		stats.TotalAnalyses += count
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.RoastsDelivered = stats.TotalAnalyses
	stats.CriticalIssues = stats.SeverityDistribution.High
	stats.AngryMoments = stats.SeverityDistribution.High

	if stats.ProblemFiles, err = d.problemFiles(db); err != nil {
		return nil, err
	}
	if stats.RecentAnalyses, err = d.recentAnalyses(db); err != nil {
		return nil, err
	}

	return stats, nil
}

func (d *DB) problemFiles(db *sql.DB) ([]types.ProblemFile, error) {
	rows, err := db.Query(`
		SELECT file_path, issue_count FROM file_issues
		ORDER BY issue_count DESC, file_path ASC
		LIMIT ?`, problemFileLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank problem files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	files := []types.ProblemFile{}
	for rows.Next() {
		var pf types.ProblemFile
		if err := rows.Scan(&pf.FilePath, &pf.IssueCount); err != nil {
			return nil, err
		}
		files = append(files, pf)
	}
	return files, rows.Err()
}

// recentAnalyses returns the newest records in chronological order
func (d *DB) recentAnalyses(db *sql.DB) ([]types.AnalysisRecord, error) {
	rows, err := db.Query(`
		SELECT file_path, severity, message, timestamp FROM (
			SELECT id, file_path, severity, message, timestamp FROM analyses
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, recentAnalysesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent analyses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []types.AnalysisRecord{}
	for rows.Next() {
		var rec types.AnalysisRecord
		var millis int64
		if err := rows.Scan(&rec.FilePath, &rec.Severity, &rec.Message, &millis); err != nil {
			return nil, err
		}
		rec.Timestamp = time.UnixMilli(millis)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ResetStatistics clears all recorded analyses and per-file counts
func (d *DB) ResetStatistics() error {
	db, err := d.conn()
	if err != nil {
		return err
	}

	for _, table := range []string{"analyses", "file_issues"} {
		//nolint:gosec // G202: table names are constants
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
