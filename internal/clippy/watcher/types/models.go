package types

import (
	"time"
)

// Database models for persistent storage

// WatcherLog represents a log entry in the database
type WatcherLog struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	FilePath  string    `json:"file_path,omitempty"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Duration  int64     `json:"duration,omitempty"` // milliseconds
}

// AnalysisRecord is one delivered verdict
type AnalysisRecord struct {
	FilePath  string    `json:"filePath"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SeverityDistribution counts analyses per tier
type SeverityDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ProblemFile is a file ranked by how often it was analyzed
type ProblemFile struct {
	FilePath   string `json:"filePath"`
	IssueCount int    `json:"issueCount"`
}

// Statistics summarizes recorded analyses
type Statistics struct {
	TotalAnalyses        int                  `json:"totalAnalyses"`
	RoastsDelivered      int                  `json:"roastsDelivered"`
	CriticalIssues       int                  `json:"criticalIssues"`
	AngryMoments         int                  `json:"angryMoments"`
	SeverityDistribution SeverityDistribution `json:"severityDistribution"`
	ProblemFiles         []ProblemFile        `json:"problemFiles"`
	RecentAnalyses       []AnalysisRecord     `json:"recentAnalyses"`
}
