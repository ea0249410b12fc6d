//nolint:revive // Package types provides type definitions for the watcher
package types

// Socket command actions understood by the watcher daemon
const (
	ActionStatus          = "status"
	ActionGetStatistics   = "get_statistics"
	ActionGetLogs         = "get_logs"
	ActionResetStatistics = "reset_statistics"
	ActionClearCache      = "clear_cache"
	ActionAnalyze         = "analyze"
)

// WatcherCommand represents commands that can be sent to the watcher via socket
type WatcherCommand struct {
	Action string                 `json:"action"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// WatcherResponse represents responses from the watcher
type WatcherResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Counters is a snapshot of the watcher's in-memory activity counters
type Counters struct {
	Analyzed int64 `json:"analyzed"`
	Dropped  int64 `json:"dropped"`
	Pending  int   `json:"pending"`
	Busy     bool  `json:"busy"`
}
