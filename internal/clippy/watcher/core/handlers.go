//nolint:revive // Handler methods follow interface patterns with some unused parameters
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
)

const defaultLogLimit = 100

// HandleStatusCommand reports what the watcher is doing
func (w *Watcher) HandleStatusCommand(cmd types.WatcherCommand) types.WatcherResponse {
	counters := w.Counters()
	status := map[string]interface{}{
		"status":           "running",
		"folders":          w.config.Folders,
		"files":            w.config.Files,
		"extensions":       w.config.Extensions,
		"watch_subfolders": w.config.WatchSubfolders,
		"remote_provider":  w.remoteName,
		"analyzed":         counters.Analyzed,
		"dropped":          counters.Dropped,
		"pending":          counters.Pending,
		"busy":             counters.Busy,
		"database_enabled": w.config.DatabaseEnabled,
		"socket_enabled":   w.config.SocketEnabled,
		"pid":              os.Getpid(),
	}
	if w.cache != nil {
		status["cache_entries"] = w.cache.Len()
	}
	if s, ok := w.emitter.(interface{ Sinks() []string }); ok {
		status["sinks"] = s.Sinks()
	}

	return types.WatcherResponse{
		Success: true,
		Message: "Watcher status retrieved successfully",
		Data:    status,
	}
}

// HandleGetStatisticsCommand returns the statistics summary
func (w *Watcher) HandleGetStatisticsCommand(cmd types.WatcherCommand) types.WatcherResponse {
	if w.db == nil || !w.db.IsEnabled() {
		return types.WatcherResponse{Success: false, Error: errors.ErrDatabaseDisabled.Error()}
	}

	stats, err := w.db.GetStatistics()
	if err != nil {
		return types.WatcherResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to get statistics: %v", err),
		}
	}

	return types.WatcherResponse{
		Success: true,
		Message: fmt.Sprintf("%d analyses recorded", stats.TotalAnalyses),
		Data:    map[string]interface{}{"statistics": stats},
	}
}

// HandleGetLogsCommand returns recent watcher log rows
func (w *Watcher) HandleGetLogsCommand(cmd types.WatcherCommand) types.WatcherResponse {
	if w.db == nil || !w.db.IsEnabled() {
		return types.WatcherResponse{Success: false, Error: errors.ErrDatabaseDisabled.Error()}
	}

	limit := defaultLogLimit
	if cmd.Data != nil {
		if l, ok := cmd.Data["limit"].(float64); ok && l > 0 {
			limit = int(l)
		}
	}

	logs, err := w.db.GetRecentLogs(limit)
	if err != nil {
		return types.WatcherResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to get logs: %v", err),
		}
	}

	return types.WatcherResponse{
		Success: true,
		Message: fmt.Sprintf("Retrieved %d log entries", len(logs)),
		Data:    map[string]interface{}{"logs": logs},
	}
}

// HandleResetStatisticsCommand clears recorded analyses
func (w *Watcher) HandleResetStatisticsCommand(cmd types.WatcherCommand) types.WatcherResponse {
	if w.db == nil || !w.db.IsEnabled() {
		return types.WatcherResponse{Success: false, Error: errors.ErrDatabaseDisabled.Error()}
	}
	if err := w.db.ResetStatistics(); err != nil {
		return types.WatcherResponse{
			Success: false,
			Error:   fmt.Sprintf("Failed to reset statistics: %v", err),
		}
	}
	w.logToDatabase("INFO", "watcher", "", "Statistics reset", "")
	return types.WatcherResponse{Success: true, Message: "Statistics reset"}
}

// HandleClearCacheCommand empties the verdict cache
func (w *Watcher) HandleClearCacheCommand(cmd types.WatcherCommand) types.WatcherResponse {
	if w.cache == nil {
		return types.WatcherResponse{Success: false, Error: "No cache configured"}
	}
	n := w.cache.Len()
	w.cache.Clear()
	return types.WatcherResponse{
		Success: true,
		Message: fmt.Sprintf("Cleared %d cached verdicts", n),
	}
}

// HandleAnalyzeCommand analyzes one file on demand, outside the change gate.
// The verdict is returned to the caller and not recorded or broadcast.
func (w *Watcher) HandleAnalyzeCommand(cmd types.WatcherCommand) types.WatcherResponse {
	path, _ := cmd.Data["path"].(string)
	if path == "" {
		return types.WatcherResponse{Success: false, Error: "Missing path parameter"}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.WatcherResponse{Success: false, Error: fmt.Sprintf("Invalid path: %v", err)}
	}
	if _, err := os.Stat(abs); err != nil {
		return types.WatcherResponse{Success: false, Error: fmt.Sprintf("%v: %s", errors.ErrFileNotFound, abs)}
	}

	v := w.analyzeSafely(context.WithoutCancel(w.ctx), abs)
	return types.WatcherResponse{
		Success: true,
		Message: v.Message,
		Data: map[string]interface{}{
			"path":    abs,
			"verdict": v,
		},
	}
}
