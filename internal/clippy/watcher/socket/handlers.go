package socket

import (
	"fmt"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
)

// Handler provides implementations for socket command handling
type Handler interface {
	HandleStatusCommand(cmd types.WatcherCommand) types.WatcherResponse
	HandleGetStatisticsCommand(cmd types.WatcherCommand) types.WatcherResponse
	HandleGetLogsCommand(cmd types.WatcherCommand) types.WatcherResponse
	HandleResetStatisticsCommand(cmd types.WatcherCommand) types.WatcherResponse
	HandleClearCacheCommand(cmd types.WatcherCommand) types.WatcherResponse
	HandleAnalyzeCommand(cmd types.WatcherCommand) types.WatcherResponse
}

// DefaultCommandHandler implements CommandHandler by routing to Handler methods
type DefaultCommandHandler struct {
	handler Handler
}

// NewDefaultCommandHandler creates a new default command handler
func NewDefaultCommandHandler(handler Handler) *DefaultCommandHandler {
	return &DefaultCommandHandler{handler: handler}
}

// HandleCommand processes a socket command
func (h *DefaultCommandHandler) HandleCommand(cmd types.WatcherCommand) types.WatcherResponse {
	switch cmd.Action {
	case types.ActionStatus:
		return h.handler.HandleStatusCommand(cmd)
	case types.ActionGetStatistics:
		return h.handler.HandleGetStatisticsCommand(cmd)
	case types.ActionGetLogs:
		return h.handler.HandleGetLogsCommand(cmd)
	case types.ActionResetStatistics:
		return h.handler.HandleResetStatisticsCommand(cmd)
	case types.ActionClearCache:
		return h.handler.HandleClearCacheCommand(cmd)
	case types.ActionAnalyze:
		return h.handler.HandleAnalyzeCommand(cmd)
	default:
		return types.WatcherResponse{
			Success: false,
			Error:   fmt.Sprintf("Unknown command: %s", cmd.Action),
		}
	}
}
