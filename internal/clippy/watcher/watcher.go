// Package watcher watches source files and turns every settled change into a roast
package watcher

import (
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/core"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/socket"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
)

type (
	// Watcher is the main watcher instance
	Watcher = core.Watcher

	// WatcherConfig holds configuration for the watcher
	WatcherConfig = types.WatcherConfig

	// WatcherCommand represents commands sent to the watcher via socket
	WatcherCommand = types.WatcherCommand

	// WatcherResponse represents responses from the watcher
	WatcherResponse = types.WatcherResponse

	// WatcherLog represents a log entry
	WatcherLog = types.WatcherLog

	// Statistics is the roast statistics summary
	Statistics = types.Statistics

	// WatcherClient provides client interface for the watcher daemon
	WatcherClient = socket.Client

	// AnalyzeFunc classifies one settled file
	AnalyzeFunc = core.AnalyzeFunc

	// Option configures a Watcher
	Option = core.Option
)

var (
	DefaultWatcherConfig = types.DefaultWatcherConfig

	WithRecorder   = core.WithRecorder
	WithCache      = core.WithCache
	WithNudger     = core.WithNudger
	WithRemoteName = core.WithRemoteName

	GetDaemonStatus = core.GetDaemonStatus
	StopDaemon      = core.StopDaemon
	ShowStatus      = core.ShowStatus
	FollowLogs      = core.FollowLogs

	WriteStatistics = socket.WriteStatistics
)

// NewWatcher creates a new file watcher instance
func NewWatcher(analyze AnalyzeFunc, emitter core.Emitter, opts ...Option) (*Watcher, error) {
	return core.New(analyze, emitter, opts...)
}

// NewWatcherClient creates a new watcher client for communicating with the daemon
func NewWatcherClient(socketPath string) *WatcherClient {
	return socket.NewClient(socketPath)
}
