package types

import (
	"time"
)

// WatcherConfig holds configuration for the watcher
type WatcherConfig struct {
	Folders           []string // Directories to watch
	Files             []string // Individual files to watch
	Extensions        []string // Qualifying extensions, with leading dot
	WatchSubfolders   bool
	RespectGitignore  bool
	StabilityDelay    time.Duration // Quiet period before a change is settled
	Cooldown          time.Duration // Gate stays closed this long after an analysis
	InactivityTimeout time.Duration // 0 disables the idle nudge
	DaemonMode        bool          // Run watcher as daemon
	PidFile           string        // PID file location
	LogFile           string        // Log file location
	// Database configuration
	DatabaseEnabled bool   // Enable statistics and log persistence
	DatabasePath    string // SQLite database file path
	// Socket configuration
	SocketEnabled bool   // Enable socket server
	SocketPath    string // Unix socket path for communication
}

// DefaultWatcherConfig provides default configuration values
var DefaultWatcherConfig = WatcherConfig{
	Extensions:      []string{".js", ".ts", ".jsx", ".tsx", ".py"},
	WatchSubfolders: true,
	StabilityDelay:  500 * time.Millisecond,
	Cooldown:        1 * time.Second,
	DaemonMode:      true, // Default to daemon mode
	PidFile:         ".clippy/watcher/watcher.pid",
	LogFile:         ".clippy/watcher/watcher.log",
	// Database defaults
	DatabaseEnabled: true,
	DatabasePath:    ".clippy/watcher/watcher.db",
	// Socket defaults
	SocketEnabled: true,
	SocketPath:    ".clippy/watcher/watcher.sock",
}

// WithDefaults fills zero-valued paths and timings from DefaultWatcherConfig.
// The gate always has a cooldown, so an unset or zero Cooldown becomes the default.
func (c WatcherConfig) WithDefaults() WatcherConfig {
	if c.StabilityDelay <= 0 {
		c.StabilityDelay = DefaultWatcherConfig.StabilityDelay
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultWatcherConfig.Cooldown
	}
	if c.PidFile == "" {
		c.PidFile = DefaultWatcherConfig.PidFile
	}
	if c.LogFile == "" {
		c.LogFile = DefaultWatcherConfig.LogFile
	}
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultWatcherConfig.DatabasePath
	}
	if c.SocketPath == "" {
		c.SocketPath = DefaultWatcherConfig.SocketPath
	}
	c.Folders = append([]string(nil), c.Folders...)
	c.Files = append([]string(nil), c.Files...)
	c.Extensions = append([]string(nil), c.Extensions...)
	return c
}
