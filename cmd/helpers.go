package cmd

import (
	"os"
	"path/filepath"

	"github.com/dimasma0305/evilclippy/internal/clippy"
	"github.com/dimasma0305/evilclippy/internal/clippy/config"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// projectDir returns the absolute project directory selected with --dir
func projectDir() string {
	dir := projectDirFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatal("Failed to get working directory: ", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		log.Fatal("Invalid project directory: ", err)
	}
	return abs
}

// resolvePath makes p absolute relative to dir. Empty input stays empty.
func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// watcherPaths returns the default daemon file locations for dir, with any
// non-empty override taking precedence.
func watcherPaths(dir, pidFile, logFile, socketPath string) (string, string, string) {
	pick := func(override, def string) string {
		if override != "" {
			return resolvePath(dir, override)
		}
		return resolvePath(dir, def)
	}
	return pick(pidFile, watcher.DefaultWatcherConfig.PidFile),
		pick(logFile, watcher.DefaultWatcherConfig.LogFile),
		pick(socketPath, watcher.DefaultWatcherConfig.SocketPath)
}

// databasePath is the statistics database location for dir
func databasePath(dir string) string {
	return resolvePath(dir, watcher.DefaultWatcherConfig.DatabasePath)
}

// normalizeExtensions turns flag input like "js,.TS" into [".js", ".ts"]
func normalizeExtensions(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var exts []string
	for _, r := range raw {
		for _, ext := range config.SplitList(r) {
			ext = config.NormalizeExtension(ext)
			if ext == "" || seen[ext] {
				continue
			}
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	return exts
}

// mustLoad builds the application for the project directory
func mustLoad() *clippy.Clippy {
	return clippy.MustInit(projectDir())
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
