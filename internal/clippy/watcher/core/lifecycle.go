package core

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	godaemon "github.com/sevlyar/go-daemon"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/daemon"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/database"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/filesystem"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/socket"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// shutdownTimeout bounds how long Stop waits for the event loops
const shutdownTimeout = 10 * time.Second

// Validate checks that config names something to watch
func Validate(config types.WatcherConfig) error {
	if len(config.Folders) == 0 && len(config.Files) == 0 {
		return errors.ErrNoWatchPaths
	}
	if len(config.Extensions) == 0 {
		return errors.ErrNoFileTypes
	}
	return nil
}

// Start starts the file watcher with the given configuration. Configuration
// errors are returned before anything is subscribed. The config is copied and
// never changes for the life of the watcher; a stopped watcher cannot be
// started again.
func (w *Watcher) Start(config types.WatcherConfig) error {
	if err := Validate(config); err != nil {
		return err
	}

	w.stateMu.Lock()
	if w.started {
		w.stateMu.Unlock()
		return errors.ErrWatcherRunning
	}
	w.started = true
	w.stateMu.Unlock()

	w.config = config.WithDefaults()

	if w.config.DaemonMode {
		log.Info("Starting file watcher in DAEMON mode...")
		return w.startAsDaemon()
	}

	log.Info("Starting file watcher in foreground mode...")
	return w.startWatcher()
}

// startAsDaemon starts the watcher as a daemon process
func (w *Watcher) startAsDaemon() error {
	if err := daemon.EnsureDirectoriesExist(w.config.PidFile, w.config.LogFile); err != nil {
		return err
	}

	daemonCtx := &godaemon.Context{
		PidFileName: w.config.PidFile,
		PidFilePerm: 0644,
		LogFileName: w.config.LogFile,
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
	}

	if godaemon.WasReborn() {
		pid := os.Getpid()
		log.Info("🚀 Evil Clippy watcher daemon started (PID: %d)", pid)
		log.Info("📄 PID file: %s", w.config.PidFile)
		log.Info("📝 Log file: %s", w.config.LogFile)

		if err := daemon.WritePIDFile(w.config.PidFile, pid); err != nil {
			log.Error("Failed to write PID file: %v", err)
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() {
			_ = daemon.RemovePIDFile(w.config.PidFile)
		}()

		if err := w.startWatcher(); err != nil {
			return err
		}

		sigCtx, stop := signal.NotifyContext(w.ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()
		return w.Stop()
	}

	child, err := daemonCtx.Reborn()
	if err != nil {
		return fmt.Errorf("failed to fork daemon: %w", err)
	}

	if child != nil {
		log.Info("✅ Evil Clippy watcher daemon started")
		log.Info("📄 PID: %d (saved to %s)", child.Pid, w.config.PidFile)
		log.Info("📝 Logs: %s", w.config.LogFile)
		return nil
	}

	return fmt.Errorf("unexpected daemon state")
}

// startWatcher opens storage and the control socket, subscribes, and starts the loops
func (w *Watcher) startWatcher() error {
	w.db = database.New(w.config.DatabasePath, w.config.DatabaseEnabled)
	if err := w.db.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if w.recorder == nil && w.config.DatabaseEnabled {
		w.recorder = w.db
	}

	qualifier, err := filesystem.NewQualifier(w.config)
	if err != nil {
		w.closeResources()
		return errors.Wrap(errors.ErrInvalidPath, err.Error())
	}
	w.qualifier = qualifier

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.closeResources()
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w.watcher = fsw

	if err := filesystem.Subscribe(fsw, qualifier); err != nil {
		w.closeResources()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	w.socketServer = socket.NewServer(w.config.SocketPath, w.config.SocketEnabled, socket.NewDefaultCommandHandler(w))
	if err := w.socketServer.Init(); err != nil {
		w.closeResources()
		return fmt.Errorf("failed to initialize socket server: %w", err)
	}

	w.debouncer = NewDebouncer(w.config.StabilityDelay, w.settled)
	w.gate = NewGate(w.config.Cooldown)

	if w.config.InactivityTimeout > 0 {
		w.idleMu.Lock()
		w.idleTimer = time.AfterFunc(w.config.InactivityTimeout, w.nudge)
		w.idleMu.Unlock()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		filesystem.WatchLoop(w.ctx, fsw, qualifier, w)
	}()

	if w.config.SocketEnabled {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.socketServer.Run(w.ctx)
		}()
	}

	w.logToDatabase("INFO", "watcher", "", "File watcher started", "")
	log.Info("File watcher started: %d folder(s), %d file(s), extensions %v",
		len(w.config.Folders), len(w.config.Files), w.config.Extensions)
	return nil
}

// Stop stops the file watcher. It is safe to call more than once. An
// analysis already running finishes but its event is discarded.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		log.Info("Stopping file watcher...")
		w.deliverMu.Lock()
		w.stopped.Store(true)
		w.deliverMu.Unlock()
		w.logToDatabase("INFO", "watcher", "", "File watcher shutdown initiated", "")

		if w.debouncer != nil {
			w.debouncer.Stop()
		}
		if w.gate != nil {
			w.gate.Stop()
		}
		w.idleMu.Lock()
		if w.idleTimer != nil {
			w.idleTimer.Stop()
		}
		w.idleMu.Unlock()

		w.cancel()
		w.closeResources()

		done := make(chan struct{})
		go func() {
			w.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.InfoH3("All goroutines finished successfully")
		case <-time.After(shutdownTimeout):
			log.Error("Timeout waiting for goroutines to finish")
		}

		log.Info("File watcher stopped")
	})
	return nil
}

// closeResources releases fsnotify, the socket and the database
func (w *Watcher) closeResources() {
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			log.Error("Failed to close fsnotify watcher: %v", err)
		}
	}
	if w.socketServer != nil {
		if err := w.socketServer.Close(); err != nil {
			log.Error("Failed to close socket server: %v", err)
		}
	}
	if w.db != nil {
		w.logToDatabase("INFO", "watcher", "", "File watcher shutdown completed", "")
		if err := w.db.Close(); err != nil {
			log.Error("Failed to close database: %v", err)
		}
	}
}

// IsWatching returns true if the watcher is currently active
func (w *Watcher) IsWatching() bool {
	w.stateMu.Lock()
	started := w.started
	w.stateMu.Unlock()
	return started && !w.stopped.Load()
}

// Wait blocks until ctx is done or the watcher is stopped
func (w *Watcher) Wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-w.ctx.Done():
	}
}

// GetDaemonStatus returns the status of the daemon watcher
func GetDaemonStatus(pidFile string) daemon.Status {
	if pidFile == "" {
		pidFile = types.DefaultWatcherConfig.PidFile
	}
	return daemon.GetDaemonStatus(pidFile)
}

// StopDaemon stops the daemon watcher
func StopDaemon(pidFile string) error {
	if pidFile == "" {
		pidFile = types.DefaultWatcherConfig.PidFile
	}
	return daemon.StopDaemon(pidFile)
}

// ShowStatus displays the watcher status
func ShowStatus(pidFile, logFile string, jsonOutput bool) error {
	if pidFile == "" {
		pidFile = types.DefaultWatcherConfig.PidFile
	}
	if logFile == "" {
		logFile = types.DefaultWatcherConfig.LogFile
	}
	return daemon.ShowStatus(pidFile, logFile, jsonOutput)
}

// FollowLogs follows the daemon log file until ctx is done
func FollowLogs(ctx context.Context, logFile string) error {
	if logFile == "" {
		logFile = types.DefaultWatcherConfig.LogFile
	}
	return daemon.FollowLogs(ctx, logFile, os.Stdout)
}
