// Package daemon provides daemon process management for the watcher
package daemon

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// Daemon states
const (
	StateRunning = "running"
	StateStopped = "stopped"
	StateDead    = "dead"
	StateError   = "error"
)

// Status describes the daemon recorded in a PID file
type Status struct {
	Running bool   `json:"daemon_running"`
	State   string `json:"status"`
	PID     int    `json:"pid,omitempty"`
	PIDFile string `json:"pid_file"`
	LogFile string `json:"log_file,omitempty"`
	Message string `json:"message,omitempty"`
}

// stopGrace is how long StopDaemon waits after SIGTERM before SIGKILL
var stopGrace = 2 * time.Second

// GetDaemonStatus returns the status of the daemon watcher. A PID file
// pointing at a dead process is removed.
func GetDaemonStatus(pidFile string) Status {
	status := Status{PIDFile: pidFile}

	pid, err := ReadPIDFromFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			status.State = StateStopped
			status.Message = "PID file not found"
		} else {
			status.State = StateError
			status.Message = err.Error()
		}
		return status
	}

	status.PID = pid

	if !processAlive(pid) {
		status.State = StateDead
		if err := RemovePIDFile(pidFile); err != nil {
			status.Message = fmt.Sprintf("Process not running, failed to clean stale PID file: %v", err)
		} else {
			status.Message = "Process not running (cleaned up stale PID file)"
		}
		return status
	}

	status.Running = true
	status.State = StateRunning
	status.Message = "Daemon is running"
	return status
}

// processAlive checks pid with signal 0
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

// StopDaemon stops the daemon watcher
func StopDaemon(pidFile string) error {
	pid, err := ReadPIDFromFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrWatcherNotRunning, "PID file not found")
		}
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		_ = RemovePIDFile(pidFile)
		return errors.Wrapf(errors.ErrWatcherNotRunning, "failed to signal process %d: %v", pid, err)
	}

	deadline := time.Now().Add(stopGrace)
	for time.Now().Before(deadline) && processAlive(pid) {
		time.Sleep(100 * time.Millisecond)
	}

	if processAlive(pid) {
		log.Info("Process still running, sending SIGKILL...")
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process %d: %w", pid, err)
		}
	}

	if err := RemovePIDFile(pidFile); err != nil {
		return err
	}

	log.Info("✅ Evil Clippy watcher daemon stopped")
	return nil
}
