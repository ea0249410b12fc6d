package daemon

import (
	"encoding/json"
	"fmt"

	"github.com/dimasma0305/evilclippy/internal/log"
)

// ShowStatus displays the watcher status
func ShowStatus(pidFile, logFile string, jsonOutput bool) error {
	status := GetDaemonStatus(pidFile)
	status.LogFile = logFile

	if jsonOutput {
		return outputStatusJSON(status)
	}

	log.Info("🔍 Evil Clippy Watcher Status")
	log.Info("==========================================")

	switch status.State {
	case StateRunning:
		log.Info("🟢 Status: RUNNING (Daemon Mode)")
		log.Info("📄 Process ID: %d", status.PID)
		log.Info("📄 PID File: %s", pidFile)
		log.Info("📝 Log File: %s", logFile)
		ShowRecentLogs(logFile)

	case StateDead:
		log.Info("🟡 Status: STOPPED (Stale PID file found)")
		log.Info("💬 %s", status.Message)
		log.Info("🔧 Suggestion: Run 'evilclippy watch start' to start a new daemon")

	case StateStopped:
		log.Info("⚫ Status: NOT RUNNING")
		log.Info("📄 PID File: %s (not found)", pidFile)
		log.Info("🔧 Suggestion: Run 'evilclippy watch start' to start the daemon")

	default:
		log.Info("🔴 Status: ERROR")
		log.Info("💬 %s", status.Message)
		log.Info("📄 PID File: %s", pidFile)
	}

	log.Info("")
	log.Info("🛠️  Available Commands:")
	log.Info("   - Start daemon:   evilclippy watch start")
	log.Info("   - Stop daemon:    evilclippy watch stop")
	log.Info("   - Run foreground: evilclippy watch start --foreground")
	log.Info("   - Follow logs:    evilclippy watch logs")

	return nil
}

func outputStatusJSON(status Status) error {
	jsonData, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status to JSON: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}
