package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/log"
)

var (
	statusPidFile    string
	statusLogFile    string
	statusSocketPath string
	statusJSON       bool
)

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show file watcher status",
	Long: `Display the current status of the file watcher daemon.

When the daemon answers on its control socket, live counters are shown as well:
analyses run, changes dropped while busy and cached verdicts.`,
	Example: `  # Show status
  evilclippy watch status

  # Show status in JSON format
  evilclippy watch status --json`,
	Run: func(_ *cobra.Command, _ []string) {
		pidFile, logFile, socketPath := watcherPaths(projectDir(), statusPidFile, statusLogFile, statusSocketPath)

		if err := watcher.ShowStatus(pidFile, logFile, statusJSON); err != nil {
			log.Error("Failed to show status: %v", err)
		}
		if statusJSON {
			return
		}

		client := watcher.NewWatcherClient(socketPath)
		if !client.IsWatcherRunning() {
			return
		}
		log.Info("")
		if err := client.PrintStatus(); err != nil {
			log.Error("Failed to get live status: %v", err)
		}
	},
}

func init() {
	watchCmd.AddCommand(watchStatusCmd)

	watchStatusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Custom PID file location")
	watchStatusCmd.Flags().StringVar(&statusLogFile, "log-file", "", "Custom log file location")
	watchStatusCmd.Flags().StringVar(&statusSocketPath, "socket", "", "Custom socket file location")
	watchStatusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status in JSON format")
}
