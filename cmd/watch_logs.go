package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/log"
)

var (
	logsFile       string
	logsSocketPath string
	logsDatabase   bool
	logsLive       bool
	logsLimit      int
)

var watchLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Follow and display watcher logs in real-time",
	Long: `Stream the file watcher daemon log file in real-time (like tail -f).

With --db the structured log entries recorded by the running daemon are
fetched over its control socket instead. Add --live to keep polling for new ones.`,
	Example: `  # Follow the log file
  evilclippy watch logs

  # Last 20 structured entries
  evilclippy watch logs --db --limit 20

  # Poll structured entries
  evilclippy watch logs --db --live`,
	Run: func(_ *cobra.Command, _ []string) {
		_, logFile, socketPath := watcherPaths(projectDir(), "", logsFile, logsSocketPath)

		if logsDatabase {
			client := watcher.NewWatcherClient(socketPath)
			var err error
			if logsLive {
				err = client.StreamLiveLogs(logsLimit, 2*time.Second)
			} else {
				err = client.PrintLogs(logsLimit)
			}
			if err != nil {
				log.Fatal("Failed to read logs: ", err)
			}
			return
		}

		log.Info("📋 Following Evil Clippy watcher logs: %s", logFile)
		log.Info("Press Ctrl+C to stop following logs")
		log.Info("==========================================")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := watcher.FollowLogs(ctx, logFile); err != nil {
			log.Fatal("Failed to follow logs: ", err)
		}
	},
}

func init() {
	watchCmd.AddCommand(watchLogsCmd)

	watchLogsCmd.Flags().StringVar(&logsFile, "log-file", "", "Custom log file location")
	watchLogsCmd.Flags().StringVar(&logsSocketPath, "socket", "", "Custom socket file location")
	watchLogsCmd.Flags().BoolVar(&logsDatabase, "db", false, "Show structured entries from the running daemon")
	watchLogsCmd.Flags().BoolVar(&logsLive, "live", false, "Keep polling for new structured entries (with --db)")
	watchLogsCmd.Flags().IntVar(&logsLimit, "limit", 50, "Number of structured entries to show")
}
