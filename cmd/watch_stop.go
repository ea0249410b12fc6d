package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/log"
)

var stopPidFile string

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the file watcher daemon",
	Long: `Stop the running file watcher daemon.

The daemon receives SIGTERM and shuts down gracefully. An analysis that is
still running completes but its roast is discarded. If the daemon does not
exit within a few seconds it is killed.`,
	Example: `  # Stop the watcher daemon
  evilclippy watch stop

  # Stop with custom PID file
  evilclippy watch stop --pid-file /custom/path/watcher.pid`,
	Run: func(_ *cobra.Command, _ []string) {
		pidFile, _, _ := watcherPaths(projectDir(), stopPidFile, "", "")

		log.Info("🛑 Stopping Evil Clippy watcher daemon...")
		if err := watcher.StopDaemon(pidFile); err != nil {
			log.Fatal("Failed to stop daemon: ", err)
		}
	},
}

func init() {
	watchCmd.AddCommand(watchStopCmd)

	watchStopCmd.Flags().StringVar(&stopPidFile, "pid-file", "", "Custom PID file location")
}
