package cmd

import (
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "File watcher operations",
	Long: `Manage the watcher that roasts your files as you save them.

The watcher monitors the configured folders and files and, once a change
has been quiet for the stability delay:
  - Analyzes the file with the remote model, or the local heuristics
  - Delivers the roast to the console, WebSocket clients and Discord
  - Records the verdict in the statistics database

Changes that settle while an analysis is running are dropped, not queued.`,
	Example: `  # Start watcher daemon
  evilclippy watch start

  # Check watcher status
  evilclippy watch status

  # Stop watcher daemon
  evilclippy watch stop

  # View watcher logs
  evilclippy watch logs`,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
