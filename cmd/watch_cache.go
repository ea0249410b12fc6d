package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/log"
)

var cacheSocketPath string

var watchClearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Forget the daemon's cached verdicts",
	Long:  `Empty the verdict cache of the running watcher so unchanged files are analyzed again.`,
	Example: `  # Clear the cache
  evilclippy watch clear-cache`,
	Run: func(_ *cobra.Command, _ []string) {
		_, _, socketPath := watcherPaths(projectDir(), "", "", cacheSocketPath)

		resp, err := watcher.NewWatcherClient(socketPath).ClearCache()
		if err != nil {
			log.Fatal("Failed to communicate with watcher daemon: ", err)
		}
		if !resp.Success {
			log.Fatal("Failed to clear cache: ", resp.Error)
		}
		log.Info("✅ %s", resp.Message)
	},
}

func init() {
	watchCmd.AddCommand(watchClearCacheCmd)

	watchClearCacheCmd.Flags().StringVar(&cacheSocketPath, "socket", "", "Custom socket file location")
}
