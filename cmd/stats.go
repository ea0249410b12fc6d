package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/clippy"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/log"
)

var (
	statsJSON   bool
	statsReset  bool
	statsYes    bool
	statsSocket string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show roast statistics",
	Long: `Show how often, and how harshly, your code has been judged.

The summary covers the most recent 1000 analyses: totals, the severity
distribution, the files judged most often and the latest verdicts.
Statistics come from the running watcher, or straight from the database
when it is stopped.`,
	Example: `  # Show statistics
  evilclippy stats

  # JSON for dashboards
  evilclippy stats --json

  # Forget everything
  evilclippy stats --reset`,
	Run: func(_ *cobra.Command, _ []string) {
		dir := projectDir()
		_, _, socketPath := watcherPaths(dir, "", "", statsSocket)
		dbPath := databasePath(dir)
		client := watcher.NewWatcherClient(socketPath)
		running := client.IsWatcherRunning()

		if statsReset {
			if !statsYes && !confirm("Reset all roast statistics?") {
				log.Info("Aborted")
				return
			}
			if err := resetStatistics(client, running, dbPath); err != nil {
				log.Fatal("Failed to reset statistics: ", err)
			}
			log.Info("🧹 Statistics reset")
			return
		}

		var (
			stats *watcher.Statistics
			err   error
		)
		if running {
			stats, err = client.Statistics()
		} else {
			if _, statErr := os.Stat(dbPath); statErr != nil {
				log.Fatal("No statistics yet at ", dbPath)
			}
			stats, err = clippy.ReadStatistics(dbPath)
		}
		if err != nil {
			log.Fatal("Failed to read statistics: ", err)
		}

		if statsJSON {
			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				log.Fatal("Failed to encode statistics: ", err)
			}
			fmt.Println(string(out))
			return
		}
		watcher.WriteStatistics(os.Stdout, stats)
	},
}

func resetStatistics(client *watcher.WatcherClient, running bool, dbPath string) error {
	if !running {
		return clippy.ResetStatistics(dbPath)
	}
	resp, err := client.ResetStatistics()
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// confirm asks a yes/no question, defaulting to no
func confirm(message string) bool {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false
	}
	return ok
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output statistics in JSON format")
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "Delete all recorded analyses")
	statsCmd.Flags().BoolVarP(&statsYes, "yes", "y", false, "Do not ask for confirmation")
	statsCmd.Flags().StringVar(&statsSocket, "socket", "", "Custom socket file location")
}
