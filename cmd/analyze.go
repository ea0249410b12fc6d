package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/clippy"
	"github.com/dimasma0305/evilclippy/internal/clippy/notify"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/log"
)

var (
	analyzeJSON   bool
	analyzeLocal   bool
	analyzeOffline bool
	analyzeSocket  string
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze <file>...",
	Aliases: []string{"a", "roast"},
	Short:   "Judge files right now",
	Long: `Analyze one or more files immediately and print the roast.

If the watcher daemon is running the request goes through it, so its verdict
cache and rate limit are shared. Otherwise the pipeline runs in this process.
On-demand analyses are not recorded in the statistics.`,
	Example: `  # Roast one file
  evilclippy analyze src/app.js

  # Machine readable
  evilclippy analyze --json src/*.ts

  # Skip the daemon
  evilclippy analyze --local main.py

  # Heuristics only, no cache and no remote call
  evilclippy analyze --offline main.py`,
	Args: cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		dir := projectDir()
		_, _, socketPath := watcherPaths(dir, "", "", analyzeSocket)

		var client *watcher.WatcherClient
		if !analyzeLocal && !analyzeOffline {
			if c := watcher.NewWatcherClient(socketPath); c.IsWatcherRunning() {
				log.Debug("Using running watcher at %s", socketPath)
				client = c
			}
		}

		var app *clippy.Clippy
		events := make([]verdict.Event, 0, len(args))
		for _, arg := range args {
			path := resolvePath(dir, arg)

			var v verdict.Verdict
			if client != nil {
				var err error
				if v, err = client.AnalyzeFile(path); err != nil {
					log.Error("Failed to analyze %s: %v", path, err)
					continue
				}
			} else {
				if app == nil {
					app = mustLoad()
				}
				if ext := strings.ToLower(filepath.Ext(path)); !contains(app.Config().Watch.Extensions, ext) {
					log.InfoH3("%s is not a watched file type, judging it anyway", path)
				}
				if analyzeOffline {
					v = app.AnalyzeFileLocal(path)
				} else {
					v = app.AnalyzeFile(context.Background(), path)
				}
			}
			events = append(events, verdict.NewEvent(path, v, time.Now()))
		}

		if analyzeJSON {
			out, err := json.MarshalIndent(events, "", "  ")
			if err != nil {
				log.Fatal("Failed to encode verdicts: ", err)
			}
			fmt.Println(string(out))
			return
		}

		for _, ev := range events {
			_ = notify.Console{}.Send(context.Background(), ev)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print verdicts as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeLocal, "local", false, "Do not use a running watcher")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "Use local heuristics only, without the cache or a remote provider (implies --local)")
	analyzeCmd.Flags().StringVar(&analyzeSocket, "socket", "", "Custom socket file location")
}
