/*
Copyright © 2023 dimas maulana dimasmaulana0305@gmail.com
*/

// Package cmd provides command-line interface commands for evilclippy
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/log"
)

var projectDirFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "evilclippy",
	Short: "A paperclip that judges your code every time you save",
	Long: `evilclippy - the assistant nobody asked for

Watches your source files and, every time one settles after a save, roasts it.

Features:
  • Local regex heuristics that always work offline
  • Optional hosted model analysis (Gemini or Anthropic) with caching and rate limiting
  • Background daemon with a control socket
  • Roast statistics persisted in SQLite
  • Console, WebSocket and Discord delivery`,
	Example: `  # Create .clippy/conf.yaml
  evilclippy init

  # Start the watcher daemon
  evilclippy watch start

  # Judge a single file right now
  evilclippy analyze src/app.js

  # See how bad it has been
  evilclippy stats`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Enable debug mode if flag is set
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&projectDirFlag, "dir", "C", "", "Project directory (default: current directory)")
}
