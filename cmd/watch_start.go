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
	watchForeground   bool
	watchPidFile      string
	watchLogFile      string
	watchFolders      []string
	watchFiles        []string
	watchExtensions   []string
	watchStability    time.Duration
	watchCooldown     time.Duration
	watchInactivity   time.Duration
	watchGitignore    bool
	watchNoSubfolders bool
	watchNoDatabase   bool
)

var watchStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the file watcher daemon",
	Long: `Start the file watcher for the project.

Folders, files and extensions come from .clippy/conf.yaml. Use --folder,
--file and --ext to override them for this run.

The watcher runs as a daemon by default. Use --foreground to run in the current terminal.`,
	Example: `  # Start as daemon
  evilclippy watch start

  # Start in foreground
  evilclippy watch start --foreground

  # Watch one folder for Python only
  evilclippy watch start --folder backend --ext py

  # Be nagged after five idle minutes
  evilclippy watch start --inactivity 5m`,
	Run: func(cmd *cobra.Command, _ []string) {
		app := mustLoad()
		dir := projectDir()

		config := app.WatcherConfig()
		applyWatchFlags(cmd, dir, &config)

		if config.DaemonMode {
			log.Info("Starting file watcher as daemon...")
		} else {
			log.Info("Starting file watcher in foreground...")
		}

		if err := app.StartWatcher(config); err != nil {
			log.Fatal("Failed to start watcher: ", err)
		}

		if !config.DaemonMode {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("File watcher running in foreground. Press Ctrl+C to stop.")
			<-ctx.Done()

			log.Info("Shutting down file watcher...")
			if err := app.StopWatcher(); err != nil {
				log.Error("Error stopping watcher: %v", err)
			}
			log.Info("File watcher stopped.")
		}
	},
}

// applyWatchFlags overrides config with the flags the user set explicitly
func applyWatchFlags(cmd *cobra.Command, dir string, config *watcher.WatcherConfig) {
	flags := cmd.Flags()

	config.DaemonMode = !watchForeground
	if watchPidFile != "" {
		config.PidFile = resolvePath(dir, watchPidFile)
	}
	if watchLogFile != "" {
		config.LogFile = resolvePath(dir, watchLogFile)
	}
	if flags.Changed("folder") {
		config.Folders = config.Folders[:0]
		for _, f := range watchFolders {
			config.Folders = append(config.Folders, resolvePath(dir, f))
		}
	}
	if flags.Changed("file") {
		config.Files = config.Files[:0]
		for _, f := range watchFiles {
			config.Files = append(config.Files, resolvePath(dir, f))
		}
	}
	if flags.Changed("ext") {
		config.Extensions = normalizeExtensions(watchExtensions)
	}
	if flags.Changed("stability-delay") {
		config.StabilityDelay = watchStability
	}
	if flags.Changed("cooldown") {
		config.Cooldown = watchCooldown
	}
	if flags.Changed("inactivity") {
		config.InactivityTimeout = watchInactivity
	}
	if flags.Changed("gitignore") {
		config.RespectGitignore = watchGitignore
	}
	if watchNoSubfolders {
		config.WatchSubfolders = false
	}
	if watchNoDatabase {
		config.DatabaseEnabled = false
	}
}

func init() {
	watchCmd.AddCommand(watchStartCmd)
	registerWatchStartFlags(watchStartCmd)
}

func registerWatchStartFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&watchForeground, "foreground", "f", false, "Run in foreground instead of daemon mode")
	cmd.Flags().StringVar(&watchPidFile, "pid-file", "", "Custom PID file location (default: .clippy/watcher/watcher.pid)")
	cmd.Flags().StringVar(&watchLogFile, "log-file", "", "Custom log file location (default: .clippy/watcher/watcher.log)")
	cmd.Flags().StringSliceVar(&watchFolders, "folder", []string{}, "Folder to watch, replaces the configured folders")
	cmd.Flags().StringSliceVar(&watchFiles, "file", []string{}, "Single file to watch, replaces the configured files")
	cmd.Flags().StringSliceVar(&watchExtensions, "ext", []string{}, "File extensions to judge, replaces the configured list")
	cmd.Flags().DurationVar(&watchStability, "stability-delay", 500*time.Millisecond, "Quiet period before a change is analyzed")
	cmd.Flags().DurationVar(&watchCooldown, "cooldown", time.Second, "Pause after each analysis before accepting the next change (0 uses the default)")
	cmd.Flags().DurationVar(&watchInactivity, "inactivity", 0, "Nag after this long without changes (0 disables)")
	cmd.Flags().BoolVar(&watchGitignore, "gitignore", false, "Skip files ignored by each folder's .gitignore")
	cmd.Flags().BoolVar(&watchNoSubfolders, "no-subfolders", false, "Only watch the top level of each folder")
	cmd.Flags().BoolVar(&watchNoDatabase, "no-db", false, "Do not record logs and statistics")
}
