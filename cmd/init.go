package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dimasma0305/evilclippy/internal/clippy/config"
	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/log"
)

var (
	initFolders        []string
	initExtensions     []string
	initProvider       string
	initModel          string
	initDiscordWebhook string
	initWebSocketAddr  string
	initYes            bool
	initForce          bool
)

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Create the .clippy configuration for a project",
	Long: `Create .clippy/conf.yaml with the folders to watch, the file types to judge,
the remote provider and the notification sinks.

Values given as flags are used as defaults for the interactive prompts.
Use --yes to skip the prompts. API keys are best supplied through
CLIPPY_API_KEY, GEMINI_API_KEY or ANTHROPIC_API_KEY rather than stored.`,
	Example: `  # Initialize with prompts
  evilclippy init

  # Initialize without prompts
  evilclippy init --yes --folder src --ext js,ts

  # Local heuristics only, roasts streamed to an overlay
  evilclippy init --yes --folder . --provider none --websocket 127.0.0.1:7878`,
	Run: func(_ *cobra.Command, _ []string) {
		dir := projectDir()
		path := config.Path(dir)

		if _, err := os.Stat(path); err == nil && !initForce {
			log.Fatal("Configuration already exists at ", path, " (use --force to overwrite)")
		}

		conf := buildInitConfig()

		if !initYes && isatty.IsTerminal(os.Stdin.Fd()) {
			if err := config.Ask(conf); err != nil {
				log.Fatal("Prompt failed: ", err)
			}
		}

		if len(conf.Watch.Folders) == 0 && len(conf.Watch.Files) == 0 {
			log.Fatal(errors.ErrNoWatchPaths)
		}

		if err := config.Save(dir, conf); err != nil {
			log.Fatal("Failed to save configuration: ", err)
		}

		log.Info("📎 Configuration written to %s", path)
		withEnv := *conf
		withEnv.ApplyEnv(os.Getenv)
		if withEnv.Remote.Provider != "" && !withEnv.RemoteEnabled() {
			log.InfoH2("No API key found for %s; set CLIPPY_API_KEY to enable remote analysis", withEnv.Remote.Provider)
		}
		log.Info("Run 'evilclippy watch start' to begin judging.")
	},
}

// buildInitConfig applies the init flags on top of the defaults
func buildInitConfig() *config.Config {
	conf := config.Default()
	for _, f := range initFolders {
		conf.Watch.Folders = append(conf.Watch.Folders, config.SplitList(f)...)
	}
	if exts := normalizeExtensions(initExtensions); len(exts) > 0 {
		conf.Watch.Extensions = exts
	}
	switch initProvider {
	case "":
	case "none":
		conf.Remote.Provider = ""
	default:
		conf.Remote.Provider = initProvider
	}
	conf.Remote.Model = initModel
	conf.Notify.DiscordWebhook = initDiscordWebhook
	conf.Notify.WebSocketAddr = initWebSocketAddr
	return conf
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringSliceVar(&initFolders, "folder", []string{}, "Folder to watch (can be specified multiple times)")
	initCmd.Flags().StringSliceVar(&initExtensions, "ext", []string{}, "File extensions to judge, e.g. js,ts,py")
	initCmd.Flags().StringVar(&initProvider, "provider", "", "Remote provider: gemini, anthropic or none")
	initCmd.Flags().StringVar(&initModel, "model", "", "Model name for the remote provider")
	initCmd.Flags().StringVar(&initDiscordWebhook, "discord-webhook", "", "Discord webhook URL for high severity roasts")
	initCmd.Flags().StringVar(&initWebSocketAddr, "websocket", "", "Address to stream events on, e.g. 127.0.0.1:7878")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Do not prompt")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
}
