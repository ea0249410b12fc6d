package config

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

const noProvider = "none (local heuristics only)"

// Ask walks the user through the main settings, starting from conf's values
func Ask(conf *Config) error {
	provider := conf.Remote.Provider
	if provider == "" {
		provider = noProvider
	}
	subfolders := "yes"
	if !conf.Watch.WatchSubfolders {
		subfolders = "no"
	}

	prompts := []*survey.Question{
		{
			Name: "folders",
			Prompt: &survey.Input{
				Message: "Folders to watch (comma separated):",
				Default: strings.Join(conf.Watch.Folders, ","),
			},
		},
		{
			Name: "extensions",
			Prompt: &survey.MultiSelect{
				Message: "File types to judge:",
				Options: []string{".js", ".ts", ".jsx", ".tsx", ".py", ".go", ".java", ".rb"},
				Default: conf.Watch.Extensions,
			},
			Validate: survey.MinItems(1),
		},
		{
			Name: "subfolders",
			Prompt: &survey.Select{
				Message: "Watch subfolders?",
				Options: []string{"yes", "no"},
				Default: subfolders,
			},
		},
		{
			Name: "provider",
			Prompt: &survey.Select{
				Message: "Remote analysis provider:",
				Options: []string{"gemini", "anthropic", noProvider},
				Default: provider,
			},
		},
		{
			Name: "apikey",
			Prompt: &survey.Password{
				Message: "API key (leave empty to use the environment):",
			},
		},
		{
			Name: "webhook",
			Prompt: &survey.Input{
				Message: "Discord webhook URL (optional):",
				Default: conf.Notify.DiscordWebhook,
			},
		},
	}

	answers := struct {
		Folders    string   `survey:"folders"`
		Extensions []string `survey:"extensions"`
		Subfolders string   `survey:"subfolders"`
		Provider   string   `survey:"provider"`
		APIKey     string   `survey:"apikey"`
		Webhook    string   `survey:"webhook"`
	}{}

	if err := survey.Ask(prompts, &answers); err != nil {
		return fmt.Errorf("setup canceled: %w", err)
	}

	conf.Watch.Folders = SplitList(answers.Folders)
	conf.Watch.Extensions = answers.Extensions
	conf.Watch.WatchSubfolders = answers.Subfolders == "yes"
	if answers.Provider == noProvider {
		conf.Remote.Provider = ""
	} else {
		conf.Remote.Provider = answers.Provider
	}
	if answers.APIKey != "" {
		conf.Remote.APIKey = answers.APIKey
	}
	conf.Notify.DiscordWebhook = strings.TrimSpace(answers.Webhook)
	conf.normalize()
	return nil
}

// SplitList splits a comma separated flag or answer, dropping blanks
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
