//nolint:revive // Config struct field names match YAML structure
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/utils"
	"github.com/dimasma0305/evilclippy/internal/log"
)

const (
	CLIPPY_DIR  = ".clippy"
	CONFIG_FILE = "conf.yaml"
)

// Environment variables consulted by ApplyEnv
const (
	EnvAPIKey          = "CLIPPY_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvProvider        = "CLIPPY_PROVIDER"
	EnvModel           = "CLIPPY_MODEL"
)

// DefaultExtensions are the file types watched when none are configured
var DefaultExtensions = []string{".js", ".ts", ".jsx", ".tsx", ".py"}

// Config is the contents of .clippy/conf.yaml
type Config struct {
	Watch  WatchConfig  `yaml:"watch"`
	Remote RemoteConfig `yaml:"remote"`
	Notify NotifyConfig `yaml:"notify"`
}

// WatchConfig selects what is watched and how changes settle
type WatchConfig struct {
	Folders           []string      `yaml:"folders,omitempty" validate:"dive,required"`
	Files             []string      `yaml:"files,omitempty" validate:"dive,required"`
	Extensions        []string      `yaml:"extensions" validate:"dive,startswith=."`
	WatchSubfolders   bool          `yaml:"watch_subfolders"`
	RespectGitignore  bool          `yaml:"respect_gitignore"`
	StabilityDelay    time.Duration `yaml:"stability_delay" validate:"gte=0"`
	Cooldown          time.Duration `yaml:"cooldown" validate:"gte=0"`
	InactivityTimeout time.Duration `yaml:"inactivity_timeout" validate:"gte=0"`
}

// RemoteConfig configures the hosted model tier
type RemoteConfig struct {
	Provider     string        `yaml:"provider" validate:"omitempty,oneof=gemini anthropic"`
	APIKey       string        `yaml:"api_key,omitempty"`
	Model        string        `yaml:"model,omitempty"`
	BaseURL      string        `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	RateLimit    int           `yaml:"rate_limit" validate:"gte=0"`
	RateWindow   time.Duration `yaml:"rate_window" validate:"gte=0"`
	SnippetLines int           `yaml:"snippet_lines" validate:"gte=0"`
	CacheTTL     time.Duration `yaml:"cache_ttl" validate:"gte=0"`
}

// NotifyConfig selects where events go besides the statistics store
type NotifyConfig struct {
	Console            bool   `yaml:"console"`
	WebSocketAddr      string `yaml:"websocket_addr,omitempty" validate:"omitempty,hostname_port"`
	DiscordWebhook     string `yaml:"discord_webhook,omitempty" validate:"omitempty,url"`
	DiscordMinSeverity string `yaml:"discord_min_severity,omitempty" validate:"omitempty,oneof=low medium high"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Watch: WatchConfig{
			Extensions:      append([]string(nil), DefaultExtensions...),
			WatchSubfolders: true,
			StabilityDelay:  500 * time.Millisecond,
			Cooldown:        time.Second,
		},
		Remote: RemoteConfig{
			Provider:     "gemini",
			Timeout:      30 * time.Second,
			RateLimit:    10,
			RateWindow:   time.Minute,
			SnippetLines: 50,
			CacheTTL:     5 * time.Minute,
		},
		Notify: NotifyConfig{
			Console:            true,
			DiscordMinSeverity: "high",
		},
	}
}

// Path returns the config file location under dir
func Path(dir string) string {
	return filepath.Join(dir, CLIPPY_DIR, CONFIG_FILE)
}

// LoadFile reads path on top of the defaults
func LoadFile(path string) (*Config, error) {
	conf := Default()
	if err := utils.ParseYamlFromFile(path, conf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	conf.normalize()
	return conf, nil
}

// Load reads dir/.clippy/conf.yaml, falling back to defaults when it does not exist,
// then applies the process environment and validates the result.
func Load(dir string) (*Config, error) {
	conf, err := LoadFile(Path(dir))
	switch {
	case errors.Is(err, errors.ErrConfigNotFound):
		log.Debug("No config at %s, using defaults", Path(dir))
		conf = Default()
	case err != nil:
		return nil, err
	}

	conf.ApplyEnv(os.Getenv)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Save writes conf to dir/.clippy/conf.yaml
func Save(dir string, conf *Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	return utils.WriteYamlToFile(Path(dir), conf)
}

// ApplyEnv overlays environment settings. The provider is resolved first so
// the matching provider-specific key variable is consulted.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if p := strings.TrimSpace(getenv(EnvProvider)); p != "" {
		c.Remote.Provider = strings.ToLower(p)
	}
	if m := strings.TrimSpace(getenv(EnvModel)); m != "" {
		c.Remote.Model = m
	}

	if k := strings.TrimSpace(getenv(EnvAPIKey)); k != "" {
		c.Remote.APIKey = k
		return
	}
	if c.Remote.APIKey != "" {
		return
	}
	switch c.Remote.Provider {
	case "anthropic":
		c.Remote.APIKey = strings.TrimSpace(getenv(EnvAnthropicAPIKey))
	case "gemini":
		c.Remote.APIKey = strings.TrimSpace(getenv(EnvGeminiAPIKey))
	}
}

// normalize lower-cases and dot-prefixes extensions and drops duplicates
func (c *Config) normalize() {
	seen := make(map[string]bool, len(c.Watch.Extensions))
	exts := c.Watch.Extensions[:0]
	for _, ext := range c.Watch.Extensions {
		ext = NormalizeExtension(ext)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	c.Watch.Extensions = exts
	c.Remote.Provider = strings.ToLower(strings.TrimSpace(c.Remote.Provider))
}

// NormalizeExtension turns "JS", "js" or ".js" into ".js"
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// RemoteEnabled reports whether a provider is chosen and a credential is available
func (c *Config) RemoteEnabled() bool {
	return c.Remote.Provider != "" && strings.TrimSpace(c.Remote.APIKey) != ""
}
