package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
)

// Provider names
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Default models per provider
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// Provider sends one prompt to a hosted model and returns its text reply
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderConfig selects and configures a Provider
type ProviderConfig struct {
	Name    string
	APIKey  string
	Model   string
	BaseURL string
}

// NewProvider builds the provider named in cfg
func NewProvider(cfg ProviderConfig) (Provider, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.ErrRemoteNotInitialized
	}

	switch strings.ToLower(cfg.Name) {
	case "", ProviderGemini:
		return NewGemini(key, cfg.Model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return NewAnthropic(key, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownProvider, cfg.Name)
	}
}
