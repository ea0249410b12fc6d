package remote

import (
	"context"
	"sync"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// DefaultTimeout bounds one remote analysis
const DefaultTimeout = 30 * time.Second

// Analyzer owns the active provider. It is not ready until a credential is supplied.
type Analyzer struct {
	mu       sync.RWMutex
	provider Provider
	cfg      ProviderConfig
	timeout  time.Duration
}

// NewAnalyzer creates an analyzer for cfg's provider; cfg.APIKey is ignored until Initialize.
func NewAnalyzer(cfg ProviderConfig, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Analyzer{cfg: cfg, timeout: timeout}
}

// NewAnalyzerWithProvider creates a ready analyzer around an existing provider
func NewAnalyzerWithProvider(p Provider, timeout time.Duration) *Analyzer {
	a := NewAnalyzer(ProviderConfig{Name: p.Name()}, timeout)
	a.provider = p
	return a
}

// Initialize builds the provider with apiKey. An empty key leaves the analyzer not ready.
func (a *Analyzer) Initialize(apiKey string) error {
	cfg := a.cfg
	cfg.APIKey = apiKey
	p, err := NewProvider(cfg)
	if err != nil {
		a.mu.Lock()
		a.provider = nil
		a.mu.Unlock()
		return err
	}

	a.mu.Lock()
	a.provider = p
	a.mu.Unlock()

	log.Debug("[remote] %s provider initialized (key %s...)", p.Name(), maskKey(apiKey))
	return nil
}

// IsReady reports whether a provider is available
func (a *Analyzer) IsReady() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.provider != nil
}

// ProviderName returns the active provider name, or "" when not ready
func (a *Analyzer) ProviderName() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// AnalyzeCode sends req to the model and validates the reply
func (a *Analyzer) AnalyzeCode(ctx context.Context, req Request) (Response, error) {
	a.mu.RLock()
	p := a.provider
	a.mu.RUnlock()
	if p == nil {
		return Response{}, errors.ErrRemoteNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := p.Generate(ctx, BuildPrompt(req))
	if err != nil {
		return Response{}, &AnalysisError{Stage: StageRequest, Err: err}
	}

	resp, err := ParseResponse(text)
	if err != nil {
		log.Debug("[remote] unparseable reply from %s: %q", p.Name(), text)
		return Response{}, err
	}
	return resp, nil
}

func maskKey(key string) string {
	if len(key) <= 6 {
		return "***"
	}
	return key[:6]
}
