// Package analyzer decides, per file change, which tier produces the verdict:
// cached remote result, fresh remote result, or local heuristics.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/cache"
	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/heuristic"
	"github.com/dimasma0305/evilclippy/internal/clippy/remote"
	"github.com/dimasma0305/evilclippy/internal/clippy/response"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// LocalNote marks verdicts produced by the heuristics
const LocalNote = "Local regex analysis"

// RemoteAnalyzer is the remote tier
type RemoteAnalyzer interface {
	IsReady() bool
	AnalyzeCode(ctx context.Context, req remote.Request) (remote.Response, error)
}

// Cache stores remote verdicts by fingerprint
type Cache interface {
	Get(key string) (verdict.Verdict, bool)
	Set(key string, v verdict.Verdict)
}

// RateLimiter gates remote calls
type RateLimiter interface {
	CanMakeRequest() bool
	RecordRequest() bool
	Remaining() int
	ResetIn() time.Duration
}

// Composer writes local messages
type Composer interface {
	Compose(s verdict.Severity, f response.Flags) response.Output
}

// Analyzer is the per-file decision function. Safe for concurrent use.
type Analyzer struct {
	remote   RemoteAnalyzer
	cache    Cache
	limiter  RateLimiter
	composer Composer

	// gate makes the limiter check and the record one step
	gate sync.Mutex

	snippetLines int
	readFile     func(string) ([]byte, error)
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithSnippetLines overrides how many lines are sent to the remote tier
func WithSnippetLines(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.snippetLines = n
		}
	}
}

// WithReadFile replaces os.ReadFile
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(a *Analyzer) {
		if fn != nil {
			a.readFile = fn
		}
	}
}

// New wires the tiers together. remote may be nil, which disables the remote tier.
func New(r RemoteAnalyzer, c Cache, l RateLimiter, comp Composer, opts ...Option) *Analyzer {
	if c == nil {
		c = cache.New()
	}
	if comp == nil {
		comp = response.NewComposer()
	}
	a := &Analyzer{
		remote:       r,
		cache:        c,
		limiter:      l,
		composer:     comp,
		snippetLines: remote.DefaultSnippetLines,
		readFile:     os.ReadFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile reads path and analyzes its content. Unreadable files yield the error fallback.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) verdict.Verdict {
	data, err := a.readFile(path)
	if err != nil {
		log.Error("[analyzer] failed to read %s: %v", path, err)
		return verdict.AnalyzerFallback()
	}
	return a.AnalyzeContent(ctx, path, string(data))
}

// AnalyzeContent runs cache, then remote, then local. It always returns a verdict.
func (a *Analyzer) AnalyzeContent(ctx context.Context, path, content string) (v verdict.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("[analyzer] analysis of %s panicked: %v", path, r)
			v = verdict.AnalyzerFallback()
		}
	}()

	local := heuristic.Analyze(content)
	key := cache.Fingerprint(content, path)

	if cached, ok := a.cache.Get(key); ok {
		log.DebugH2("[analyzer] cache hit for %s", path)
		return withLaugh(cached.WithProvenance(verdict.FromCache), local)
	}

	resp, err := a.tryRemote(ctx, path, content)
	switch {
	case err == nil:
		v := resp.Verdict()
		a.cache.Set(key, v)
		log.DebugH2("[analyzer] remote verdict for %s: %s (confidence %.2f)", path, v.Severity, resp.Confidence)
		return withLaugh(v, local)
	case errors.Is(err, errors.ErrRateLimited):
		log.DebugH2("[analyzer] %v, using local analysis for %s", err, path)
	case !errors.Is(err, errRemoteSkipped):
		log.Error("[analyzer] remote analysis failed for %s, falling back to local: %v", path, err)
	}

	return a.localVerdict(local)
}

var errRemoteSkipped = fmt.Errorf("remote tier skipped")

// tryRemote calls the remote tier when it is ready and under quota
func (a *Analyzer) tryRemote(ctx context.Context, path, content string) (remote.Response, error) {
	if a.remote == nil || !a.remote.IsReady() {
		return remote.Response{}, errRemoteSkipped
	}
	if err := a.acquire(); err != nil {
		return remote.Response{}, err
	}

	return a.remote.AnalyzeCode(ctx, remote.Request{
		Code:            remote.ExtractSnippet(content, a.snippetLines),
		FilePath:        path,
		Language:        remote.DetectLanguage(path),
		DetectedPattern: remote.DetectPattern(content),
	})
}

// acquire checks and records one remote call atomically
func (a *Analyzer) acquire() error {
	if a.limiter == nil {
		return nil
	}
	a.gate.Lock()
	defer a.gate.Unlock()
	if !a.limiter.CanMakeRequest() || !a.limiter.RecordRequest() {
		return errors.Wrapf(errors.ErrRateLimited, "next remote slot in %s", a.limiter.ResetIn().Round(time.Second))
	}
	log.DebugH3("[analyzer] remote call recorded, %d left in this window", a.limiter.Remaining())
	return nil
}

func (a *Analyzer) localVerdict(res heuristic.Result) verdict.Verdict {
	out := a.composer.Compose(res.Severity, response.FlagsFrom(res.Metadata))
	return verdict.Verdict{
		Severity:    res.Severity,
		Message:     out.Message,
		Emotion:     verdict.EmotionFor(res.Severity),
		ShouldLaugh: res.ShouldLaugh,
		LaughReason: res.LaughReason,
		Provenance:  verdict.FromLocal,
		Note:        LocalNote,
	}
}

// withLaugh attaches the smell-based laugh verdict, which never depends on the tier
func withLaugh(v verdict.Verdict, res heuristic.Result) verdict.Verdict {
	v.ShouldLaugh = res.ShouldLaugh
	v.LaughReason = res.LaughReason
	return v
}

// LocalOnly analyzes content with heuristics alone, bypassing cache and remote
func (a *Analyzer) LocalOnly(content string) (v verdict.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("[analyzer] local analysis panicked: %v", r)
			v = verdict.AnalyzerFallback()
		}
	}()
	return a.localVerdict(heuristic.Analyze(content))
}

// AnalyzeFileLocal reads path and judges it with LocalOnly
func (a *Analyzer) AnalyzeFileLocal(path string) verdict.Verdict {
	data, err := a.readFile(path)
	if err != nil {
		log.Error("[analyzer] failed to read %s: %v", path, err)
		return verdict.AnalyzerFallback()
	}
	return a.LocalOnly(string(data))
}
