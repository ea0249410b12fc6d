package analyzer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dimasma0305/evilclippy/internal/clippy/cache"
	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/patterns"
	"github.com/dimasma0305/evilclippy/internal/clippy/ratelimit"
	"github.com/dimasma0305/evilclippy/internal/clippy/remote"
	"github.com/dimasma0305/evilclippy/internal/clippy/response"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

type fakeRemote struct {
	mu    sync.Mutex
	ready bool
	resp  remote.Response
	err   error
	calls int
	last  remote.Request
}

func (f *fakeRemote) IsReady() bool { return f.ready }

func (f *fakeRemote) AnalyzeCode(_ context.Context, req remote.Request) (remote.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.resp, f.err
}

func (f *fakeRemote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type panicComposer struct{}

func (panicComposer) Compose(verdict.Severity, response.Flags) response.Output {
	panic("phrase table exploded")
}

func goodRemote() *fakeRemote {
	return &fakeRemote{
		ready: true,
		resp: remote.Response{
			Severity:   verdict.SeverityHigh,
			Insult:     "eval on line 2.",
			Advice:     "Parse it instead.",
			Reason:     "Code injection",
			Confidence: 0.9,
		},
	}
}

func newComposer() *response.Composer {
	return response.NewComposerWithRand(rand.New(rand.NewPCG(7, 7)))
}

func newLimiter(capacity int) *ratelimit.Limiter {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return ratelimit.New(capacity, time.Minute, ratelimit.WithClock(func() time.Time { return now }))
}

func TestNoCredentialUsesLocal(t *testing.T) {
	r := &fakeRemote{}
	a := New(r, cache.New(), newLimiter(10), newComposer())

	for i := 0; i < 5; i++ {
		v := a.AnalyzeContent(context.Background(), "/src/app.js", fmt.Sprintf("let total%d = sum;", i))
		if v.UsedRemote() || v.Provenance != verdict.FromLocal {
			t.Fatalf("expected local verdict, got %+v", v)
		}
		if v.Note != LocalNote {
			t.Errorf("Note = %q", v.Note)
		}
	}
	if r.Calls() != 0 {
		t.Errorf("remote called %d times while not ready", r.Calls())
	}

	if v := New(nil, nil, nil, nil).AnalyzeContent(context.Background(), "/a.js", "x"); v.Provenance != verdict.FromLocal {
		t.Errorf("nil remote should use local, got %s", v.Provenance)
	}
}

func TestRemoteThenCache(t *testing.T) {
	r := goodRemote()
	a := New(r, cache.New(), newLimiter(10), newComposer())
	content := "const yolo = eval(input);"

	first := a.AnalyzeContent(context.Background(), "/src/app.js", content)
	if first.Provenance != verdict.FromRemote || !first.UsedRemote() {
		t.Fatalf("first analysis provenance = %s", first.Provenance)
	}
	if first.Message != "eval on line 2. Parse it instead." || first.Note != "Code injection" {
		t.Errorf("unexpected remote verdict %+v", first)
	}
	if !first.ShouldLaugh || first.LaughReason != patterns.ReasonMeme {
		t.Errorf("remote verdict should carry the local laugh verdict, got %v %q", first.ShouldLaugh, first.LaughReason)
	}
	if r.last.DetectedPattern != "eval() usage" || r.last.Language != "javascript" {
		t.Errorf("unexpected request %+v", r.last)
	}

	second := a.AnalyzeContent(context.Background(), "/src/app.js", content)
	if second.Provenance != verdict.FromCache || !second.UsedRemote() {
		t.Fatalf("second analysis provenance = %s", second.Provenance)
	}
	if r.Calls() != 1 {
		t.Errorf("remote called %d times, want 1", r.Calls())
	}

	first.Provenance = verdict.FromCache
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cache hit differs from remote verdict (-remote +cache):\n%s", diff)
	}

	// same content at another path is a separate entry
	if third := a.AnalyzeContent(context.Background(), "/src/other.js", content); third.Provenance != verdict.FromRemote {
		t.Errorf("other path provenance = %s, want remote", third.Provenance)
	}
}

func TestRemoteFailureFallsBackWithoutRetry(t *testing.T) {
	r := goodRemote()
	r.err = &remote.AnalysisError{Stage: remote.StageParse, Err: errors.ErrRemoteResponse}
	c := cache.New()
	a := New(r, c, newLimiter(10), newComposer())

	v := a.AnalyzeContent(context.Background(), "/src/app.js", "let total = sum;")
	if v.Provenance != verdict.FromLocal {
		t.Fatalf("provenance = %s, want local", v.Provenance)
	}
	if r.Calls() != 1 {
		t.Errorf("remote called %d times, want exactly 1", r.Calls())
	}
	if c.Len() != 0 {
		t.Errorf("failed remote result was cached")
	}
}

func TestRateLimitGating(t *testing.T) {
	r := goodRemote()
	a := New(r, cache.New(), newLimiter(2), newComposer())

	var remoteCount int
	for i := 0; i < 6; i++ {
		v := a.AnalyzeContent(context.Background(), "/src/app.js", fmt.Sprintf("let v%d = w;", i))
		if v.UsedRemote() {
			remoteCount++
		} else if v.Provenance != verdict.FromLocal {
			t.Errorf("change %d: provenance %s", i, v.Provenance)
		}
	}
	if remoteCount != 2 || r.Calls() != 2 {
		t.Errorf("remote verdicts = %d calls = %d, want 2 and 2", remoteCount, r.Calls())
	}
}

func TestLocalVerdict(t *testing.T) {
	a := New(nil, nil, nil, newComposer())

	v := a.AnalyzeContent(context.Background(), "/src/check.js", "function check(x) {\n  if (x == x) {\n    go();\n  }\n}")
	if v.Severity != verdict.SeverityLow || v.Emotion != verdict.EmotionIdle {
		t.Errorf("severity/emotion = %s/%s", v.Severity, v.Emotion)
	}
	if !v.ShouldLaugh || v.LaughReason != patterns.ReasonBeginner {
		t.Errorf("laugh = %v %q", v.ShouldLaugh, v.LaughReason)
	}
	if v.Confidence != nil {
		t.Errorf("local verdict carries confidence %v", *v.Confidence)
	}
	if v.Message == "" {
		t.Error("empty message")
	}

	clean := a.LocalOnly("export const total = (items) => items.length;")
	if clean.ShouldLaugh || clean.LaughReason != "" {
		t.Errorf("clean code laughed: %+v", clean)
	}
}

func TestPanicBecomesFallback(t *testing.T) {
	a := New(nil, nil, nil, panicComposer{})
	v := a.AnalyzeContent(context.Background(), "/a.js", "let x = y;")
	if diff := cmp.Diff(verdict.AnalyzerFallback(), v); diff != "" {
		t.Errorf("panic did not produce the fallback (-want +got):\n%s", diff)
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	if err := os.WriteFile(path, []byte(strings.Repeat("console.log(42);\n", 3)), 0o644); err != nil {
		t.Fatal(err)
	}

	a := New(nil, nil, nil, newComposer())
	v := a.AnalyzeFile(context.Background(), path)
	if v.Provenance != verdict.FromLocal || v.Severity != verdict.SeverityMedium {
		t.Errorf("AnalyzeFile() = %+v", v)
	}

	missing := a.AnalyzeFile(context.Background(), filepath.Join(dir, "nope.js"))
	if diff := cmp.Diff(verdict.AnalyzerFallback(), missing); diff != "" {
		t.Errorf("missing file (-want +got):\n%s", diff)
	}
}

func TestSnippetIsTruncated(t *testing.T) {
	r := goodRemote()
	a := New(r, nil, nil, newComposer(), WithSnippetLines(5))
	a.AnalyzeContent(context.Background(), "/big.py", strings.Repeat("pass\n", 20))

	if !strings.HasSuffix(r.last.Code, "// ... (truncated)") {
		t.Errorf("snippet not truncated: %q", r.last.Code)
	}
	if r.last.Language != "python" {
		t.Errorf("Language = %q", r.last.Language)
	}
}

func TestRateLimitResetsAfterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := ratelimit.New(1, time.Minute, ratelimit.WithClock(func() time.Time { return now }))
	r := goodRemote()
	a := New(r, cache.New(), limiter, newComposer())

	if err := a.acquire(); err != nil {
		t.Fatalf("first acquire() error = %v", err)
	}
	now = now.Add(59 * time.Second)
	err := a.acquire()
	if !errors.Is(err, errors.ErrRateLimited) {
		t.Fatalf("acquire() inside the window error = %v, want ErrRateLimited", err)
	}
	if !strings.Contains(err.Error(), "next remote slot in 1s") {
		t.Errorf("acquire() error = %q, want the time until the window frees", err)
	}
	if v := a.AnalyzeContent(context.Background(), "/src/a.js", "let a = b;"); v.Provenance != verdict.FromLocal {
		t.Errorf("provenance inside the window = %s, want local", v.Provenance)
	}

	now = now.Add(time.Second)
	if v := a.AnalyzeContent(context.Background(), "/src/b.js", "let c = d;"); !v.UsedRemote() {
		t.Errorf("provenance after the window = %s, want remote", v.Provenance)
	}
	if r.Calls() != 1 {
		t.Errorf("remote calls = %d, want 1", r.Calls())
	}
}

func TestAnalyzeFileLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "check.js")
	if err := os.WriteFile(path, []byte("if (x == x) { go(); }\n"), 0600); err != nil {
		t.Fatal(err)
	}

	r := goodRemote()
	c := cache.New()
	a := New(r, c, newLimiter(10), newComposer())

	v := a.AnalyzeFileLocal(path)
	if v.Provenance != verdict.FromLocal || v.Note != LocalNote {
		t.Errorf("provenance/note = %s/%q, want local", v.Provenance, v.Note)
	}
	if r.Calls() != 0 || c.Len() != 0 {
		t.Errorf("local-only analysis touched remote (%d calls) or cache (%d entries)", r.Calls(), c.Len())
	}

	if got := a.AnalyzeFileLocal(filepath.Join(dir, "missing.js")); got.Provenance != verdict.FromFallback {
		t.Errorf("missing file provenance = %s, want fallback", got.Provenance)
	}
	if got := New(nil, nil, nil, panicComposer{}).LocalOnly("let x = y;"); got.Provenance != verdict.FromFallback {
		t.Errorf("panicking composer provenance = %s, want fallback", got.Provenance)
	}
}
