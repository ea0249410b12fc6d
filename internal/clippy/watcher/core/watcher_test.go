package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/response"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
)

type chanEmitter struct {
	events chan verdict.Event
}

func newChanEmitter() *chanEmitter {
	return &chanEmitter{events: make(chan verdict.Event, 32)}
}

func (c *chanEmitter) Dispatch(_ context.Context, ev verdict.Event) error {
	c.events <- ev
	return nil
}

func (c *chanEmitter) Sinks() []string { return []string{"test"} }

func (c *chanEmitter) next(t *testing.T) verdict.Event {
	t.Helper()
	select {
	case ev := <-c.events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return verdict.Event{}
	}
}

func (c *chanEmitter) none(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-c.events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(wait):
	}
}

type memRecorder struct {
	mu      sync.Mutex
	records []string
}

func (m *memRecorder) RecordAnalysis(filePath, severity, _ string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, severity+":"+filePath)
}

func (m *memRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type fakeCache struct{ n int }

func (f *fakeCache) Clear()   { f.n = 0 }
func (f *fakeCache) Len() int { return f.n }

type fakeNudger struct{}

func (fakeNudger) Inactivity() response.Output {
	return response.Output{Message: "Hello? Anyone there?", Emotion: verdict.EmotionAnnoyed}
}

func mediumVerdict(ctx context.Context, path string) (verdict.Verdict, error) {
	return verdict.Verdict{
		Severity:   verdict.SeverityMedium,
		Message:    "meh: " + filepath.Base(path),
		Emotion:    verdict.EmotionAnnoyed,
		Provenance: verdict.FromLocal,
	}, nil
}

// newUnstarted builds a watcher with its gate wired but no subscriptions
func newUnstarted(t *testing.T, analyze AnalyzeFunc, cooldown time.Duration, opts ...Option) (*Watcher, *chanEmitter) {
	t.Helper()
	em := newChanEmitter()
	w, err := New(analyze, em, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	w.gate = NewGate(cooldown)
	t.Cleanup(func() { _ = w.Stop() })
	return w, em
}

func foregroundConfig(dir string) types.WatcherConfig {
	return types.WatcherConfig{
		Folders:         []string{dir},
		Extensions:      []string{".js"},
		WatchSubfolders: true,
		StabilityDelay:  50 * time.Millisecond,
		Cooldown:        10 * time.Millisecond,
		DatabaseEnabled: false,
		SocketEnabled:   false,
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(nil, newChanEmitter()); err == nil {
		t.Error("New() with nil analyze should fail")
	}
	if _, err := New(mediumVerdict, nil); err == nil {
		t.Error("New() with nil emitter should fail")
	}
}

func TestStart_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		config types.WatcherConfig
		want   error
	}{
		{"no paths", types.WatcherConfig{Extensions: []string{".js"}}, errors.ErrNoWatchPaths},
		{"no extensions", types.WatcherConfig{Folders: []string{"."}}, errors.ErrNoFileTypes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newUnstarted(t, mediumVerdict, 0)
			if err := w.Start(tt.config); !errors.Is(err, tt.want) {
				t.Errorf("Start() error = %v, want %v", err, tt.want)
			}
			if w.IsWatching() {
				t.Error("watcher should not be running after a config error")
			}
		})
	}
}

func TestSettled_DeliversAndRecords(t *testing.T) {
	rec := &memRecorder{}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	w, em := newUnstarted(t, mediumVerdict, 0, WithRecorder(rec), WithClock(func() time.Time { return at }))

	w.settled("/src/app.js")

	ev := em.next(t)
	if ev.Type != verdict.EventInsult || ev.FilePath != "/src/app.js" || ev.Severity != verdict.SeverityMedium {
		t.Errorf("event = %+v", ev)
	}
	if !ev.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, at)
	}
	if rec.count() != 1 {
		t.Errorf("recorder saw %d analyses, want 1", rec.count())
	}
	if got := w.Counters().Analyzed; got != 1 {
		t.Errorf("Analyzed = %d, want 1", got)
	}
}

func TestSettled_DropsWhileBusy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	var calls atomic.Int32
	blocking := func(ctx context.Context, path string) (verdict.Verdict, error) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		return mediumVerdict(ctx, path)
	}

	w, em := newUnstarted(t, blocking, time.Hour)

	go w.settled("/src/a.js")
	<-entered

	// Arrives mid-analysis: dropped, not queued
	w.settled("/src/b.js")
	close(release)

	ev := em.next(t)
	if ev.FilePath != "/src/a.js" {
		t.Errorf("delivered %s, want /src/a.js", ev.FilePath)
	}

	// Still inside the cooldown window
	w.settled("/src/c.js")
	em.none(t, 100*time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("analyze called %d times, want 1", got)
	}
	if got := w.Counters().Dropped; got != 2 {
		t.Errorf("Dropped = %d, want 2", got)
	}
}

func TestSettled_ReopensAfterCooldown(t *testing.T) {
	w, em := newUnstarted(t, mediumVerdict, 30*time.Millisecond)

	w.settled("/a.js")
	em.next(t)

	deadline := time.Now().Add(2 * time.Second)
	for w.gate.Busy() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	w.settled("/b.js")
	if ev := em.next(t); ev.FilePath != "/b.js" {
		t.Errorf("delivered %s, want /b.js", ev.FilePath)
	}
}

func TestSettled_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		analyze AnalyzeFunc
	}{
		{
			name: "error",
			analyze: func(context.Context, string) (verdict.Verdict, error) {
				return verdict.Verdict{}, fmt.Errorf("disk on fire")
			},
		},
		{
			name: "panic",
			analyze: func(context.Context, string) (verdict.Verdict, error) {
				panic("analyzer exploded")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, em := newUnstarted(t, tt.analyze, 0)
			w.settled("/src/app.js")

			ev := em.next(t)
			want := verdict.WatcherFallback()
			if ev.Message != want.Message || ev.Severity != verdict.SeverityLow || ev.Emotion != verdict.EmotionAnnoyed {
				t.Errorf("event = %+v, want watcher fallback", ev)
			}
			if ev.Provenance != verdict.FromFallback || ev.UsedRemote {
				t.Errorf("provenance = %s usedRemote = %v", ev.Provenance, ev.UsedRemote)
			}
			// The gate must reopen after a failure
			if w.gate.Busy() {
				t.Error("gate still busy after failed analysis")
			}
		})
	}
}

func TestStop_DiscardsInFlightVerdict(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	blocking := func(ctx context.Context, path string) (verdict.Verdict, error) {
		entered <- struct{}{}
		<-release
		if ctx.Err() != nil {
			t.Error("in-flight analysis context was cancelled by Stop")
		}
		return mediumVerdict(ctx, path)
	}
	rec := &memRecorder{}
	w, em := newUnstarted(t, blocking, 0, WithRecorder(rec))

	done := make(chan struct{})
	go func() {
		w.settled("/src/a.js")
		close(done)
	}()
	<-entered

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop() failed: %v", err)
	}
	close(release)
	<-done

	em.none(t, 50*time.Millisecond)
	if rec.count() != 0 {
		t.Error("verdict recorded after Stop")
	}
	if w.IsWatching() {
		t.Error("IsWatching() = true after Stop")
	}
}

type blockingRecorder struct {
	memRecorder
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRecorder) RecordAnalysis(filePath, severity, message string, ts time.Time) {
	b.entered <- struct{}{}
	<-b.release
	b.memRecorder.RecordAnalysis(filePath, severity, message, ts)
}

func TestStop_WaitsForDelivery(t *testing.T) {
	rec := &blockingRecorder{entered: make(chan struct{}, 1), release: make(chan struct{})}
	w, em := newUnstarted(t, mediumVerdict, 0, WithRecorder(rec))

	go w.settled("/src/a.js")
	<-rec.entered

	stopped := make(chan struct{})
	go func() {
		_ = w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop() returned while a verdict was being recorded")
	case <-time.After(50 * time.Millisecond):
	}

	close(rec.release)
	if ev := em.next(t); ev.FilePath != "/src/a.js" {
		t.Errorf("event path = %s", ev.FilePath)
	}
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return after delivery finished")
	}
	if rec.count() != 1 {
		t.Errorf("records = %d, want 1", rec.count())
	}
}

func TestWatcher_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	var analyzed atomic.Int32
	analyze := func(ctx context.Context, path string) (verdict.Verdict, error) {
		analyzed.Add(1)
		return mediumVerdict(ctx, path)
	}

	w, em := newUnstarted(t, analyze, 0)
	if err := w.Start(foregroundConfig(dir)); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := w.Start(foregroundConfig(dir)); !errors.Is(err, errors.ErrWatcherRunning) {
		t.Errorf("second Start() error = %v, want ErrWatcherRunning", err)
	}

	target := filepath.Join(dir, "app.js")
	// A burst of writes settles into one analysis
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte(fmt.Sprintf("console.log(%d)\n", i)), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	ev := em.next(t)
	if ev.FilePath != target {
		t.Errorf("event path = %s, want %s", ev.FilePath, target)
	}
	em.none(t, 200*time.Millisecond)
	if got := analyzed.Load(); got != 1 {
		t.Errorf("analyze called %d times, want 1", got)
	}

	// Files in a new subdirectory are picked up
	sub := filepath.Join(dir, "lib")
	if err := os.Mkdir(sub, 0750); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	nested := filepath.Join(sub, "util.js")
	if err := os.WriteFile(nested, []byte("let x = 42\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if ev := em.next(t); ev.FilePath != nested {
		t.Errorf("event path = %s, want %s", ev.FilePath, nested)
	}

	// Non-qualifying files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# hi"), 0600); err != nil {
		t.Fatal(err)
	}
	em.none(t, 200*time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}

func TestWatcher_InactivityNudge(t *testing.T) {
	dir := t.TempDir()
	w, em := newUnstarted(t, mediumVerdict, 0, WithNudger(fakeNudger{}))

	cfg := foregroundConfig(dir)
	cfg.InactivityTimeout = 50 * time.Millisecond
	if err := w.Start(cfg); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	ev := em.next(t)
	if ev.Type != verdict.EventInactivity || ev.Emotion != verdict.EmotionAnnoyed {
		t.Errorf("event = %+v, want inactivity nudge", ev)
	}
	// One nudge per idle period
	em.none(t, 150*time.Millisecond)
}

func TestDebouncer_Coalesces(t *testing.T) {
	var mu sync.Mutex
	fired := map[string]int{}
	d := NewDebouncer(40*time.Millisecond, func(path string) {
		mu.Lock()
		fired[path]++
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		d.Touch("a")
		time.Sleep(10 * time.Millisecond)
	}
	d.Touch("b")
	if d.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", d.Pending())
	}

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired["a"] != 1 || fired["b"] != 1 {
		t.Errorf("fired = %v, want one each", fired)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d after settling, want 0", d.Pending())
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func(string) { fired.Add(1) })

	d.Touch("a")
	d.Stop()
	d.Touch("b")
	time.Sleep(100 * time.Millisecond)

	if fired.Load() != 0 {
		t.Errorf("fired %d times after Stop, want 0", fired.Load())
	}
}

func TestGate(t *testing.T) {
	g := NewGate(0)
	if !g.TryAcquire() {
		t.Fatal("first TryAcquire() = false")
	}
	if g.TryAcquire() {
		t.Fatal("second TryAcquire() = true while busy")
	}
	g.Release()
	if g.Busy() {
		t.Error("zero cooldown gate should reopen immediately")
	}
	if !g.TryAcquire() {
		t.Error("TryAcquire() after Release = false")
	}
	if g.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", g.Dropped())
	}

	g.Stop()
	g.Release()
	if g.TryAcquire() {
		t.Error("stopped gate admitted work")
	}
}

func TestHandlers(t *testing.T) {
	cache := &fakeCache{n: 3}
	w, _ := newUnstarted(t, mediumVerdict, 0, WithCache(cache), WithRemoteName("gemini"))
	w.config = foregroundConfig(t.TempDir())

	status := w.HandleStatusCommand(types.WatcherCommand{Action: types.ActionStatus})
	if !status.Success || status.Data["remote_provider"] != "gemini" || status.Data["cache_entries"] != 3 {
		t.Errorf("status = %+v", status)
	}

	cleared := w.HandleClearCacheCommand(types.WatcherCommand{Action: types.ActionClearCache})
	if !cleared.Success || cache.n != 0 {
		t.Errorf("clear cache = %+v, entries left %d", cleared, cache.n)
	}

	if resp := w.HandleAnalyzeCommand(types.WatcherCommand{Action: types.ActionAnalyze}); resp.Success {
		t.Error("analyze without path should fail")
	}
	missing := filepath.Join(t.TempDir(), "nope.js")
	if resp := w.HandleAnalyzeCommand(types.WatcherCommand{Data: map[string]interface{}{"path": missing}}); resp.Success {
		t.Error("analyze of missing file should fail")
	}

	file := filepath.Join(t.TempDir(), "x.js")
	if err := os.WriteFile(file, []byte("var x = 1"), 0600); err != nil {
		t.Fatal(err)
	}
	resp := w.HandleAnalyzeCommand(types.WatcherCommand{Data: map[string]interface{}{"path": file}})
	if !resp.Success || resp.Message != "meh: x.js" {
		t.Errorf("analyze = %+v", resp)
	}

	if resp := w.HandleGetStatisticsCommand(types.WatcherCommand{}); resp.Success {
		t.Error("statistics without a database should fail")
	}
}
