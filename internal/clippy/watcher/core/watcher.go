//nolint:revive // Handler methods follow interface patterns with some unused parameters
package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/response"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/database"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/filesystem"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/socket"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// AnalyzeFunc classifies one settled file
type AnalyzeFunc func(ctx context.Context, path string) (verdict.Verdict, error)

// Emitter delivers events to downstream sinks
type Emitter interface {
	Dispatch(ctx context.Context, ev verdict.Event) error
}

// StatisticsRecorder persists delivered verdicts
type StatisticsRecorder interface {
	RecordAnalysis(filePath, severity, message string, ts time.Time)
}

// CacheControl is the part of the verdict cache exposed over the socket
type CacheControl interface {
	Clear()
	Len() int
}

// Nudger supplies idle messages
type Nudger interface {
	Inactivity() response.Output
}

// Option configures a Watcher
type Option func(*Watcher)

// WithRecorder sends verdicts to r instead of the watcher database
func WithRecorder(r StatisticsRecorder) Option {
	return func(w *Watcher) {
		w.recorder = r
	}
}

// WithCache exposes c to the clear_cache socket command
func WithCache(c CacheControl) Option {
	return func(w *Watcher) {
		w.cache = c
	}
}

// WithNudger sets the source of inactivity messages
func WithNudger(n Nudger) Option {
	return func(w *Watcher) {
		w.nudger = n
	}
}

// WithRemoteName records which remote provider is active, for status output
func WithRemoteName(name string) Option {
	return func(w *Watcher) {
		w.remoteName = name
	}
}

// WithClock overrides the event timestamp source
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// Watcher turns settled file changes into analyzed events
type Watcher struct {
	analyze    AnalyzeFunc
	emitter    Emitter
	recorder   StatisticsRecorder
	cache      CacheControl
	nudger     Nudger
	remoteName string
	now        func() time.Time

	config    types.WatcherConfig
	watcher   *fsnotify.Watcher
	qualifier *filesystem.Qualifier
	debouncer *Debouncer
	gate      *Gate

	db           *database.DB
	socketServer *socket.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	stateMu  sync.Mutex
	started  bool
	stopped  atomic.Bool
	stopOnce sync.Once

	// deliverMu is held shared while a verdict is recorded and emitted, and
	// exclusively by Stop while it marks the watcher stopped, so resources are
	// never closed under a delivery
	deliverMu sync.RWMutex

	idleMu    sync.Mutex
	idleTimer *time.Timer

	analyzed atomic.Int64
}

// New creates a watcher that analyzes with analyze and delivers through emitter
func New(analyze AnalyzeFunc, emitter Emitter, opts ...Option) (*Watcher, error) {
	if analyze == nil {
		return nil, fmt.Errorf("analyze function cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		analyze: analyze,
		emitter: emitter,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// HandleChange implements filesystem.EventHandler
func (w *Watcher) HandleChange(ev filesystem.ChangeEvent) {
	if w.stopped.Load() {
		return
	}
	w.noteActivity()
	w.debouncer.Touch(ev.Path)
}

// settled runs once a path has been quiet for the stability delay
func (w *Watcher) settled(path string) {
	if w.stopped.Load() {
		return
	}
	if !w.gate.TryAcquire() {
		log.InfoH3("[watcher] Analysis in progress, dropping change: %s", path)
		w.logToDatabase("INFO", "watcher", path, "Change dropped while busy", "")
		return
	}
	defer w.gate.Release()

	w.process(path)
}

// process analyzes path and forwards the verdict unless the watcher stopped meanwhile
func (w *Watcher) process(path string) {
	start := time.Now()
	log.InfoH2("[watcher] Analyzing %s", path)

	// Stop must not cancel an analysis already in flight
	v := w.analyzeSafely(context.WithoutCancel(w.ctx), path)
	w.analyzed.Add(1)

	w.deliverMu.RLock()
	defer w.deliverMu.RUnlock()
	if w.stopped.Load() {
		log.DebugH3("[watcher] Watcher stopped, discarding verdict for %s", path)
		return
	}

	w.logToDatabase("INFO", "analyzer", path,
		fmt.Sprintf("%s verdict via %s", v.Severity, v.Provenance), "", time.Since(start).Milliseconds())
	w.deliver(path, v)
}

// analyzeSafely converts a panic or error from the analysis into the watcher fallback verdict
func (w *Watcher) analyzeSafely(ctx context.Context, path string) (v verdict.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("[watcher] Analysis of %s panicked: %v", path, r)
			w.logToDatabase("ERROR", "analyzer", path, "Analysis panicked", fmt.Sprint(r))
			v = verdict.WatcherFallback()
		}
	}()

	var err error
	v, err = w.analyze(ctx, path)
	if err != nil {
		log.Error("[watcher] Analysis of %s failed: %v", path, err)
		w.logToDatabase("ERROR", "analyzer", path, "Analysis failed", err.Error())
		return verdict.WatcherFallback()
	}
	return v
}

func (w *Watcher) deliver(path string, v verdict.Verdict) {
	now := w.now()
	if w.recorder != nil {
		w.recorder.RecordAnalysis(path, string(v.Severity), v.Message, now)
	}
	w.emit(verdict.NewEvent(path, v, now))
}

func (w *Watcher) emit(ev verdict.Event) {
	if err := w.emitter.Dispatch(context.Background(), ev); err != nil {
		log.Error("[watcher] Failed to deliver event: %v", err)
		w.logToDatabase("ERROR", "notify", ev.FilePath, "Event delivery failed", err.Error())
	}
}

// noteActivity re-arms the inactivity timer
func (w *Watcher) noteActivity() {
	w.idleMu.Lock()
	defer w.idleMu.Unlock()
	if w.idleTimer != nil {
		w.idleTimer.Reset(w.config.InactivityTimeout)
	}
}

// nudge emits one inactivity event; the timer stays idle until the next change
func (w *Watcher) nudge() {
	w.deliverMu.RLock()
	defer w.deliverMu.RUnlock()
	if w.stopped.Load() || w.nudger == nil {
		return
	}
	out := w.nudger.Inactivity()
	log.InfoH3("[watcher] No changes for %v, nudging", w.config.InactivityTimeout)
	w.emit(verdict.NewInactivityEvent(out.Message, w.now()))
}

// Counters returns a snapshot of the activity counters
func (w *Watcher) Counters() types.Counters {
	c := types.Counters{Analyzed: w.analyzed.Load()}
	if w.gate != nil {
		c.Dropped = w.gate.Dropped()
		c.Busy = w.gate.Busy()
	}
	if w.debouncer != nil {
		c.Pending = w.debouncer.Pending()
	}
	return c
}

// Config returns the configuration the watcher was started with
func (w *Watcher) Config() types.WatcherConfig {
	return w.config
}

func (w *Watcher) logToDatabase(level, component, filePath, message, errorMsg string, duration ...int64) {
	if w.db == nil {
		return
	}
	var d int64
	if len(duration) > 0 {
		d = duration[0]
	}
	w.db.LogToDatabase(level, component, filePath, message, errorMsg, d)
}

// Statistics reads the summary from the watcher's database
func (w *Watcher) Statistics() (*types.Statistics, error) {
	if w.db == nil || !w.db.IsEnabled() {
		return nil, errors.ErrDatabaseDisabled
	}
	return w.db.GetStatistics()
}
