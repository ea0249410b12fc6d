// Package clippy wires the analysis pipeline, the notification sinks and the
// file watcher into one application object used by the CLI.
package clippy

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	godaemon "github.com/sevlyar/go-daemon"

	"github.com/dimasma0305/evilclippy/internal/clippy/analyzer"
	"github.com/dimasma0305/evilclippy/internal/clippy/cache"
	"github.com/dimasma0305/evilclippy/internal/clippy/config"
	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/notify"
	"github.com/dimasma0305/evilclippy/internal/clippy/ratelimit"
	"github.com/dimasma0305/evilclippy/internal/clippy/remote"
	"github.com/dimasma0305/evilclippy/internal/clippy/response"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/database"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// Clippy is the main application struct
type Clippy struct {
	dir  string
	conf *config.Config

	cache    *cache.Cache
	limiter  *ratelimit.Limiter
	remote   *remote.Analyzer
	composer *response.Composer
	analyzer *analyzer.Analyzer

	mu        sync.Mutex
	watcher   *watcher.Watcher
	stopSinks context.CancelFunc
}

// Init loads the configuration under dir and builds the pipeline
func Init(dir string) (*Clippy, error) {
	conf, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return New(dir, conf), nil
}

// MustInit is Init that exits on error
func MustInit(dir string) *Clippy {
	c, err := Init(dir)
	if err != nil {
		log.Fatal("Failed to initialize: ", err)
	}
	return c
}

// New builds the pipeline from conf. A remote provider that fails to
// initialize is logged and leaves the local heuristics in charge.
func New(dir string, conf *config.Config) *Clippy {
	c := &Clippy{
		dir:      dir,
		conf:     conf,
		cache:    cache.New(cache.WithTTL(conf.Remote.CacheTTL)),
		limiter:  ratelimit.New(conf.Remote.RateLimit, conf.Remote.RateWindow),
		composer: response.NewComposer(),
	}

	var r analyzer.RemoteAnalyzer
	if conf.RemoteEnabled() {
		log.Debug("Remote quota: %d calls per %s", c.limiter.Capacity(), c.limiter.Window())
		ra := remote.NewAnalyzer(remote.ProviderConfig{
			Name:    conf.Remote.Provider,
			Model:   conf.Remote.Model,
			BaseURL: conf.Remote.BaseURL,
		}, conf.Remote.Timeout)
		if err := ra.Initialize(conf.Remote.APIKey); err != nil {
			log.Warn("Remote analysis disabled: %v", err)
		} else {
			c.remote = ra
			r = ra
		}
	} else {
		log.Debug("No remote provider credentials, using local analysis only")
	}

	c.analyzer = analyzer.New(r, c.cache, c.limiter, c.composer,
		analyzer.WithSnippetLines(conf.Remote.SnippetLines))
	return c
}

// Config returns the loaded configuration
func (c *Clippy) Config() *config.Config {
	return c.conf
}

// RemoteName returns the active provider, or "local" when the remote tier is off
func (c *Clippy) RemoteName() string {
	if c.remote == nil || !c.remote.IsReady() {
		return "local"
	}
	return c.remote.ProviderName()
}

// AnalyzeFile runs the pipeline for one file
func (c *Clippy) AnalyzeFile(ctx context.Context, path string) verdict.Verdict {
	return c.analyzer.AnalyzeFile(ctx, path)
}

// AnalyzeFileLocal judges one file with the heuristics alone, skipping the cache and the remote tier
func (c *Clippy) AnalyzeFileLocal(path string) verdict.Verdict {
	return c.analyzer.AnalyzeFileLocal(path)
}

// ClearCache drops all cached remote verdicts
func (c *Clippy) ClearCache() {
	c.cache.Clear()
}

// path resolves p against the project directory
func (c *Clippy) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// WatcherConfig maps the watch section onto the watcher's configuration
func (c *Clippy) WatcherConfig() watcher.WatcherConfig {
	wc := watcher.DefaultWatcherConfig
	w := c.conf.Watch

	wc.Folders = make([]string, 0, len(w.Folders))
	for _, f := range w.Folders {
		wc.Folders = append(wc.Folders, c.path(f))
	}
	wc.Files = make([]string, 0, len(w.Files))
	for _, f := range w.Files {
		wc.Files = append(wc.Files, c.path(f))
	}
	wc.Extensions = append([]string(nil), w.Extensions...)
	wc.WatchSubfolders = w.WatchSubfolders
	wc.RespectGitignore = w.RespectGitignore
	wc.StabilityDelay = w.StabilityDelay
	wc.Cooldown = w.Cooldown
	wc.InactivityTimeout = w.InactivityTimeout

	wc.PidFile = c.path(wc.PidFile)
	wc.LogFile = c.path(wc.LogFile)
	wc.DatabasePath = c.path(wc.DatabasePath)
	wc.SocketPath = c.path(wc.SocketPath)
	return wc
}

// dispatcher builds the configured sinks. hub is nil unless a WebSocket address is set.
func (c *Clippy) dispatcher(stats notify.StatsFunc) (*notify.Dispatcher, *notify.Hub, error) {
	d := notify.NewDispatcher()
	n := c.conf.Notify

	if n.Console {
		d.Add(notify.Console{})
	}

	var hub *notify.Hub
	if n.WebSocketAddr != "" {
		hub = notify.NewHub(stats)
		d.Add(hub)
	}

	if n.DiscordWebhook != "" {
		minSeverity := verdict.SeverityHigh
		if n.DiscordMinSeverity != "" {
			s, err := verdict.ParseSeverity(n.DiscordMinSeverity)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: discord_min_severity: %v", errors.ErrInvalidConfig, err)
			}
			minSeverity = s
		}
		discord, err := notify.NewDiscord(n.DiscordWebhook, minSeverity)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create discord sink: %w", err)
		}
		d.Add(discord)
	}

	return d, hub, nil
}

// StartWatcher starts the file watcher service. In daemon mode the calling
// process returns once the child is forked and the child blocks here until
// it receives SIGINT or SIGTERM.
func (c *Clippy) StartWatcher(wc watcher.WatcherConfig) error {
	c.mu.Lock()
	if c.watcher != nil && c.watcher.IsWatching() {
		c.mu.Unlock()
		return errors.ErrWatcherRunning
	}
	c.mu.Unlock()

	var w *watcher.Watcher
	stats := func() (any, error) {
		if w == nil {
			return nil, errors.ErrWatcherNotRunning
		}
		return w.Statistics()
	}

	emitter, hub, err := c.dispatcher(stats)
	if err != nil {
		return err
	}

	w, err = watcher.NewWatcher(
		func(ctx context.Context, path string) (verdict.Verdict, error) {
			return c.analyzer.AnalyzeFile(ctx, path), nil
		},
		emitter,
		watcher.WithCache(c.cache),
		watcher.WithNudger(c.composer),
		watcher.WithRemoteName(c.RemoteName()),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	sinkCtx, stopSinks := context.WithCancel(context.Background())
	// The forking parent exits right away, so only the process that runs the watcher serves the hub
	if hub != nil && (!wc.DaemonMode || godaemon.WasReborn()) {
		addr := c.conf.Notify.WebSocketAddr
		go func() {
			if err := hub.Serve(sinkCtx, addr); err != nil {
				log.Error("Event stream on %s stopped: %v", addr, err)
			}
		}()
	}

	c.mu.Lock()
	c.watcher = w
	c.stopSinks = stopSinks
	c.mu.Unlock()

	if err := w.Start(wc); err != nil {
		stopSinks()
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if wc.DaemonMode {
		stopSinks()
	}
	return nil
}

// StopWatcher stops a watcher started in this process
func (c *Clippy) StopWatcher() error {
	c.mu.Lock()
	w, stopSinks := c.watcher, c.stopSinks
	c.watcher, c.stopSinks = nil, nil
	c.mu.Unlock()

	if w == nil {
		return errors.ErrWatcherNotRunning
	}
	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	if stopSinks != nil {
		stopSinks()
	}
	return nil
}

// IsWatcherRunning returns true if a watcher started in this process is active
func (c *Clippy) IsWatcherRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watcher != nil && c.watcher.IsWatching()
}

// ReadStatistics opens the statistics database at dbPath directly, for when
// no watcher is running to answer over the socket.
func ReadStatistics(dbPath string) (*watcher.Statistics, error) {
	db := database.New(dbPath, true)
	if err := db.Init(); err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return db.GetStatistics()
}

// ResetStatistics clears the statistics database at dbPath directly
func ResetStatistics(dbPath string) error {
	db := database.New(dbPath, true)
	if err := db.Init(); err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.ResetStatistics()
}
