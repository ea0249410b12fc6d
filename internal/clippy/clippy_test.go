package clippy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dimasma0305/evilclippy/internal/clippy/config"
	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

func localConfig() *config.Config {
	conf := config.Default()
	conf.Remote.APIKey = ""
	conf.Notify.Console = false
	return conf
}

func TestNew_LocalOnlyWithoutKey(t *testing.T) {
	c := New(t.TempDir(), localConfig())
	if got := c.RemoteName(); got != "local" {
		t.Errorf("RemoteName() = %q, want local", got)
	}
}

func TestAnalyzeFile_Local(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, localConfig())

	path := filepath.Join(dir, "app.js")
	content := "var x = 1;\nconsole.log(x);\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	v := c.AnalyzeFile(context.Background(), path)
	if v.Provenance != verdict.FromLocal || v.UsedRemote() {
		t.Errorf("provenance = %s usedRemote = %v, want local", v.Provenance, v.UsedRemote())
	}
	if !v.Severity.Valid() || v.Message == "" {
		t.Errorf("verdict = %+v, want a classified message", v)
	}

	missing := c.AnalyzeFile(context.Background(), filepath.Join(dir, "gone.js"))
	if missing.Message != verdict.AnalyzerFallback().Message {
		t.Errorf("missing file message = %q, want analyzer fallback", missing.Message)
	}
}

func TestAnalyzeFileLocal(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, localConfig())

	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("def f():\n    return 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if v := c.AnalyzeFileLocal(path); v.Provenance != verdict.FromLocal {
		t.Errorf("provenance = %s, want local", v.Provenance)
	}
	if v := c.AnalyzeFileLocal(filepath.Join(dir, "gone.py")); v.Provenance != verdict.FromFallback {
		t.Errorf("missing file provenance = %s, want fallback", v.Provenance)
	}
}

func TestWatcherConfig_ResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	conf := localConfig()
	conf.Watch.Folders = []string{"src", "/abs/lib"}
	conf.Watch.Files = []string{"main.py"}
	conf.Watch.RespectGitignore = true
	conf.Watch.InactivityTimeout = time.Minute

	wc := New(dir, conf).WatcherConfig()

	if diff := cmp.Diff([]string{filepath.Join(dir, "src"), "/abs/lib"}, wc.Folders); diff != "" {
		t.Errorf("Folders mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "main.py")}, wc.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if wc.DatabasePath != filepath.Join(dir, ".clippy", "watcher", "watcher.db") {
		t.Errorf("DatabasePath = %s", wc.DatabasePath)
	}
	if !wc.RespectGitignore || wc.InactivityTimeout != time.Minute {
		t.Errorf("watch settings not carried over: %+v", wc)
	}
	if wc.StabilityDelay != 500*time.Millisecond || wc.Cooldown != time.Second {
		t.Errorf("timings = %v/%v, want 500ms/1s", wc.StabilityDelay, wc.Cooldown)
	}
}

func TestDispatcher_Sinks(t *testing.T) {
	tests := []struct {
		name    string
		notify  config.NotifyConfig
		want    []string
		wantErr bool
	}{
		{
			name:   "console only",
			notify: config.NotifyConfig{Console: true},
			want:   []string{"console"},
		},
		{
			name:   "all sinks",
			notify: config.NotifyConfig{Console: true, WebSocketAddr: "127.0.0.1:0", DiscordWebhook: "https://discord.com/api/webhooks/123/abc"},
			want:   []string{"console", "websocket", "discord"},
		},
		{
			name:    "bad discord severity",
			notify:  config.NotifyConfig{DiscordWebhook: "https://discord.com/api/webhooks/123/abc", DiscordMinSeverity: "apocalyptic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := localConfig()
			conf.Notify = tt.notify
			d, _, err := New(t.TempDir(), conf).dispatcher(nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("dispatcher() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, d.Sinks()); diff != "" {
				t.Errorf("sinks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStopWatcher_NotRunning(t *testing.T) {
	c := New(t.TempDir(), localConfig())
	if err := c.StopWatcher(); !errors.Is(err, errors.ErrWatcherNotRunning) {
		t.Errorf("StopWatcher() error = %v, want ErrWatcherNotRunning", err)
	}
}

func TestStartWatcher_Foreground(t *testing.T) {
	dir := t.TempDir()
	conf := localConfig()
	conf.Watch.Folders = []string{"src"}
	conf.Watch.StabilityDelay = 20 * time.Millisecond
	conf.Watch.Cooldown = 0
	src := filepath.Join(dir, "src")
	if err := os.Mkdir(src, 0750); err != nil {
		t.Fatal(err)
	}

	c := New(dir, conf)
	wc := c.WatcherConfig()
	wc.DaemonMode = false
	wc.SocketEnabled = false

	if err := c.StartWatcher(wc); err != nil {
		t.Fatalf("StartWatcher() failed: %v", err)
	}
	t.Cleanup(func() { _ = c.StopWatcher() })
	if !c.IsWatcherRunning() {
		t.Fatal("IsWatcherRunning() = false after start")
	}
	if err := c.StartWatcher(wc); !errors.Is(err, errors.ErrWatcherRunning) {
		t.Errorf("second StartWatcher() error = %v, want ErrWatcherRunning", err)
	}

	target := filepath.Join(src, "bad.js")
	if err := os.WriteFile(target, []byte("console.log('hi')\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var total int
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		stats, err := ReadStatistics(wc.DatabasePath)
		if err != nil {
			t.Fatalf("ReadStatistics() failed: %v", err)
		}
		if total = stats.TotalAnalyses; total > 0 {
			if stats.ProblemFiles[0].FilePath != target {
				t.Errorf("problem file = %s, want %s", stats.ProblemFiles[0].FilePath, target)
			}
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if total != 1 {
		t.Fatalf("TotalAnalyses = %d, want 1", total)
	}

	if err := c.StopWatcher(); err != nil {
		t.Fatalf("StopWatcher() failed: %v", err)
	}
	if c.IsWatcherRunning() {
		t.Error("IsWatcherRunning() = true after stop")
	}

	if err := ResetStatistics(wc.DatabasePath); err != nil {
		t.Fatalf("ResetStatistics() failed: %v", err)
	}
	stats, err := ReadStatistics(wc.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalAnalyses != 0 {
		t.Errorf("TotalAnalyses after reset = %d, want 0", stats.TotalAnalyses)
	}
}
