package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/log"
)

type recordingSink struct {
	name string
	err  error

	mu     sync.Mutex
	events []verdict.Event
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Send(_ context.Context, ev verdict.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func sampleEvent(sev verdict.Severity) verdict.Event {
	v := verdict.Verdict{
		Severity:    sev,
		Message:     "Nested loops? Bold move. Wrong, but bold.",
		Emotion:     verdict.EmotionFor(sev),
		ShouldLaugh: true,
		LaughReason: "Meme variable names detected - is this code or a joke? 🤡",
		Provenance:  verdict.FromLocal,
		Note:        "Local regex analysis",
	}
	return verdict.NewEvent("/src/app.js", v, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	ok := &recordingSink{name: "ok"}
	broken := &recordingSink{name: "broken", err: fmt.Errorf("boom")}
	other := &recordingSink{name: "other"}

	d := NewDispatcher(ok, nil, broken)
	d.Add(other)
	d.Add(nil)

	if got := strings.Join(d.Sinks(), ","); got != "ok,broken,other" {
		t.Errorf("Sinks() = %q", got)
	}

	err := d.Dispatch(context.Background(), sampleEvent(verdict.SeverityLow))
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("Dispatch() error = %v, want the broken sink error", err)
	}
	for _, s := range []*recordingSink{ok, broken, other} {
		if s.count() != 1 {
			t.Errorf("%s received %d events, want 1", s.name, s.count())
		}
	}
}

func TestConsoleSink(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out, &out)
	defer log.ResetOutput()

	if err := (Console{}).Send(context.Background(), sampleEvent(verdict.SeverityHigh)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"app.js", "Nested loops? Bold move.", "Meme variable names"} {
		if !strings.Contains(got, want) {
			t.Errorf("console output missing %q:\n%s", want, got)
		}
	}
}

func TestSanitizeMentions(t *testing.T) {
	if got := sanitizeMentions("hey @everyone and @here"); got != "hey @everyon3 and @her3" {
		t.Errorf("sanitizeMentions() = %q", got)
	}
}
