// Package notify delivers analysis events to the outside world.
package notify

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/log"
)

// Sink receives every event the watcher emits
type Sink interface {
	Name() string
	Send(ctx context.Context, ev verdict.Event) error
}

// Dispatcher fans one event out to all sinks concurrently
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher creates a dispatcher; nil sinks are skipped
func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// Add registers another sink
func (d *Dispatcher) Add(s Sink) {
	if s != nil {
		d.sinks = append(d.sinks, s)
	}
}

// Sinks returns the registered sink names
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Dispatch sends ev to every sink. A failing sink never prevents delivery to the others;
// the first error is returned after all sinks finished.
func (d *Dispatcher) Dispatch(ctx context.Context, ev verdict.Event) error {
	var g errgroup.Group
	for _, s := range d.sinks {
		g.Go(func() error {
			if err := s.Send(ctx, ev); err != nil {
				log.Error("[notify] %s sink failed: %v", s.Name(), err)
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Console prints events to the terminal
type Console struct{}

// Name implements Sink
func (Console) Name() string { return "console" }

// Send implements Sink
func (Console) Send(_ context.Context, ev verdict.Event) error {
	switch ev.Type {
	case verdict.EventInactivity:
		log.Roast(string(ev.Severity), "", ev.Message)
	default:
		log.Roast(string(ev.Severity), ev.FilePath, ev.Message)
		if ev.ShouldLaugh {
			log.InfoH3("😂 %s", ev.LaughReason)
		}
		src := string(ev.Provenance)
		if ev.Note != "" {
			src += " · " + ev.Note
		}
		log.DebugH3("%s", src)
	}
	return nil
}

// sanitizeMentions keeps messages from pinging whole Discord servers
func sanitizeMentions(s string) string {
	r := strings.NewReplacer("@everyone", "@everyon3", "@here", "@her3")
	return r.Replace(s)
}
