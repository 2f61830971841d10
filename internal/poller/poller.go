package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/panics"
)

// Cycle is one poll iteration: fetch, format and print.
type Cycle func(ctx context.Context)

// Poller runs a cycle, sleeps for a fixed interval and repeats
type Poller struct {
	name     string
	interval time.Duration
	cycle    Cycle
}

// New creates a new Poller
func New(name string, interval time.Duration, cycle Cycle) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		cycle:    cycle,
	}
}

// Run executes cycles one after the other until ctx is cancelled.
// A cycle that panics is logged and the loop carries on with the next sleep.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("%s: interval must be positive, got %s", p.name, p.interval)
	}
	if p.cycle == nil {
		return fmt.Errorf("%s: no cycle configured", p.name)
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for n := uint64(1); ; n++ {
		if ctx.Err() != nil {
			return nil
		}

		var pc panics.Catcher
		pc.Try(func() { p.cycle(ctx) })
		if r := pc.Recovered(); r != nil {
			slog.Error("poll cycle panicked",
				"loop", p.name,
				"cycle", n,
				"error", r.AsError())
		}

		timer.Reset(p.interval)
		select {
		case <-ctx.Done():
			slog.Info("poll loop stopped", "loop", p.name, "cycles", n)
			return nil
		case <-timer.C:
		}
	}
}
