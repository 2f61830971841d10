package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"statusfeeds/internal/fetcher"
)

// State is the last known balance and price. It only changes on a
// successful fetch of the matching source.
type State struct {
	Balance fetcher.LastKnown
	Price   fetcher.LastKnown
}

// Coordinator combines an account balance and a market price into one
// status line per cycle
type Coordinator struct {
	balance fetcher.Fetcher
	price   fetcher.Fetcher
	out     io.Writer
	now     func() time.Time

	state State
}

// New creates a new Coordinator writing its lines to out
func New(balance, price fetcher.Fetcher, out io.Writer) *Coordinator {
	return &Coordinator{
		balance: balance,
		price:   price,
		out:     out,
		now:     time.Now,
	}
}

// State returns a copy of the current last known values
func (c *Coordinator) State() State {
	return c.state
}

// Cycle fetches the balance then the price, and prints one line.
// Both sources are always attempted; a failure keeps the previous value.
func (c *Coordinator) Cycle(ctx context.Context) {
	c.observe(c.state.Balance.Observe, c.fetch(ctx, c.balance), "balance")
	c.observe(c.state.Price.Observe, c.fetch(ctx, c.price), "price")

	if _, ok := c.state.Balance.Value(); !ok {
		if _, ok := c.state.Price.Value(); !ok {
			slog.Debug("neither balance nor price is available yet")
		}
	}

	if _, err := fmt.Fprintln(c.out, Render(c.state)); err != nil {
		slog.Error("failed to write status line", "error", err)
	}
}

func (c *Coordinator) fetch(ctx context.Context, f fetcher.Fetcher) fetcher.Result {
	value, err := f.Fetch(ctx)
	return fetcher.Result{
		Key:   f.Key(),
		Value: value,
		Error: err,
		At:    c.now(),
	}
}

func (c *Coordinator) observe(update func(fetcher.Result) bool, r fetcher.Result, what string) {
	if !update(r) {
		slog.Error("data fetch failure", "key", r.Key, "source", what, "error", r.Error)
		return
	}
	slog.Info("data fetch success", "key", r.Key, what, r.Value.String())
}
