// Command feed-clock prints the local time in a strftime format.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"statusfeeds/internal/clock"
	"statusfeeds/internal/config"
	"statusfeeds/internal/logging"
	"statusfeeds/internal/poller"
)

const name = "feed-clock"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return
		}
		log.Fatalf("%s: %v", name, err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadClock(name, args)
	if err != nil {
		return err
	}

	if _, err := logging.Setup(stderr, name, cfg.LogLevel); err != nil {
		return err
	}
	slog.Info("starting", "format", cfg.Format, "interval", cfg.Interval)

	feed, err := clock.New(cfg.Format, stdout)
	if err != nil {
		return err
	}

	return poller.New(name, cfg.Interval, feed.Cycle).Run(ctx)
}
