// Command feed-disk prints the used share of a filesystem, e.g. "d 42%",
// every few seconds.
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

	"statusfeeds/internal/config"
	"statusfeeds/internal/coordinator"
	"statusfeeds/internal/disk"
	"statusfeeds/internal/logging"
	"statusfeeds/internal/poller"
)

const name = "feed-disk"

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
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
	cfg, err := config.LoadDisk(name, args)
	if err != nil {
		return err
	}

	if _, err := logging.Setup(stderr, name, cfg.LogLevel); err != nil {
		return err
	}
	slog.Info("starting",
		"path", cfg.Path,
		"interval", cfg.Interval,
		"prefix", cfg.Prefix,
		"postfix", cfg.Postfix)

	feed := coordinator.NewSingle(disk.NewUsageFetcher(cfg.Path), cfg.Prefix, cfg.Postfix, stdout)

	return poller.New(name, cfg.Interval, feed.Cycle).Run(ctx)
}
