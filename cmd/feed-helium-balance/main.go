// Command feed-helium-balance prints the HNT balance of a Helium account, the
// HNT/USDT average price and the account value, e.g. "H 5.00 $2.50 $12.50".
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

	"statusfeeds/internal/binance"
	"statusfeeds/internal/config"
	"statusfeeds/internal/coordinator"
	"statusfeeds/internal/helium"
	"statusfeeds/internal/logging"
	"statusfeeds/internal/poller"
)

const name = "feed-helium-balance"

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
	cfg, err := config.LoadBalance(name, args)
	if err != nil {
		return err
	}

	if _, err := logging.Setup(stderr, name, cfg.LogLevel); err != nil {
		return err
	}
	slog.Info("starting",
		"account", cfg.Account,
		"symbol", cfg.Symbol,
		"interval", cfg.Interval,
		"helium_url", cfg.HeliumURL,
		"binance_url", cfg.BinanceURL,
		"http_timeout", cfg.HTTPTimeout)

	coord := coordinator.New(
		helium.NewBalanceFetcher(cfg.Account, cfg.HeliumURL, cfg.HTTPTimeout),
		binance.NewPriceFetcher(cfg.Symbol, cfg.BinanceURL, cfg.HTTPTimeout),
		stdout,
	)

	return poller.New(name, cfg.Interval, coord.Cycle).Run(ctx)
}
