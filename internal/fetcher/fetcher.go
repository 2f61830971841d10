package fetcher

import (
	"context"

	"github.com/shopspring/decimal"
)

// Fetcher is the core interface that all data sources implement.
// Each fetcher knows how to retrieve a single value from one external
// system and names itself with a hierarchical key used in logs.
type Fetcher interface {
	// Fetch retrieves the current value from the source.
	// Returns a *FetchError if the fetch operation fails.
	Fetch(ctx context.Context) (decimal.Decimal, error)

	// Key returns a hierarchical key for this fetcher.
	// Format: fetcher:{source}:{identifier}
	// Examples:
	//   - fetcher:disk:/home
	//   - fetcher:helium:13buBykFQf5VaQtv7mWj2PBY9Lq4i1DeXhg7C4Vbu3ppzqqNkTH
	//   - fetcher:binance:HNTUSDT
	Key() string
}
