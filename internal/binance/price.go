package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"resty.dev/v3"

	"statusfeeds/internal/fetcher"
	"statusfeeds/internal/ratelimit"
)

// DefaultBaseURL is the public Binance spot API.
const DefaultBaseURL = "https://api.binance.com"

// DefaultSymbol is the HNT/USDT trading pair.
const DefaultSymbol = "HNTUSDT"

// AvgPriceResponse represents the Binance response for the current average price
type AvgPriceResponse struct {
	Mins      int64  `json:"mins"`
	Price     string `json:"price"`
	CloseTime int64  `json:"closeTime"`
}

// APIError is the error document Binance returns alongside 4xx/5xx statuses
type APIError struct {
	Code    int64  `json:"code"`
	Message string `json:"msg"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("<APIError> code=%d, msg=%s", e.Code, e.Message)
}

// PriceFetcher fetches the average price of a trading pair
type PriceFetcher struct {
	symbol string
	client *resty.Client
}

// NewPriceFetcher creates a new average price fetcher
func NewPriceFetcher(symbol, baseURL string, timeout time.Duration) *PriceFetcher {
	return &PriceFetcher{
		symbol: symbol,
		client: fetcher.NewHTTPClient(baseURL, timeout),
	}
}

// Fetch retrieves the current average price of the symbol
func (f *PriceFetcher) Fetch(ctx context.Context) (decimal.Decimal, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIBinance); err != nil {
		return decimal.Zero, fetcher.NewSourceUnavailableError("rate limiter wait aborted", err)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", f.symbol).
		Get("/api/v3/avgPrice")

	if err != nil {
		return decimal.Zero, fetcher.NewSourceUnavailableError(
			fmt.Sprintf("failed to fetch average price for %s", f.symbol), err)
	}

	if !resp.IsSuccess() {
		return decimal.Zero, adaptError(resp.StatusCode(), resp.Bytes())
	}

	return parsePrice(resp.Bytes())
}

// Key returns the log key for this fetcher
func (f *PriceFetcher) Key() string {
	return fmt.Sprintf("fetcher:binance:%s", f.symbol)
}

// adaptError folds a Binance API error into a source unavailable error.
// Only its text is kept so callers never depend on the Binance error shape.
func adaptError(statusCode int, body []byte) *fetcher.FetchError {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || (apiErr.Code == 0 && apiErr.Message == "") {
		return fetcher.ClassifyHTTPError(statusCode)
	}
	return fetcher.NewStatusError(statusCode, fmt.Sprintf("binance: %v", &apiErr))
}

func parsePrice(body []byte) (decimal.Decimal, error) {
	var result AvgPriceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return decimal.Zero, fetcher.NewSchemaError(fmt.Sprintf("unexpected %s format: %s", typeErr.Field, typeErr.Value))
		}
		return decimal.Zero, fetcher.NewParseError(err)
	}

	if result.Price == "" {
		return decimal.Zero, fetcher.NewSchemaError("price not found in response")
	}

	price, err := decimal.NewFromString(result.Price)
	if err != nil {
		return decimal.Zero, fetcher.NewSchemaError(fmt.Sprintf("failed to parse price %q", result.Price))
	}

	return price, nil
}
