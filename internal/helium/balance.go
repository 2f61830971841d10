package helium

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"resty.dev/v3"

	"statusfeeds/internal/fetcher"
	"statusfeeds/internal/ratelimit"
)

// hntDecimals is the number of decimal places between bones (the smallest
// indivisible unit) and HNT: one HNT is 10^8 bones.
const hntDecimals = 8

// DefaultBaseURL is the public Helium API.
const DefaultBaseURL = "https://api.helium.io"

// accountResponse represents the Helium API response for an account.
// Balance is kept raw so that a missing field, a null and a non-number can
// be told apart from a malformed body.
type accountResponse struct {
	Data *struct {
		Balance json.RawMessage `json:"balance"`
	} `json:"data"`
}

// BalanceFetcher fetches the HNT balance of a Helium account
type BalanceFetcher struct {
	account string
	client  *resty.Client
}

// NewBalanceFetcher creates a new account balance fetcher
func NewBalanceFetcher(account, baseURL string, timeout time.Duration) *BalanceFetcher {
	return &BalanceFetcher{
		account: account,
		client:  fetcher.NewHTTPClient(baseURL, timeout),
	}
}

// Fetch retrieves the account balance in HNT
func (f *BalanceFetcher) Fetch(ctx context.Context) (decimal.Decimal, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIHelium); err != nil {
		return decimal.Zero, fetcher.NewSourceUnavailableError("rate limiter wait aborted", err)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("account", f.account).
		Get("/v1/accounts/{account}")

	if err != nil {
		return decimal.Zero, fetcher.NewSourceUnavailableError(
			fmt.Sprintf("failed to fetch balance for %s", f.account), err)
	}

	if !resp.IsSuccess() {
		return decimal.Zero, fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	balance, err := parseBalance(resp.Bytes())
	if err != nil {
		return decimal.Zero, err
	}

	slog.Debug("helium account balance", "account", f.account, "balance_hnt", balance.String())
	return balance, nil
}

// Key returns the log key for this fetcher
func (f *BalanceFetcher) Key() string {
	return fmt.Sprintf("fetcher:helium:%s", f.account)
}

// parseBalance extracts data.balance from an account document and converts
// it from bones to HNT.
func parseBalance(body []byte) (decimal.Decimal, error) {
	var doc accountResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return decimal.Zero, fetcher.NewSchemaError(fmt.Sprintf("unexpected %s format: %s", typeErr.Field, typeErr.Value))
		}
		return decimal.Zero, fetcher.NewParseError(err)
	}

	if doc.Data == nil {
		return decimal.Zero, fetcher.NewSchemaError("data object not found in response")
	}

	raw := bytes.TrimSpace(doc.Data.Balance)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, fetcher.NewSchemaError("balance not found in response")
	}

	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return decimal.Zero, fetcher.NewParseError(err)
	}

	number, ok := value.(json.Number)
	if !ok {
		return decimal.Zero, fetcher.NewSchemaError(fmt.Sprintf("unexpected balance format: %s", raw))
	}

	bones, err := decimal.NewFromString(number.String())
	if err != nil {
		return decimal.Zero, fetcher.NewSchemaError(fmt.Sprintf("balance is not a number: %s", raw))
	}

	return bones.Shift(-hntDecimals), nil
}
