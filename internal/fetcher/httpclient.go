package fetcher

import (
	"log/slog"
	"time"

	"resty.dev/v3"
)

const userAgent = "statusfeeds/1.0"

// NewHTTPClient creates a new HTTP client for a JSON API.
//
// Retries are disabled: the poll interval of the calling feed is the only
// retry delay. A zero timeout leaves the client without a deadline.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0).
		AddResponseMiddleware(logResponse)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return client
}

// logResponse logs every completed request for observability
func logResponse(_ *resty.Client, r *resty.Response) error {
	slog.Debug("http response",
		"url", r.Request.URL,
		"status_code", r.StatusCode())
	return nil
}
