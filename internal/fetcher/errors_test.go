package fetcher

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFetchError_Error(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "source unavailable with cause",
			err:  NewSourceUnavailableError("request failed", cause),
			want: "source_unavailable error: request failed: connection refused",
		},
		{
			name: "status code",
			err:  NewStatusError(503, "server returned an error"),
			want: "source_unavailable error (status 503): server returned an error",
		},
		{
			name: "schema",
			err:  NewSchemaError("balance missing"),
			want: "schema error: balance missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("cycle: %w", NewParseError(cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the cause through FetchError")
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatal("errors.As() did not find FetchError")
	}
	if fe.Type != ErrorTypeParse {
		t.Errorf("Type = %q, want %q", fe.Type, ErrorTypeParse)
	}
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		code    int
		message string
	}{
		{429, "rate limit exceeded"},
		{500, "server returned an error"},
		{502, "server returned an error"},
		{404, "client error: HTTP 404"},
		{302, "unexpected status code: 302"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			err := ClassifyHTTPError(tt.code)
			if err.Type != ErrorTypeSourceUnavailable {
				t.Errorf("Type = %q, want %q", err.Type, ErrorTypeSourceUnavailable)
			}
			if err.StatusCode != tt.code {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.code)
			}
			if err.Message != tt.message {
				t.Errorf("Message = %q, want %q", err.Message, tt.message)
			}
		})
	}
}

func TestIsType(t *testing.T) {
	if !IsType(NewSchemaError("x"), ErrorTypeSchema) {
		t.Error("IsType(schema, schema) = false")
	}
	if IsType(NewSchemaError("x"), ErrorTypeParse) {
		t.Error("IsType(schema, parse) = true")
	}
	if IsType(errors.New("plain"), ErrorTypeSourceUnavailable) {
		t.Error("IsType(plain error) = true")
	}
}

func TestLastKnown_Observe(t *testing.T) {
	var lk LastKnown

	if _, ok := lk.Value(); ok {
		t.Fatal("zero LastKnown reports a value")
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !lk.Observe(Result{Key: "k", Value: decimal.NewFromInt(5), At: at}) {
		t.Fatal("Observe(success) = false")
	}

	// Failures must leave the previous value untouched.
	for i := 0; i < 3; i++ {
		if lk.Observe(Result{Key: "k", Error: errors.New("down"), At: at.Add(time.Minute)}) {
			t.Fatal("Observe(failure) = true")
		}
	}

	v, ok := lk.Value()
	if !ok || !v.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Value() = %v, %v, want 5, true", v, ok)
	}
	if !lk.UpdatedAt().Equal(at) {
		t.Errorf("UpdatedAt() = %v, want %v", lk.UpdatedAt(), at)
	}

	lk.Observe(Result{Key: "k", Value: decimal.NewFromInt(7), At: at.Add(time.Hour)})
	if v, _ := lk.Value(); !v.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Value() after second success = %v, want 7", v)
	}
}
