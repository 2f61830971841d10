package fetcher

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result represents the outcome of a fetch operation.
type Result struct {
	// Key is the hierarchical key of the fetcher that produced the result
	Key string

	// Value is the fetched sample (percentage, balance, price, ...)
	Value decimal.Decimal

	// Error contains any error that occurred during the fetch operation.
	// If Error is not nil, Value should be considered invalid.
	Error error

	// At is when the fetch completed
	At time.Time
}

// LastKnown holds the most recent successful value of one source. The zero
// value is "unknown". A failed result never changes it.
type LastKnown struct {
	value     decimal.Decimal
	updatedAt time.Time
	known     bool
}

// Observe records r if it is a success and reports whether it did.
func (l *LastKnown) Observe(r Result) bool {
	if r.Error != nil {
		return false
	}
	l.value = r.Value
	l.updatedAt = r.At
	l.known = true
	return true
}

// Value returns the last successful value and whether there is one.
func (l LastKnown) Value() (decimal.Decimal, bool) {
	return l.value, l.known
}

// UpdatedAt returns when the value was last observed.
func (l LastKnown) UpdatedAt() time.Time {
	return l.updatedAt
}
