package testutil

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"statusfeeds/internal/fetcher"
	"statusfeeds/internal/logging"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context) (decimal.Decimal, error)
	KeyFunc   func() string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context) (decimal.Decimal, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return decimal.Zero, nil
}

// Key implements the Fetcher interface
func (m *MockFetcher) Key() string {
	if m.KeyFunc != nil {
		return m.KeyFunc()
	}
	return "mock:key"
}

// NewMockFetcher creates a simple mock fetcher with predefined values
func NewMockFetcher(key string, value float64, err error) fetcher.Fetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context) (decimal.Decimal, error) {
			return decimal.NewFromFloat(value), err
		},
		KeyFunc: func() string {
			return key
		},
	}
}

// Step is one scripted answer of a SequenceFetcher
type Step struct {
	Value string
	Err   error
}

// OK is a successful step
func OK(value string) Step { return Step{Value: value} }

// Fail is a failing step
func Fail(err error) Step { return Step{Err: err} }

// SequenceFetcher answers with its steps in order, then repeats the last one.
// It counts how often it was called.
type SequenceFetcher struct {
	key   string
	steps []Step

	mu    sync.Mutex
	calls int
}

// NewSequenceFetcher creates a fetcher scripted with steps
func NewSequenceFetcher(key string, steps ...Step) *SequenceFetcher {
	return &SequenceFetcher{key: key, steps: steps}
}

// Fetch implements the Fetcher interface
func (s *SequenceFetcher) Fetch(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	s.calls++
	if len(s.steps) == 0 {
		return decimal.Zero, errors.New("no steps scripted")
	}
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}

	step := s.steps[i]
	if step.Err != nil {
		return decimal.Zero, step.Err
	}
	return decimal.RequireFromString(step.Value), nil
}

// Key implements the Fetcher interface
func (s *SequenceFetcher) Key() string {
	return s.key
}

// Calls returns how many times Fetch ran
func (s *SequenceFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ErrWriteFailed is returned by RecordingWriter
var ErrWriteFailed = errors.New("write failed")

// RecordingWriter records writes. Writes whose index (from zero) is listed
// in Fail are rejected instead. It is safe for concurrent use.
type RecordingWriter struct {
	Fail map[int]bool

	mu     sync.Mutex
	writes int
	lines  []string
}

// Write implements io.Writer
func (w *RecordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.writes
	w.writes++
	if w.Fail[i] {
		return 0, ErrWriteFailed
	}
	w.lines = append(w.lines, string(p))
	return len(p), nil
}

// Lines returns the successful writes
func (w *RecordingWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}

// Writes returns the number of attempted writes
func (w *RecordingWriter) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// LogBuffer collects text log records. It is safe for concurrent use.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Records returns the logged records at level, e.g. "ERROR"
func (b *LogBuffer) Records(level string) []string {
	var records []string
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.Contains(line, " level="+level+" ") {
			records = append(records, line)
		}
	}
	return records
}

// CaptureLogs installs a default logger writing into the returned buffer.
// The previous default logger is restored when the test ends.
func CaptureLogs(t testing.TB) *LogBuffer {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &LogBuffer{}
	if _, err := logging.Setup(buf, "test", "debug"); err != nil {
		t.Fatalf("logging.Setup() returned unexpected error: %v", err)
	}
	return buf
}
