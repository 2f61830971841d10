package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"statusfeeds/internal/fetcher"
)

// Single prints {prefix}{value}{postfix} for a single source. A failed fetch
// is logged and nothing is printed for that cycle.
type Single struct {
	source  fetcher.Fetcher
	prefix  string
	postfix string
	out     io.Writer
}

// NewSingle creates a new single source feed
func NewSingle(source fetcher.Fetcher, prefix, postfix string, out io.Writer) *Single {
	return &Single{
		source:  source,
		prefix:  prefix,
		postfix: postfix,
		out:     out,
	}
}

// Cycle fetches the source once and prints the line on success
func (s *Single) Cycle(ctx context.Context) {
	value, err := s.source.Fetch(ctx)
	if err != nil {
		slog.Error("data fetch failure", "key", s.source.Key(), "error", err)
		return
	}

	slog.Debug("data fetch success", "key", s.source.Key(), "value", value.String())

	if _, err := fmt.Fprintf(s.out, "%s%s%s\n", s.prefix, value.String(), s.postfix); err != nil {
		slog.Error("failed to write status line", "error", err)
	}
}
