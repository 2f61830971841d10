package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel turns a level name into a slog level. "trace" is accepted as
// an alias of debug.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "trace") {
		return slog.LevelDebug, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Setup installs a text logger writing to w as the default slog logger and
// returns it. Records carry the feed name and their source location.
func Setup(w io.Writer, feed, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	})
	logger := slog.New(handler).With("feed", feed)
	slog.SetDefault(logger)

	return logger, nil
}
