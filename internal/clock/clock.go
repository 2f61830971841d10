package clock

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// DefaultFormat renders e.g. "Mon Jan 02 15:04:05".
const DefaultFormat = "%a %b %d %H:%M:%S"

// directive is a multi-byte strftime directive. The compiler only looks up
// the single byte after '%', so each one is rewritten to a private verb.
type directive struct {
	seq      string
	verb     byte
	appender strftime.Appender
}

var directives = []directive{
	{"%-d", 0x01, strftime.StdlibFormat("2")},
	{"%-m", 0x02, strftime.StdlibFormat("1")},
	{"%-H", 0x03, unpadded(func(t time.Time) int { return t.Hour() })},
	{"%-I", 0x04, strftime.StdlibFormat("3")},
	{"%-M", 0x05, strftime.StdlibFormat("4")},
	{"%-S", 0x06, strftime.StdlibFormat("5")},
	{"%-j", 0x07, unpadded(func(t time.Time) int { return t.YearDay() })},
	{"%.3f", 0x08, strftime.StdlibFormat(".000")},
	{"%.6f", 0x0e, strftime.StdlibFormat(".000000")},
	{"%.9f", 0x0f, strftime.StdlibFormat(".000000000")},
	{"%:z", 0x10, strftime.StdlibFormat("-07:00")},
}

func unpadded(field func(time.Time) int) strftime.Appender {
	return strftime.AppendFunc(func(b []byte, t time.Time) []byte {
		return strconv.AppendInt(b, int64(field(t)), 10)
	})
}

// specifications extends the default set with %P, %f and the rewritten
// directives. %s is added through WithUnixSeconds.
func specifications() (strftime.SpecificationSet, error) {
	set := strftime.NewSpecificationSet()

	extra := map[byte]strftime.Appender{
		'P': strftime.AppendFunc(func(b []byte, t time.Time) []byte {
			if t.Hour() < 12 {
				return append(b, "am"...)
			}
			return append(b, "pm"...)
		}),
		'f': strftime.AppendFunc(func(b []byte, t time.Time) []byte {
			return fmt.Appendf(b, "%09d", t.Nanosecond())
		}),
	}
	for _, d := range directives {
		extra[d.verb] = d.appender
	}

	for verb, a := range extra {
		if err := set.Set(verb, a); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// rewrite replaces multi-byte directives by their private verbs. "%%" is
// copied as is so that "%%-d" stays a literal.
func rewrite(format string) string {
	var b strings.Builder
	b.Grow(len(format))

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			b.WriteByte(format[i])
			continue
		}
		if strings.HasPrefix(format[i:], "%%") {
			b.WriteString("%%")
			i++
			continue
		}

		matched := false
		for _, d := range directives {
			if strings.HasPrefix(format[i:], d.seq) {
				b.WriteByte('%')
				b.WriteByte(d.verb)
				i += len(d.seq) - 1
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte('%')
		}
	}
	return b.String()
}

// Feed prints the local time once per cycle
type Feed struct {
	pattern *strftime.Strftime
	now     func() time.Time
	out     io.Writer
}

// New compiles the strftime format and creates a clock feed writing to out
func New(format string, out io.Writer) (*Feed, error) {
	set, err := specifications()
	if err != nil {
		return nil, fmt.Errorf("failed to build time specifications: %w", err)
	}

	pattern, err := strftime.New(rewrite(format),
		strftime.WithSpecificationSet(set),
		strftime.WithUnixSeconds('s'))
	if err != nil {
		return nil, fmt.Errorf("invalid time format %q: %w", format, err)
	}

	return &Feed{
		pattern: pattern,
		now:     time.Now,
		out:     out,
	}, nil
}

// Cycle prints the current time. A failed write is logged and otherwise ignored.
func (f *Feed) Cycle(_ context.Context) {
	if _, err := fmt.Fprintln(f.out, f.pattern.FormatString(f.now())); err != nil {
		slog.Error("failed to write to stdout", "error", err)
	}
}
