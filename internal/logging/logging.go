// Package logging configures structured JSON logging and carries a
// request-scoped logger through context.Context.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// locationFormatter renders entry timestamps in a fixed time zone.
type locationFormatter struct {
	loc   *time.Location
	inner logrus.Formatter
}

func (f *locationFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.In(f.loc)
	return f.inner.Format(e)
}

// NewFormatter returns the JSON formatter used for every log line:
// one object per line with "ts", "level" and "msg" keys.
func NewFormatter(loc *time.Location) logrus.Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &locationFormatter{
		loc: loc,
		inner: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
			},
		},
	}
}

// New builds a logger writing JSON lines to w.
func New(w io.Writer, level string, loc *time.Location) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(NewFormatter(loc))
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Setup applies the JSON format and level to the logrus standard logger,
// which FromContext falls back to.
func Setup(w io.Writer, level string, loc *time.Location) *logrus.Logger {
	std := logrus.StandardLogger()
	configured := New(w, level, loc)
	std.SetOutput(configured.Out)
	std.SetFormatter(configured.Formatter)
	std.SetLevel(configured.Level)
	return std
}

// LoadLocation resolves a time zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WithContext returns a copy of ctx carrying entry.
func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the logger stored by WithContext or an entry on the
// standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && e != nil {
			return e
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
