// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// TimestampFormat is used by every JSON log line.
const TimestampFormat = "2006-01-02 15:04:05"

// New returns a JSON logrus logger writing to w.
//
// level is parsed with logrus.ParseLevel; when it is empty the LOG_LEVEL
// environment variable is tried, then info. verbose forces debug.
func New(w io.Writer, level string, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: TimestampFormat,
	})
	l.SetLevel(ResolveLevel(level, verbose))
	return l
}

// ResolveLevel applies the level precedence used by New.
func ResolveLevel(level string, verbose bool) logrus.Level {
	if verbose {
		return logrus.DebugLevel
	}
	if strings.TrimSpace(level) == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// Discard returns a logger that drops everything. Handy for tests and
// library defaults.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
