// Package logging builds the logrus logger shared by the client and the
// interactive builder.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to w at level.
func New(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:  "15:04:05",
		FullTimestamp:    true,
		DisableSorting:   true,
		ForceColors:      isTerminal(w),
		DisableTimestamp: level < logrus.InfoLevel,
	})
	return logger
}

// LevelFor resolves the effective level. Each -v step raises the level one
// notch above warn; without -v the configured level applies.
func LevelFor(verbosity int, configured string) (logrus.Level, error) {
	switch {
	case verbosity >= 2:
		return logrus.DebugLevel, nil
	case verbosity == 1:
		return logrus.InfoLevel, nil
	}
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return logrus.WarnLevel, nil
	}
	level, err := logrus.ParseLevel(configured)
	if err != nil {
		return logrus.WarnLevel, fmt.Errorf("invalid log_level %q: %w", configured, err)
	}
	return level, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}
