// Package console renders what fancyhash shows on the terminal: classified
// log messages, the progress line and the run summary.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// LevelForVerbosity maps the -v/-q verbosity to a log level.
func LevelForVerbosity(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.ErrorLevel
	case verbosity == 1:
		return logrus.WarnLevel
	case verbosity == 2:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

// NewLogger builds the message sink of a run. An explicit level overrides
// the one derived from verbosity.
func NewLogger(w io.Writer, verbosity int, level string) (*logrus.Logger, error) {
	lvl := LevelForVerbosity(verbosity)
	if level != "" {
		var err error
		if lvl, err = logrus.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return logger, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
