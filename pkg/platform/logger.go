package platform

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Services log JSON to stdout;
// CLIs pass console=true for human-readable output on stderr.
func NewLogger(level string, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if console {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(lvl).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).
		Level(lvl).
		With().Timestamp().Logger()
}
