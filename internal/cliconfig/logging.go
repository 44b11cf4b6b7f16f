package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger returns the console logger used by the CLI at the given level.
// Unknown levels fall back to info.
func Logger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
