// Package logger sets up the zerolog logger used by the command.
package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. Quiet wins over verbose.
func New(w io.Writer, verbose, quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.Disabled
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
