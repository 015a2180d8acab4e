// Package logging provides the structured logger driver instances use for
// per-pass progress reporting. There is deliberately no package-level
// global logger: every encoder owns its own zerolog.Logger value, threaded in
// explicitly through driver.Config.Logger, the way a re-implementation
// should scope what the original left as a global debug flag.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Nop returns a logger that discards everything, the default when a caller
// doesn't configure one.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// New returns a human-readable console logger writing to w at the given
// level, suitable for CLI and test use.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}
