// Package logging builds the process-wide slog logger. Records are rendered
// by charmbracelet/log on stderr; stdout is reserved for results.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Config controls logger construction.
type Config struct {
	// Debug lowers the level from warn to debug.
	Debug bool

	// NoColor forces plain output.
	NoColor bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a slog logger backed by a charmbracelet/log handler.
func New(cfg Config) *slog.Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	h := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "hrekt",
	})
	if cfg.NoColor {
		h.SetColorProfile(termenv.Ascii)
	}
	return slog.New(h)
}

// Setup builds the logger and installs it as slog's default.
func Setup(cfg Config) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
