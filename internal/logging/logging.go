// Package logging configures the process-wide zerolog logger. Library
// packages log through zerolog's global logger; this package only owns
// initialization, so importing the listener never touches log state.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to emit.
	Level zerolog.Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Pretty enables human-readable console output for terminals.
	Pretty bool
}

// Setup installs the global logger. The HYPRWATCH_LOG environment
// variable, when set, overrides cfg.Level.
func Setup(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if env := os.Getenv("HYPRWATCH_LOG"); env != "" {
		cfg.Level = ParseLevel(env)
	}

	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.Kitchen,
		}
	}

	log.Logger = zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel parses a log level string, case-insensitively. Unrecognized
// values fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
