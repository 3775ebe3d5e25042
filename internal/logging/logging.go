// Package logging builds the zerolog logger shared by the CLI and the
// registry. Output goes to stderr so command output on stdout stays clean.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/nepeta-labs/nepeta/internal/branding"
	"github.com/rs/zerolog"
)

// EnvLogLevel names the environment variable that overrides the level.
var EnvLogLevel = branding.EnvVar("LOG_LEVEL")

// New returns a console logger writing to w at the given level. An
// unrecognized level falls back to warn.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		lvl = zerolog.WarnLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", branding.CLIName()).Logger()
}

// FromEnv is New with the level taken from the environment when set and
// from fallback otherwise.
func FromEnv(w io.Writer, fallback string) zerolog.Logger {
	level := fallback
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		level = v
	}
	return New(w, level)
}

// ParseLevel maps a level name onto a zerolog level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.WarnLevel, false
	}
}
