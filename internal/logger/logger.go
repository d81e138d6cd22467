// Package logger provides structured logging for crmlink.
// Components receive a *Logger explicitly; the --verbose flag lowers the
// level to debug so the OAuth and fetch pipeline can be followed on stderr.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger wraps zerolog.Logger so adapters share one logging surface.
type Logger struct {
	zerolog.Logger
}

var (
	mu      sync.RWMutex
	verbose bool
)

// SetVerbose enables or disables verbose logging for loggers built afterwards.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// ParseLevel maps a configured level name onto a zerolog level.
// Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a logger writing to w at the given level.
// format is "console" for human readable output or "json" for one object per line.
func New(level, format string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl := ParseLevel(level)
	if IsVerbose() && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}

	out := w
	if !strings.EqualFold(format, FormatJSON) {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    w != os.Stderr,
		}
	}

	l := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: l}
}

// NewDefault creates an info level console logger on stderr.
func NewDefault() *Logger {
	return New("info", FormatConsole, os.Stderr)
}

// NewSilent creates a logger that discards all output.
func NewSilent() *Logger {
	return &Logger{Logger: zerolog.New(io.Discard)}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	if l == nil {
		return NewSilent()
	}
	return &Logger{Logger: l.With().Str("component", name).Logger()}
}
