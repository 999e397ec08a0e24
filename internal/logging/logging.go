// Package logging configures the process-wide slog logger and provides
// component-scoped helpers. Library packages never log on their own;
// they accept a *slog.Logger or stay silent.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	mu      sync.RWMutex
	current = slog.New(newHandler(os.Stderr, levelFromEnv()))
)

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ParseLevel maps debug/info/warn/error (case-insensitive) to a level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// Setup replaces the process logger with a tint handler writing to w and
// installs it as the slog default.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	l := slog.New(newHandler(w, level))
	mu.Lock()
	current = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

// Default returns the process logger.
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Logger returns the process logger tagged with a component attribute.
func Logger(component string) *slog.Logger {
	return Default().With("component", component)
}

func InfoWithComponent(component, msg string, args ...any) {
	Logger(component).Info(msg, args...)
}

func WarnWithComponent(component, msg string, args ...any) {
	Logger(component).Warn(msg, args...)
}

func ErrorWithComponent(component, msg string, args ...any) {
	Logger(component).Error(msg, args...)
}

func DebugWithComponent(component, msg string, args ...any) {
	Logger(component).Debug(msg, args...)
}
