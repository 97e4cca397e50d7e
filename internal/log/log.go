// Package log provides structured logging for audial.
// It wraps slog so the engine and its subsystems share one logger.
package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	mu     sync.Mutex
)

// Init initializes the package logger with the specified level.
// Valid levels: "debug", "info", "warn", "error".
// Calling Init again replaces the logger, which is mainly useful in tests.
func Init(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	mu.Lock()
	defer mu.Unlock()
	logger = newTextLogger(lvl)
}

// Use replaces the package logger with one supplied by the host program,
// so library output ends up wherever the game routes its own logs.
func Use(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the package logger instance.
func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newTextLogger(slog.LevelInfo)
	}
	return logger
}

func newTextLogger(lvl slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: lvl,
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
