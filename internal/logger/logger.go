package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	baseMu sync.RWMutex
	base   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Configure replaces the process-wide handler. Loggers created before the
// call pick it up on their next write.
func Configure(w io.Writer, level string) {
	baseMu.Lock()
	defer baseMu.Unlock()
	base = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(base)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Logger struct {
	pkg      string
	file     string
	function string
}

func New(pkg string) Logger {
	return Logger{pkg: pkg}
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) with() *slog.Logger {
	baseMu.RLock()
	logger := base
	baseMu.RUnlock()

	attrs := make([]any, 0, 6)
	attrs = append(attrs, "package", l.pkg)
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	return logger.With(attrs...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.with().Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.with().Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.with().Warn(msg, args...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.with().Error(msg, append([]any{"error", err}, args...)...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	l.with().Error(msg, args...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}
