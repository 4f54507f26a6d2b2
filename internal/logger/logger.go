// Package logger is the process-wide structured logger. It wraps log/slog
// with a coloured text handler for terminals and a JSON handler for
// machines. Logs go to stderr by default so command output on stdout stays
// clean.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Config holds logger configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

var (
	level = new(slog.LevelVar)

	mu       sync.RWMutex
	format   = "text"
	output   io.Writer = os.Stderr
	useColor bool
	closer   io.Closer
	slogger  *slog.Logger
)

func init() {
	useColor = isTerminal(os.Stderr.Fd())
	rebuild()
}

// rebuild swaps the handler. Callers must not hold mu.
func rebuild() {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(output, opts)
	} else {
		h = NewColorTextHandler(output, opts, useColor)
	}
	slogger = slog.New(h)
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Init applies cfg. Empty fields leave the current setting alone.
func Init(cfg Config) error {
	if cfg.Output != "" {
		if err := setOutput(cfg.Output); err != nil {
			return err
		}
	}
	if cfg.Level != "" {
		lvl, err := ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		level.Set(lvl)
	}
	if cfg.Format != "" {
		SetFormat(cfg.Format)
	}
	return nil
}

func setOutput(dest string) error {
	var (
		w     io.Writer
		c     io.Closer
		color bool
	)
	switch strings.ToLower(dest) {
	case "stdout":
		w, color = os.Stdout, isTerminal(os.Stdout.Fd())
	case "stderr":
		w, color = os.Stderr, isTerminal(os.Stderr.Fd())
	default:
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %q: %w", dest, err)
		}
		w, c = f, f
	}

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
	}
	output, closer, useColor = w, c, color
	mu.Unlock()

	rebuild()
	return nil
}

// InitWithWriter directs output to w. Used by tests.
func InitWithWriter(w io.Writer, lvl, fmtName string, enableColor bool) {
	mu.Lock()
	output, closer, useColor = w, nil, enableColor
	mu.Unlock()

	if lvl != "" {
		SetLevel(lvl)
	}
	if fmtName != "" {
		SetFormat(fmtName)
	}
	rebuild()
}

// SetLevel sets the minimum level. Unknown names are ignored.
func SetLevel(name string) {
	if lvl, err := ParseLevel(name); err == nil {
		level.Set(lvl)
	}
}

// Level returns the current minimum level.
func Level() slog.Level {
	return level.Level()
}

// SetFormat selects "text" or "json". Anything else is ignored.
func SetFormat(name string) {
	name = strings.ToLower(name)
	if name != "text" && name != "json" {
		return
	}
	mu.Lock()
	format = name
	mu.Unlock()
	rebuild()
}

// Enabled reports whether records at lvl are emitted.
func Enabled(lvl slog.Level) bool {
	return lvl >= level.Level()
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at debug level. Usage: Debug("msg", "key", value, ...)
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { get().Error(msg, args...) }

// DebugCtx logs at debug level, prefixed with the LogContext fields in ctx.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelDebug, msg, args)
}

// InfoCtx logs at info level with LogContext fields.
func InfoCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelInfo, msg, args)
}

// WarnCtx logs at warn level with LogContext fields.
func WarnCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelWarn, msg, args)
}

// ErrorCtx logs at error level with LogContext fields.
func ErrorCtx(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelError, msg, args)
}

func logCtx(ctx context.Context, lvl slog.Level, msg string, args []any) {
	if !Enabled(lvl) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	get().Log(ctx, lvl, msg, FromContext(ctx).appendFields(args)...)
}

// With returns a logger with pre-bound attributes.
func With(args ...any) *slog.Logger {
	return get().With(args...)
}

// Duration returns the milliseconds elapsed since start.
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
