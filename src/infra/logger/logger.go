// Package logger builds the application's slog.Logger.
//
//	log := logger.New(cfg.Log)
//	dbLog := logger.WithComponent(log, "db")
//
// The package-level Info/Warn/Error/Debug helpers accept a nil logger so
// library code can be handed none.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"ldb/src/infra/config"
)

// New writes to stdout.
func New(cfg config.LogConfig) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter picks the handler from cfg.Format: "plain" (message and
// key=value pairs), "text", or JSON for anything else. Debug level also
// records the source position.
func NewWithWriter(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}

	switch strings.ToLower(cfg.Format) {
	case "plain":
		return slog.New(&plainHandler{level: level, w: w, mu: &sync.Mutex{}})
	case "text":
		return slog.New(slog.NewTextHandler(w, opts))
	default:
		return slog.New(slog.NewJSONHandler(w, opts))
	}
}

// Discard drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// parseLevel falls back to info for unknown names.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// WithComponent tags every record with component. A nil log stays nil.
func WithComponent(log *slog.Logger, component string) *slog.Logger {
	if log == nil {
		return nil
	}
	return log.With("component", component)
}

func logAt(log *slog.Logger, level slog.Level, msg string, args ...any) {
	if log == nil {
		return
	}
	log.Log(context.Background(), level, msg, args...)
}

func Info(log *slog.Logger, msg string, args ...any)  { logAt(log, slog.LevelInfo, msg, args...) }
func Warn(log *slog.Logger, msg string, args ...any)  { logAt(log, slog.LevelWarn, msg, args...) }
func Error(log *slog.Logger, msg string, args ...any) { logAt(log, slog.LevelError, msg, args...) }
func Debug(log *slog.Logger, msg string, args ...any) { logAt(log, slog.LevelDebug, msg, args...) }

// plainHandler writes the message followed by its attributes as key=value.
type plainHandler struct {
	level slog.Level
	w     io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
}

func (h *plainHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.level
}

func (h *plainHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, b.String())
	return err
}

func (h *plainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *plainHandler) WithGroup(name string) slog.Handler {
	_ = name
	return h
}
