// Package logger is a small structured-logging wrapper used throughout the
// coordinator: every package logs through a named "component" tag instead of
// calling fmt.Println/log.Print directly, so the routing core's non-fatal
// failure paths (see SPEC_FULL.md §7) leave a consistent trail.
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Level mirrors slog's levels under the names the rest of the codebase uses.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(INFO))
}

func toSlogLevel(l Level) slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var handler atomic.Value // slog.Handler

func init() {
	// The handler itself always logs at debug; enabled() is the single
	// level gate so SetLevel takes effect without rebuilding the handler.
	handler.Store(slog.Handler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}

// SetLevel changes the minimum level logged from this point on.
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return l >= Level(currentLevel.Load())
}

func log(l Level, component, msg string, fields map[string]any) {
	if !enabled(l) {
		return
	}
	h := handler.Load().(slog.Handler)
	logger := slog.New(h).With("component", component)
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	logger.Log(context.Background(), toSlogLevel(l), msg, args...)
}

// DebugC logs msg at DEBUG tagged with component.
func DebugC(component, msg string) { log(DEBUG, component, msg, nil) }

// InfoC logs msg at INFO tagged with component.
func InfoC(component, msg string) { log(INFO, component, msg, nil) }

// InfoCF logs msg at INFO tagged with component, with structured fields.
func InfoCF(component, msg string, fields map[string]any) { log(INFO, component, msg, fields) }

// WarnCF logs msg at WARN tagged with component, with structured fields.
func WarnCF(component, msg string, fields map[string]any) { log(WARN, component, msg, fields) }

// ErrorCF logs msg at ERROR tagged with component, with structured fields.
func ErrorCF(component, msg string, fields map[string]any) { log(ERROR, component, msg, fields) }
