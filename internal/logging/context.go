package logging

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey int

const (
	runIDKey contextKey = iota
	loggerKey
)

// WithRunIDCtx returns a new context with the run ID set.
func WithRunIDCtx(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
func RunIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithLoggerCtx returns a new context with the logger attached.
func WithLoggerCtx(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromCtx returns a logger from the context. If none is found, returns
// the global logger configured with the context's run ID.
func FromCtx(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}

	l := Global()
	if id := RunIDFromCtx(ctx); id != "" {
		l = l.WithRunID(id)
	}
	return l
}
