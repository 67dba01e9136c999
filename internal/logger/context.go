package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	userIDKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// FromContext returns the global logger enriched with request_id and
// user_id when the context carries them.
func FromContext(ctx context.Context) *slog.Logger {
	l := L()
	if ctx == nil {
		return l
	}
	if id := RequestID(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if uid, ok := ctx.Value(userIDKey).(string); ok && uid != "" {
		l = l.With("user_id", uid)
	}
	return l
}
