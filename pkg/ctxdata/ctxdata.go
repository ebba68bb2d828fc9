// Package ctxdata carries request-scoped values: the trace id set by the
// logging middleware and the caller identity set by the auth middleware.
package ctxdata

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	traceIDKey ctxKey = iota
	userIDKey
	sessionTokenKey
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func GetTraceID(ctx context.Context) (string, bool) {
	return nonEmpty(ctx, traceIDKey)
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID treats uuid.Nil as absent.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// WithSessionToken keeps the raw bearer token so logout can revoke it.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey, token)
}

func GetSessionToken(ctx context.Context) (string, bool) {
	return nonEmpty(ctx, sessionTokenKey)
}

func nonEmpty(ctx context.Context, key ctxKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}
