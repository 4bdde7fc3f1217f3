// Package requestcontext carries request-scoped values (caller, client,
// request ID, request time) from middleware to services without net/http.
package requestcontext

import (
	"context"
	"time"

	id "prooflayer/pkg/domain"
)

type key int

const (
	keyUserID key = iota
	keyClientIP
	keyUserAgent
	keyRequestID
	keyRequestTime
)

func value[T any](ctx context.Context, k key) T {
	v, _ := ctx.Value(k).(T)
	return v
}

// UserID is the authenticated dashboard user, or the nil ID on public routes.
func UserID(ctx context.Context) id.UserID {
	return value[id.UserID](ctx, keyUserID)
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

// ClientIP is the caller address as resolved by the metadata middleware.
func ClientIP(ctx context.Context) string {
	return value[string](ctx, keyClientIP)
}

func UserAgent(ctx context.Context) string {
	return value[string](ctx, keyUserAgent)
}

func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, keyClientIP, clientIP)
	return context.WithValue(ctx, keyUserAgent, userAgent)
}

func RequestID(ctx context.Context) string {
	return value[string](ctx, keyRequestID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// Now is the time the request entered the server. Outside a request (jobs,
// CLI) it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyRequestTime, t)
}
