package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	originKey    contextKey = "origin"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOrigin annotates context with the surface that triggered the work
// (cli, api, ticker).
func WithOrigin(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey, origin)
}

// OriginFromContext returns the triggering surface if present.
func OriginFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(originKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
