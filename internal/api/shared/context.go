package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type for values this package stores on request contexts.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's ID, set by the auth
	// middleware after token validation.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the per-request trace ID used to correlate error
	// responses with log lines.
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID attaches a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID returns the trace ID from the context, or the empty string
// when none was set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}
