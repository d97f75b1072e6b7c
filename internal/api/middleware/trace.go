package middleware

import (
	"log/slog"
	"net/http"

	"github.com/davrill/taskhub-api/internal/api/shared"
	"github.com/davrill/taskhub-api/internal/platform/logger"
)

// TraceMiddleware assigns every request a trace ID and stores a
// trace-scoped logger on the context, so handlers and error responses log
// with the same ID the client receives. Apply it early in the chain.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := logger.FromContext(ctx).With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
