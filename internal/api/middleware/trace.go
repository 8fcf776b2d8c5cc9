// Package middleware provides the HTTP middleware applied in front of
// every route.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/abutolibrashidov/vocabbot/internal/api/shared"
	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
)

// Trace assigns each request a trace ID and stores a logger carrying it
// in the request context, so everything downstream logs correlatably.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
