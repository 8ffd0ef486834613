package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/platform/logger"
)

// CorrelationID reads the correlation id from header, generating one when the
// caller sent none. The id is stored in the request context, echoed on the
// response, and attached to the request logger.
//
// This middleware should be applied early in the middleware chain to ensure
// that all subsequent handlers have access to the correlation id.
func CorrelationID(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := shared.WithCorrelationID(r.Context(), id)
			log := logger.FromContext(ctx).With(slog.String("correlation_id", id))
			ctx = logger.WithLogger(ctx, log)

			w.Header().Set(header, id)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
