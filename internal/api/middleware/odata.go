package middleware

import (
	"net/http"

	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/odata"
	"github.com/phrazzld/odata-api/internal/platform/logger"
)

// ParseOData decodes and parses the request's query options and stores the
// odata.Outcome in the request context. A failed parse never stops the
// request; handlers decide what to do with it. Requests without a query
// string get no Outcome.
func ParseOData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.RawQuery
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		outcome := odata.DecodeAndParse(raw)
		if !outcome.OK() {
			logger.FromContext(r.Context()).Debug("query options rejected",
				"error", outcome.Err.Error())
		}

		next.ServeHTTP(w, r.WithContext(shared.WithOData(r.Context(), outcome)))
	})
}
