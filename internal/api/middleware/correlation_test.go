package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/odata-api/internal/api/middleware"
	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const correlationHeader = "X-FL-Hop-CorrelationId"

func TestCorrelationID(t *testing.T) {
	t.Parallel()

	t.Run("uses the caller's id", func(t *testing.T) {
		t.Parallel()
		ctx, buf := logger.NewLogCaptureContext(t)

		var seen string
		h := middleware.CorrelationID(correlationHeader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = shared.GetCorrelationID(r.Context())
			logger.FromContext(r.Context()).Info("inside handler")
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/people", nil).WithContext(ctx)
		req.Header.Set("x-fl-hop-correlationid", "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(correlationHeader))

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		for _, e := range entries {
			assert.Equal(t, "abc-123", e["correlation_id"])
		}
	})

	t.Run("generates an id when missing", func(t *testing.T) {
		t.Parallel()

		var seen string
		h := middleware.CorrelationID(correlationHeader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = shared.GetCorrelationID(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(correlationHeader))
	})

	t.Run("ids differ per request", func(t *testing.T) {
		t.Parallel()

		h := middleware.CorrelationID(correlationHeader)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		first := httptest.NewRecorder()
		second := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEqual(t, first.Header().Get(correlationHeader), second.Header().Get(correlationHeader))
	})
}
