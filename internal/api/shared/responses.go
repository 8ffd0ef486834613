package shared

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/redact"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error         string `json:"error"`
	Code          int    `json:"-"` // Not serialized to JSON, used for logging
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level. Use for important operational issues like
// repeated auth failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// callbackPattern is a dotted JavaScript identifier path, e.g. app.handlers.done.
var callbackPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// ValidCallback reports whether name can be used as a JSONP callback.
func ValidCallback(name string) bool {
	return len(name) <= 128 && callbackPattern.MatchString(name)
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithJSONP wraps the JSON encoding of data in a call to callback.
// callback must satisfy ValidCallback.
func RespondWithJSONP(w http.ResponseWriter, r *http.Request, status int, callback string, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to encode response", err)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := fmt.Fprintf(w, "/**/ typeof %[1]s === 'function' && %[1]s(%[2]s);", callback, body); err != nil {
		logger.FromContext(r.Context()).Error("failed to write JSONP response", "error", err)
	}
}

// RespondWithXML writes data as an XML document.
func RespondWithXML(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	body, err := xml.Marshal(data)
	if err != nil {
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to encode response", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	if _, err := w.Write(append([]byte(xml.Header), body...)); err != nil {
		logger.FromContext(r.Context()).Error("failed to write XML response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code and message.
// It also sets the correlation ID from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	correlationID := GetCorrelationID(r.Context())

	logger.FromContext(r.Context()).Debug("sending error response",
		"status_code", status,
		"message", message,
		"correlation_id", correlationID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:         message,
		Code:          status,
		CorrelationID: correlationID,
	})
}

// RespondWithErrorAndLog writes a JSON error response and also logs the detailed error.
// This is useful for handling errors where you want to log the full error but only
// expose a sanitized version to the client.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 4xx errors: By default logged at DEBUG level, WARN with WithElevatedLogLevel
// - Other status codes: Logged at DEBUG level
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	correlationID := GetCorrelationID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("correlation_id", correlationID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	// Include the redacted error details (but only in the logs)
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if responseOpts.elevateLogLevel && status >= http.StatusBadRequest {
		logLevel = slog.LevelWarn
	}

	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:         userMessage,
		Code:          status,
		CorrelationID: correlationID,
	})
}
