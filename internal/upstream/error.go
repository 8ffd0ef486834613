package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/odata-api/internal/platform/logger"
)

// RequestInfo identifies the downstream call that failed.
type RequestInfo struct {
	// Service is a short name for the called operation, e.g. "decodeAccessToken".
	Service string
	// URL is the path that was requested, without the gateway base.
	URL string
}

// Error is a failed downstream call.
type Error struct {
	// StatusCode is the status to propagate to our own caller.
	StatusCode int
	// Detail is the message extracted from the downstream body.
	Detail  string
	Message string
	Info    RequestInfo
	// Err is the transport error, if the call never produced a response.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error from a downstream response. A zero status means
// the server never answered and is reported as 500.
func NewError(ctx context.Context, status int, body []byte, info RequestInfo) *Error {
	log := logger.FromContext(ctx)

	if status == 0 {
		if info.URL == "" {
			log.Warn("downstream response had no url; it may be the cause of the failure")
		} else {
			log.Warn("downstream server provided no status code, replacing it with 500; the url may be wrong",
				"url", info.URL)
		}
		status = http.StatusInternalServerError
	}

	detail := TranslateBody(ctx, body, status, info.URL)

	// One legacy downstream reports a successful insert that tripped a
	// foreign key check as an error.
	if strings.Contains(detail, "FOREIGN KEY") {
		status = http.StatusCreated
	}

	called := info.URL
	if info.Service != "" {
		called = fmt.Sprintf("%s (specifically %s )", info.Service, info.URL)
	}

	return &Error{
		StatusCode: status,
		Detail:     detail,
		Message:    fmt.Sprintf("Error while calling %s. Full error object: %s", called, quote(detail)),
		Info:       info,
	}
}

// NewTransportError wraps a failure that produced no response at all.
func NewTransportError(ctx context.Context, err error, info RequestInfo) *Error {
	e := NewError(ctx, 0, nil, info)
	e.Err = err
	return e
}

// quote renders s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Sprintf("%q", s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
