package shared

import (
	"context"

	"github.com/phrazzld/odata-api/internal/idm"
	"github.com/phrazzld/odata-api/internal/odata"
)

// Key type for context values
type ContextKey string

// Context keys for values the middleware chain stores on each request.
const (
	// CorrelationIDKey holds the id that ties together logs and downstream calls
	CorrelationIDKey ContextKey = "correlationID"

	// AccessTokenKey holds the raw bearer token
	AccessTokenKey ContextKey = "accessToken"

	// DecodedTokenKey holds the *idm.AccessToken the token decoded to
	DecodedTokenKey ContextKey = "decodedToken"

	// ODataKey holds the odata.Outcome of parsing the query string
	ODataKey ContextKey = "odata"
)

// WithCorrelationID stores id in ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// GetCorrelationID retrieves the correlation ID from the context.
// If there is none, it returns an empty string.
func GetCorrelationID(ctx context.Context) string {
	id, ok := ctx.Value(CorrelationIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// WithAccessToken stores the raw bearer token in ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, AccessTokenKey, token)
}

// GetAccessToken returns the raw bearer token, if one was found.
func GetAccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(AccessTokenKey).(string)
	return token, ok && token != ""
}

// WithDecodedToken stores the decoded access token in ctx.
func WithDecodedToken(ctx context.Context, tok *idm.AccessToken) context.Context {
	return context.WithValue(ctx, DecodedTokenKey, tok)
}

// GetDecodedToken returns the decoded access token of an authenticated request.
func GetDecodedToken(ctx context.Context) (*idm.AccessToken, bool) {
	tok, ok := ctx.Value(DecodedTokenKey).(*idm.AccessToken)
	return tok, ok && tok != nil
}

// WithOData stores the parse outcome of the request's query string.
func WithOData(ctx context.Context, outcome odata.Outcome) context.Context {
	return context.WithValue(ctx, ODataKey, outcome)
}

// GetOData returns the parse outcome stored by the ParseOData middleware.
func GetOData(ctx context.Context) (odata.Outcome, bool) {
	outcome, ok := ctx.Value(ODataKey).(odata.Outcome)
	return outcome, ok
}
