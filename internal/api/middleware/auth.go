package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/idm"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/redact"
)

// Messages of the 401 and 400 responses the auth middleware sends.
const (
	MsgEmptyAuthorizationHeader = "Could not find an Authorization header value"
	MsgMalformedBearerToken     = "Authorization bearer token not provided or in incorrect format"
	MsgMissingAuthorization     = "Could not find an Authorization header"
	MsgNoToken                  = "No token found!"
	MsgUnauthorized             = "Unauthorized!"
)

var (
	bearerPattern   = regexp.MustCompile(`[Bb]earer (\S*)`)
	leadingNonSpace = regexp.MustCompile(`^\S*`)
)

// TokenDecoder turns an access token into its claims. Both the identity
// gateway client and the local JWT decoder satisfy it.
type TokenDecoder interface {
	DecodeAccessToken(ctx context.Context, token, correlationID string) (*idm.AccessToken, error)
}

// AuthMiddleware extracts and authenticates bearer tokens.
type AuthMiddleware struct {
	decoder       TokenDecoder
	whitelist     map[string]struct{}
	tokenQueryKey string
}

// NewAuthMiddleware creates a new AuthMiddleware. Only tokens issued to a
// client in clientWhitelist pass Authenticate. tokenQueryKey names the query
// parameter that may carry the token when there is no Authorization header.
func NewAuthMiddleware(decoder TokenDecoder, clientWhitelist []string, tokenQueryKey string) *AuthMiddleware {
	whitelist := make(map[string]struct{}, len(clientWhitelist))
	for _, id := range clientWhitelist {
		whitelist[id] = struct{}{}
	}
	return &AuthMiddleware{
		decoder:       decoder,
		whitelist:     whitelist,
		tokenQueryKey: tokenQueryKey,
	}
}

// RequireBearerToken finds the access token in the Authorization header or,
// failing that, in the token query parameter, and stores it in the request
// context. OPTIONS requests pass through untouched.
func (m *AuthMiddleware) RequireBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, msg := m.extractToken(r)
		if msg != "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithAccessToken(r.Context(), token)))
	})
}

// extractToken returns the token, or the message to reject the request with.
func (m *AuthMiddleware) extractToken(r *http.Request) (string, string) {
	if values, ok := r.Header["Authorization"]; ok {
		header := strings.Join(values, ", ")
		if header == "" {
			return "", MsgEmptyAuthorizationHeader
		}
		match := bearerPattern.FindStringSubmatch(header)
		if match == nil || match[1] == "" {
			return "", MsgMalformedBearerToken
		}
		return match[1], ""
	}

	if value, ok := m.queryToken(r); ok {
		if value == "" {
			return "", "Could not find a query value for " + m.tokenQueryKey
		}
		token := leadingNonSpace.FindString(value)
		if token == "" {
			return "", MsgMalformedBearerToken
		}
		return token, ""
	}

	return "", MsgMissingAuthorization
}

// queryToken looks the token parameter up case-insensitively. A parameter
// given more than once is ignored.
func (m *AuthMiddleware) queryToken(r *http.Request) (string, bool) {
	var (
		value string
		found bool
	)
	for key, values := range r.URL.Query() {
		if !strings.EqualFold(key, m.tokenQueryKey) || len(values) != 1 {
			continue
		}
		value, found = values[0], true
	}
	return value, found
}

// Authenticate decodes the token stored by RequireBearerToken and checks that
// it was issued to a whitelisted client. The decoded token is stored in the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := shared.GetAccessToken(ctx)
		if !ok {
			shared.RespondWithError(w, r, http.StatusBadRequest, MsgNoToken)
			return
		}

		decoded, err := m.decoder.DecodeAccessToken(ctx, token, shared.GetCorrelationID(ctx))
		if err != nil {
			logger.FromContext(ctx).Error("failed to decode access token",
				"error", redact.Error(err),
				"token", redact.Token(token))
			shared.RespondWithError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		if _, ok := m.whitelist[decoded.ClientID]; !ok {
			logger.FromContext(ctx).Error("access token issued to a client outside the whitelist",
				"client_id", decoded.ClientID,
				"token", redact.Token(token))
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithDecodedToken(ctx, decoded)))
	})
}

// GetDecodedToken extracts the decoded token from the request context.
// Returns the token and a boolean indicating if it was found.
func GetDecodedToken(r *http.Request) (*idm.AccessToken, bool) {
	return shared.GetDecodedToken(r.Context())
}
