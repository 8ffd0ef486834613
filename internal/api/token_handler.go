package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/odata-api/internal/api/shared"
	"github.com/phrazzld/odata-api/internal/idm"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/redact"
)

// TokenIssuer exchanges client credentials for an application token.
// *idm.Client implements it.
type TokenIssuer interface {
	ClientCredentialsToken(
		ctx context.Context,
		creds idm.ClientCredentialsRequest,
		correlationID string,
	) (*idm.AppToken, error)
}

// TokenHandler handles the client credentials endpoint.
type TokenHandler struct {
	issuer    TokenIssuer
	validator *validator.Validate
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(issuer TokenIssuer) *TokenHandler {
	return &TokenHandler{
		issuer:    issuer,
		validator: validator.New(),
	}
}

// Token handles POST /token requests.
func (h *TokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	token, err := h.issuer.ClientCredentialsToken(r.Context(), idm.ClientCredentialsRequest{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Scope:        req.Scope,
		GrantType:    idm.GrantClientCredentials,
	}, shared.GetCorrelationID(r.Context()))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
			shared.WithElevatedLogLevel())
		return
	}

	logger.FromContext(r.Context()).Debug("issued client credentials token",
		"client_id", req.ClientID,
		"access_token", redact.Token(token.AccessToken))
	shared.RespondWithJSON(w, r, http.StatusOK, token)
}
