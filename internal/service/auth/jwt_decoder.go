package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/odata-api/internal/idm"
	"github.com/phrazzld/odata-api/internal/platform/logger"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// serviceClaims mirrors the fields of idm.AccessToken that service tokens carry.
type serviceClaims struct {
	ClientID       string         `json:"client_id"`
	FLID           string         `json:"flid,omitempty"`
	Role           idm.StringList `json:"role,omitempty"`
	OrganizationID idm.StringList `json:"organizationid,omitempty"`
	jwt.RegisteredClaims
}

// JWTDecoder signs and decodes service tokens with HMAC-SHA256.
type JWTDecoder struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration    // Allowed time difference for validation to handle clock drift
}

// NewJWTDecoder creates a decoder for tokens signed with secret.
func NewJWTDecoder(secret string, tokenLifetime time.Duration) (*JWTDecoder, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}

	return &JWTDecoder{
		signingKey:    []byte(secret),
		tokenLifetime: tokenLifetime,
		timeFunc:      time.Now,
		clockSkew:     2 * time.Minute,
	}, nil
}

// IssueToken signs a service token for tok's subject and client.
func (d *JWTDecoder) IssueToken(ctx context.Context, tok idm.AccessToken) (string, error) {
	if tok.ClientID == "" {
		return "", ErrMissingClientID
	}

	now := d.timeFunc()
	claims := serviceClaims{
		ClientID:       tok.ClientID,
		FLID:           tok.FLID,
		Role:           tok.Role,
		OrganizationID: tok.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tok.Sub.First(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.tokenLifetime)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign service token",
			"error", err,
			"client_id", tok.ClientID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign service token with HMAC-SHA256: %w", err)
	}

	return signed, nil
}

// DecodeAccessToken validates token and returns its claims as an
// idm.AccessToken. correlationID is only logged.
func (d *JWTDecoder) DecodeAccessToken(
	ctx context.Context,
	token, correlationID string,
) (*idm.AccessToken, error) {
	log := logger.FromContext(ctx)
	now := d.timeFunc()

	parsed, err := jwt.ParseWithClaims(
		token,
		&serviceClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return d.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(d.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("service token expired", "error", err, "correlation_id", correlationID)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("service token not yet valid", "error", err, "correlation_id", correlationID)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("service token rejected",
				"error", err,
				"error_type", fmt.Sprintf("%T", err),
				"correlation_id", correlationID)
			return nil, ErrInvalidToken
		}
	}

	claims, ok := parsed.Claims.(*serviceClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ClientID == "" {
		return nil, ErrMissingClientID
	}

	decoded := &idm.AccessToken{
		AccessToken:    token,
		FLID:           claims.FLID,
		ClientID:       claims.ClientID,
		Role:           claims.Role,
		OrganizationID: claims.OrganizationID,
	}
	if claims.Subject != "" {
		decoded.Sub = idm.StringList{claims.Subject}
	}

	log.Debug("service token decoded",
		"client_id", decoded.ClientID,
		"token_id", claims.ID,
		"correlation_id", correlationID)
	return decoded, nil
}
