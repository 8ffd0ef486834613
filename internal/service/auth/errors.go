package auth

import "errors"

// Errors returned by JWTDecoder. The API maps all of them to 401.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	// ErrMissingClientID is a well-formed token that names no client, which
	// the client whitelist could never admit.
	ErrMissingClientID = errors.New("authentication token has no client_id")
)
