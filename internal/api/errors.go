package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/odata-api/internal/service"
	"github.com/phrazzld/odata-api/internal/service/auth"
	"github.com/phrazzld/odata-api/internal/store"
	"github.com/phrazzld/odata-api/internal/upstream"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var upstreamErr *upstream.Error

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrPersonNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case store.IsQueryError(err),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrEmptyImport):
		return http.StatusBadRequest

	// Identity gateway errors: client mistakes pass through, the rest is ours
	case errors.As(err, &upstreamErr):
		if upstreamErr.StatusCode >= 400 && upstreamErr.StatusCode < 500 {
			return upstreamErr.StatusCode
		}
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var upstreamErr *upstream.Error

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrPersonNotFound),
		errors.Is(err, store.ErrPersonNotFound):
		return "Person not found"

	case store.IsDuplicateError(err):
		return "Person already exists"

	// Query errors name only what the client sent
	case store.IsQueryError(err):
		return queryErrorMessage(err)

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrEmptyImport):
		return "No people to import"

	case errors.As(err, &upstreamErr):
		if upstreamErr.StatusCode >= 400 && upstreamErr.StatusCode < 500 {
			return upstreamErr.Detail
		}
		return "Identity gateway unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// queryErrorMessage strips service wrapping from a query error, leaving e.g.
// `unknown property: "age"`.
func queryErrorMessage(err error) string {
	for {
		var svcErr *service.PersonServiceError
		if !errors.As(err, &svcErr) || svcErr.Err == nil {
			return err.Error()
		}
		err = svcErr.Err
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'TokenRequest.ClientID' Error:Field validation for 'ClientID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof", "eq":
		return "invalid value"
	default:
		return "validation failed"
	}
}
