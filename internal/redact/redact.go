// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. Access tokens travel in
// headers, query strings and downstream error bodies, so anything that may echo
// them passes through here first.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// Rules run in order; earlier rules win on overlapping input.
var rules = []rule{
	// Database connection strings keep scheme and host, lose the userinfo.
	{
		regexp.MustCompile(`(?i)\b(postgres|postgresql|mysql|mongodb)://[^@\s/]+@`),
		"$1://" + RedactedCredentialPlaceholder + "@",
	},
	// Authorization header values.
	{
		regexp.MustCompile(`(?i)\b(bearer|basic)\s+[A-Za-z0-9_\-.~+/=]+`),
		"$1 " + RedactedTokenPlaceholder,
	},
	// JWT token pattern - three base64url segments, the first two JSON objects.
	{
		regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]*`),
		RedactedJWTPlaceholder,
	},
	// Query-string and form fields carrying secrets.
	{
		regexp.MustCompile(`(?i)\b(access_token|token|client_secret|password|secret)=[^&\s"']+`),
		"$1=" + RedactionPlaceholder,
	},
	// JSON fields carrying secrets.
	{
		regexp.MustCompile(`(?i)"(access_token|token|client_secret|password|secret)"\s*:\s*"[^"]*"`),
		`"$1":"` + RedactionPlaceholder + `"`,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Token returns a loggable fingerprint of an access token: its first four
// characters followed by the placeholder. Short tokens are replaced entirely.
func Token(token string) string {
	if token == "" {
		return ""
	}
	if len(token) < 12 {
		return RedactedTokenPlaceholder
	}
	return token[:4] + "..." + RedactedTokenPlaceholder
}
