// Package middleware provides the chi-compatible HTTP middleware that runs in
// front of every API handler: correlation ids, response timing, bearer token
// extraction, token authentication and query option parsing.
package middleware
