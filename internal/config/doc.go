// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml. It provides
// type-safe access to the settings of the HTTP server, the identity service
// client, the token decoders and the database-backed collection endpoints.
package config
