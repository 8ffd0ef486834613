// Package shared holds the request context accessors and response writers
// used by both the api handlers and the middleware chain.
package shared
