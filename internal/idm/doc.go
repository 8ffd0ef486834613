// Package idm is a client for the identity management gateway that issues and
// validates access tokens.
package idm
