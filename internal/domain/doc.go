// Package domain contains the entities the API serves, independent of how
// they are stored or queried.
package domain
