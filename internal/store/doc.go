// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. A PersonStore takes parsed OData query
// options directly; translating them into storage-specific queries is the
// implementation's job.
package store
