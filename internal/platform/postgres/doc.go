// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
//
// Parsed OData options are translated into parameterized SQL by
// BuildListQuery and BuildCountQuery. Property names are resolved through a
// Resource allow-list and literal values are always bound as arguments, so
// client input never becomes SQL text. The schema ships as goose migrations
// embedded in the binary; see Migrate.
package postgres
