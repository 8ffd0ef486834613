package store

import (
	"context"
	"database/sql"
)

// DBTX is what the stores need from a connection: *sql.DB and *sql.Tx both
// satisfy it, so a store bound to a transaction reads the same snapshot as
// its caller.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
