package service

import (
	"database/sql"

	"github.com/phrazzld/odata-api/internal/store"
)

// PersonRepositoryAdapter adapts a store.PersonStore to PersonRepository by
// pairing it with the connection its transactions are started on.
type PersonRepositoryAdapter struct {
	store.PersonStore
	db *sql.DB
}

// NewPersonRepositoryAdapter creates a new adapter that implements
// PersonRepository by delegating to a store.PersonStore implementation.
func NewPersonRepositoryAdapter(personStore store.PersonStore, db *sql.DB) *PersonRepositoryAdapter {
	return &PersonRepositoryAdapter{
		PersonStore: personStore,
		db:          db,
	}
}

// WithTx returns an adapter whose store runs inside tx.
func (a *PersonRepositoryAdapter) WithTx(tx *sql.Tx) PersonRepository {
	return &PersonRepositoryAdapter{
		PersonStore: a.PersonStore.WithTx(tx),
		db:          a.db,
	}
}

// DB returns the underlying database connection.
func (a *PersonRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// Verify that PersonRepositoryAdapter implements service.PersonRepository
var _ PersonRepository = (*PersonRepositoryAdapter)(nil)
