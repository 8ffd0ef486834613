package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/odata-api/internal/domain"
	"github.com/phrazzld/odata-api/internal/odata"
)

// PersonStore reads people using the system query options of a request.
//
// Both methods interpret q the same way: Filter restricts the rows, while
// OrderBy, Skip, Top and MaxPageSize shape the page returned by List and are
// ignored by Count. A nil q means no options. Properties that the person
// resource does not expose yield an error wrapping ErrUnknownProperty, and
// comparisons whose literal does not fit the property wrap ErrInvalidFilter.
type PersonStore interface {
	// List returns the page of people selected by q.
	// When q.Select is set only the selected properties are loaded; the
	// remaining fields of each Person are left at their zero value.
	List(ctx context.Context, q *odata.Query) ([]domain.Person, error)

	// Count returns the number of people matching q.Filter.
	Count(ctx context.Context, q *odata.Query) (int64, error)

	// GetByID retrieves a person by their PID.
	// Returns ErrPersonNotFound if the person does not exist.
	GetByID(ctx context.Context, pid int64) (*domain.Person, error)

	// Create saves a new person.
	// Returns ErrInvalidEntity if the person fails validation and
	// ErrDuplicate if the PID is already taken.
	Create(ctx context.Context, person *domain.Person) error

	// WithTx returns a new PersonStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) PersonStore
}
