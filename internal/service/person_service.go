package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/odata-api/internal/domain"
	"github.com/phrazzld/odata-api/internal/odata"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/store"
)

// PersonRepository defines the repository interface for the service layer.
type PersonRepository interface {
	List(ctx context.Context, q *odata.Query) ([]domain.Person, error)
	Count(ctx context.Context, q *odata.Query) (int64, error)
	GetByID(ctx context.Context, pid int64) (*domain.Person, error)
	Create(ctx context.Context, person *domain.Person) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) PersonRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// PersonPage is one page of a people query. Count is set only when the
// query asked for it with $count=true, and then counts every matching
// person, not just those on the page.
type PersonPage struct {
	People []domain.Person
	Count  *int64
}

// PersonService answers queries over the people collection.
type PersonService interface {
	// QueryPeople runs the options of q against the people collection.
	QueryPeople(ctx context.Context, q *odata.Query) (*PersonPage, error)

	// GetPerson retrieves a person by PID.
	GetPerson(ctx context.Context, pid int64) (*domain.Person, error)

	// ImportPeople stores all of people or none of them.
	ImportPeople(ctx context.Context, people []domain.Person) error
}

// PersonServiceError wraps errors from the person service with context.
type PersonServiceError struct {
	// Operation is the operation that failed (e.g., "query_people")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for PersonServiceError.
func (e *PersonServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("person service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("person service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PersonServiceError) Unwrap() error {
	return e.Err
}

// NewPersonServiceError creates a new PersonServiceError.
// It returns known sentinel errors directly without wrapping.
func NewPersonServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrPersonNotFound) || errors.Is(err, store.ErrPersonNotFound) {
		return ErrPersonNotFound
	}

	return &PersonServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// personServiceImpl implements the PersonService interface
type personServiceImpl struct {
	personRepo PersonRepository
	logger     *slog.Logger
}

// NewPersonService creates a new PersonService.
// It returns an error if personRepo is nil.
func NewPersonService(personRepo PersonRepository, logger *slog.Logger) (PersonService, error) {
	if personRepo == nil {
		return nil, &PersonServiceError{
			Operation: "create_service",
			Message:   "personRepo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &personServiceImpl{
		personRepo: personRepo,
		logger:     logger.With("component", "person_service"),
	}, nil
}

// QueryPeople lists the page selected by q. When q asks for a count, the
// page and the count are read in one read-only transaction so they agree.
func (s *personServiceImpl) QueryPeople(ctx context.Context, q *odata.Query) (*PersonPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if q == nil || q.Count == nil || !*q.Count {
		people, err := s.personRepo.List(ctx, q)
		if err != nil {
			return nil, NewPersonServiceError("query_people", "failed to list people", err)
		}
		return &PersonPage{People: people}, nil
	}

	page := &PersonPage{}
	err := store.RunInTransaction(ctx, s.personRepo.DB(), store.ReadSnapshot,
		func(ctx context.Context, tx *sql.Tx) error {
			txRepo := s.personRepo.WithTx(tx)

			people, err := txRepo.List(ctx, q)
			if err != nil {
				return err
			}
			count, err := txRepo.Count(ctx, q)
			if err != nil {
				return err
			}

			page.People = people
			page.Count = &count
			return nil
		})
	if err != nil {
		return nil, NewPersonServiceError("query_people", "failed to list and count people", err)
	}

	log.Debug("people queried",
		slog.Int("page_size", len(page.People)),
		slog.Int64("count", *page.Count))
	return page, nil
}

// GetPerson retrieves a person by PID.
func (s *personServiceImpl) GetPerson(ctx context.Context, pid int64) (*domain.Person, error) {
	person, err := s.personRepo.GetByID(ctx, pid)
	if err != nil {
		return nil, NewPersonServiceError("get_person", "failed to retrieve person", err)
	}
	return person, nil
}

// ImportPeople creates every person inside one transaction.
func (s *personServiceImpl) ImportPeople(ctx context.Context, people []domain.Person) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(people) == 0 {
		return ErrEmptyImport
	}

	err := store.RunInTransaction(ctx, s.personRepo.DB(), nil, func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.personRepo.WithTx(tx)
		for i := range people {
			if err := txRepo.Create(ctx, &people[i]); err != nil {
				return fmt.Errorf("person %d: %w", people[i].PID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("import rolled back",
			slog.String("error", err.Error()),
			slog.Int("people", len(people)))
		return NewPersonServiceError("import_people", "failed to import people", err)
	}

	log.Info("people imported", slog.Int("people", len(people)))
	return nil
}
