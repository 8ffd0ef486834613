package postgres

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

// PostgresPersonStore implements the store.PersonStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPersonStore struct {
	db          store.DBTX
	logger      *slog.Logger
	maxPageSize int
}

// NewPostgresPersonStore creates a new PostgreSQL implementation of the PersonStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// maxPageSize caps every List page; zero or less disables the cap.
// If logger is nil, a default logger will be used.
func NewPostgresPersonStore(db store.DBTX, logger *slog.Logger, maxPageSize int) *PostgresPersonStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPersonStore{
		db:          db,
		logger:      logger.With(slog.String("component", "person_store")),
		maxPageSize: maxPageSize,
	}
}

// Ensure PostgresPersonStore implements store.PersonStore interface
var _ store.PersonStore = (*PostgresPersonStore)(nil)

// WithTx implements store.PersonStore.WithTx
func (s *PostgresPersonStore) WithTx(tx *sql.Tx) store.PersonStore {
	return &PostgresPersonStore{
		db:          tx,
		logger:      s.logger,
		maxPageSize: s.maxPageSize,
	}
}

// List implements store.PersonStore.List
func (s *PostgresPersonStore) List(ctx context.Context, q *odata.Query) ([]domain.Person, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, err := BuildListQuery(PersonResource, q, s.maxPageSize)
	if err != nil {
		log.Debug("rejected person query", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listing people",
		slog.String("sql", query.SQL),
		slog.Int("arg_count", len(query.Args)))

	rows, err := s.db.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		log.Error("failed to list people", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	people := []domain.Person{}
	for rows.Next() {
		var p domain.Person
		targets := make([]any, len(query.Properties))
		for i, prop := range query.Properties {
			targets[i] = personField(&p, prop)
		}
		if err := rows.Scan(targets...); err != nil {
			log.Error("failed to scan person row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan person row: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating person rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("people listed", slog.Int("count", len(people)))
	return people, nil
}

// Count implements store.PersonStore.Count
func (s *PostgresPersonStore) Count(ctx context.Context, q *odata.Query) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, err := BuildCountQuery(PersonResource, q)
	if err != nil {
		log.Debug("rejected person count", slog.String("error", err.Error()))
		return 0, err
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query.SQL, query.Args...).Scan(&count); err != nil {
		log.Error("failed to count people", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	return count, nil
}

// GetByID implements store.PersonStore.GetByID
// Returns store.ErrPersonNotFound if the person does not exist.
func (s *PostgresPersonStore) GetByID(ctx context.Context, pid int64) (*domain.Person, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving person by ID", slog.Int64("pid", pid))

	query := `
		SELECT pid, first_name, last_name, dob, start_date
		FROM people
		WHERE pid = $1
	`

	var p domain.Person
	err := s.db.QueryRowContext(ctx, query, pid).Scan(
		&p.PID,
		&p.FirstName,
		&p.LastName,
		&p.DOB,
		&p.StartDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("person not found", slog.Int64("pid", pid))
			return nil, store.ErrPersonNotFound
		}
		log.Error("failed to get person by ID",
			slog.String("error", err.Error()),
			slog.Int64("pid", pid))
		return nil, MapError(err)
	}

	return &p, nil
}

// Create implements store.PersonStore.Create
// Returns validation errors from the domain Person if data is invalid, and
// store.ErrDuplicate if the PID is taken.
func (s *PostgresPersonStore) Create(ctx context.Context, person *domain.Person) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := person.Validate(); err != nil {
		log.Warn("person validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("pid", person.PID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO people (pid, first_name, last_name, dob, start_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		person.PID,
		person.FirstName,
		person.LastName,
		nullableDate(person.DOB),
		nullableDate(person.StartDate),
	)
	if err != nil {
		log.Error("failed to create person",
			slog.String("error", err.Error()),
			slog.Int64("pid", person.PID))
		return MapError(err)
	}

	log.Info("person created", slog.Int64("pid", person.PID))
	return nil
}

// personField returns the scan destination for a property of p.
func personField(p *domain.Person, property string) any {
	switch property {
	case domain.PersonPID:
		return &p.PID
	case domain.PersonFirstName:
		return &p.FirstName
	case domain.PersonLastName:
		return &p.LastName
	case domain.PersonDOB:
		return &p.DOB
	case domain.PersonStartDate:
		return &p.StartDate
	}
	return new(any)
}

func nullableDate(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d
}
