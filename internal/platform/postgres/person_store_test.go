package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/odata-api/internal/domain"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/platform/postgres"
	"github.com/phrazzld/odata-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, maxPageSize int) (*postgres.PostgresPersonStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger(t)
	return postgres.NewPostgresPersonStore(db, log, maxPageSize), mock
}

func personRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"pid", "first_name", "last_name", "dob", "start_date"}).
		AddRow(int64(1), "Ada", "Lovelace", time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC), time.Date(1833, 6, 5, 0, 0, 0, 0, time.UTC)).
		AddRow(int64(2), "Alan", "Turing", time.Date(1912, 6, 23, 0, 0, 0, 0, time.UTC), nil)
}

func TestNewPostgresPersonStore_NilDBPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresPersonStore(nil, nil, 0) })
}

func TestPersonStore_List(t *testing.T) {
	t.Parallel()

	t.Run("all columns", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 50)

		mock.ExpectQuery(regexp.QuoteMeta(allColumns + " WHERE pid < $1 ORDER BY pid ASC LIMIT $2")).
			WithArgs(int64(10), 50).
			WillReturnRows(personRows())

		people, err := s.List(context.Background(), mustParse(t, "$filter=pid lt 10"))

		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, domain.Person{
			PID:       1,
			FirstName: "Ada",
			LastName:  "Lovelace",
			DOB:       domain.NewDate(1815, 12, 10),
			StartDate: domain.NewDate(1833, 6, 5),
		}, people[0])
		assert.True(t, people[1].StartDate.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("selected columns", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT last_name, pid FROM people ORDER BY last_name ASC, pid ASC")).
			WillReturnRows(sqlmock.NewRows([]string{"last_name", "pid"}).AddRow("Hopper", int64(7)))

		people, err := s.List(context.Background(), mustParse(t, "$select=lastName,pid&$orderby=lastName"))

		require.NoError(t, err)
		assert.Equal(t, []domain.Person{{PID: 7, LastName: "Hopper"}}, people)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		mock.ExpectQuery(regexp.QuoteMeta(allColumns)).
			WillReturnRows(sqlmock.NewRows([]string{"pid", "first_name", "last_name", "dob", "start_date"}))

		people, err := s.List(context.Background(), nil)

		require.NoError(t, err)
		assert.NotNil(t, people)
		assert.Empty(t, people)
	})

	t.Run("rejected query never reaches the database", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		_, err := s.List(context.Background(), mustParse(t, "$orderby=salary"))

		assert.ErrorIs(t, err, store.ErrUnknownProperty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error is mapped", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		mock.ExpectQuery(regexp.QuoteMeta(allColumns)).
			WillReturnError(&pgconn.PgError{Code: "22008", Message: "date/time field value out of range"})

		_, err := s.List(context.Background(), mustParse(t, "$filter=dob gt '0001-01-01'"))

		assert.ErrorIs(t, err, store.ErrInvalidFilter)
	})
}

func TestPersonStore_Count(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t, 10)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM people WHERE last_name = $1")).
		WithArgs("Turing").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	count, err := s.Count(context.Background(), mustParse(t, "$filter=lastName eq 'Turing'&$top=1"))

	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonStore_GetByID(t *testing.T) {
	t.Parallel()

	query := regexp.QuoteMeta("FROM people") + `\s+` + regexp.QuoteMeta("WHERE pid = $1")

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		mock.ExpectQuery(query).WithArgs(int64(2)).WillReturnRows(
			sqlmock.NewRows([]string{"pid", "first_name", "last_name", "dob", "start_date"}).
				AddRow(int64(2), "Alan", "Turing", "1912-06-23", nil))

		p, err := s.GetByID(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, "Turing", p.LastName)
		assert.Equal(t, "1912-06-23", p.DOB.String())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		mock.ExpectQuery(query).WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"pid", "first_name", "last_name", "dob", "start_date"}))

		p, err := s.GetByID(context.Background(), 9)

		assert.Nil(t, p)
		assert.ErrorIs(t, err, store.ErrPersonNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("database error", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		dbErr := errors.New("connection refused")
		mock.ExpectQuery(query).WillReturnError(dbErr)

		_, err := s.GetByID(context.Background(), 1)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestPersonStore_Create(t *testing.T) {
	t.Parallel()

	insert := regexp.QuoteMeta("INSERT INTO people (pid, first_name, last_name, dob, start_date)")

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		mock.ExpectExec(insert).
			WithArgs(int64(3), "Grace", "Hopper", domain.NewDate(1906, 12, 9), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Create(context.Background(), &domain.Person{
			PID:       3,
			FirstName: "Grace",
			LastName:  "Hopper",
			DOB:       domain.NewDate(1906, 12, 9),
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid person", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		err := s.Create(context.Background(), &domain.Person{PID: 3})

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrEmptyPersonLastName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate pid", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t, 0)

		mock.ExpectExec(insert).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "people_pkey"})

		err := s.Create(context.Background(), &domain.Person{PID: 1, LastName: "Lovelace"})

		assert.True(t, store.IsDuplicateError(err))
	})
}

func TestPersonStore_WithTx(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM people")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectCommit()

	s := postgres.NewPostgresPersonStore(db, nil, 0)
	err = store.RunInTransaction(context.Background(), db, nil, func(ctx context.Context, tx *sql.Tx) error {
		count, err := s.WithTx(tx).Count(ctx, nil)
		assert.Equal(t, int64(4), count)
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
