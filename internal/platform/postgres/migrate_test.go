package postgres

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(migrationFS, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}

	first, err := fs.ReadFile(migrationFS, migrationsDir+"/00001_create_people.sql")
	require.NoError(t, err)
	for _, column := range PersonResource.Columns {
		assert.True(t, strings.Contains(string(first), column.Name+" "), "missing column %s", column.Name)
	}
}

func TestMigrate_UnknownCommand(t *testing.T) {
	err := Migrate(context.Background(), nil, "sideways")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command: sideways")
}
