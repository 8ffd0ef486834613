package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/odata-api/internal/domain"
	"github.com/phrazzld/odata-api/internal/platform/postgres"
	"github.com/phrazzld/odata-api/internal/service"
	"github.com/spf13/cobra"
)

// personImporter is the part of service.PersonService the seed command uses.
type personImporter interface {
	ImportPeople(ctx context.Context, people []domain.Person) error
}

func newSeedCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed <people.json>",
		Short: "Insert the people listed in a JSON file",
		Long: `Insert the people listed in a JSON array file, all or none.

The database is read from --database-url or ODATA_DATABASE_URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newEnv()
			if err := env.BindPFlag("database.url", cmd.Flags().Lookup("database-url")); err != nil {
				return err
			}
			dsn := env.GetString("database.url")
			if dsn == "" {
				return fmt.Errorf("no database url: set --database-url or ODATA_DATABASE_URL")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			ctx := cmd.Context()
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			db, err := sql.Open("pgx", dsn)
			if err != nil {
				return fmt.Errorf("failed to open database connection: %w", err)
			}
			defer func() { _ = db.Close() }()

			if migrate {
				if err := postgres.Migrate(ctx, db, postgres.MigrateUp); err != nil {
					return err
				}
			}

			personStore := postgres.NewPostgresPersonStore(db, log, 0)
			svc, err := service.NewPersonService(service.NewPersonRepositoryAdapter(personStore, db), log)
			if err != nil {
				return err
			}

			n, err := seedPeople(ctx, svc, f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d people\n", n)
			return err
		},
	}

	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations first")
	return cmd
}

// seedPeople decodes a JSON array of people from r and imports them.
func seedPeople(ctx context.Context, importer personImporter, r io.Reader) (int, error) {
	var people []domain.Person
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&people); err != nil {
		return 0, fmt.Errorf("failed to decode people: %w", err)
	}

	if err := importer.ImportPeople(ctx, people); err != nil {
		return 0, err
	}
	return len(people), nil
}
