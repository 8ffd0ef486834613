package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/odata-api/internal/api/middleware"
	"github.com/phrazzld/odata-api/internal/config"
	"github.com/phrazzld/odata-api/internal/idm"
	"github.com/phrazzld/odata-api/internal/platform/postgres"
	"github.com/phrazzld/odata-api/internal/service"
	"github.com/phrazzld/odata-api/internal/service/auth"
	"github.com/phrazzld/odata-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger   *slog.Logger
	db       *sql.DB
	registry *prometheus.Registry

	personStore store.PersonStore

	personService service.PersonService
	tokenDecoder  middleware.TokenDecoder
	// idmClient is nil unless tokens are validated by the identity gateway.
	idmClient *idm.Client
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "odata"),
	)

	switch cfg.Auth.Mode {
	case config.AuthModeIDM:
		app.idmClient = idm.NewClient(cfg.IDM.GatewayURL, cfg.IDM.Timeout)
		app.tokenDecoder = app.idmClient
		logger.Info("access tokens validated by identity gateway",
			"gateway_url", cfg.IDM.GatewayURL)
	case config.AuthModeJWT:
		decoder, err := auth.NewJWTDecoder(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT decoder: %w", err)
		}
		app.tokenDecoder = decoder
		logger.Info("access tokens decoded locally",
			"token_lifetime", cfg.Auth.TokenLifetime.String())
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}

	app.personStore = postgres.NewPostgresPersonStore(db, logger, cfg.Database.MaxPageSize)

	var err error
	app.personService, err = service.NewPersonService(
		service.NewPersonRepositoryAdapter(app.personStore, db),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create person service: %w", err)
	}

	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
