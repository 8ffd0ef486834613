package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/odata-api/internal/api"
	apiMiddleware "github.com/phrazzld/odata-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.CorrelationID(app.config.HTTP.CorrelationHeader))
	r.Use(apiMiddleware.ResponseTime(apiMiddleware.ResponseTimeOptions{
		Header:    app.config.HTTP.ResponseTimeHeader,
		Precision: app.config.HTTP.ResponseTimePrecision,
		Metrics:   apiMiddleware.NewMetrics(app.registry),
	}))
	r.Use(middleware.Recoverer)

	authMiddleware := apiMiddleware.NewAuthMiddleware(
		app.tokenDecoder,
		app.config.IDM.ClientWhitelist,
		app.config.Auth.TokenQueryKey,
	)
	odataHandler := api.NewODataHandler()
	peopleHandler := api.NewPeopleHandler(app.personService)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	// Client credentials exchange (public, gateway mode only)
	if app.idmClient != nil {
		r.Post("/token", api.NewTokenHandler(app.idmClient).Token)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.RequireBearerToken)
		r.Use(authMiddleware.Authenticate)
		r.Use(apiMiddleware.ParseOData)

		r.Get("/odata", odataHandler.Echo)
		r.Get("/people", peopleHandler.List)
		r.Get("/people/{pid}", peopleHandler.Get)
	})

	return r
}
