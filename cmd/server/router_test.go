package main

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/odata-api/internal/config"
	"github.com/phrazzld/odata-api/internal/idm"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug", AppName: "odata-api"},
		Database: config.DatabaseConfig{URL: "postgres://localhost/test", MaxPageSize: 100},
		IDM: config.IDMConfig{
			Timeout:         time.Second,
			ClientWhitelist: []string{"portal"},
		},
		Auth: config.AuthConfig{
			Mode:          config.AuthModeJWT,
			JWTSecret:     testSecret,
			TokenQueryKey: "token",
			TokenLifetime: time.Hour,
		},
		HTTP: config.HTTPConfig{
			CorrelationHeader:     "X-FL-Hop-CorrelationId",
			ResponseTimeHeader:    "X-Response-Time",
			ResponseTimePrecision: 3,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*application, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger(t)
	app, err := newApplication(cfg, log, db)
	require.NoError(t, err)
	return app, db, mock
}

func issueToken(t *testing.T, clientID string) string {
	t.Helper()

	decoder, err := auth.NewJWTDecoder(testSecret, time.Hour)
	require.NoError(t, err)
	token, err := decoder.IssueToken(context.Background(), idm.AccessToken{
		ClientID: clientID,
		Sub:      idm.StringList{"user-1"},
	})
	require.NoError(t, err)
	return token
}

func doRequest(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewApplication_UnknownAuthMode(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.Mode = "saml"
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log, _ := logger.NewTestLogger(t)
	app, err := newApplication(cfg, log, db)

	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestNewApplication_IDMMode(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.Mode = config.AuthModeIDM
	cfg.IDM.GatewayURL = "https://idm.example.com"

	app, _, _ := newTestApp(t, cfg)

	assert.NotNil(t, app.idmClient)
	assert.Same(t, app.idmClient, app.tokenDecoder)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t, testConfig())
	rr := doRequest(app.setupRouter(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Response-Time"))
	assert.NotEmpty(t, rr.Header().Get("X-FL-Hop-CorrelationId"))
}

func TestRouter_TokenRouteOnlyInIDMMode(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t, testConfig())
	rr := doRequest(app.setupRouter(), http.MethodPost, "/token", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_APIRequiresToken(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t, testConfig())
	router := app.setupRouter()

	tests := []struct {
		name   string
		target string
		token  string
	}{
		{name: "no token", target: "/api/odata"},
		{name: "garbage token", target: "/api/people", token: "not-a-jwt"},
		{name: "client not whitelisted", target: "/api/odata", token: issueToken(t, "intruder")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(router, http.MethodGet, tt.target, tt.token)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRouter_ODataEcho(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t, testConfig())
	rr := doRequest(app.setupRouter(), http.MethodGet,
		"/api/odata?$top=3&$select=pid", issueToken(t, "portal"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"$top":3,"$select":["pid"]}`, rr.Body.String())
}

func TestRouter_ODataEchoTokenFromQuery(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t, testConfig())
	rr := doRequest(app.setupRouter(), http.MethodGet,
		"/api/odata?token="+issueToken(t, "portal"), "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())
}

func TestRouter_ListPeople(t *testing.T) {
	t.Parallel()

	app, _, mock := newTestApp(t, testConfig())
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT pid, last_name FROM people ORDER BY pid ASC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"pid", "last_name"}).
			AddRow(int64(1), "Lovelace").
			AddRow(int64(2), "Turing"))

	rr := doRequest(app.setupRouter(), http.MethodGet,
		"/api/people?$select=pid,lastName&$top=2", issueToken(t, "portal"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"value":[{"pid":1,"lastName":"Lovelace"},{"pid":2,"lastName":"Turing"}]}`,
		rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t, testConfig())
	router := app.setupRouter()

	doRequest(router, http.MethodGet, "/health", "")
	rr := doRequest(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "http_request_duration_seconds")
	assert.Contains(t, body, `route="/health"`)
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "go_sql_open_connections")
}
