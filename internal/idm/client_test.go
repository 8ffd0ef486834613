package idm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/phrazzld/odata-api/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDecodeAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, PathAccessTokenValidation, r.URL.Path)
			assert.Equal(t, "abc+def", r.URL.Query().Get("token"))
			assert.Equal(t, "corr-1", r.Header.Get(CorrelationHeader))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"sub":"user-1","client_id":"portal","role":["a","b"]}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL+"/", time.Second)
		tok, err := client.DecodeAccessToken(context.Background(), "abc+def", "corr-1")

		require.NoError(t, err)
		assert.Equal(t, StringList{"user-1"}, tok.Sub)
		assert.Equal(t, "portal", tok.ClientID)
		assert.Equal(t, StringList{"a", "b"}, tok.Role)
	})

	t.Run("gateway rejects token", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"Message":"Authorization has been denied for this request."}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		tok, err := client.DecodeAccessToken(context.Background(), "bad", "corr-2")

		require.Error(t, err)
		assert.Nil(t, tok)

		var upErr *upstream.Error
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
		assert.Equal(t, "Authorization has been denied for this request.", upErr.Detail)
		assert.Equal(t, "decodeAccessToken", upErr.Info.Service)
	})

	t.Run("malformed success body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second).DecodeAccessToken(context.Background(), "t", "c")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode")
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := NewClient(srv.URL, time.Second).DecodeAccessToken(context.Background(), "t", "c")

		var upErr *upstream.Error
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusInternalServerError, upErr.StatusCode)
		assert.NotNil(t, upErr.Err)
	})
}

func TestClientCredentialsToken(t *testing.T) {
	t.Parallel()

	validRequest := ClientCredentialsRequest{
		ClientID:     "reports",
		ClientSecret: "s3cr3t",
		Scope:        "people.read",
		GrantType:    GrantClientCredentials,
	}

	t.Run("posts form body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, PathToken, r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.Equal(t, "corr-3", r.Header.Get(CorrelationHeader))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			form, err := url.ParseQuery(string(body))
			require.NoError(t, err)
			assert.Equal(t, "reports", form.Get("client_id"))
			assert.Equal(t, "s3cr3t", form.Get("client_secret"))
			assert.Equal(t, "people.read", form.Get("scope"))
			assert.Equal(t, "client_credentials", form.Get("grant_type"))

			_, _ = io.WriteString(w, `{"access_token":"app-token","expires_in":3600,"token_type":"Bearer"}`)
		}))
		defer srv.Close()

		tok, err := NewClient(srv.URL, time.Second).ClientCredentialsToken(context.Background(), validRequest, "corr-3")

		require.NoError(t, err)
		assert.Equal(t, &AppToken{AccessToken: "app-token", ExpiresIn: 3600, TokenType: "Bearer"}, tok)
	})

	t.Run("rejects other grant types before calling", func(t *testing.T) {
		t.Parallel()
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		req := validRequest
		req.GrantType = "password"
		_, err := NewClient(srv.URL, time.Second).ClientCredentialsToken(context.Background(), req, "corr-4")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid client credentials request")
		assert.False(t, called)
	})

	t.Run("foreign key error is reported as created", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"violates FOREIGN KEY constraint"}`)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second).ClientCredentialsToken(context.Background(), validRequest, "corr-5")

		var upErr *upstream.Error
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusCreated, upErr.StatusCode)
	})
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	hc := &http.Client{Timeout: 3 * time.Second}
	c := NewClient("https://idm.example.com", time.Second, WithHTTPClient(hc))
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, "https://idm.example.com", c.baseURL)
}
