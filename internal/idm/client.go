package idm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/odata-api/internal/platform/logger"
	"github.com/phrazzld/odata-api/internal/redact"
	"github.com/phrazzld/odata-api/internal/upstream"
)

// Gateway endpoint paths.
const (
	PathAccessTokenValidation = "/connect/accesstokenvalidation"
	PathToken                 = "/connect/token"
)

// CorrelationHeader carries the correlation id on outgoing calls.
const CorrelationHeader = "X-FL-Hop-CorrelationId"

// maxResponseBytes caps how much of a gateway response is read.
const maxResponseBytes = 1 << 20

var validate = validator.New()

// Client talks to the identity gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client for the gateway at gatewayURL.
func NewClient(gatewayURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(gatewayURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DecodeAccessToken asks the gateway to validate and decode token.
func (c *Client) DecodeAccessToken(ctx context.Context, token, correlationID string) (*AccessToken, error) {
	log := logger.FromContext(ctx)
	log.Log(ctx, logger.LevelTrace, "calling access token validation endpoint",
		"token", redact.Token(token),
		"correlation_id", correlationID)

	endpoint := c.baseURL + PathAccessTokenValidation + "?" + url.Values{"token": {token}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build access token validation request: %w", err)
	}
	if correlationID != "" {
		req.Header.Set(CorrelationHeader, correlationID)
	}

	var decoded AccessToken
	info := upstream.RequestInfo{Service: "decodeAccessToken", URL: PathAccessTokenValidation}
	if err := c.do(req, info, &decoded); err != nil {
		return nil, err
	}

	log.Log(ctx, logger.LevelTrace, "access token decoded",
		"client_id", decoded.ClientID,
		"sub", decoded.Sub.First())
	return &decoded, nil
}

// ClientCredentialsToken requests an application token with the client
// credentials grant.
func (c *Client) ClientCredentialsToken(
	ctx context.Context,
	creds ClientCredentialsRequest,
	correlationID string,
) (*AppToken, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid client credentials request: %w", err)
	}

	fullURL := c.baseURL + PathToken
	logger.FromContext(ctx).Log(ctx, logger.LevelTrace, "calling token endpoint",
		"url", fullURL,
		"client_id", creds.ClientID)

	form := url.Values{
		"client_id":     {creds.ClientID},
		"client_secret": {creds.ClientSecret},
		"scope":         {creds.Scope},
		"grant_type":    {creds.GrantType},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(CorrelationHeader, correlationID)

	var token AppToken
	info := upstream.RequestInfo{Service: "getClientCredentialsToken", URL: PathToken}
	if err := c.do(req, info, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// do sends req and decodes a 2xx JSON body into out. Any other outcome is
// reported as an *upstream.Error.
func (c *Client) do(req *http.Request, info upstream.RequestInfo, out any) error {
	ctx := req.Context()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return upstream.NewTransportError(ctx, err, info)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return upstream.NewTransportError(ctx, err, info)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstream.NewError(ctx, resp.StatusCode, body, info)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", info.URL, err)
	}
	return nil
}
