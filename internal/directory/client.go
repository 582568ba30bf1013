package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/securehello/securehello/internal/config"
	"github.com/securehello/securehello/internal/observability"
)

// adminClientID is the Keycloak client used for service-account logins.
const adminClientID = "admin-cli"

// tokenExpiryMargin is subtracted from the token lifetime so a token is
// refreshed before it actually expires mid-request.
const tokenExpiryMargin = 30 * time.Second

// Client is a long-lived administrative client for the Keycloak realm.
// One instance is shared by all concurrent admin requests; the embedded
// http.Client is safe for concurrent use and the cached admin token is
// guarded by a mutex.
type Client struct {
	baseURL    string
	realm      string
	username   string
	password   string
	httpClient *http.Client
	logger     observability.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// ClientOption is a functional option for the client.
type ClientOption func(*Client)

// WithClientLogger sets the logger.
func WithClientLogger(logger observability.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a directory client from the Keycloak configuration.
// The service-account credentials are fixed at construction; the admin
// token is obtained lazily on first use and refreshed on expiry.
func NewClient(cfg config.KeycloakConfig, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		realm:      cfg.Realm,
		username:   cfg.Admin.Username,
		password:   cfg.Admin.Password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// adminToken returns a valid admin access token, logging in against the
// master realm when the cached token is missing or about to expire.
func (c *Client) adminToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	tokenURL := fmt.Sprintf("%s/realms/master/protocol/openid-connect/token", c.baseURL)

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", adminClientID)
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("admin login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &DirectoryError{Op: "admin login", Status: resp.StatusCode, Detail: string(body)}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpiryMargin)

	c.logger.Debug("directory admin token refreshed",
		observability.Int("expires_in", tokenResp.ExpiresIn),
	)

	return c.token, nil
}

// do executes an authenticated request against the realm's admin API.
// The path is relative to /admin/realms/{realm}. The caller owns the
// response body.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	token, err := c.adminToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	requestURL := fmt.Sprintf("%s/admin/realms/%s%s", c.baseURL, c.realm, path)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}

	return resp, nil
}

// getJSON executes a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &DirectoryError{Op: "get " + path, Status: resp.StatusCode, Detail: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}

	return nil
}
