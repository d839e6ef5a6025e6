package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout applies to every outbound call, including the out-of-band
// refresh call, unless overridden.
const DefaultTimeout = 120 * time.Second

// Client holds the connection settings for the Arrimage backend. It performs
// only unauthenticated calls itself; authenticated traffic goes through a
// Session created from it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

// WithLogger sets the logger used for protocol events.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// NewSession creates a session bound to the given token store. The session
// starts in StateRestoring; call Restore to resume a persisted session or
// Login to establish a fresh one.
func (c *Client) NewSession(store TokenStore, opts ...SessionOption) *Session {
	s := &Session{
		client: c,
		store:  store,
		state:  StateRestoring,
		// Strict profile for credential submission: 5 attempts per
		// minute, all available as a burst.
		loginLimiter: rate.NewLimiter(rate.Every(time.Minute/5), 5),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithForcedLogoutHandler registers the hook invoked after an unrecoverable
// authorization failure tears the session down. It is the console's analogue
// of the hard redirect to the login page.
func WithForcedLogoutHandler(fn func()) SessionOption {
	return func(s *Session) { s.onLogout = fn }
}

// WithLoginLimiter overrides the client-side login attempt limiter.
func WithLoginLimiter(l *rate.Limiter) SessionOption {
	return func(s *Session) { s.loginLimiter = l }
}

// refreshGrant exchanges a refresh token for a new access token. This call
// deliberately bypasses the session request path: a 401 on the refresh
// endpoint must surface to the refresh protocol, not re-enter it.
func (c *Client) refreshGrant(ctx context.Context, refreshToken string) (*refreshResponse, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url("/auth/refresh"),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	var tr refreshResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("refresh response missing access token")
	}

	return &tr, nil
}
