package planka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/planka-community/planka-mcp/internal/logging"
)

const (
	// tokenLifetime is how long an acquired session token is trusted.
	// The server issues tokens with a documented 30-minute lifetime;
	// the 5-minute margin avoids racing the server-side expiry. If the
	// server lifetime ever changes this constant must be re-tuned.
	tokenLifetime = 25 * time.Minute

	// requestTimeout bounds every HTTP call, including authentication.
	requestTimeout = 30 * time.Second

	// DefaultPosition is the ordering increment the server uses for new
	// entities. Sequential items spaced by it leave room for manual
	// insertions in between.
	DefaultPosition = 65535
)

// Client is the single point of contact with the kanban server. It owns
// the HTTP transport and a process-wide session token slot with lazy
// acquisition and proactive expiry.
//
// The token slot is guarded by a mutex for memory safety, but token
// refresh is deliberately not single-flighted: two invocations racing
// past an expired token may both authenticate. That costs one extra
// idempotent call at worst and keeps the hot path lock-free of network
// waits.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration

	mu             sync.Mutex
	token          string
	tokenExpiresAt time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the structured logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient validates the configuration and constructs a client. A
// malformed base URL or missing credential fails here, before any
// network call is made.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{},
		logger:     slog.Default(),
		timeout:    requestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// credentialsPayload is the token endpoint request body.
type credentialsPayload struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// authenticate exchanges the configured credentials for a session token
// and records its expiry. Callers go through getToken; this is never
// invoked directly by operations.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	const op = "POST /access-tokens"

	payload, err := json.Marshal(credentialsPayload{
		EmailOrUsername: c.config.Email,
		Password:        c.config.Password,
	})
	if err != nil {
		return "", &Error{Kind: KindAuthentication, Message: "failed to encode credentials", Op: op, Err: err}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.config.apiRoot()+"/access-tokens", bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: KindAuthentication, Message: "failed to build token request", Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", netError(op, err, isTimeoutErr(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", netError(op, err, isTimeoutErr(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Kind:    KindAuthentication,
			Status:  resp.StatusCode,
			Message: "credentials rejected by token endpoint",
			Details: parseBody(body),
			Op:      op,
		}
	}

	var tokenResp struct {
		Item string `json:"item"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil || tokenResp.Item == "" {
		return "", &Error{Kind: KindAuthentication, Message: "token endpoint returned an unexpected body", Op: op, Err: err}
	}

	c.mu.Lock()
	c.token = tokenResp.Item
	c.tokenExpiresAt = time.Now().Add(tokenLifetime)
	c.mu.Unlock()

	c.logger.Debug("session token acquired",
		logging.Service("planka"),
		slog.String("token", logging.SanitizeToken(tokenResp.Item)),
	)

	return tokenResp.Item, nil
}

// getToken returns the cached session token while it is still within
// its validity window, and re-authenticates otherwise. This is the only
// path that triggers network authentication.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.tokenExpiresAt) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	return c.authenticate(ctx)
}

// Close revokes the cached session token so it cannot outlive the
// process. Revocation is sent with the token being revoked and never
// re-authenticates: an expired or absent token has nothing to revoke.
// The cache is cleared either way, so a closed client that is reused
// simply authenticates again.
func (c *Client) Close(ctx context.Context) error {
	const op = "DELETE /access-tokens/me"

	c.mu.Lock()
	token := c.token
	valid := token != "" && time.Now().Before(c.tokenExpiresAt)
	c.token = ""
	c.tokenExpiresAt = time.Time{}
	c.mu.Unlock()

	if !valid {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodDelete, c.config.apiRoot()+"/access-tokens/me", nil)
	if err != nil {
		return &Error{Kind: KindAPI, Message: "failed to build revocation request", Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return netError(op, err, isTimeoutErr(err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// A 401 means the server already considers the token dead, which is
	// the state revocation is after.
	if (resp.StatusCode >= 200 && resp.StatusCode <= 299) || resp.StatusCode == http.StatusUnauthorized {
		c.logger.Debug("session token revoked", logging.Service("planka"))
		return nil
	}
	return httpError(op, resp.StatusCode, http.StatusText(resp.StatusCode), nil)
}

// clearToken drops the cached token so the next call re-authenticates.
func (c *Client) clearToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiresAt = time.Time{}
	c.mu.Unlock()
}

// request issues an authenticated HTTP call against the /api prefix.
// On a 401 it clears the cached token and replays the identical call
// exactly once; other error classes surface immediately. A 204 yields
// a nil body.
func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	return c.do(ctx, method, path, body, false)
}

func (c *Client) do(ctx context.Context, method, path string, body any, isRetry bool) ([]byte, error) {
	op := fmt.Sprintf("%s %s", method, path)

	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "failed to encode request body", Op: op, Err: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, c.config.apiRoot()+path, reqBody)
	if err != nil {
		return nil, &Error{Kind: KindAPI, Message: "failed to build request", Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, netError(op, err, isTimeoutErr(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, netError(op, err, isTimeoutErr(err))
	}

	if resp.StatusCode == http.StatusUnauthorized && !isRetry {
		// The cached token was rejected; refresh it and replay the
		// identical call once. Never loops: the retry surfaces its own
		// 401 as an authentication failure below.
		c.logger.Debug("session token rejected, retrying once", logging.Operation(op))
		c.clearToken()
		return c.do(ctx, method, path, body, true)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		parsed := parseBody(data)
		return nil, httpError(op, resp.StatusCode, messageFrom(parsed, resp.StatusCode), parsed)
	}

	return data, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *Client) patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.request(ctx, http.MethodPatch, path, body)
}

func (c *Client) delete(ctx context.Context, path string) ([]byte, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

// parseBody best-effort decodes an error body. A parse failure returns
// nil rather than raising, so a broken error body can never mask the
// HTTP failure it came with.
func parseBody(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil
	}
	return parsed
}

// messageFrom extracts a human-readable message from a parsed error
// body, falling back to the status text.
func messageFrom(parsed any, status int) string {
	if obj, ok := parsed.(map[string]any); ok {
		for _, key := range []string{"message", "problems", "error"} {
			if v, ok := obj[key]; ok {
				if s, ok := v.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return http.StatusText(status)
}

// isTimeoutErr reports whether a transport error was caused by the
// per-request deadline, as opposed to e.g. a refused connection.
func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
