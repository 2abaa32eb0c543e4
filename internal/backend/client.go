package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/steemit/condenser/pkg/config"
	"github.com/steemit/condenser/pkg/logging"
	"github.com/steemit/condenser/pkg/telemetry"
)

// CredentialSource supplies the bearer token for outgoing requests.
// An empty token means no user is signed in.
type CredentialSource interface {
	Token() string
}

// Client talks to the platform REST backend. All state it returns is a
// server-owned projection; the stores layer the optimistic overrides on top.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	logger  *zap.Logger
}

// New creates a new backend client
func New(cfg *config.BackendConfig, creds CredentialSource) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("backend_url is required")
	}

	logger := logging.GetLogger().With(zap.String("component", "backend-client"))

	client := &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		creds:   creds,
		logger:  logger,
	}

	logger.Info("Backend client initialized", zap.String("url", cfg.URL))

	return client, nil
}

// token returns the current credential, or ErrAuthRequired when absent.
// The check happens before any request is issued.
func (c *Client) token() (string, error) {
	if c.creds == nil {
		return "", ErrAuthRequired
	}
	tok := c.creds.Token()
	if tok == "" {
		return "", ErrAuthRequired
	}
	return tok, nil
}

// do issues a request and decodes the JSON response into out (when non-nil).
// authRequired guards the call client-side: no credential, no request.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, authRequired bool) error {
	var tok string
	if authRequired {
		var err error
		tok, err = c.token()
		if err != nil {
			return err
		}
	} else if c.creds != nil {
		tok = c.creds.Token()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// get is a convenience wrapper for GET requests
func (c *Client) get(ctx context.Context, path string, out interface{}, authRequired bool) error {
	return c.do(ctx, http.MethodGet, path, nil, out, authRequired)
}

// span opens a telemetry span for a backend operation
func span(ctx context.Context, name string) (context.Context, func()) {
	ctx, s := telemetry.StartSpan(ctx, name)
	return ctx, func() { s.End() }
}
