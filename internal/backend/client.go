// Package backend is the HTTP client for the Mafqood API.
//
// It owns request plumbing (timeouts, bearer injection, request IDs,
// JSON and multipart bodies, error translation) and exposes typed
// operations that hand back canonical items and match groups.
package backend

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

	"github.com/google/uuid"

	"mafqood/internal/config"
	"mafqood/internal/logging"
	"mafqood/internal/upload"
)

// maxErrorBodyBytes caps how much of an error response gets read while
// mining it for a message.
const maxErrorBodyBytes = 64 << 10

// TokenSource supplies the bearer token for authenticated requests. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// HTTPDoer describes the HTTP client used for round trips.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues requests against one backend base URL.
type Client struct {
	baseURL string
	prefix  string
	timeout time.Duration
	naming  upload.FieldNames
	http    HTTPDoer
	tokens  TokenSource
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// New builds a Client from configuration. tokens may be nil for an
// unauthenticated client.
func New(cfg *config.Config, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	naming := upload.CurrentFieldNames
	prefix := "/api/v1"
	if cfg.Backend.FieldNaming == config.NamingLegacy {
		naming = upload.LegacyFieldNames
		prefix = "/api"
	}
	client := &Client{
		baseURL: cfg.BaseURL(),
		prefix:  prefix,
		timeout: cfg.RequestTimeout(),
		naming:  naming,
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logging.NewComponentLogger(logger, "backend"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the resolved backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// FieldNames returns the submission form naming scheme in effect.
func (c *Client) FieldNames() upload.FieldNames { return c.naming }

// do runs one JSON request. body is marshaled when non-nil; out is
// decoded into when non-nil and the response succeeds.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.roundTrip(ctx, method, path, reader, contentType, out)
}

// doMultipart runs one multipart request. The payload's boundary-bearing
// content type is passed through untouched.
func (c *Client) doMultipart(ctx context.Context, path string, payload *upload.Payload, out any) error {
	body, contentType, err := payload.Encode(ctx)
	if err != nil {
		return err
	}
	return c.roundTrip(ctx, http.MethodPost, path, body, contentType, out)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("resolve auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	requestStart := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		classified := classifyTransportError(err)
		c.logger.Warn("request failed",
			logging.String("method", method),
			logging.String("path", path),
			logging.String(logging.FieldRequestID, requestID),
			logging.Duration("latency", latency),
			logging.Error(classified))
		return classified
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		logging.String("method", method),
		logging.String("path", path),
		logging.String(logging.FieldRequestID, requestID),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return serverError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
