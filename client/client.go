// ABOUTME: HTTP client for the business-management backend with bearer auth and JSON codec.
// ABOUTME: Provides Client with do/getJSON helpers, APIError for non-2xx responses, and DecodeError for malformed payloads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// APIError represents a non-2xx response from the backend. Message holds the
// raw response body text, or the HTTP status text when the body was empty.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// DecodeError represents a response body that could not be decoded into the
// expected shape. It wraps the underlying JSON error so malformed payloads
// surface as a typed failure at the boundary instead of zero values downstream.
type DecodeError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Client talks to the backend REST API. The token is injected at construction
// rather than read from ambient global state, so tests can construct clients
// against httptest servers without environment games.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (used by tests and by
// callers that need a custom transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// New creates a Client for the given base URL and bearer token.
// The token may be empty; requests are then sent unauthenticated and the
// backend's 401 surfaces through the normal APIError path.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the configured bearer token.
func (c *Client) Token() string {
	return c.token
}

// WebSocketURL derives the pipeline-progress WebSocket URL from the base URL,
// embedding the token in the path the way the backend expects.
func (c *Client) WebSocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/" + c.token
	return u.String(), nil
}

// do issues a single request and returns the raw response body.
// One attempt per call: no retries, no backoff. Failure handling is the
// caller's responsibility.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	return data, nil
}

// getJSON issues a GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeInto(path, data, out)
}

// postJSON issues a POST with an optional JSON body and decodes the response into out.
// Pass a nil out to discard the response body.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeInto(path, data, out)
}

// putJSON issues a PUT with a JSON body and decodes the response into out.
func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeInto(path, data, out)
}

// delete issues a DELETE and discards any response body.
func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// decodeInto unmarshals data into out, converting failures into a DecodeError
// so callers can distinguish "backend said no" from "backend said gibberish".
func decodeInto(path string, data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &DecodeError{Path: path, Err: fmt.Errorf("empty body")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}
