// Package client is the caller-side companion to the HTTP API: it injects
// auth and correlation identifiers on every request and normalizes transport
// and envelope failures into the shared error taxonomy, so application code
// never distinguishes "the network failed" from "the server returned a
// structured error".
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mayagenie/backend/internal/api"
	"github.com/mayagenie/backend/internal/apperr"
)

// Client calls the backend API. Construct once and reuse; it is safe for
// concurrent use and never mutated after construction.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithAuthToken sets the bearer token injected on every request.
func WithAuthToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs one API call. A fresh correlation identifier is minted per
// request. When out is non-nil, the envelope's data payload is decoded into
// it. Every failure path returns a *apperr.Error.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) *apperr.Error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, "failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "failed to build request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure: no response was received.
		return apperr.Wrap(apperr.CodeInternal, "no response received", err)
	}
	defer resp.Body.Close()

	var env api.Received
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return apperr.Wrap(apperr.CodeInternal,
			fmt.Sprintf("malformed response (status %d)", resp.StatusCode), err)
	}

	if !env.Success {
		if env.Error == nil {
			return apperr.Newf(apperr.CodeInternal, "failure envelope without error (status %d)", resp.StatusCode)
		}
		return env.Error
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperr.Wrap(apperr.CodeInternal, "failed to decode response data", err)
		}
	}
	return nil
}

// SendMessage relays a message through POST /api/v1/telegram/send. The raw
// provider result is returned undecoded.
func (c *Client) SendMessage(ctx context.Context, req api.SendRequest) (json.RawMessage, *apperr.Error) {
	var result json.RawMessage
	if err := c.Do(ctx, http.MethodPost, "/api/v1/telegram/send", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Generate proxies a prompt through POST /api/v1/ai/gemini.
func (c *Client) Generate(ctx context.Context, req api.GenerateRequest) (*api.GenerateResponse, *apperr.Error) {
	var resp api.GenerateResponse
	if err := c.Do(ctx, http.MethodPost, "/api/v1/ai/gemini", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health fetches GET /api/health.
func (c *Client) Health(ctx context.Context) (*api.HealthData, *apperr.Error) {
	var data api.HealthData
	if err := c.Do(ctx, http.MethodGet, "/api/health", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
