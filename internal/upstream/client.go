package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a client for the task board REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	observer   RequestObserver
}

// RequestObserver is called once per upstream request. status is 0 when no
// response was received.
type RequestObserver func(method string, status int, elapsed time.Duration)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithObserver installs a hook that sees every request outcome.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a new API client
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenContextKey struct{}

// WithToken returns a context whose requests authenticate with token instead
// of the client's configured one. HTTP transports use it to forward the
// caller's own credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func (c *Client) tokenFor(ctx context.Context) string {
	if t, ok := ctx.Value(tokenContextKey{}).(string); ok && t != "" {
		return t
	}
	return c.token
}

// APIError is returned for any non-2xx upstream response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// doRequest performs an HTTP request against the API and parses the JSON
// response. Responses without a body (204, zero length or whitespace only)
// yield a {"success": true} marker.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (Value, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return Value{}, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return Value{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.tokenFor(ctx))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		return Value{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	c.observe(method, resp.StatusCode, start)
	if err != nil {
		return Value{}, fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("upstream request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Value{}, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return successMarker(), nil
	}

	v, err := ParseValue(respBody)
	if err != nil {
		return Value{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return v, nil
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.observer != nil {
		c.observer(method, status, time.Since(start))
	}
}

// decode converts a parsed response into a typed struct.
func decode(v Value, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// ID is an upstream identifier. The API returns identifiers as strings on
// most endpoints and as numbers on a few older ones; both decode to ID.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*i = ID(n.String())
	return nil
}

// ResourceID extracts the identifier from a create/get response. Some
// endpoints wrap the resource in a "data" object.
func ResourceID(v Value) string {
	if id, ok := v.Get("id"); ok {
		return id.Text()
	}
	if data, ok := v.Get("data"); ok {
		if id, ok := data.Get("id"); ok {
			return id.Text()
		}
	}
	return ""
}

func setIfNotEmpty(body map[string]any, key, value string) {
	if value != "" {
		body[key] = value
	}
}

func setPaging(query url.Values, limit, offset int) {
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
}
