package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/ycho/taskboard-mcp-server/internal/config"
	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

// recordedCall is one request received by the fake upstream.
type recordedCall struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   map[string]any
}

func (c recordedCall) String() string {
	return c.Method + " " + c.Path
}

// fakeUpstream is an httptest server that records every request in order
// before dispatching it to the registered routes. Unrouted requests get 404.
type fakeUpstream struct {
	URL string
	mux *http.ServeMux

	mu    sync.Mutex
	calls []recordedCall
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(data))
		c := recordedCall{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Token:  r.Header.Get("Authorization"),
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, &c.Body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, c)
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	f.URL = srv.URL
	return f
}

// handle registers a route using http.ServeMux patterns ("POST /ws1/cards").
func (f *fakeUpstream) handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

// reply registers a route that always answers with status and body.
func (f *fakeUpstream) reply(pattern string, status int, body string) {
	f.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeUpstream) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func (f *fakeUpstream) CallLines() []string {
	var lines []string
	for _, c := range f.Calls() {
		lines = append(lines, c.String())
	}
	return lines
}

// newTestCatalog registers the enabled tools against f on a Catalog.
// configure may adjust the configuration before defaults are applied.
func newTestCatalog(t *testing.T, f *fakeUpstream, configure func(*config.Config)) *Catalog {
	t.Helper()
	cfg := &config.Config{APIToken: "test-token"}
	if f != nil {
		cfg.BaseURL = f.URL
	}
	if configure != nil {
		configure(cfg)
	}
	cfg.ApplyDefaults()

	settings := cfg.Settings()
	client := upstream.NewClient(settings.BaseURL(), settings.APIToken())
	cat := NewCatalog()
	NewToolHandlers(client, settings, nil).RegisterTools(cat)
	return cat
}

func callTool(t *testing.T, cat *Catalog, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := cat.Call(context.Background(), name, args)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// requireSuccess asserts a non-error envelope and decodes its JSON text.
func requireSuccess(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	text := resultText(result)
	require.False(t, result.IsError, "unexpected error envelope: %s", text)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out), text)
	return out
}

// requireError asserts an error envelope and returns its text.
func requireError(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, result.IsError, "expected error envelope, got: %s", resultText(result))
	return resultText(result)
}
