package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	tests := []struct {
		header string
		want   string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"X-XSS-Protection", "1; mode=block"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Header().Get(tt.header))
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"extra spaces", "Bearer   abc123 ", "abc123"},
		{"missing", "", ""},
		{"basic", "Basic dXNlcjpwYXNz", ""},
		{"no token", "Bearer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(req))
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	fixed := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return fixed }

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("test-key"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("test-key"), "6th request should be denied")
	assert.True(t, rl.Allow("other-key"), "different key should be allowed")

	fixed = fixed.Add(time.Second)
	assert.True(t, rl.Allow("test-key"), "bucket refills over time")
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, 1)
	for i := 0; i < 1000; i++ {
		require.True(t, rl.Allow("k"))
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(2, 2)
	fixed := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return fixed }

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote, auth string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = remote
		if auth != "" {
			req.Header.Set("Authorization", "Bearer "+auth)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("192.168.1.1:12345", ""))
	assert.Equal(t, http.StatusOK, send("192.168.1.1:23456", ""))
	assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.1:34567", ""), "same host, different port")

	// Authenticated callers are keyed by token, not address.
	assert.Equal(t, http.StatusOK, send("192.168.1.1:12345", "token-a-123456789"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }

	rl.Allow("key1")
	rl.Allow("key2")

	now = now.Add(time.Minute)
	rl.Allow("key3")
	rl.Cleanup(30 * time.Second)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "key3")
}
