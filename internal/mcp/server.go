package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ycho/taskboard-mcp-server/internal/config"
	"github.com/ycho/taskboard-mcp-server/internal/httpmw"
	"github.com/ycho/taskboard-mcp-server/internal/metrics"
	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

const (
	ServerName    = "taskboard-mcp-server"
	ServerVersion = "1.0.0"
)

const instructions = `Tools for a task board workspace. Start with workspaces_list to find a workspace_id.
Cards live in lists on boards or sprints; use boards_get or sprints_get to see list IDs.
cards_create, cards_update, cards_delete, tags_add and tags_remove take arrays and apply items in order.
Mention members in descriptions and comments with {{@Name}}.`

// Config holds MCP server configuration
type Config struct {
	Settings  config.Settings
	Port      int
	HTTPMode  bool
	RateLimit float64
}

// Server wraps the MCP server
type Server struct {
	config  Config
	mcp     *server.MCPServer
	handler *ToolHandlers
	metrics *metrics.Recorder
}

// NewServer creates the MCP server and registers the enabled tools.
func NewServer(cfg Config) *Server {
	rec := metrics.New()
	client := NewUpstreamClient(cfg.Settings, rec)

	s := &Server{
		config:  cfg,
		metrics: rec,
		mcp: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
			server.WithInstructions(instructions),
		),
		handler: NewToolHandlers(client, cfg.Settings, rec),
	}
	s.handler.RegisterTools(s.mcp)
	return s
}

// NewUpstreamClient builds the upstream client from settings, reporting
// request outcomes to rec.
func NewUpstreamClient(settings config.Settings, rec *metrics.Recorder) *upstream.Client {
	opts := []upstream.Option{upstream.WithTimeout(settings.RequestTimeout())}
	if rec != nil {
		opts = append(opts, upstream.WithObserver(rec.ObserveUpstream))
	}
	return upstream.NewClient(settings.BaseURL(), settings.APIToken(), opts...)
}

// Run starts the MCP server and blocks until it stops. In HTTP mode it
// shuts down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.config.HTTPMode {
		return s.runHTTP(ctx)
	}

	slog.Info("Starting MCP server in stdio mode",
		"base_url", s.config.Settings.BaseURL(),
	)
	return server.ServeStdio(s.mcp)
}

func (s *Server) runHTTP(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	limiter := newRateLimiter(s.config.RateLimit)
	go limiter.RunCleanup(ctx, 5*time.Minute, 10*time.Minute)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.httpHandler(limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting MCP server in HTTP mode",
		"address", addr,
		"endpoint", "/mcp",
		"base_url", s.config.Settings.BaseURL(),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Handler returns the HTTP handler used in HTTP mode: the streamable MCP
// endpoint at /mcp plus /health and /metrics.
func (s *Server) Handler() http.Handler {
	return s.httpHandler(newRateLimiter(s.config.RateLimit))
}

func (s *Server) httpHandler(limiter *httpmw.RateLimiter) http.Handler {
	streamable := server.NewStreamableHTTPServer(s.mcp,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if token := httpmw.BearerToken(r); token != "" {
				return upstream.WithToken(ctx, token)
			}
			return ctx
		}),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmw.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(s.requireToken)
		r.Handle("/mcp", streamable)
	})
	return r
}

// requireToken rejects requests that carry no bearer token when no token
// is configured either; upstream calls would fail anyway.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.Settings.APIToken() == "" && httpmw.BearerToken(r) == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "Missing Authorization: Bearer header", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// newRateLimiter allows perSecond requests per client with bursts of twice
// that.
func newRateLimiter(perSecond float64) *httpmw.RateLimiter {
	return httpmw.NewRateLimiter(perSecond, int(perSecond*2))
}
