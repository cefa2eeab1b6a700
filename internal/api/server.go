package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/ycho/taskboard-mcp-server/docs" // swagger docs
	"github.com/ycho/taskboard-mcp-server/internal/config"
	"github.com/ycho/taskboard-mcp-server/internal/httpmw"
	"github.com/ycho/taskboard-mcp-server/internal/mcp"
	"github.com/ycho/taskboard-mcp-server/internal/metrics"
	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

// Config holds API server configuration
type Config struct {
	Settings  config.Settings
	Port      int
	RateLimit float64
}

// Server is the REST API server. It exposes the same tools as the MCP
// server, gated by the same settings.
type Server struct {
	config      Config
	router      *chi.Mux
	rateLimiter *httpmw.RateLimiter
	catalog     *mcp.Catalog
	metrics     *metrics.Recorder
}

// NewServer creates a new API server
func NewServer(cfg Config) *Server {
	rec := metrics.New()
	client := mcp.NewUpstreamClient(cfg.Settings, rec)

	catalog := mcp.NewCatalog()
	mcp.NewToolHandlers(client, cfg.Settings, rec).RegisterTools(catalog)

	s := &Server{
		config:      cfg,
		router:      chi.NewRouter(),
		rateLimiter: httpmw.NewRateLimiter(cfg.RateLimit, int(cfg.RateLimit*2)),
		catalog:     catalog,
		metrics:     rec,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(httpmw.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", s.metrics.Handler())

	// Swagger UI - uses swaggo generated docs
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(openAPISpec))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimiter.Middleware)
		r.Use(s.authMiddleware)

		r.Get("/tools", s.handleListTools)
		r.Get("/tools/{name}", s.handleGetTool)
		r.Post("/tools/{name}", s.handleCallTool)
	})
}

// authMiddleware forwards the caller's bearer token to upstream. Requests
// without one fall back to the configured token, if any.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := httpmw.BearerToken(r)
		if token == "" {
			if s.config.Settings.APIToken() == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "Missing Authorization: Bearer header")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(upstream.WithToken(r.Context(), token)))
	})
}

// Run starts the API server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	go s.rateLimiter.RunCleanup(ctx, 5*time.Minute, 10*time.Minute)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting REST API server",
		"address", addr,
		"base_url", s.config.Settings.BaseURL(),
		"tools", len(s.catalog.Tools()),
		"docs", fmt.Sprintf("http://localhost:%d/docs/index.html", s.config.Port),
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

const openAPISpec = `openapi: 3.0.3
info:
  title: Taskboard MCP Server API
  description: REST access to the task board tools exposed over MCP
  version: 1.0.0
servers:
  - url: /api/v1
security:
  - BearerAuth: []
components:
  securitySchemes:
    BearerAuth:
      type: http
      scheme: bearer
  schemas:
    Error:
      type: object
      properties:
        error:
          type: string
    Tool:
      type: object
      properties:
        name:
          type: string
        title:
          type: string
        description:
          type: string
        read_only:
          type: boolean
        destructive:
          type: boolean
        input_schema:
          type: object
    ToolResult:
      type: object
      properties:
        tool:
          type: string
        result: {}
paths:
  /tools:
    get:
      summary: List the enabled tools
      tags: [Tools]
      responses:
        '200':
          description: Tools sorted by name
          content:
            application/json:
              schema:
                type: object
                properties:
                  tools:
                    type: array
                    items:
                      $ref: '#/components/schemas/Tool'
                  count:
                    type: integer
  /tools/{name}:
    parameters:
      - name: name
        in: path
        required: true
        schema:
          type: string
        description: Tool name, e.g. cards_create
    get:
      summary: Describe a tool
      tags: [Tools]
      responses:
        '200':
          description: Tool with its input schema
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Tool'
        '404':
          description: Unknown or disabled tool
    post:
      summary: Call a tool
      tags: [Tools]
      requestBody:
        description: Tool arguments as described by the tool's input schema
        content:
          application/json:
            schema:
              type: object
      responses:
        '200':
          description: Tool result
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/ToolResult'
        '400':
          description: Request body is not a JSON object
        '404':
          description: Unknown or disabled tool
        '422':
          description: The tool reported an error
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
`
