package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ycho/taskboard-mcp-server/internal/api"
	"github.com/ycho/taskboard-mcp-server/internal/config"
	"github.com/ycho/taskboard-mcp-server/internal/mcp"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	baseURL    string
	port       int
	logLevel   string
	readOnly   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "taskboard-mcp-server",
		Short:   "Taskboard MCP Server - AI assistant integration for the task board API",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "api-url", "", "Task board API base URL (overrides TASKBOARD_API_URL)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "Server port for HTTP and API modes (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Block all write tools (overrides TASKBOARD_READ_ONLY)")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the MCP server over stdio, or over streamable HTTP with --http",
		RunE:  runMCP,
	}

	var httpMode bool
	mcpCmd.Flags().BoolVar(&httpMode, "http", false, "Serve streamable HTTP at /mcp instead of stdio")

	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Start REST API server",
		Long:  "Start the REST API server that lists and calls the MCP tools over plain HTTP",
		RunE:  runAPI,
	}

	rootCmd.AddCommand(mcpCmd, apiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stderr only: stdout carries the MCP stream in stdio mode.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the config file and environment, then applies the flags
// the user actually set.
func loadConfig(cmd *cobra.Command, requireToken bool) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("read-only") {
		cfg.ReadOnly = readOnly
	}

	if err := cfg.Validate(requireToken); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	httpMode, _ := cmd.Flags().GetBool("http")

	// Over HTTP each caller may bring its own token.
	cfg, err := loadConfig(cmd, !httpMode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(mcp.Config{
		Settings:  cfg.Settings(),
		Port:      cfg.Port,
		HTTPMode:  httpMode,
		RateLimit: cfg.RateLimit,
	})
	return server.Run(ctx)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(api.Config{
		Settings:  cfg.Settings(),
		Port:      cfg.Port,
		RateLimit: cfg.RateLimit,
	})
	return server.Run(ctx)
}
