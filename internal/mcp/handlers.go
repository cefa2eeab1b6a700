package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/config"
	"github.com/ycho/taskboard-mcp-server/internal/mention"
	"github.com/ycho/taskboard-mcp-server/internal/metrics"
	"github.com/ycho/taskboard-mcp-server/internal/position"
	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

// ToolHandlers contains all MCP tool handlers
type ToolHandlers struct {
	client    *upstream.Client
	settings  config.Settings
	mentions  *mention.Formatter
	positions *position.Policy
	metrics   *metrics.Recorder
	readOnly  bool
}

// NewToolHandlers creates new tool handlers. rec may be nil.
func NewToolHandlers(client *upstream.Client, settings config.Settings, rec *metrics.Recorder) *ToolHandlers {
	if settings.ReadOnly() {
		slog.Info("read-only mode enabled - all write operations will be blocked")
	}
	return &ToolHandlers{
		client:    client,
		settings:  settings,
		mentions:  mention.NewFormatter(client),
		positions: position.NewPolicy(settings.TopPositionPatterns()),
		metrics:   rec,
		readOnly:  settings.ReadOnly(),
	}
}

// checkReadOnly returns an error if the server is in read-only mode.
func (h *ToolHandlers) checkReadOnly() error {
	if h.readOnly {
		return fmt.Errorf("server is in read-only mode - write operations are disabled")
	}
	return nil
}

// formatContent applies mention formatting to a rich-text field. Empty
// content is left alone so updates do not clear the field.
func (h *ToolHandlers) formatContent(ctx context.Context, content, workspaceID string) string {
	if content == "" {
		return ""
	}
	return h.mentions.Format(ctx, content, workspaceID)
}

// Tool annotation presets.

func readTool(title string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func writeTool(title string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func deleteTool(title string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

// newTool builds a tool from an annotation preset, a description and its
// input properties.
func newTool(name string, preset []mcp.ToolOption, description string, props ...mcp.ToolOption) mcp.Tool {
	opts := append(preset, mcp.WithDescription(description))
	return mcp.NewTool(name, append(opts, props...)...)
}

func workspaceArg() mcp.ToolOption {
	return mcp.WithString("workspace_id",
		mcp.Required(),
		mcp.Description("Workspace ID (see workspaces_list)"),
	)
}

func limitArg(what string) mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description(fmt.Sprintf("Maximum number of %s to return", what)),
		mcp.Min(1),
	)
}

func offsetArg() mcp.ToolOption {
	return mcp.WithNumber("offset",
		mcp.Description("Number of results to skip"),
		mcp.Min(0),
	)
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// viewResult presents an upstream response with vw and returns it as JSON.
func viewResult(vw upstream.View, v upstream.Value) (*mcp.CallToolResult, error) {
	return jsonResult(vw.Present(v))
}

func getArrayArg(req mcp.CallToolRequest, key string) []any {
	args := req.GetArguments()
	if v, ok := args[key]; ok {
		if arr, ok := v.([]any); ok {
			return arr
		}
		// Try parsing from JSON string (MCP sometimes stringifies arrays)
		if s, ok := v.(string); ok && strings.HasPrefix(s, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return arr
			}
		}
	}
	return nil
}

func getStringSlice(req mcp.CallToolRequest, key string) []string {
	var out []string
	for _, item := range getArrayArg(req, key) {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// getBoolPtr returns nil when key is absent so updates can leave a flag
// untouched.
func getBoolPtr(req mcp.CallToolRequest, key string) *bool {
	if v, ok := req.GetArguments()[key].(bool); ok {
		return &v
	}
	return nil
}

func getIntPtr(req mcp.CallToolRequest, key string) *int {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil
	}
	v := req.GetInt(key, 0)
	return &v
}

func toolError(action string, err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err)), nil
}
