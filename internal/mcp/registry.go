package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ycho/taskboard-mcp-server/internal/config"
	"github.com/ycho/taskboard-mcp-server/internal/metrics"
)

// McpServer interface for registering tools
type McpServer interface {
	AddTool(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// domain groups the tools of one resource family so they can be switched
// on or off together.
type domain struct {
	name     string
	register func(h *ToolHandlers, s McpServer)
}

// domains lists every tool domain in registration order.
var domains = []domain{
	{"workspaces", (*ToolHandlers).registerWorkspaceTools},
	{"users", (*ToolHandlers).registerUserTools},
	{"spaces", (*ToolHandlers).registerSpaceTools},
	{"boards", (*ToolHandlers).registerBoardTools},
	{"cards", (*ToolHandlers).registerCardTools},
	{"sprints", (*ToolHandlers).registerSprintTools},
	{"pages", (*ToolHandlers).registerPageTools},
	{"comments", (*ToolHandlers).registerCommentTools},
	{"notes", (*ToolHandlers).registerNoteTools},
	{"tags", (*ToolHandlers).registerTagTools},
	{"search", (*ToolHandlers).registerSearchTools},
	{"projects", (*ToolHandlers).registerProjectTools},
}

// Domains returns the names of all tool domains.
func Domains() []string {
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.name
	}
	return names
}

// RegisterTools registers the tools of every enabled domain on s.
func (h *ToolHandlers) RegisterTools(s McpServer) {
	known := Domains()
	for _, name := range h.settings.UnknownDomains(known) {
		if hint := config.Suggest(name, known); hint != "" {
			slog.Warn("unknown tool domain in enabled tools", "domain", name, "did_you_mean", hint)
		} else {
			slog.Warn("unknown tool domain in enabled tools", "domain", name, "valid", strings.Join(known, ","))
		}
	}

	var enabled []string
	for _, d := range domains {
		if !h.settings.DomainEnabled(d.name) {
			continue
		}
		d.register(h, s)
		enabled = append(enabled, d.name)
	}

	slog.Info("registered tool domains",
		"domains", strings.Join(enabled, ","),
		"read_only", h.settings.ReadOnly(),
		"top_position_patterns", len(h.positions.Patterns()),
	)
}

// addTool registers tool on s behind the shared invocation wrapper.
func (h *ToolHandlers) addTool(s McpServer, tool mcp.Tool, handler server.ToolHandlerFunc) {
	schema, err := compileToolSchema(tool)
	if err != nil {
		// Tool schemas are static; a broken one is a programming error.
		panic(fmt.Sprintf("invalid input schema for tool %s: %v", tool.Name, err))
	}
	s.AddTool(tool, h.wrap(tool, schema, handler))
}

// wrap applies the behavior every tool shares: read-only enforcement for
// mutating tools, argument validation, logging, metrics and panic recovery.
// The returned handler never returns a Go error.
func (h *ToolHandlers) wrap(tool mcp.Tool, schema *jsonschema.Schema, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	name := tool.Name
	mutating := isMutating(tool)

	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		start := time.Now()
		invocationID := uuid.NewString()
		logger := slog.With("tool", name, "invocation_id", invocationID)
		outcome := metrics.OutcomeSuccess

		defer func() {
			if r := recover(); r != nil {
				logger.Error("tool handler panicked", "panic", r)
				outcome = metrics.OutcomePanic
				result, err = mcp.NewToolResultError(fmt.Sprintf("Internal error in %s: %v", name, r)), nil
			}
			if result != nil && result.IsError && outcome == metrics.OutcomeSuccess {
				outcome = metrics.OutcomeError
			}
			h.metrics.ObserveTool(name, outcome, time.Since(start))
			if outcome != metrics.OutcomeSuccess {
				logger.Warn("tool call failed",
					"outcome", outcome,
					"duration", time.Since(start),
					"error", resultText(result),
				)
			} else {
				logger.Debug("tool call finished", "duration", time.Since(start))
			}
		}()

		logger.Debug("tool call started")

		if mutating {
			if err := h.checkReadOnly(); err != nil {
				outcome = metrics.OutcomeReadOnly
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		args := normalizeArgs(tool, req.GetArguments())
		if err := validateArgs(schema, args); err != nil {
			outcome = metrics.OutcomeInvalid
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments for %s: %v", name, err)), nil
		}
		req.Params.Arguments = args

		result, err = next(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to run %s: %v", name, err)), nil
		}
		return result, nil
	}
}

func isMutating(tool mcp.Tool) bool {
	ro := tool.Annotations.ReadOnlyHint
	return ro == nil || !*ro
}

func compileToolSchema(tool mcp.Tool) (*jsonschema.Schema, error) {
	raw := []byte(tool.RawInputSchema)
	if raw == nil {
		var err error
		raw, err = json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, err
		}
	}
	return jsonschema.CompileString(tool.Name+".json", string(raw))
}

// normalizeArgs returns a JSON-clean copy of args. Some clients send array
// and object arguments as JSON-encoded strings; those are decoded when the
// schema expects an array or object.
func normalizeArgs(tool mcp.Tool, args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for key, val := range args {
		if s, ok := val.(string); ok {
			switch propertyType(tool, key) {
			case "array":
				if strings.HasPrefix(strings.TrimSpace(s), "[") {
					var arr []any
					if err := json.Unmarshal([]byte(s), &arr); err == nil {
						val = arr
					}
				}
			case "object":
				if strings.HasPrefix(strings.TrimSpace(s), "{") {
					var m map[string]any
					if err := json.Unmarshal([]byte(s), &m); err == nil {
						val = m
					}
				}
			}
		}
		out[key] = val
	}

	// Round-trip so the validator only ever sees encoding/json types.
	data, err := json.Marshal(out)
	if err != nil {
		return out
	}
	var clean map[string]any
	if err := json.Unmarshal(data, &clean); err != nil || clean == nil {
		return out
	}
	return clean
}

func propertyType(tool mcp.Tool, key string) string {
	prop, ok := tool.InputSchema.Properties[key].(map[string]any)
	if !ok {
		return ""
	}
	t, _ := prop["type"].(string)
	return t
}

func validateArgs(schema *jsonschema.Schema, args map[string]any) error {
	err := schema.Validate(args)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	leaf := firstLeafValidationError(ve)
	loc := leaf.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	msg := leaf.Message
	if msg == "" {
		msg = leaf.Error()
	}
	return fmt.Errorf("at %s: %s", loc, msg)
}

func firstLeafValidationError(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return err
	}
	for _, c := range err.Causes {
		if leaf := firstLeafValidationError(c); leaf != nil {
			return leaf
		}
	}
	return err
}

func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}

// ErrUnknownTool is returned by Catalog.Call for names that were never
// registered (or belong to a disabled domain).
var ErrUnknownTool = errors.New("unknown tool")

// Catalog collects registered tools so they can be listed and invoked
// outside an MCP session. It implements McpServer.
type Catalog struct {
	tools map[string]server.ServerTool
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{tools: make(map[string]server.ServerTool)}
}

// AddTool implements McpServer.
func (c *Catalog) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	c.tools[tool.Name] = server.ServerTool{Tool: tool, Handler: handler}
}

// Tools returns the registered tools sorted by name.
func (c *Catalog) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(c.tools))
	for _, t := range c.tools {
		tools = append(tools, t.Tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Tool returns the named tool.
func (c *Catalog) Tool(name string) (mcp.Tool, bool) {
	t, ok := c.tools[name]
	return t.Tool, ok
}

// Call invokes the named tool with args.
func (c *Catalog) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, ok := c.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return t.Handler(ctx, req)
}
