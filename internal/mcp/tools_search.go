package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

var searchTypes = []string{"cards", "pages", "notes", "boards"}

func (h *ToolHandlers) registerSearchTools(s McpServer) {
	h.addTool(s, newTool("search", readTool("Search Workspace"),
		"Full-text search across cards, pages, notes and boards of a workspace",
		workspaceArg(),
		mcp.WithString("query", mcp.Required(), mcp.MinLength(1), mcp.Description("Search text")),
		mcp.WithArray("types",
			mcp.Description("Restrict results to these resource types (default: all)"),
			mcp.WithStringEnumItems(searchTypes),
		),
		limitArg("results (default: 25)"),
	), h.handleSearch)
}

func (h *ToolHandlers) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.Search(ctx, req.GetString("workspace_id", ""), upstream.SearchParams{
		Query: req.GetString("query", ""),
		Types: getStringSlice(req, "types"),
		Limit: req.GetInt("limit", 0),
	})
	if err != nil {
		return toolError("search", err)
	}
	return jsonResult(v)
}
