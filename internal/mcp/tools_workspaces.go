package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

func (h *ToolHandlers) registerWorkspaceTools(s McpServer) {
	h.addTool(s, newTool("workspaces_list", readTool("List Workspaces"),
		"List the workspaces the API token can access. Workspace IDs are required by almost every other tool.",
	), h.handleWorkspacesList)
}

func (h *ToolHandlers) registerUserTools(s McpServer) {
	h.addTool(s, newTool("users_me", readTool("Current User"),
		"Get the user that owns the API token",
	), h.handleUsersMe)

	h.addTool(s, newTool("users_list", readTool("List Workspace Members"),
		"List the members of a workspace. Member names can be mentioned in rich text as {{@Name}}.",
		workspaceArg(),
	), h.handleUsersList)
}

func (h *ToolHandlers) handleWorkspacesList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListWorkspaces(ctx)
	if err != nil {
		return toolError("list workspaces", err)
	}
	return viewResult(upstream.WorkspaceView, v)
}

func (h *ToolHandlers) handleUsersMe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetCurrentUser(ctx)
	if err != nil {
		return toolError("get current user", err)
	}
	return jsonResult(v)
}

func (h *ToolHandlers) handleUsersList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")

	members, err := h.client.ListMembers(ctx, workspaceID)
	if err != nil {
		return toolError("list members", err)
	}

	return jsonResult(map[string]any{
		"members": members,
		"count":   len(members),
	})
}
