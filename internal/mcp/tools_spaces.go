package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

func (h *ToolHandlers) registerSpaceTools(s McpServer) {
	h.addTool(s, newTool("spaces_list", readTool("List Spaces"),
		"List the spaces of a workspace",
		workspaceArg(),
		mcp.WithBoolean("include_archived",
			mcp.Description("Include archived spaces (default: false)"),
		),
	), h.handleSpacesList)

	h.addTool(s, newTool("spaces_get", readTool("Get Space"),
		"Get a space by ID",
		workspaceArg(),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
	), h.handleSpacesGet)

	h.addTool(s, newTool("spaces_create", writeTool("Create Space"),
		"Create a space",
		workspaceArg(),
		mcp.WithString("name", mcp.Required(), mcp.MinLength(1), mcp.Description("Space name")),
		mcp.WithString("description", mcp.Description("Space description")),
		mcp.WithString("color", mcp.Description("Color as a hex code, e.g. #3366ff")),
	), h.handleSpacesCreate)

	h.addTool(s, newTool("spaces_update", writeTool("Update Space"),
		"Update a space. Only the fields given are changed.",
		workspaceArg(),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("color", mcp.Description("New color")),
		mcp.WithBoolean("archived", mcp.Description("Archive or unarchive the space")),
	), h.handleSpacesUpdate)

	h.addTool(s, newTool("spaces_delete", deleteTool("Delete Space"),
		"Delete a space and everything in it",
		workspaceArg(),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space ID")),
	), h.handleSpacesDelete)
}

func (h *ToolHandlers) handleSpacesList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListSpaces(ctx, req.GetString("workspace_id", ""), req.GetBool("include_archived", false))
	if err != nil {
		return toolError("list spaces", err)
	}
	return viewResult(upstream.SpaceView, v)
}

func (h *ToolHandlers) handleSpacesGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetSpace(ctx, req.GetString("workspace_id", ""), req.GetString("space_id", ""))
	if err != nil {
		return toolError("get space", err)
	}
	return viewResult(upstream.SpaceView, v)
}

func (h *ToolHandlers) handleSpacesCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.CreateSpace(ctx, req.GetString("workspace_id", ""), upstream.SpaceParams{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		Color:       req.GetString("color", ""),
	})
	if err != nil {
		return toolError("create space", err)
	}
	return viewResult(upstream.SpaceView, v)
}

func (h *ToolHandlers) handleSpacesUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.UpdateSpace(ctx, req.GetString("workspace_id", ""), req.GetString("space_id", ""), upstream.SpaceParams{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		Color:       req.GetString("color", ""),
		Archived:    getBoolPtr(req, "archived"),
	})
	if err != nil {
		return toolError("update space", err)
	}
	return viewResult(upstream.SpaceView, v)
}

func (h *ToolHandlers) handleSpacesDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.DeleteSpace(ctx, req.GetString("workspace_id", ""), req.GetString("space_id", ""))
	if err != nil {
		return toolError("delete space", err)
	}
	return jsonResult(v)
}
