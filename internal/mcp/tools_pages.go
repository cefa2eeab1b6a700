package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

func (h *ToolHandlers) registerPageTools(s McpServer) {
	h.addTool(s, newTool("pages_list", readTool("List Pages"),
		"List the documentation pages of a workspace",
		workspaceArg(),
		mcp.WithString("space_id", mcp.Description("Only pages in this space")),
		limitArg("pages"),
		offsetArg(),
	), h.handlePagesList)

	h.addTool(s, newTool("pages_get", readTool("Get Page"),
		"Get a page including its content",
		workspaceArg(),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
	), h.handlePagesGet)

	h.addTool(s, newTool("pages_create", writeTool("Create Page"),
		"Create a page. Content is HTML; mention members with {{@Name}} (escape as \\{{@Name}}).",
		workspaceArg(),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space the page belongs to")),
		mcp.WithString("title", mcp.Required(), mcp.MinLength(1), mcp.Description("Page title")),
		mcp.WithString("content", mcp.Description("Page content (HTML)")),
		mcp.WithString("parent_page_id", mcp.Description("Nest the page under this page")),
	), h.handlePagesCreate)

	h.addTool(s, newTool("pages_update", writeTool("Update Page"),
		"Update a page. Only the fields given are changed.",
		workspaceArg(),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content (HTML), replaces the old content")),
		mcp.WithString("parent_page_id", mcp.Description("Move the page under this page")),
	), h.handlePagesUpdate)

	h.addTool(s, newTool("pages_delete", deleteTool("Delete Page"),
		"Delete a page",
		workspaceArg(),
		mcp.WithString("page_id", mcp.Required(), mcp.Description("Page ID")),
	), h.handlePagesDelete)
}

func (h *ToolHandlers) handlePagesList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListPages(ctx,
		req.GetString("workspace_id", ""),
		req.GetString("space_id", ""),
		req.GetInt("limit", 0),
		req.GetInt("offset", 0),
	)
	if err != nil {
		return toolError("list pages", err)
	}
	return viewResult(upstream.PageView, v)
}

func (h *ToolHandlers) handlePagesGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetPage(ctx, req.GetString("workspace_id", ""), req.GetString("page_id", ""))
	if err != nil {
		return toolError("get page", err)
	}
	return viewResult(upstream.PageView, v)
}

func (h *ToolHandlers) handlePagesCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")

	v, err := h.client.CreatePage(ctx, workspaceID, upstream.PageParams{
		SpaceID:      req.GetString("space_id", ""),
		ParentPageID: req.GetString("parent_page_id", ""),
		Title:        req.GetString("title", ""),
		Content:      h.formatContent(ctx, req.GetString("content", ""), workspaceID),
	})
	if err != nil {
		return toolError("create page", err)
	}
	return viewResult(upstream.PageView, v)
}

func (h *ToolHandlers) handlePagesUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")

	v, err := h.client.UpdatePage(ctx, workspaceID, req.GetString("page_id", ""), upstream.PageParams{
		ParentPageID: req.GetString("parent_page_id", ""),
		Title:        req.GetString("title", ""),
		Content:      h.formatContent(ctx, req.GetString("content", ""), workspaceID),
	})
	if err != nil {
		return toolError("update page", err)
	}
	return viewResult(upstream.PageView, v)
}

func (h *ToolHandlers) handlePagesDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.DeletePage(ctx, req.GetString("workspace_id", ""), req.GetString("page_id", ""))
	if err != nil {
		return toolError("delete page", err)
	}
	return jsonResult(v)
}
