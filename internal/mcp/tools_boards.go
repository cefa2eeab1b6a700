package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

func (h *ToolHandlers) registerBoardTools(s McpServer) {
	h.addTool(s, newTool("boards_list", readTool("List Boards"),
		"List the boards of a workspace, optionally limited to one space",
		workspaceArg(),
		mcp.WithString("space_id", mcp.Description("Only boards in this space")),
	), h.handleBoardsList)

	h.addTool(s, newTool("boards_get", readTool("Get Board"),
		"Get a board including its lists in display order",
		workspaceArg(),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board ID")),
	), h.handleBoardsGet)

	h.addTool(s, newTool("boards_create", writeTool("Create Board"),
		"Create a board, optionally with an initial set of lists (left to right)",
		workspaceArg(),
		mcp.WithString("space_id", mcp.Required(), mcp.Description("Space the board belongs to")),
		mcp.WithString("name", mcp.Required(), mcp.MinLength(1), mcp.Description("Board name")),
		mcp.WithString("description", mcp.Description("Board description")),
		mcp.WithArray("lists",
			mcp.Description("Names of the lists to create, e.g. [\"Todo\", \"Doing\", \"Done\"]"),
			mcp.WithStringItems(mcp.MinLength(1)),
		),
	), h.handleBoardsCreate)

	h.addTool(s, newTool("boards_update", writeTool("Update Board"),
		"Update a board's name or description. Use lists_create to add lists.",
		workspaceArg(),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("description", mcp.Description("New description")),
	), h.handleBoardsUpdate)

	h.addTool(s, newTool("boards_delete", deleteTool("Delete Board"),
		"Delete a board and all of its cards",
		workspaceArg(),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board ID")),
	), h.handleBoardsDelete)

	h.addTool(s, newTool("lists_create", writeTool("Create List"),
		"Add a list (status column) to a board",
		workspaceArg(),
		mcp.WithString("board_id", mcp.Required(), mcp.Description("Board ID")),
		mcp.WithString("name", mcp.Required(), mcp.MinLength(1), mcp.Description("List name")),
		mcp.WithNumber("position",
			mcp.Description("Zero-based position among the board's lists (default: last)"),
			mcp.Min(0),
		),
	), h.handleListsCreate)
}

func (h *ToolHandlers) handleBoardsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListBoards(ctx, req.GetString("workspace_id", ""), req.GetString("space_id", ""))
	if err != nil {
		return toolError("list boards", err)
	}
	return viewResult(upstream.BoardView, v)
}

func (h *ToolHandlers) handleBoardsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetBoard(ctx, req.GetString("workspace_id", ""), req.GetString("board_id", ""))
	if err != nil {
		return toolError("get board", err)
	}
	return viewResult(upstream.BoardView, v)
}

func (h *ToolHandlers) handleBoardsCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.CreateBoard(ctx, req.GetString("workspace_id", ""), upstream.BoardParams{
		SpaceID:     req.GetString("space_id", ""),
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		Lists:       getStringSlice(req, "lists"),
	})
	if err != nil {
		return toolError("create board", err)
	}
	return viewResult(upstream.BoardView, v)
}

func (h *ToolHandlers) handleBoardsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.UpdateBoard(ctx, req.GetString("workspace_id", ""), req.GetString("board_id", ""), upstream.BoardParams{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
	})
	if err != nil {
		return toolError("update board", err)
	}
	return viewResult(upstream.BoardView, v)
}

func (h *ToolHandlers) handleBoardsDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.DeleteBoard(ctx, req.GetString("workspace_id", ""), req.GetString("board_id", ""))
	if err != nil {
		return toolError("delete board", err)
	}
	return jsonResult(v)
}

func (h *ToolHandlers) handleListsCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.CreateList(ctx,
		req.GetString("workspace_id", ""),
		req.GetString("board_id", ""),
		req.GetString("name", ""),
		getIntPtr(req, "position"),
	)
	if err != nil {
		return toolError("create list", err)
	}
	return viewResult(upstream.ListView, v)
}
