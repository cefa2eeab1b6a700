package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

func (h *ToolHandlers) registerCommentTools(s McpServer) {
	h.addTool(s, newTool("comments_list", readTool("List Comments"),
		"List the comments on a card, oldest first",
		workspaceArg(),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card ID")),
	), h.handleCommentsList)

	h.addTool(s, newTool("comments_create", writeTool("Add Comment"),
		"Comment on a card. Mention members with {{@Name}} (escape as \\{{@Name}}).",
		workspaceArg(),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithString("content", mcp.Required(), mcp.MinLength(1), mcp.Description("Comment text or HTML")),
	), h.handleCommentsCreate)

	h.addTool(s, newTool("comments_update", writeTool("Edit Comment"),
		"Replace the text of a comment",
		workspaceArg(),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithString("comment_id", mcp.Required(), mcp.Description("Comment ID")),
		mcp.WithString("content", mcp.Required(), mcp.MinLength(1), mcp.Description("New comment text or HTML")),
	), h.handleCommentsUpdate)

	h.addTool(s, newTool("comments_delete", deleteTool("Delete Comment"),
		"Delete a comment",
		workspaceArg(),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card ID")),
		mcp.WithString("comment_id", mcp.Required(), mcp.Description("Comment ID")),
	), h.handleCommentsDelete)
}

func (h *ToolHandlers) handleCommentsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListComments(ctx, req.GetString("workspace_id", ""), req.GetString("card_id", ""))
	if err != nil {
		return toolError("list comments", err)
	}
	return viewResult(upstream.CommentView, v)
}

func (h *ToolHandlers) handleCommentsCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")
	content := h.formatContent(ctx, req.GetString("content", ""), workspaceID)

	v, err := h.client.CreateComment(ctx, workspaceID, req.GetString("card_id", ""), content)
	if err != nil {
		return toolError("create comment", err)
	}
	return viewResult(upstream.CommentView, v)
}

func (h *ToolHandlers) handleCommentsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")
	content := h.formatContent(ctx, req.GetString("content", ""), workspaceID)

	v, err := h.client.UpdateComment(ctx, workspaceID, req.GetString("card_id", ""), req.GetString("comment_id", ""), content)
	if err != nil {
		return toolError("update comment", err)
	}
	return viewResult(upstream.CommentView, v)
}

func (h *ToolHandlers) handleCommentsDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.DeleteComment(ctx, req.GetString("workspace_id", ""), req.GetString("card_id", ""), req.GetString("comment_id", ""))
	if err != nil {
		return toolError("delete comment", err)
	}
	return jsonResult(v)
}
