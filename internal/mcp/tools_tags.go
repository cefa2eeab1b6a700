package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

// tagAssignment is one item of a tags_add or tags_remove batch.
type tagAssignment struct {
	CardID string `json:"card_id"`
	TagID  string `json:"tag_id"`
}

func (a tagAssignment) label() string {
	return a.CardID + "/" + a.TagID
}

func (a tagAssignment) result(key string) upstream.Value {
	return upstream.Map(
		upstream.Field{Key: "card_id", Value: upstream.String(a.CardID)},
		upstream.Field{Key: "tag_id", Value: upstream.String(a.TagID)},
		upstream.Field{Key: key, Value: upstream.Bool(true)},
	)
}

func tagAssignmentsArg(description string) mcp.ToolOption {
	return mcp.WithArray("items",
		mcp.Required(),
		mcp.MinItems(1),
		mcp.Description(description),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"card_id": map[string]any{"type": "string", "minLength": 1, "description": "Card ID"},
				"tag_id":  map[string]any{"type": "string", "minLength": 1, "description": "Tag ID"},
			},
			"required":             []string{"card_id", "tag_id"},
			"additionalProperties": false,
		}),
	)
}

func (h *ToolHandlers) registerTagTools(s McpServer) {
	h.addTool(s, newTool("tags_list", readTool("List Tags"),
		"List the tags of a workspace",
		workspaceArg(),
	), h.handleTagsList)

	h.addTool(s, newTool("tags_create", writeTool("Create Tag"),
		"Create a tag",
		workspaceArg(),
		mcp.WithString("name", mcp.Required(), mcp.MinLength(1), mcp.Description("Tag name")),
		mcp.WithString("color", mcp.Description("Color as a hex code, e.g. #ff0000")),
	), h.handleTagsCreate)

	h.addTool(s, newTool("tags_add", writeTool("Tag Cards"),
		"Apply tags to cards. Items are applied in order; if one fails, earlier ones stay applied.",
		workspaceArg(),
		tagAssignmentsArg("Card/tag pairs to apply"),
	), h.handleTagsAdd)

	h.addTool(s, newTool("tags_remove", deleteTool("Untag Cards"),
		"Remove tags from cards. Items are applied in order; if one fails, earlier ones stay removed.",
		workspaceArg(),
		tagAssignmentsArg("Card/tag pairs to remove"),
	), h.handleTagsRemove)
}

func (h *ToolHandlers) handleTagsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListTags(ctx, req.GetString("workspace_id", ""))
	if err != nil {
		return toolError("list tags", err)
	}
	return viewResult(upstream.TagView, v)
}

func (h *ToolHandlers) handleTagsCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.CreateTag(ctx, req.GetString("workspace_id", ""), req.GetString("name", ""), req.GetString("color", ""))
	if err != nil {
		return toolError("create tag", err)
	}
	return viewResult(upstream.TagView, v)
}

func (h *ToolHandlers) handleTagsAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID, items, err := bindBatch[tagAssignment](req, "items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return runBatch(ctx, "add tag", items, func(ctx context.Context, i int, a tagAssignment) (upstream.Value, string, error) {
		if _, err := h.client.AddTagToCard(ctx, workspaceID, a.CardID, a.TagID); err != nil {
			return upstream.Value{}, "", err
		}
		return a.result("added"), a.label(), nil
	})
}

func (h *ToolHandlers) handleTagsRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID, items, err := bindBatch[tagAssignment](req, "items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return runBatch(ctx, "remove tag", items, func(ctx context.Context, i int, a tagAssignment) (upstream.Value, string, error) {
		if _, err := h.client.RemoveTagFromCard(ctx, workspaceID, a.CardID, a.TagID); err != nil {
			return upstream.Value{}, "", err
		}
		return a.result("removed"), a.label(), nil
	})
}
