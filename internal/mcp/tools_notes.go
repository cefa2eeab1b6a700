package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

func (h *ToolHandlers) registerNoteTools(s McpServer) {
	h.addTool(s, newTool("notes_list", readTool("List Notes"),
		"List notes in a workspace, optionally only those attached to a card",
		workspaceArg(),
		mcp.WithString("card_id", mcp.Description("Only notes attached to this card")),
	), h.handleNotesList)

	h.addTool(s, newTool("notes_get", readTool("Get Note"),
		"Get a note",
		workspaceArg(),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Note ID")),
	), h.handleNotesGet)

	h.addTool(s, newTool("notes_create", writeTool("Create Note"),
		"Create a note. Mention members with {{@Name}} (escape as \\{{@Name}}).",
		workspaceArg(),
		mcp.WithString("title", mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.MinLength(1), mcp.Description("Note text or HTML")),
		mcp.WithString("card_id", mcp.Description("Attach the note to this card")),
		mcp.WithBoolean("pinned", mcp.Description("Pin the note")),
	), h.handleNotesCreate)

	h.addTool(s, newTool("notes_update", writeTool("Update Note"),
		"Update a note. Only the fields given are changed.",
		workspaceArg(),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Note ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New text or HTML")),
		mcp.WithBoolean("pinned", mcp.Description("Pin or unpin the note")),
	), h.handleNotesUpdate)

	h.addTool(s, newTool("notes_delete", deleteTool("Delete Note"),
		"Delete a note",
		workspaceArg(),
		mcp.WithString("note_id", mcp.Required(), mcp.Description("Note ID")),
	), h.handleNotesDelete)
}

func (h *ToolHandlers) handleNotesList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListNotes(ctx, req.GetString("workspace_id", ""), req.GetString("card_id", ""))
	if err != nil {
		return toolError("list notes", err)
	}
	return viewResult(upstream.NoteView, v)
}

func (h *ToolHandlers) handleNotesGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetNote(ctx, req.GetString("workspace_id", ""), req.GetString("note_id", ""))
	if err != nil {
		return toolError("get note", err)
	}
	return viewResult(upstream.NoteView, v)
}

func (h *ToolHandlers) handleNotesCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")

	v, err := h.client.CreateNote(ctx, workspaceID, upstream.NoteParams{
		Title:   req.GetString("title", ""),
		Content: h.formatContent(ctx, req.GetString("content", ""), workspaceID),
		CardID:  req.GetString("card_id", ""),
		Pinned:  getBoolPtr(req, "pinned"),
	})
	if err != nil {
		return toolError("create note", err)
	}
	return viewResult(upstream.NoteView, v)
}

func (h *ToolHandlers) handleNotesUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")

	v, err := h.client.UpdateNote(ctx, workspaceID, req.GetString("note_id", ""), upstream.NoteParams{
		Title:   req.GetString("title", ""),
		Content: h.formatContent(ctx, req.GetString("content", ""), workspaceID),
		Pinned:  getBoolPtr(req, "pinned"),
	})
	if err != nil {
		return toolError("update note", err)
	}
	return viewResult(upstream.NoteView, v)
}

func (h *ToolHandlers) handleNotesDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.DeleteNote(ctx, req.GetString("workspace_id", ""), req.GetString("note_id", ""))
	if err != nil {
		return toolError("delete note", err)
	}
	return jsonResult(v)
}
