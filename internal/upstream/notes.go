package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// NoteParams are the writable fields of a note.
type NoteParams struct {
	Title   string
	Content string
	CardID  string
	Pinned  *bool
}

func (p NoteParams) body() map[string]any {
	body := map[string]any{}
	setIfNotEmpty(body, "title", p.Title)
	setIfNotEmpty(body, "body", p.Content)
	setIfNotEmpty(body, "card_id", p.CardID)
	if p.Pinned != nil {
		body["pinned"] = *p.Pinned
	}
	return body
}

// ListNotes returns the notes of a workspace, optionally only those attached
// to one card.
func (c *Client) ListNotes(ctx context.Context, workspaceID, cardID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("notes"))
	if err != nil {
		return Value{}, err
	}

	query := url.Values{}
	if cardID != "" {
		query.Set("card_id", cardID)
	}
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}

// GetNote returns a single note.
func (c *Client) GetNote(ctx context.Context, workspaceID, noteID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("notes"), ident("note_id", noteID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, workspaceID string, params NoteParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("notes"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, params.body())
}

// UpdateNote changes the non-empty fields of params.
func (c *Client) UpdateNote(ctx context.Context, workspaceID, noteID string, params NoteParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("notes"), ident("note_id", noteID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, nil, params.body())
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, workspaceID, noteID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("notes"), ident("note_id", noteID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
