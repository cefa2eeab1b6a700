package upstream

import (
	"context"
	"net/http"
)

// ListTags returns the tags (upstream "labels") of a workspace.
func (c *Client) ListTags(ctx context.Context, workspaceID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("labels"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, workspaceID, name, color string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("labels"))
	if err != nil {
		return Value{}, err
	}

	body := map[string]any{"name": name}
	setIfNotEmpty(body, "color", color)
	return c.doRequest(ctx, http.MethodPost, path, nil, body)
}

// AddTagToCard attaches a tag to a card.
func (c *Client) AddTagToCard(ctx context.Context, workspaceID, cardID, tagID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("cards"), ident("card_id", cardID), lit("labels"), ident("tag_id", tagID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, nil)
}

// RemoveTagFromCard detaches a tag from a card.
func (c *Client) RemoveTagFromCard(ctx context.Context, workspaceID, cardID, tagID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("cards"), ident("card_id", cardID), lit("labels"), ident("tag_id", tagID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
