package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// SpaceParams are the writable fields of a space (upstream "project").
type SpaceParams struct {
	Name        string
	Description string
	Color       string
	Archived    *bool
}

func (p SpaceParams) body() map[string]any {
	body := map[string]any{}
	setIfNotEmpty(body, "name", p.Name)
	setIfNotEmpty(body, "description", p.Description)
	setIfNotEmpty(body, "color", p.Color)
	if p.Archived != nil {
		body["archived"] = *p.Archived
	}
	return body
}

// ListSpaces returns the spaces of a workspace. Archived spaces are only
// included when includeArchived is set.
func (c *Client) ListSpaces(ctx context.Context, workspaceID string, includeArchived bool) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("projects"))
	if err != nil {
		return Value{}, err
	}

	query := url.Values{}
	if includeArchived {
		query.Set("archived", "true")
	}
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}

// GetSpace returns a single space.
func (c *Client) GetSpace(ctx context.Context, workspaceID, spaceID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("projects"), ident("space_id", spaceID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// CreateSpace creates a space.
func (c *Client) CreateSpace(ctx context.Context, workspaceID string, params SpaceParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("projects"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, params.body())
}

// UpdateSpace changes the non-empty fields of params.
func (c *Client) UpdateSpace(ctx context.Context, workspaceID, spaceID string, params SpaceParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("projects"), ident("space_id", spaceID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, nil, params.body())
}

// DeleteSpace deletes a space.
func (c *Client) DeleteSpace(ctx context.Context, workspaceID, spaceID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("projects"), ident("space_id", spaceID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
