package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// PageParams are the writable fields of a page (upstream "doc").
type PageParams struct {
	SpaceID      string
	ParentPageID string
	Title        string
	Content      string
}

func (p PageParams) body() map[string]any {
	body := map[string]any{}
	setIfNotEmpty(body, "project_id", p.SpaceID)
	setIfNotEmpty(body, "parent_id", p.ParentPageID)
	setIfNotEmpty(body, "name", p.Title)
	setIfNotEmpty(body, "content", p.Content)
	return body
}

// ListPages returns the pages of a workspace, optionally limited to one space.
func (c *Client) ListPages(ctx context.Context, workspaceID, spaceID string, limit, offset int) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("docs"))
	if err != nil {
		return Value{}, err
	}

	query := url.Values{}
	if spaceID != "" {
		query.Set("project_id", spaceID)
	}
	setPaging(query, limit, offset)
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}

// GetPage returns a single page with its content.
func (c *Client) GetPage(ctx context.Context, workspaceID, pageID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("docs"), ident("page_id", pageID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// CreatePage creates a page.
func (c *Client) CreatePage(ctx context.Context, workspaceID string, params PageParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("docs"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, params.body())
}

// UpdatePage changes the non-empty fields of params.
func (c *Client) UpdatePage(ctx context.Context, workspaceID, pageID string, params PageParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("docs"), ident("page_id", pageID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, nil, params.body())
}

// DeletePage deletes a page.
func (c *Client) DeletePage(ctx context.Context, workspaceID, pageID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("docs"), ident("page_id", pageID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
