package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// ProjectParams are the writable fields of a roadmap project (upstream
// "initiative"). Roadmap projects are unrelated to spaces.
type ProjectParams struct {
	Name        string
	Description string
	Status      string
	StartDate   string
	TargetDate  string
	OwnerID     string
}

func (p ProjectParams) body() map[string]any {
	body := map[string]any{}
	setIfNotEmpty(body, "name", p.Name)
	setIfNotEmpty(body, "description", p.Description)
	setIfNotEmpty(body, "status", p.Status)
	setIfNotEmpty(body, "starts_at", p.StartDate)
	setIfNotEmpty(body, "target_at", p.TargetDate)
	setIfNotEmpty(body, "owner_id", p.OwnerID)
	return body
}

// ListProjects returns roadmap projects, optionally filtered by status.
func (c *Client) ListProjects(ctx context.Context, workspaceID, status string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("initiatives"))
	if err != nil {
		return Value{}, err
	}

	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}

// GetProject returns a single roadmap project.
func (c *Client) GetProject(ctx context.Context, workspaceID, projectID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("initiatives"), ident("project_id", projectID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// CreateProject creates a roadmap project.
func (c *Client) CreateProject(ctx context.Context, workspaceID string, params ProjectParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("initiatives"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, params.body())
}

// UpdateProject changes the non-empty fields of params.
func (c *Client) UpdateProject(ctx context.Context, workspaceID, projectID string, params ProjectParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("initiatives"), ident("project_id", projectID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, nil, params.body())
}
