package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// SprintParams are the writable fields of a sprint.
type SprintParams struct {
	Name      string
	Goal      string
	StartDate string
	EndDate   string
	Status    string
}

func (p SprintParams) body() map[string]any {
	body := map[string]any{}
	setIfNotEmpty(body, "name", p.Name)
	setIfNotEmpty(body, "goal", p.Goal)
	setIfNotEmpty(body, "starts_at", p.StartDate)
	setIfNotEmpty(body, "ends_at", p.EndDate)
	setIfNotEmpty(body, "status", p.Status)
	return body
}

// ListSprints returns the sprints of a workspace, optionally filtered by status.
func (c *Client) ListSprints(ctx context.Context, workspaceID, status string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("sprints"))
	if err != nil {
		return Value{}, err
	}

	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}

// GetSprint returns a sprint including its lists.
func (c *Client) GetSprint(ctx context.Context, workspaceID, sprintID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("sprints"), ident("sprint_id", sprintID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// SprintLists returns the lists of a sprint in display order.
func (c *Client) SprintLists(ctx context.Context, workspaceID, sprintID string) ([]List, error) {
	v, err := c.GetSprint(ctx, workspaceID, sprintID)
	if err != nil {
		return nil, err
	}

	return decodeLists(v)
}

// CreateSprint creates a sprint.
func (c *Client) CreateSprint(ctx context.Context, workspaceID string, params SprintParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("sprints"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, params.body())
}

// UpdateSprint changes the non-empty fields of params.
func (c *Client) UpdateSprint(ctx context.Context, workspaceID, sprintID string, params SprintParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("sprints"), ident("sprint_id", sprintID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, nil, params.body())
}
