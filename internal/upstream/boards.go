package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// List is a status column of a board or sprint (upstream "stage").
type List struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Position *int   `json:"sort_order,omitempty"`
}

type listContainer struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Stages []List `json:"stages"`
}

// BoardParams are the writable fields of a board.
type BoardParams struct {
	SpaceID     string
	Name        string
	Description string
	Lists       []string
}

func (p BoardParams) body() map[string]any {
	body := map[string]any{}
	setIfNotEmpty(body, "project_id", p.SpaceID)
	setIfNotEmpty(body, "name", p.Name)
	setIfNotEmpty(body, "description", p.Description)
	if len(p.Lists) > 0 {
		stages := make([]map[string]any, len(p.Lists))
		for i, name := range p.Lists {
			stages[i] = map[string]any{"name": name, "sort_order": i}
		}
		body["stages"] = stages
	}
	return body
}

// ListBoards returns the boards of a workspace, optionally limited to one space.
func (c *Client) ListBoards(ctx context.Context, workspaceID, spaceID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("boards"))
	if err != nil {
		return Value{}, err
	}

	query := url.Values{}
	if spaceID != "" {
		query.Set("project_id", spaceID)
	}
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}

// GetBoard returns a board including its lists.
func (c *Client) GetBoard(ctx context.Context, workspaceID, boardID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("boards"), ident("board_id", boardID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// BoardLists returns the lists of a board in display order.
func (c *Client) BoardLists(ctx context.Context, workspaceID, boardID string) ([]List, error) {
	v, err := c.GetBoard(ctx, workspaceID, boardID)
	if err != nil {
		return nil, err
	}

	return decodeLists(v)
}

// decodeLists reads the lists of a board or sprint response, unwrapping a
// {"data": {...}} envelope when the lists are not at the top level.
func decodeLists(v Value) ([]List, error) {
	if _, ok := v.Get("stages"); !ok {
		if data, ok := v.Get("data"); ok {
			v = data
		}
	}
	var c listContainer
	if err := decode(v, &c); err != nil {
		return nil, err
	}
	return c.Stages, nil
}

// CreateBoard creates a board with an optional initial set of lists.
func (c *Client) CreateBoard(ctx context.Context, workspaceID string, params BoardParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("boards"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, params.body())
}

// UpdateBoard changes the non-empty fields of params. Lists are not replaced
// through this call; use CreateList.
func (c *Client) UpdateBoard(ctx context.Context, workspaceID, boardID string, params BoardParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("boards"), ident("board_id", boardID))
	if err != nil {
		return Value{}, err
	}
	params.Lists = nil
	return c.doRequest(ctx, http.MethodPatch, path, nil, params.body())
}

// DeleteBoard deletes a board.
func (c *Client) DeleteBoard(ctx context.Context, workspaceID, boardID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("boards"), ident("board_id", boardID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// CreateList adds a list to a board. A nil position appends it.
func (c *Client) CreateList(ctx context.Context, workspaceID, boardID, name string, position *int) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("boards"), ident("board_id", boardID), lit("stages"))
	if err != nil {
		return Value{}, err
	}

	body := map[string]any{"name": name}
	if position != nil {
		body["sort_order"] = *position
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, body)
}
