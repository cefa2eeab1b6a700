package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// SearchParams are parameters for a workspace-wide search.
type SearchParams struct {
	Query string
	Types []string // cards, pages, notes, boards
	Limit int
}

// Search runs a full-text search across a workspace.
func (c *Client) Search(ctx context.Context, workspaceID string, params SearchParams) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("search"))
	if err != nil {
		return Value{}, err
	}

	query := url.Values{}
	query.Set("q", params.Query)
	if len(params.Types) > 0 {
		query.Set("types", strings.Join(params.Types, ","))
	}
	if params.Limit > 0 {
		setPaging(query, params.Limit, 0)
	} else {
		query.Set("limit", "25")
	}
	return c.doRequest(ctx, http.MethodGet, path, query, nil)
}
