package upstream

import (
	"context"
	"net/http"
)

// Member is one entry of a workspace member directory.
type Member struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// MemberDirectory is the response from /{workspace}/members.
type MemberDirectory struct {
	Members []Member `json:"members"`
}

// ListWorkspaces returns the workspaces (upstream "teams") visible to the token.
func (c *Client) ListWorkspaces(ctx context.Context) (Value, error) {
	return c.doRequest(ctx, http.MethodGet, "/teams", nil, nil)
}

// GetCurrentUser returns the user that owns the token.
func (c *Client) GetCurrentUser(ctx context.Context) (Value, error) {
	return c.doRequest(ctx, http.MethodGet, "/me", nil, nil)
}

// ListMembers returns the member directory of a workspace.
func (c *Client) ListMembers(ctx context.Context, workspaceID string) ([]Member, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("members"))
	if err != nil {
		return nil, err
	}

	v, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var dir MemberDirectory
	if err := decode(v, &dir); err != nil {
		return nil, err
	}
	return dir.Members, nil
}
