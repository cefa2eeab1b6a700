package upstream

import (
	"context"
	"net/http"
)

func commentsPath(workspaceID, cardID string, commentID ...string) (string, error) {
	segs := []pathSeg{ident("workspace_id", workspaceID), lit("cards"), ident("card_id", cardID), lit("comments")}
	if len(commentID) > 0 {
		segs = append(segs, ident("comment_id", commentID[0]))
	}
	return buildPath(segs...)
}

// ListComments returns the comments of a card, oldest first.
func (c *Client) ListComments(ctx context.Context, workspaceID, cardID string) (Value, error) {
	path, err := commentsPath(workspaceID, cardID)
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// CreateComment adds a comment to a card. content is markup.
func (c *Client) CreateComment(ctx context.Context, workspaceID, cardID, content string) (Value, error) {
	path, err := commentsPath(workspaceID, cardID)
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, map[string]any{"content": content})
}

// UpdateComment replaces the content of a comment.
func (c *Client) UpdateComment(ctx context.Context, workspaceID, cardID, commentID, content string) (Value, error) {
	path, err := commentsPath(workspaceID, cardID, commentID)
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, nil, map[string]any{"content": content})
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, workspaceID, cardID, commentID string) (Value, error) {
	path, err := commentsPath(workspaceID, cardID, commentID)
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
