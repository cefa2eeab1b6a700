package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// CardFields are the caller-facing card fields. They are translated to the
// legacy field names the API expects when a request body is built.
type CardFields struct {
	Title        string
	Description  string
	BoardID      string
	ListID       string
	SprintID     string
	ParentCardID string
	AssigneeIDs  []string
	TagIDs       []string
	DueDate      string
	Position     *int
	CustomFields Value
}

func (f CardFields) body(withPosition bool) map[string]any {
	body := map[string]any{}
	setIfNotEmpty(body, "name", f.Title)
	setIfNotEmpty(body, "content", f.Description)
	setIfNotEmpty(body, "board_id", f.BoardID)
	setIfNotEmpty(body, "stage_id", f.ListID)
	setIfNotEmpty(body, "sprint_id", f.SprintID)
	setIfNotEmpty(body, "parent_id", f.ParentCardID)
	setIfNotEmpty(body, "due_at", f.DueDate)
	if len(f.AssigneeIDs) > 0 {
		body["assigned_to"] = f.AssigneeIDs
	}
	if len(f.TagIDs) > 0 {
		body["label_ids"] = f.TagIDs
	}
	if !f.CustomFields.IsNull() {
		body["custom_fields"] = f.CustomFields
	}
	if withPosition && f.Position != nil {
		body["sort_order"] = *f.Position
	}
	return body
}

// CardFilter narrows ListCards.
type CardFilter struct {
	BoardID    string
	ListID     string
	SprintID   string
	AssigneeID string
	TagID      string
	Archived   bool
	Limit      int
	Offset     int
}

func (f CardFilter) query() url.Values {
	query := url.Values{}
	if f.BoardID != "" {
		query.Set("board_id", f.BoardID)
	}
	if f.ListID != "" {
		query.Set("stage_id", f.ListID)
	}
	if f.SprintID != "" {
		query.Set("sprint_id", f.SprintID)
	}
	if f.AssigneeID != "" {
		query.Set("assigned_to", f.AssigneeID)
	}
	if f.TagID != "" {
		query.Set("label_id", f.TagID)
	}
	if f.Archived {
		query.Set("archived", "true")
	}
	setPaging(query, f.Limit, f.Offset)
	return query
}

// ListCards returns cards matching filter.
func (c *Client) ListCards(ctx context.Context, workspaceID string, filter CardFilter) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("cards"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, filter.query(), nil)
}

// GetCard returns a single card.
func (c *Client) GetCard(ctx context.Context, workspaceID, cardID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("cards"), ident("card_id", cardID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodGet, path, nil, nil)
}

// CreateCard creates a card. The API ignores position on creation, so
// fields.Position is never sent here; callers set it with UpdateCard.
func (c *Client) CreateCard(ctx context.Context, workspaceID string, fields CardFields) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("cards"))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPost, path, nil, fields.body(false))
}

// UpdateCard changes the non-empty fields of a card, including its position.
func (c *Client) UpdateCard(ctx context.Context, workspaceID, cardID string, fields CardFields) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("cards"), ident("card_id", cardID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodPatch, path, nil, fields.body(true))
}

// DeleteCard deletes a card.
func (c *Client) DeleteCard(ctx context.Context, workspaceID, cardID string) (Value, error) {
	path, err := buildPath(ident("workspace_id", workspaceID), lit("cards"), ident("card_id", cardID))
	if err != nil {
		return Value{}, err
	}
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
