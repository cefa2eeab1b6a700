package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

// cardInput is one item of a cards_create or cards_update batch.
type cardInput struct {
	Ref           string         `json:"ref"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	BoardID       string         `json:"board_id"`
	ListID        string         `json:"list_id"`
	SprintID      string         `json:"sprint_id"`
	ParentCardID  string         `json:"parent_card_id"`
	ParentCardRef string         `json:"parent_card_ref"`
	AssigneeIDs   []string       `json:"assignee_ids"`
	TagIDs        []string       `json:"tag_ids"`
	DueDate       string         `json:"due_date"`
	Position      *int           `json:"position"`
	CustomFields  upstream.Value `json:"custom_fields"`
}

type cardUpdateInput struct {
	CardID string `json:"card_id"`
	cardInput
}

func (in cardInput) fields(description, parentID string) upstream.CardFields {
	return upstream.CardFields{
		Title:        in.Title,
		Description:  description,
		BoardID:      in.BoardID,
		ListID:       in.ListID,
		SprintID:     in.SprintID,
		ParentCardID: parentID,
		AssigneeIDs:  in.AssigneeIDs,
		TagIDs:       in.TagIDs,
		DueDate:      in.DueDate,
		Position:     in.Position,
		CustomFields: in.CustomFields,
	}
}

// cardProperties returns the JSON schema properties shared by card items.
func cardProperties() map[string]any {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	strList := func(desc string) map[string]any {
		return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
	}

	return map[string]any{
		"title":          map[string]any{"type": "string", "minLength": 1, "description": "Card title"},
		"description":    str("Card description (HTML). Mention members with {{@Name}}, escape as \\{{@Name}}"),
		"board_id":       str("Board the card belongs to"),
		"list_id":        str("List (status column) the card goes into"),
		"sprint_id":      str("Sprint the card belongs to"),
		"parent_card_id": str("Make the card a child of this existing card"),
		"assignee_ids":   strList("Member IDs to assign"),
		"tag_ids":        strList("Tag IDs to apply"),
		"due_date":       str("Due date (YYYY-MM-DD)"),
		"position": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Zero-based position within the list (0 = top)",
		},
		"custom_fields": map[string]any{
			"type":        "object",
			"description": "Custom field values keyed by field ID, passed through unchanged",
		},
	}
}

func (h *ToolHandlers) registerCardTools(s McpServer) {
	h.addTool(s, newTool("cards_list", readTool("List Cards"),
		"List cards with optional filters",
		workspaceArg(),
		mcp.WithString("board_id", mcp.Description("Only cards on this board")),
		mcp.WithString("list_id", mcp.Description("Only cards in this list")),
		mcp.WithString("sprint_id", mcp.Description("Only cards in this sprint")),
		mcp.WithString("assignee_id", mcp.Description("Only cards assigned to this member")),
		mcp.WithString("tag_id", mcp.Description("Only cards with this tag")),
		mcp.WithBoolean("include_archived", mcp.Description("Include archived cards (default: false)")),
		limitArg("cards"),
		offsetArg(),
	), h.handleCardsList)

	h.addTool(s, newTool("cards_get", readTool("Get Card"),
		"Get a card by ID",
		workspaceArg(),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card ID")),
	), h.handleCardsGet)

	createProps := cardProperties()
	createProps["ref"] = map[string]any{
		"type":        "string",
		"minLength":   1,
		"description": "Label for this item that later items can use as parent_card_ref",
	}
	createProps["parent_card_ref"] = map[string]any{
		"type":        "string",
		"minLength":   1,
		"description": "ref of an earlier item in this batch to use as the parent",
	}

	h.addTool(s, newTool("cards_create", writeTool("Create Cards"),
		"Create one or more cards. Items are created in order; a child can name an earlier item as its parent "+
			"with parent_card_ref. If an item fails, earlier items stay created.",
		workspaceArg(),
		mcp.WithArray("cards",
			mcp.Required(),
			mcp.MinItems(1),
			mcp.Description("Cards to create, in order"),
			mcp.Items(map[string]any{
				"type":                 "object",
				"properties":           createProps,
				"required":             []string{"title"},
				"additionalProperties": false,
			}),
		),
	), h.handleCardsCreate)

	updateProps := cardProperties()
	updateProps["card_id"] = map[string]any{"type": "string", "description": "Card to update"}

	h.addTool(s, newTool("cards_update", writeTool("Update Cards"),
		"Update one or more cards in order. Only the fields given on each item are changed.",
		workspaceArg(),
		mcp.WithArray("cards",
			mcp.Required(),
			mcp.MinItems(1),
			mcp.Description("Card updates, in order"),
			mcp.Items(map[string]any{
				"type":                 "object",
				"properties":           updateProps,
				"required":             []string{"card_id"},
				"additionalProperties": false,
			}),
		),
	), h.handleCardsUpdate)

	h.addTool(s, newTool("cards_delete", deleteTool("Delete Cards"),
		"Delete one or more cards in order",
		workspaceArg(),
		mcp.WithArray("card_ids",
			mcp.Required(),
			mcp.MinItems(1),
			mcp.Description("IDs of the cards to delete"),
			mcp.WithStringItems(mcp.MinLength(1)),
		),
	), h.handleCardsDelete)
}

func (h *ToolHandlers) handleCardsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListCards(ctx, req.GetString("workspace_id", ""), upstream.CardFilter{
		BoardID:    req.GetString("board_id", ""),
		ListID:     req.GetString("list_id", ""),
		SprintID:   req.GetString("sprint_id", ""),
		AssigneeID: req.GetString("assignee_id", ""),
		TagID:      req.GetString("tag_id", ""),
		Archived:   req.GetBool("include_archived", false),
		Limit:      req.GetInt("limit", 0),
		Offset:     req.GetInt("offset", 0),
	})
	if err != nil {
		return toolError("list cards", err)
	}
	return viewResult(upstream.CardView, v)
}

func (h *ToolHandlers) handleCardsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetCard(ctx, req.GetString("workspace_id", ""), req.GetString("card_id", ""))
	if err != nil {
		return toolError("get card", err)
	}
	return viewResult(upstream.CardView, v)
}

func (h *ToolHandlers) handleCardsCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID, items, err := bindBatch[cardInput](req, "cards")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := checkCardRefs(items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid cards: %v", err)), nil
	}

	refs := make(map[string]string)
	lists := make(listCache)

	return runBatch(ctx, "create card", items, func(ctx context.Context, i int, in cardInput) (upstream.Value, string, error) {
		parentID := in.ParentCardID
		if in.ParentCardRef != "" {
			id, ok := refs[in.ParentCardRef]
			if !ok {
				return upstream.Value{}, "", fmt.Errorf("parent_card_ref %q has no created card", in.ParentCardRef)
			}
			parentID = id
		}

		fields := in.fields(h.formatContent(ctx, in.Description, workspaceID), parentID)
		pos := h.resolvePosition(ctx, workspaceID, in, lists)

		created, err := h.client.CreateCard(ctx, workspaceID, fields)
		if err != nil {
			return upstream.Value{}, "", err
		}
		cardID := upstream.ResourceID(created)
		if cardID == "" {
			return upstream.Value{}, "", errors.New("create response did not include a card id")
		}
		if in.Ref != "" {
			refs[in.Ref] = cardID
		}

		card := created
		if pos != nil {
			// Creation ignores position, so the card is moved right after.
			updated, err := h.client.UpdateCard(ctx, workspaceID, cardID, upstream.CardFields{Position: pos})
			if err != nil {
				return upstream.Value{}, "", fmt.Errorf("card %s was created but not moved to position %d: %w", cardID, *pos, err)
			}
			if upstream.ResourceID(updated) != "" {
				card = updated
			} else {
				card = created.With("sort_order", upstream.Int(*pos))
			}
		}

		return upstream.CardView.Present(card), cardID, nil
	})
}

// checkCardRefs rejects a batch whose refs are duplicated or whose
// parent_card_ref does not name an earlier item, before anything is created.
func checkCardRefs(items []cardInput) error {
	seen := make(map[string]bool)
	for i, in := range items {
		if in.ParentCardRef != "" {
			if in.ParentCardID != "" {
				return fmt.Errorf("item %d: set parent_card_id or parent_card_ref, not both", i+1)
			}
			if !seen[in.ParentCardRef] {
				return fmt.Errorf("item %d: parent_card_ref %q does not name an earlier item", i+1, in.ParentCardRef)
			}
		}
		if in.Ref != "" {
			if seen[in.Ref] {
				return fmt.Errorf("item %d: duplicate ref %q", i+1, in.Ref)
			}
			seen[in.Ref] = true
		}
	}
	return nil
}

// listCache holds the lists fetched during one batch, keyed by container.
type listCache map[string][]upstream.List

// resolvePosition decides the position of a new card. An explicit position
// wins; otherwise the name of the destination list is looked up, but only
// when top-position patterns are configured.
func (h *ToolHandlers) resolvePosition(ctx context.Context, workspaceID string, in cardInput, cache listCache) *int {
	if in.Position != nil || !h.positions.Enabled() {
		return h.positions.ShouldPositionAtTop("", in.Position)
	}
	if in.ListID == "" {
		return nil
	}

	name, ok := h.listName(ctx, workspaceID, in, cache)
	if !ok {
		return nil
	}
	return h.positions.ShouldPositionAtTop(name, nil)
}

func (h *ToolHandlers) listName(ctx context.Context, workspaceID string, in cardInput, cache listCache) (string, bool) {
	var key string
	var fetch func() ([]upstream.List, error)
	switch {
	case in.BoardID != "":
		key = "board:" + in.BoardID
		fetch = func() ([]upstream.List, error) { return h.client.BoardLists(ctx, workspaceID, in.BoardID) }
	case in.SprintID != "":
		key = "sprint:" + in.SprintID
		fetch = func() ([]upstream.List, error) { return h.client.SprintLists(ctx, workspaceID, in.SprintID) }
	default:
		return "", false
	}

	lists, ok := cache[key]
	if !ok {
		var err error
		lists, err = fetch()
		if err != nil {
			slog.Warn("could not resolve list name for card position, using default order",
				"list_id", in.ListID,
				"container", key,
				"error", err,
			)
			return "", false
		}
		cache[key] = lists
	}

	for _, l := range lists {
		if string(l.ID) == in.ListID {
			return l.Name, true
		}
	}
	return "", false
}

func (h *ToolHandlers) handleCardsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID, items, err := bindBatch[cardUpdateInput](req, "cards")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return runBatch(ctx, "update card", items, func(ctx context.Context, i int, in cardUpdateInput) (upstream.Value, string, error) {
		fields := in.fields(h.formatContent(ctx, in.Description, workspaceID), in.ParentCardID)

		updated, err := h.client.UpdateCard(ctx, workspaceID, in.CardID, fields)
		if err != nil {
			return upstream.Value{}, "", err
		}
		return upstream.CardView.Present(updated), in.CardID, nil
	})
}

func (h *ToolHandlers) handleCardsDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardIDs := getStringSlice(req, "card_ids")
	if len(cardIDs) == 0 {
		return mcp.NewToolResultError("card_ids is required and must be a non-empty array"), nil
	}
	workspaceID := req.GetString("workspace_id", "")

	return runBatch(ctx, "delete card", cardIDs, func(ctx context.Context, i int, cardID string) (upstream.Value, string, error) {
		if _, err := h.client.DeleteCard(ctx, workspaceID, cardID); err != nil {
			return upstream.Value{}, "", err
		}
		return upstream.Map(
			upstream.Field{Key: "card_id", Value: upstream.String(cardID)},
			upstream.Field{Key: "deleted", Value: upstream.Bool(true)},
		), cardID, nil
	})
}
