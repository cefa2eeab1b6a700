package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

// batchStep applies item i of a batch. It returns the item's result and a
// short label (usually the affected ID) used to report applied items when a
// later item fails.
type batchStep[T any] func(ctx context.Context, i int, item T) (result upstream.Value, applied string, err error)

// runBatch applies items strictly in order, one upstream call chain at a
// time, so later items can depend on what earlier ones produced. The first
// failing item fails the whole invocation; items applied before it are not
// rolled back.
func runBatch[T any](ctx context.Context, action string, items []T, step batchStep[T]) (*mcp.CallToolResult, error) {
	results := make([]upstream.Value, 0, len(items))
	applied := make([]string, 0, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return batchFailure(action, i, len(items), applied, err), nil
		}

		result, label, err := step(ctx, i, item)
		if err != nil {
			return batchFailure(action, i, len(items), applied, err), nil
		}
		results = append(results, result)
		applied = append(applied, label)
	}

	return jsonResult(map[string]any{
		"results": results,
		"count":   len(results),
	})
}

func batchFailure(action string, index, total int, applied []string, err error) *mcp.CallToolResult {
	msg := fmt.Sprintf("Failed to %s %d of %d: %v", action, index+1, total, err)
	if len(applied) > 0 {
		msg += fmt.Sprintf(" (%d earlier item(s) already applied: [%s])", len(applied), strings.Join(applied, ", "))
	}
	return mcp.NewToolResultError(msg)
}

// bindBatch decodes the tool arguments into a workspace ID and the item
// array stored under key.
func bindBatch[T any](req mcp.CallToolRequest, key string) (string, []T, error) {
	var args struct {
		WorkspaceID string `json:"workspace_id"`
	}
	if err := req.BindArguments(&args); err != nil {
		return "", nil, err
	}

	var items []T
	if err := bindValue(getArrayArg(req, key), &items); err != nil {
		return "", nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	if len(items) == 0 {
		return "", nil, fmt.Errorf("%s is required and must be a non-empty array", key)
	}
	return args.WorkspaceID, items, nil
}

// bindValue converts a decoded JSON argument into a typed value.
func bindValue(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
