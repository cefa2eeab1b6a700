package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

var sprintStatuses = []string{"planned", "active", "completed"}

func (h *ToolHandlers) registerSprintTools(s McpServer) {
	h.addTool(s, newTool("sprints_list", readTool("List Sprints"),
		"List the sprints of a workspace",
		workspaceArg(),
		mcp.WithString("status", mcp.Description("Only sprints with this status"), mcp.Enum(sprintStatuses...)),
	), h.handleSprintsList)

	h.addTool(s, newTool("sprints_get", readTool("Get Sprint"),
		"Get a sprint including its lists",
		workspaceArg(),
		mcp.WithString("sprint_id", mcp.Required(), mcp.Description("Sprint ID")),
	), h.handleSprintsGet)

	h.addTool(s, newTool("sprints_create", writeTool("Create Sprint"),
		"Create a sprint",
		workspaceArg(),
		mcp.WithString("name", mcp.Required(), mcp.MinLength(1), mcp.Description("Sprint name")),
		mcp.WithString("goal", mcp.Description("Sprint goal")),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Description("End date (YYYY-MM-DD)")),
	), h.handleSprintsCreate)

	h.addTool(s, newTool("sprints_update", writeTool("Update Sprint"),
		"Update a sprint. Only the fields given are changed.",
		workspaceArg(),
		mcp.WithString("sprint_id", mcp.Required(), mcp.Description("Sprint ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("goal", mcp.Description("New goal")),
		mcp.WithString("start_date", mcp.Description("New start date (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Description("New end date (YYYY-MM-DD)")),
		mcp.WithString("status", mcp.Description("New status"), mcp.Enum(sprintStatuses...)),
	), h.handleSprintsUpdate)
}

func (h *ToolHandlers) handleSprintsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListSprints(ctx, req.GetString("workspace_id", ""), req.GetString("status", ""))
	if err != nil {
		return toolError("list sprints", err)
	}
	return viewResult(upstream.SprintView, v)
}

func (h *ToolHandlers) handleSprintsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetSprint(ctx, req.GetString("workspace_id", ""), req.GetString("sprint_id", ""))
	if err != nil {
		return toolError("get sprint", err)
	}
	return viewResult(upstream.SprintView, v)
}

func (h *ToolHandlers) handleSprintsCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.CreateSprint(ctx, req.GetString("workspace_id", ""), sprintParams(req))
	if err != nil {
		return toolError("create sprint", err)
	}
	return viewResult(upstream.SprintView, v)
}

func (h *ToolHandlers) handleSprintsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.UpdateSprint(ctx, req.GetString("workspace_id", ""), req.GetString("sprint_id", ""), sprintParams(req))
	if err != nil {
		return toolError("update sprint", err)
	}
	return viewResult(upstream.SprintView, v)
}

func sprintParams(req mcp.CallToolRequest) upstream.SprintParams {
	return upstream.SprintParams{
		Name:      req.GetString("name", ""),
		Goal:      req.GetString("goal", ""),
		StartDate: req.GetString("start_date", ""),
		EndDate:   req.GetString("end_date", ""),
		Status:    req.GetString("status", ""),
	}
}
