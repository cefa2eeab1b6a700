package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/upstream"
)

var projectStatuses = []string{"planned", "in_progress", "at_risk", "completed", "cancelled"}

func (h *ToolHandlers) registerProjectTools(s McpServer) {
	h.addTool(s, newTool("projects_list", readTool("List Roadmap Projects"),
		"List roadmap projects. These are cross-board initiatives, not spaces.",
		workspaceArg(),
		mcp.WithString("status", mcp.Description("Only projects with this status"), mcp.Enum(projectStatuses...)),
	), h.handleProjectsList)

	h.addTool(s, newTool("projects_get", readTool("Get Roadmap Project"),
		"Get a roadmap project",
		workspaceArg(),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
	), h.handleProjectsGet)

	h.addTool(s, newTool("projects_create", writeTool("Create Roadmap Project"),
		"Create a roadmap project",
		workspaceArg(),
		mcp.WithString("name", mcp.Required(), mcp.MinLength(1), mcp.Description("Project name")),
		mcp.WithString("description", mcp.Description("Project description")),
		mcp.WithString("status", mcp.Description("Initial status"), mcp.Enum(projectStatuses...)),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("target_date", mcp.Description("Target date (YYYY-MM-DD)")),
		mcp.WithString("owner_id", mcp.Description("Member ID of the owner")),
	), h.handleProjectsCreate)

	h.addTool(s, newTool("projects_update", writeTool("Update Roadmap Project"),
		"Update a roadmap project. Only the fields given are changed.",
		workspaceArg(),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("status", mcp.Description("New status"), mcp.Enum(projectStatuses...)),
		mcp.WithString("start_date", mcp.Description("New start date (YYYY-MM-DD)")),
		mcp.WithString("target_date", mcp.Description("New target date (YYYY-MM-DD)")),
		mcp.WithString("owner_id", mcp.Description("Member ID of the new owner")),
	), h.handleProjectsUpdate)
}

func (h *ToolHandlers) handleProjectsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.ListProjects(ctx, req.GetString("workspace_id", ""), req.GetString("status", ""))
	if err != nil {
		return toolError("list projects", err)
	}
	return viewResult(upstream.ProjectView, v)
}

func (h *ToolHandlers) handleProjectsGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.GetProject(ctx, req.GetString("workspace_id", ""), req.GetString("project_id", ""))
	if err != nil {
		return toolError("get project", err)
	}
	return viewResult(upstream.ProjectView, v)
}

func (h *ToolHandlers) handleProjectsCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.CreateProject(ctx, req.GetString("workspace_id", ""), projectParams(req))
	if err != nil {
		return toolError("create project", err)
	}
	return viewResult(upstream.ProjectView, v)
}

func (h *ToolHandlers) handleProjectsUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.client.UpdateProject(ctx, req.GetString("workspace_id", ""), req.GetString("project_id", ""), projectParams(req))
	if err != nil {
		return toolError("update project", err)
	}
	return viewResult(upstream.ProjectView, v)
}

func projectParams(req mcp.CallToolRequest) upstream.ProjectParams {
	return upstream.ProjectParams{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		Status:      req.GetString("status", ""),
		StartDate:   req.GetString("start_date", ""),
		TargetDate:  req.GetString("target_date", ""),
		OwnerID:     req.GetString("owner_id", ""),
	}
}
