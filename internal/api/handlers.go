package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	gomcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/ycho/taskboard-mcp-server/internal/mcp"
)

// @title Taskboard MCP Server API
// @version 1.0
// @description REST access to the task board tools exposed over MCP
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// maxBodyBytes bounds tool argument payloads.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ToolInfo describes one tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ReadOnly    bool   `json:"read_only"`
	Destructive bool   `json:"destructive"`
	InputSchema any    `json:"input_schema"`
}

func toolInfo(tool gomcp.Tool) ToolInfo {
	info := ToolInfo{
		Name:        tool.Name,
		Title:       tool.Annotations.Title,
		Description: tool.Description,
		InputSchema: tool.InputSchema,
	}
	if tool.RawInputSchema != nil {
		info.InputSchema = tool.RawInputSchema
	}
	if tool.Annotations.ReadOnlyHint != nil {
		info.ReadOnly = *tool.Annotations.ReadOnlyHint
	}
	if tool.Annotations.DestructiveHint != nil {
		info.Destructive = *tool.Annotations.DestructiveHint
	}
	return info
}

// @Summary List tools
// @Description Returns the enabled tools sorted by name
// @Tags Tools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /tools [get]
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := s.catalog.Tools()
	infos := make([]ToolInfo, len(tools))
	for i, tool := range tools {
		infos[i] = toolInfo(tool)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": infos,
		"count": len(infos),
	})
}

// @Summary Describe a tool
// @Description Returns one tool with its input schema
// @Tags Tools
// @Produce json
// @Security BearerAuth
// @Param name path string true "Tool name"
// @Success 200 {object} ToolInfo
// @Failure 404 {object} map[string]string
// @Router /tools/{name} [get]
func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tool, ok := s.catalog.Tool(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}
	writeJSON(w, http.StatusOK, toolInfo(tool))
}

// @Summary Call a tool
// @Description Invokes a tool with the JSON object in the request body as its arguments
// @Tags Tools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Tool name"
// @Param arguments body map[string]any false "Tool arguments"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tools/{name} [post]
func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// An empty body means no arguments.
	args := map[string]any{}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object: "+err.Error())
		return
	}

	result, err := s.catalog.Call(r.Context(), name, args)
	if errors.Is(err, mcp.ErrUnknownTool) {
		writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	text := resultText(result)
	if result.IsError {
		writeError(w, http.StatusUnprocessableEntity, text)
		return
	}

	var payload any = text
	if json.Valid([]byte(text)) {
		payload = json.RawMessage(text)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tool":   name,
		"result": payload,
	})
}

func resultText(result *gomcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := gomcp.AsTextContent(c); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
