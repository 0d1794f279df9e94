package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davidenochk/symgraph/internal/mcp"
	"github.com/davidenochk/symgraph/internal/store"
)

// ListProjectsParams are the parameters for the list_projects tool.
type ListProjectsParams struct {
	Limit int `json:"limit,omitempty"`
}

// ListProjectsHandler implements the list_projects MCP tool.
type ListProjectsHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewListProjectsHandler creates a new handler.
func NewListProjectsHandler(s *store.Store, logger *slog.Logger) *ListProjectsHandler {
	return &ListProjectsHandler{store: s, logger: logger}
}

// Handle lists the registered projects.
func (h *ListProjectsHandler) Handle(ctx context.Context, params ListProjectsParams) (string, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}

	projects, err := h.store.ListProjects(ctx)
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	if len(projects) == 0 {
		return "No projects found.", nil
	}

	rb := mcp.NewResponseBuilder(0)
	rb.AddHeader(fmt.Sprintf("**Projects** (%d found)", len(projects)))
	shown := 0
	for i, proj := range projects {
		if i >= params.Limit {
			break
		}
		desc := ""
		if proj.Description != "" {
			desc = " — " + proj.Description
		}
		if !rb.AddLine(fmt.Sprintf("- **%s** (`%s`)%s", proj.Name, proj.Slug, desc)) {
			break
		}
		shown++
	}
	return rb.Finalize(len(projects), shown), nil
}
