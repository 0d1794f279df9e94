package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/davidenochk/symgraph/internal/mcp"
)

// ResolveSymbolParams are the parameters for the resolve_symbol tool.
type ResolveSymbolParams struct {
	Project string `json:"project"`
	File    string `json:"file"`
	Name    string `json:"name"`
	Members string `json:"members,omitempty"`
}

// ResolveSymbolHandler implements the resolve_symbol MCP tool.
type ResolveSymbolHandler struct {
	deps   Deps
	logger *slog.Logger
}

// NewResolveSymbolHandler creates a new handler.
func NewResolveSymbolHandler(deps Deps, logger *slog.Logger) *ResolveSymbolHandler {
	return &ResolveSymbolHandler{deps: deps, logger: logger}
}

// Handle resolves a symbol reference to its metadata.
func (h *ResolveSymbolHandler) Handle(ctx context.Context, params ResolveSymbolParams) (string, error) {
	if params.File == "" {
		return "", fmt.Errorf("missing required parameter 'file'")
	}
	if params.Name == "" {
		return "", fmt.Errorf("missing required parameter 'name'")
	}

	project, err := h.deps.project(ctx, params.Project)
	if err != nil {
		return "", err
	}
	res, err := h.deps.session(ctx, project)
	if err != nil {
		return "", err
	}

	var members []string
	if params.Members != "" {
		members = strings.Split(params.Members, ".")
	}

	resolved, err := res.ResolveSymbol(res.Intern(params.File, params.Name, members...))
	if err != nil {
		return "", fmt.Errorf("resolve symbol: %w", err)
	}
	if resolved == nil {
		return fmt.Sprintf("No symbol `%s` found in `%s`.", params.Name, params.File), nil
	}

	metadataJSON, err := json.MarshalIndent(resolved.Metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	rb := mcp.NewResponseBuilder(0)
	rb.AddHeader(fmt.Sprintf("**Symbol** `%s`", resolved.Symbol.ID()))
	rb.AddSection("Metadata", "```json\n"+string(metadataJSON)+"\n```")
	return rb.Finalize(1, 1), nil
}
