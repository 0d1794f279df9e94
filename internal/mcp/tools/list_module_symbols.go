package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davidenochk/symgraph/internal/mcp"
)

// ListModuleSymbolsParams are the parameters for the list_module_symbols tool.
type ListModuleSymbolsParams struct {
	Project string `json:"project"`
	File    string `json:"file"`
}

// ListModuleSymbolsHandler implements the list_module_symbols MCP tool.
type ListModuleSymbolsHandler struct {
	deps   Deps
	logger *slog.Logger
}

// NewListModuleSymbolsHandler creates a new handler.
func NewListModuleSymbolsHandler(deps Deps, logger *slog.Logger) *ListModuleSymbolsHandler {
	return &ListModuleSymbolsHandler{deps: deps, logger: logger}
}

// Handle lists the symbols a module file declares or re-exports.
func (h *ListModuleSymbolsHandler) Handle(ctx context.Context, params ListModuleSymbolsParams) (string, error) {
	if params.File == "" {
		return "", fmt.Errorf("missing required parameter 'file'")
	}

	project, err := h.deps.project(ctx, params.Project)
	if err != nil {
		return "", err
	}
	res, err := h.deps.session(ctx, project)
	if err != nil {
		return "", err
	}

	syms, err := res.SymbolsOf(params.File)
	if err != nil {
		return "", fmt.Errorf("list module symbols: %w", err)
	}
	if len(syms) == 0 {
		return fmt.Sprintf("No symbols found in `%s`.", params.File), nil
	}

	rb := mcp.NewResponseBuilder(0)
	rb.AddHeader(fmt.Sprintf("**Symbols in `%s`** (%d found)", params.File, len(syms)))
	shown := 0
	for _, sym := range syms {
		if !rb.AddLine(fmt.Sprintf("- **%s** | ID: `%s`", sym.Name, sym.ID())) {
			break
		}
		shown++
	}
	return rb.Finalize(len(syms), shown), nil
}
