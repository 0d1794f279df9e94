package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidenochk/symgraph/internal/graph"
	"github.com/davidenochk/symgraph/internal/store"
	"github.com/davidenochk/symgraph/pkg/apierr"
)

// AliasHandler serves alias-chain lookups from the Neo4j mirror.
type AliasHandler struct {
	logger *slog.Logger
	store  *store.Store
	graph  *graph.Client
}

func NewAliasHandler(logger *slog.Logger, s *store.Store, g *graph.Client) *AliasHandler {
	return &AliasHandler{logger: logger, store: s, graph: g}
}

// Chain handles GET .../symbols/aliases?file=&name=. It returns the symbols
// the given symbol redirects through, nearest first.
func (h *AliasHandler) Chain(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	project, ok := getProjectOr404(w, r, h.logger, h.store, slug)
	if !ok {
		return
	}

	file := r.URL.Query().Get("file")
	if file == "" {
		writeAPIError(w, h.logger, apierr.FileRequired())
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		writeAPIError(w, h.logger, apierr.NameRequired())
		return
	}

	targets, err := h.graph.AliasChain(r.Context(), project.ID, file, name)
	if err != nil {
		writeAPIError(w, h.logger, apierr.AliasLookupFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":  graph.SymbolID(project.ID, file, name),
		"targets": targets,
	})
}
