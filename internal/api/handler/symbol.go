package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/davidenochk/symgraph/internal/host/fshost"
	"github.com/davidenochk/symgraph/internal/resolver"
	"github.com/davidenochk/symgraph/internal/store"
	"github.com/davidenochk/symgraph/internal/summary"
	"github.com/davidenochk/symgraph/internal/symbols"
	"github.com/davidenochk/symgraph/pkg/apierr"
)

// SymbolHandler serves symbol resolution queries. Each request opens a fresh
// resolution session: the project's summaries are loaded into an in-memory
// set and a resolver is built over them, with the extracted bundle (when
// still present under the work dir) as fallback for anything the summaries
// do not cover.
type SymbolHandler struct {
	logger      *slog.Logger
	store       *store.Store
	summaries   *summary.Loader
	workRoot    string
	moduleRoots []string
}

func NewSymbolHandler(logger *slog.Logger, s *store.Store, summaries *summary.Loader, workRoot string, moduleRoots []string) *SymbolHandler {
	return &SymbolHandler{
		logger:      logger,
		store:       s,
		summaries:   summaries,
		workRoot:    workRoot,
		moduleRoots: moduleRoots,
	}
}

type symbolJSON struct {
	File    string   `json:"file"`
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
	ID      string   `json:"id"`
}

func toSymbolJSON(sym *symbols.Symbol) symbolJSON {
	return symbolJSON{File: sym.File, Name: sym.Name, Members: sym.Members, ID: sym.ID()}
}

// session builds a project-scoped resolver or writes an error response.
func (h *SymbolHandler) session(w http.ResponseWriter, r *http.Request, projectID uuid.UUID) (*resolver.Resolver, bool) {
	cache := symbols.NewCache()
	set, err := h.summaries.Load(r.Context(), projectID, cache)
	if err != nil {
		writeAPIError(w, h.logger, apierr.SummaryLoadFailed(err))
		return nil, false
	}

	host := fshost.New(filepath.Join(h.workRoot, projectID.String()), h.moduleRoots...)
	return resolver.New(host, cache, set, nil, h.logger), true
}

// Resolve handles GET .../symbols/resolve?file=&name=&members=a,b.
func (h *SymbolHandler) Resolve(w http.ResponseWriter, r *http.Request) {
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
	var members []string
	if raw := r.URL.Query().Get("members"); raw != "" {
		members = strings.Split(raw, ",")
	}

	res, ok := h.session(w, r, project.ID)
	if !ok {
		return
	}

	resolved, err := res.ResolveSymbol(res.Intern(file, name, members...))
	if err != nil {
		h.writeResolveError(w, err)
		return
	}
	if resolved == nil {
		writeAPIError(w, h.logger, apierr.SymbolNotFound())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":   toSymbolJSON(resolved.Symbol),
		"metadata": resolved.Metadata,
	})
}

// ResolveModule handles GET .../modules/resolve?module=&from=&name=.
func (h *SymbolHandler) ResolveModule(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	project, ok := getProjectOr404(w, r, h.logger, h.store, slug)
	if !ok {
		return
	}

	module := r.URL.Query().Get("module")
	name := r.URL.Query().Get("name")
	if module == "" || name == "" {
		writeAPIError(w, h.logger, apierr.NameRequired())
		return
	}
	from := r.URL.Query().Get("from")

	res, ok := h.session(w, r, project.ID)
	if !ok {
		return
	}

	resolved, err := res.ResolveModule(module, from, name)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}
	if resolved == nil {
		writeAPIError(w, h.logger, apierr.SymbolNotFound())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":   toSymbolJSON(resolved.Symbol),
		"metadata": resolved.Metadata,
	})
}

// ModuleSymbols handles GET .../modules/symbols?file=.
func (h *SymbolHandler) ModuleSymbols(w http.ResponseWriter, r *http.Request) {
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

	res, ok := h.session(w, r, project.ID)
	if !ok {
		return
	}

	syms, err := res.SymbolsOf(file)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}

	out := make([]symbolJSON, 0, len(syms))
	for _, sym := range syms {
		out = append(out, toSymbolJSON(sym))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file":    file,
		"symbols": out,
	})
}

func (h *SymbolHandler) writeResolveError(w http.ResponseWriter, err error) {
	var merr *resolver.ModuleResolutionError
	if errors.As(err, &merr) {
		writeAPIError(w, h.logger, apierr.ModuleUnresolved(err))
		return
	}
	writeAPIError(w, h.logger, apierr.ResolveFailed(err))
}
