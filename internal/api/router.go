package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/davidenochk/symgraph/internal/api/handler"
	apimw "github.com/davidenochk/symgraph/internal/api/middleware"
	"github.com/davidenochk/symgraph/internal/auth"
	"github.com/davidenochk/symgraph/internal/config"
	"github.com/davidenochk/symgraph/internal/graph"
	"github.com/davidenochk/symgraph/internal/ingestion"
	"github.com/davidenochk/symgraph/internal/store"
	minioclient "github.com/davidenochk/symgraph/internal/store/minio"
	"github.com/davidenochk/symgraph/internal/summary"
)

// RouterDeps holds optional dependencies for the router. Missing deps
// disable the routes that need them.
type RouterDeps struct {
	MinIO     *minioclient.Client
	Producer  *ingestion.Producer
	Summaries *summary.Loader
	Graph     *graph.Client
	Verifier  *auth.Verifier
}

func NewRouter(logger *slog.Logger, cfg *config.Config, s *store.Store, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	// Health checks
	health := apihandler.NewHealthHandler(s.Pool())
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if deps == nil {
		deps = &RouterDeps{}
	}

	var authn func(http.Handler) http.Handler
	if cfg.Auth.Enabled && deps.Verifier != nil {
		authn = auth.RequireAuth(deps.Verifier, logger)
	} else {
		authn = auth.DevModeMiddleware(logger)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authn)

		projects := apihandler.NewProjectHandler(logger, s)
		r.Route("/projects", func(r chi.Router) {
			r.With(auth.RequireScope("symgraph:read")).Get("/", projects.List)
			r.With(auth.RequireScope("symgraph:write")).Post("/", projects.Create)

			r.Route("/{slug}", func(r chi.Router) {
				r.With(auth.RequireScope("symgraph:read")).Get("/", projects.Get)

				if deps.Summaries != nil {
					sym := apihandler.NewSymbolHandler(logger, s, deps.Summaries,
						cfg.Resolver.WorkDir, cfg.Resolver.ModuleRoots)
					r.Group(func(r chi.Router) {
						r.Use(auth.RequireScope("symgraph:read"))
						r.Get("/symbols/resolve", sym.Resolve)
						r.Get("/modules/resolve", sym.ResolveModule)
						r.Get("/modules/symbols", sym.ModuleSymbols)
					})
				}

				if deps.Graph != nil {
					aliases := apihandler.NewAliasHandler(logger, s, deps.Graph)
					r.With(auth.RequireScope("symgraph:read")).Get("/symbols/aliases", aliases.Chain)
				}

				if deps.MinIO != nil && deps.Producer != nil {
					bundles := apihandler.NewBundleHandler(logger, s, deps.MinIO, deps.Producer)
					r.With(auth.RequireScope("symgraph:ingest")).Post("/bundles", bundles.Upload)
				}
			})
		})
	})

	return r
}
