package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/oauthex"

	"github.com/davidenochk/symgraph/internal/auth"
	"github.com/davidenochk/symgraph/internal/config"
	"github.com/davidenochk/symgraph/internal/mcp/tools"
	"github.com/davidenochk/symgraph/internal/store"
	"github.com/davidenochk/symgraph/internal/store/postgres"
	vk "github.com/davidenochk/symgraph/internal/store/valkey"
	"github.com/davidenochk/symgraph/internal/summary"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	s := store.New(pool)

	// Valkey (optional for summary caching)
	var summaries *summary.Loader
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey unavailable, summary caching disabled", slog.String("error", err.Error()))
		summaries = summary.NewLoader(s, nil, logger)
	} else {
		defer vkClient.Close()
		summaries = summary.NewLoader(s, vkClient, logger)
		logger.Info("connected to valkey")
	}

	deps := tools.Deps{
		Store:       s,
		Summaries:   summaries,
		WorkRoot:    cfg.Resolver.WorkDir,
		ModuleRoots: cfg.Resolver.ModuleRoots,
	}

	// Wire tool handlers (in cmd to avoid import cycle mcp <-> mcp/tools)
	resolveSymbol := tools.NewResolveSymbolHandler(deps, logger)
	listModuleSymbols := tools.NewListModuleSymbolsHandler(deps, logger)
	listProjects := tools.NewListProjectsHandler(s, logger)

	// SDK MCP server
	sdkServer := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "symgraph", Version: "1.0.0"}, nil)

	// Register all tools using WrapHandler
	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "resolve_symbol",
		Description: "Resolve a symbol reference (file, name, optional dotted member path) to its fully resolved metadata. Follows re-export aliases across module files.",
	}, tools.WrapHandler[tools.ResolveSymbolParams](resolveSymbol))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_module_symbols",
		Description: "List the symbols a module file declares or re-exports, including symbols pulled in through wildcard re-exports.",
	}, tools.WrapHandler[tools.ListModuleSymbolsParams](listModuleSymbols))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all registered projects. Returns project slug, name, and description.",
	}, tools.WrapHandler[tools.ListProjectsParams](listProjects))

	// Stateless mode so that stale session IDs from server restarts are
	// ignored rather than returning 404.
	sdkHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return sdkServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	mux := http.NewServeMux()

	// Wrap MCP handler with auth middleware
	var mcpHandler http.Handler = sdkHandler
	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURL == "" {
			logger.Error("AUTH_ENABLED=true but AUTH_ISSUER_URL is empty")
			os.Exit(1)
		}
		verifier, err := auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.PublicIssuer, cfg.Auth.Audience)
		if err != nil {
			logger.Error("failed to init OIDC verifier for MCP", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// RFC 9728 Protected Resource Metadata
		resourceMetadataURL := ""
		if cfg.MCP.BaseURL != "" {
			resourceMetadataURL = cfg.MCP.BaseURL + "/.well-known/oauth-protected-resource"

			authServerURL := cfg.Auth.PublicIssuer
			if authServerURL == "" {
				authServerURL = cfg.Auth.IssuerURL
			}

			prm := &oauthex.ProtectedResourceMetadata{
				Resource:               cfg.MCP.BaseURL,
				AuthorizationServers:   []string{authServerURL},
				ScopesSupported:        []string{"openid", "symgraph:read", "symgraph:write"},
				BearerMethodsSupported: []string{"header"},
				ResourceName:           "Symgraph MCP Server",
			}
			mux.Handle("/.well-known/oauth-protected-resource", sdkauth.ProtectedResourceMetadataHandler(prm))
			logger.Info("RFC 9728 metadata endpoint enabled", slog.String("url", resourceMetadataURL))
		}

		mcpVerifier := auth.NewMCPTokenVerifier(verifier)
		mcpHandler = sdkauth.RequireBearerToken(mcpVerifier, &sdkauth.RequireBearerTokenOptions{
			ResourceMetadataURL: resourceMetadataURL,
		})(sdkHandler)
		logger.Info("MCP OIDC auth enabled", slog.String("issuer", cfg.Auth.IssuerURL))
	} else {
		mcpHandler = auth.DevModeMiddleware(logger)(sdkHandler)
	}

	mux.Handle("/mcp", mcpHandler)
	mux.Handle("/", mcpHandler)

	httpServer := &http.Server{Addr: cfg.MCP.Addr, Handler: mux}

	go func() {
		logger.Info("MCP server listening", slog.String("addr", cfg.MCP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP HTTP server error", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	logger.Info("MCP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("MCP HTTP shutdown", slog.String("error", err.Error()))
	}
	logger.Info("MCP server stopped")
}
