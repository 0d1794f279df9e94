package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davidenochk/symgraph/internal/api"
	"github.com/davidenochk/symgraph/internal/auth"
	"github.com/davidenochk/symgraph/internal/config"
	"github.com/davidenochk/symgraph/internal/graph"
	"github.com/davidenochk/symgraph/internal/ingestion"
	"github.com/davidenochk/symgraph/internal/store"
	minioclient "github.com/davidenochk/symgraph/internal/store/minio"
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

	// Initialize database pool
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	s := store.New(pool)

	deps := &api.RouterDeps{}

	// MinIO (optional — enables bundle uploads)
	mc, err := minioclient.NewClient(cfg.MinIO)
	if err != nil {
		logger.Warn("minio connection failed, bundle uploads disabled", slog.String("error", err.Error()))
	} else if err := mc.EnsureBucket(ctx); err != nil {
		logger.Warn("minio bucket unavailable, bundle uploads disabled", slog.String("error", err.Error()))
	} else {
		deps.MinIO = mc
		logger.Info("connected to minio")
	}

	// Neo4j (optional — enables alias chain lookups)
	graphClient, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Warn("neo4j client init failed, alias lookups disabled", slog.String("error", err.Error()))
	} else if err := graphClient.Verify(ctx); err != nil {
		logger.Warn("neo4j unreachable, alias lookups disabled", slog.String("error", err.Error()))
		graphClient.Close(ctx)
	} else {
		deps.Graph = graphClient
		defer graphClient.Close(ctx)
		logger.Info("connected to neo4j")
	}

	// Valkey (optional — enables job queue and summary caching)
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey connection failed, job queue disabled", slog.String("error", err.Error()))
		deps.Summaries = summary.NewLoader(s, nil, logger)
	} else {
		deps.Producer = ingestion.NewProducer(vkClient)
		deps.Summaries = summary.NewLoader(s, vkClient, logger)
		defer vkClient.Close()
		logger.Info("connected to valkey")
	}

	// Auth (optional — requires AUTH_ENABLED=true + valid issuer URL)
	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURL == "" {
			logger.Error("AUTH_ENABLED=true but AUTH_ISSUER_URL is empty")
			os.Exit(1)
		}
		verifier, err := auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.PublicIssuer, cfg.Auth.Audience)
		if err != nil {
			logger.Error("failed to init OIDC verifier", slog.String("error", err.Error()))
			os.Exit(1)
		}
		deps.Verifier = verifier
		logger.Info("OIDC auth enabled", slog.String("issuer", cfg.Auth.IssuerURL))
	}

	router := api.NewRouter(logger, cfg, s, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
