package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidenochk/symgraph/internal/config"
	"github.com/davidenochk/symgraph/internal/graph"
	"github.com/davidenochk/symgraph/internal/ingestion"
	"github.com/davidenochk/symgraph/internal/ingestion/connectors"
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

	// Valkey
	vkClient, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		logger.Error("failed to connect to valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer vkClient.Close()
	logger.Info("connected to valkey")

	// MinIO
	minioClient, err := minioclient.NewClient(cfg.MinIO)
	if err != nil {
		logger.Error("failed to connect to minio", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := minioClient.EnsureBucket(ctx); err != nil {
		logger.Error("failed to ensure bundle bucket", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to minio")

	// Connectors
	zipConn := connectors.NewZipConnector(minioClient)

	// S3 connector (optional)
	var s3Conn *connectors.S3Connector
	if cfg.S3.Bucket != "" {
		s3Conn, err = connectors.NewS3Connector(cfg.S3)
		if err != nil {
			logger.Warn("s3 connector init failed", slog.String("error", err.Error()))
		} else {
			logger.Info("s3 connector enabled", slog.String("bucket", cfg.S3.Bucket))
		}
	}

	summaries := summary.NewLoader(s, vkClient, logger)

	// Pipeline stages
	stages := []ingestion.Stage{
		ingestion.NewFetchStage(zipConn, s3Conn, cfg.Resolver.WorkDir, logger),
		ingestion.NewResolveStage(cfg.Resolver.ModuleRoots, logger),
		ingestion.NewPersistStage(s, summaries, logger),
	}

	// Neo4j (optional — enables the graph mirror)
	graphClient, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Warn("neo4j connection failed, graph sync disabled", slog.String("error", err.Error()))
	} else if err := graphClient.Verify(ctx); err != nil {
		logger.Warn("neo4j unreachable, graph sync disabled", slog.String("error", err.Error()))
		graphClient.Close(ctx)
	} else {
		defer graphClient.Close(ctx)
		if err := graphClient.EnsureIndexes(ctx); err != nil {
			logger.Warn("neo4j ensure indexes failed, sync may be slow", slog.String("error", err.Error()))
		}
		stages = append(stages, ingestion.NewGraphStage(graphClient, logger))
		logger.Info("connected to neo4j")
	}

	pipeline := ingestion.NewPipeline(stages, logger)

	consumer := ingestion.NewConsumer(vkClient, "worker-1", logger)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Error("failed to ensure consumer group", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting worker, consuming from stream", slog.String("stream", ingestion.StreamName))
	if err := consumer.Consume(ctx, pipeline.Run); err != nil {
		if ctx.Err() == nil {
			logger.Error("consumer error", slog.String("error", err.Error()))
		}
	}
	logger.Info("worker stopped")
}
