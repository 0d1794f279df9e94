package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davidenochk/symgraph/internal/graph"
)

// GraphStage mirrors the resolved symbols and their alias redirects into
// Neo4j. The stage is optional; without a graph client it is not installed.
type GraphStage struct {
	graph  *graph.Client
	logger *slog.Logger
}

func NewGraphStage(g *graph.Client, logger *slog.Logger) *GraphStage {
	return &GraphStage{graph: g, logger: logger}
}

func (s *GraphStage) Name() string { return "graph" }

func (s *GraphStage) Execute(ctx context.Context, rc *ResolveRunContext) error {
	if err := s.graph.ClearProject(ctx, rc.ProjectID); err != nil {
		return fmt.Errorf("clear project graph: %w", err)
	}
	if err := s.graph.SyncSymbols(ctx, rc.ProjectID, rc.Symbols); err != nil {
		return fmt.Errorf("sync symbols: %w", err)
	}
	if err := s.graph.SyncAliasEdges(ctx, rc.ProjectID, rc.Aliases); err != nil {
		return fmt.Errorf("sync alias edges: %w", err)
	}

	s.logger.Info("graph synced",
		slog.String("project_id", rc.ProjectID.String()),
		slog.Int("symbols", len(rc.Symbols)),
		slog.Int("aliases", len(rc.Aliases)))
	return nil
}
