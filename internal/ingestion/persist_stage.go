package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davidenochk/symgraph/internal/store"
	"github.com/davidenochk/symgraph/internal/store/postgres"
	"github.com/davidenochk/symgraph/internal/summary"
)

// PersistStage replaces the project's stored summaries with the freshly
// resolved set and invalidates the summary cache.
type PersistStage struct {
	store  *store.Store
	loader *summary.Loader
	logger *slog.Logger
}

func NewPersistStage(s *store.Store, loader *summary.Loader, logger *slog.Logger) *PersistStage {
	return &PersistStage{store: s, loader: loader, logger: logger}
}

func (s *PersistStage) Name() string { return "persist" }

func (s *PersistStage) Execute(ctx context.Context, rc *ResolveRunContext) error {
	// The swap is transactional so a crash mid-persist never leaves the
	// project with a half-replaced summary set.
	err := s.store.WithTx(ctx, func(q *postgres.Queries) error {
		if err := q.DeleteSummariesByProject(ctx, rc.ProjectID); err != nil {
			return fmt.Errorf("delete stale summaries: %w", err)
		}
		if err := q.UpsertSummaries(ctx, rc.Records); err != nil {
			return fmt.Errorf("upsert summaries: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.loader != nil {
		s.loader.Invalidate(ctx, rc.ProjectID)
	}

	s.logger.Info("summaries persisted",
		slog.String("project_id", rc.ProjectID.String()),
		slog.Int("count", len(rc.Records)))
	return nil
}
