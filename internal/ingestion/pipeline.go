package ingestion

import (
	"context"
	"fmt"
	"log/slog"
)

// Pipeline runs the resolve stages for each queued job in order:
// fetch → resolve → persist → graph. A stage failure aborts the run; the
// message stays pending on the stream and is retried by the consumer.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

func NewPipeline(stages []Stage, logger *slog.Logger) *Pipeline {
	return &Pipeline{stages: stages, logger: logger}
}

// Run processes a single resolve message through all stages.
func (p *Pipeline) Run(ctx context.Context, msg ResolveMessage) error {
	p.logger.Info("pipeline started",
		slog.String("project_id", msg.ProjectID.String()),
		slog.String("bundle_key", msg.BundleKey),
		slog.String("trigger", msg.Trigger))

	rc := &ResolveRunContext{
		ProjectID:  msg.ProjectID,
		BundleKey:  msg.BundleKey,
		SourceType: msg.SourceType,
		Trigger:    msg.Trigger,
	}

	for _, stage := range p.stages {
		p.logger.Info("stage started",
			slog.String("stage", stage.Name()),
			slog.String("project_id", msg.ProjectID.String()))

		if err := stage.Execute(ctx, rc); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage.Name(), err)
		}

		p.logger.Info("stage completed",
			slog.String("stage", stage.Name()),
			slog.String("project_id", msg.ProjectID.String()))
	}

	for _, issue := range rc.Issues {
		p.logger.Warn("resolution issue",
			slog.String("project_id", msg.ProjectID.String()),
			slog.String("file", issue.FilePath),
			slog.String("message", issue.Message))
	}

	p.logger.Info("pipeline completed",
		slog.String("project_id", msg.ProjectID.String()),
		slog.Int("files", rc.FilesResolved),
		slog.Int("symbols", rc.SymbolsResolved),
		slog.Int("issues", len(rc.Issues)))
	return nil
}
