package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/davidenochk/symgraph/internal/ingestion/connectors"
)

// FetchStage materializes the project's metadata bundle into a local work
// directory, either by extracting an uploaded ZIP from MinIO or by syncing
// a prefix from S3.
type FetchStage struct {
	zip      *connectors.ZipConnector
	s3       *connectors.S3Connector
	workRoot string
	logger   *slog.Logger
}

func NewFetchStage(zip *connectors.ZipConnector, s3 *connectors.S3Connector, workRoot string, logger *slog.Logger) *FetchStage {
	return &FetchStage{zip: zip, s3: s3, workRoot: workRoot, logger: logger}
}

func (s *FetchStage) Name() string { return "fetch" }

func (s *FetchStage) Execute(ctx context.Context, rc *ResolveRunContext) error {
	workDir := filepath.Join(s.workRoot, rc.ProjectID.String())

	// Stale bundles from a previous run are replaced wholesale.
	if err := os.RemoveAll(workDir); err != nil {
		return fmt.Errorf("clear work dir: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	switch rc.SourceType {
	case "upload":
		if s.zip == nil {
			return fmt.Errorf("upload source requires object storage")
		}
		if err := s.zip.Extract(ctx, rc.BundleKey, workDir); err != nil {
			return fmt.Errorf("extract bundle %s: %w", rc.BundleKey, err)
		}
	case "s3":
		if s.s3 == nil {
			return fmt.Errorf("s3 source requires an s3 connector")
		}
		if err := s.s3.Sync(ctx, rc.BundleKey, workDir); err != nil {
			return fmt.Errorf("sync bundle prefix %s: %w", rc.BundleKey, err)
		}
	default:
		return fmt.Errorf("unknown source type %q", rc.SourceType)
	}

	rc.WorkDir = workDir
	s.logger.Info("bundle fetched",
		slog.String("project_id", rc.ProjectID.String()),
		slog.String("bundle_key", rc.BundleKey),
		slog.String("work_dir", workDir))
	return nil
}
