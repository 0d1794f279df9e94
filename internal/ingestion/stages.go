package ingestion

import (
	"context"

	"github.com/google/uuid"

	"github.com/davidenochk/symgraph/internal/graph"
	"github.com/davidenochk/symgraph/internal/store/postgres"
)

// Stage represents a step in the resolve pipeline.
type Stage interface {
	Name() string
	Execute(ctx context.Context, rc *ResolveRunContext) error
}

// ResolveRunContext carries state through the pipeline stages.
type ResolveRunContext struct {
	ProjectID  uuid.UUID
	BundleKey  string
	SourceType string
	Trigger    string

	// Set by fetch stage
	WorkDir string

	// Set by resolve stage
	FilesResolved   int
	SymbolsResolved int
	Records         []postgres.SummaryRecord
	Symbols         []graph.SymbolNode
	Aliases         []graph.AliasEdge
	Issues          []ResolutionIssue
}

// ResolutionIssue is a non-fatal problem recorded while resolving a bundle.
type ResolutionIssue struct {
	FilePath string `json:"file_path"`
	Message  string `json:"message"`
}
