package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/davidenochk/symgraph/internal/graph"
	"github.com/davidenochk/symgraph/internal/host/fshost"
	"github.com/davidenochk/symgraph/internal/metadata"
	"github.com/davidenochk/symgraph/internal/resolver"
	"github.com/davidenochk/symgraph/internal/store/postgres"
)

const metadataSuffix = ".metadata.json"

// ResolveStage runs the symbol resolver over every metadata document in the
// fetched bundle and collects the resolved summaries. Files under the module
// roots are not walked directly; they are reached on demand through imports.
type ResolveStage struct {
	moduleRoots []string
	logger      *slog.Logger
}

func NewResolveStage(moduleRoots []string, logger *slog.Logger) *ResolveStage {
	return &ResolveStage{moduleRoots: moduleRoots, logger: logger}
}

func (s *ResolveStage) Name() string { return "resolve" }

func (s *ResolveStage) Execute(ctx context.Context, rc *ResolveRunContext) error {
	files, err := s.listModuleFiles(rc.WorkDir)
	if err != nil {
		return fmt.Errorf("list bundle files: %w", err)
	}

	host := fshost.New(rc.WorkDir, s.moduleRoots...)
	sink := &issueSink{}
	res := resolver.New(host, nil, nil, sink, s.logger)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		syms, err := res.SymbolsOf(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}

		for _, sym := range syms {
			if len(sym.Members) > 0 {
				continue
			}
			resolved, err := res.ResolveSymbol(sym)
			if err != nil {
				return fmt.Errorf("resolve %s in %s: %w", sym.Name, file, err)
			}
			if resolved == nil {
				continue
			}

			data, err := json.Marshal(resolved.Metadata)
			if err != nil {
				return fmt.Errorf("encode summary %s:%s: %w", sym.File, sym.Name, err)
			}
			rc.Records = append(rc.Records, postgres.SummaryRecord{
				ProjectID: rc.ProjectID,
				FilePath:  sym.File,
				Name:      sym.Name,
				Metadata:  data,
			})

			rc.Symbols = append(rc.Symbols, graph.SymbolNode{
				File: sym.File,
				Name: sym.Name,
				Kind: nodeKind(resolved.Metadata),
			})
			if ref, ok := resolved.Metadata.(*metadata.SymbolRef); ok {
				rc.Aliases = append(rc.Aliases, graph.AliasEdge{
					FromFile: sym.File,
					FromName: sym.Name,
					ToFile:   ref.Sym.File,
					ToName:   ref.Sym.Name,
				})
			}
		}
		rc.FilesResolved++
	}

	rc.SymbolsResolved = len(rc.Records)
	rc.Issues = sink.issues

	s.logger.Info("bundle resolved",
		slog.String("project_id", rc.ProjectID.String()),
		slog.Int("files", rc.FilesResolved),
		slog.Int("symbols", rc.SymbolsResolved),
		slog.Int("issues", len(rc.Issues)))
	return nil
}

// listModuleFiles walks the bundle and returns the bundle-relative module
// paths that carry a metadata document, skipping the module roots.
func (s *ResolveStage) listModuleFiles(workDir string) ([]string, error) {
	roots := s.moduleRoots
	if len(roots) == 0 {
		roots = []string{"node_modules"}
	}

	var files []string
	err := filepath.WalkDir(workDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(workDir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			for _, root := range roots {
				if rel == root {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if strings.HasSuffix(rel, metadataSuffix) {
			files = append(files, strings.TrimSuffix(rel, metadataSuffix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func nodeKind(node metadata.Node) string {
	switch node.(type) {
	case *metadata.Class:
		return "class"
	case *metadata.Function:
		return "function"
	case *metadata.SymbolRef:
		return "reference"
	case *metadata.Error:
		return "error"
	case nil:
		return "value"
	default:
		return "value"
	}
}

// issueSink records resolution problems without aborting the pipeline.
type issueSink struct {
	issues []ResolutionIssue
}

func (s *issueSink) Report(err error, filePath string) {
	s.issues = append(s.issues, ResolutionIssue{FilePath: filePath, Message: err.Error()})
}
