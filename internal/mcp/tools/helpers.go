package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davidenochk/symgraph/internal/host/fshost"
	"github.com/davidenochk/symgraph/internal/resolver"
	"github.com/davidenochk/symgraph/internal/store"
	"github.com/davidenochk/symgraph/internal/store/postgres"
	"github.com/davidenochk/symgraph/internal/summary"
	"github.com/davidenochk/symgraph/internal/symbols"
)

// ToolHandler is the interface that all tool handlers implement.
type ToolHandler[P any] interface {
	Handle(ctx context.Context, params P) (string, error)
}

// WrapHandler adapts a ToolHandler into the SDK's AddTool callback.
// It handles nil params by using a zero value and maps errors to CallToolResult.
func WrapHandler[P any](h ToolHandler[P]) func(context.Context, *sdkmcp.CallToolRequest, *P) (*sdkmcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, params *P) (*sdkmcp.CallToolResult, any, error) {
		if params == nil {
			params = new(P)
		}
		result, err := h.Handle(ctx, *params)
		if err != nil {
			return &sdkmcp.CallToolResult{
				IsError: true,
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: err.Error()}},
			}, nil, nil
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: result}},
		}, nil, nil
	}
}

// WrapProjectError translates database errors from GetProject into user-friendly messages.
func WrapProjectError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("project not found")
	}
	return fmt.Errorf("get project: %w", err)
}

// Deps bundles the infrastructure every resolution tool needs.
type Deps struct {
	Store       *store.Store
	Summaries   *summary.Loader
	WorkRoot    string
	ModuleRoots []string
}

// project resolves a project slug to its store row.
func (d Deps) project(ctx context.Context, slug string) (postgres.Project, error) {
	if slug == "" {
		return postgres.Project{}, fmt.Errorf("missing required parameter 'project'")
	}
	project, err := d.Store.GetProject(ctx, slug)
	if err != nil {
		return postgres.Project{}, WrapProjectError(err)
	}
	return project, nil
}

// session builds a project-scoped resolver over the stored summaries, with
// the extracted bundle as fallback when it is still on disk.
func (d Deps) session(ctx context.Context, project postgres.Project) (*resolver.Resolver, error) {
	cache := symbols.NewCache()
	set, err := d.Summaries.Load(ctx, project.ID, cache)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	host := fshost.New(filepath.Join(d.WorkRoot, project.ID.String()), d.ModuleRoots...)
	return resolver.New(host, cache, set, nil, nil), nil
}
