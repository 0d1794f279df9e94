package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const batchSize = 500

// SymbolNode is a resolved top-level symbol to mirror into the graph.
type SymbolNode struct {
	File string
	Name string
	Kind string
}

// AliasEdge redirects a re-exporting symbol to the symbol it resolves to.
type AliasEdge struct {
	FromFile string
	FromName string
	ToFile   string
	ToName   string
}

// SymbolID builds the graph identity for a symbol within a project.
func SymbolID(projectID uuid.UUID, file, name string) string {
	return projectID.String() + ":" + file + ":" + name
}

// ModuleID builds the graph identity for a module file within a project.
func ModuleID(projectID uuid.UUID, file string) string {
	return projectID.String() + ":" + file
}

// SyncSymbols upserts symbol and module nodes and links symbols to the
// modules that declare them.
func (c *Client) SyncSymbols(ctx context.Context, projectID uuid.UUID, symbols []SymbolNode) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	moduleSeen := make(map[string]struct{})

	for i := 0; i < len(symbols); i += batchSize {
		end := min(i+batchSize, len(symbols))
		batch := symbols[i:end]

		params := make([]map[string]any, len(batch))
		var modules []map[string]any
		for j, sym := range batch {
			moduleID := ModuleID(projectID, sym.File)
			params[j] = map[string]any{
				"id":        SymbolID(projectID, sym.File, sym.Name),
				"name":      sym.Name,
				"file":      sym.File,
				"kind":      sym.Kind,
				"projectId": projectID.String(),
				"moduleId":  moduleID,
			}
			if _, ok := moduleSeen[moduleID]; !ok {
				moduleSeen[moduleID] = struct{}{}
				modules = append(modules, map[string]any{
					"id":        moduleID,
					"path":      sym.File,
					"projectId": projectID.String(),
				})
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			if _, err := tx.Run(ctx, UpsertModuleNode, map[string]any{"modules": modules}); err != nil {
				return struct{}{}, err
			}
			if _, err := tx.Run(ctx, UpsertSymbolNode, map[string]any{"symbols": params}); err != nil {
				return struct{}{}, err
			}
			_, err := tx.Run(ctx, LinkSymbolToModule, map[string]any{"symbols": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync symbols batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// SyncAliasEdges upserts ALIAS_OF relationships between already-synced symbols.
func (c *Client) SyncAliasEdges(ctx context.Context, projectID uuid.UUID, edges []AliasEdge) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(edges); i += batchSize {
		end := min(i+batchSize, len(edges))
		batch := edges[i:end]

		params := make([]map[string]any, len(batch))
		for j, edge := range batch {
			params[j] = map[string]any{
				"sourceId":  SymbolID(projectID, edge.FromFile, edge.FromName),
				"targetId":  SymbolID(projectID, edge.ToFile, edge.ToName),
				"projectId": projectID.String(),
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertAliasEdge, map[string]any{"edges": params})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync alias edges batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// ClearProject removes all graph data for a project.
func (c *Client) ClearProject(ctx context.Context, projectID uuid.UUID) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, DeleteProjectNodes, map[string]any{
			"projectId": projectID.String(),
		})
		return struct{}{}, err
	})
	return err
}
