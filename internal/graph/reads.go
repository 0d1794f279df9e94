package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// maxAliasDepth bounds ALIAS_OF traversal; re-export chains in real bundles
// are shallow, and the bound keeps a corrupt graph from exploding the query.
const maxAliasDepth = 16

// AliasTarget is one symbol reached by following alias redirects.
type AliasTarget struct {
	ID   string `json:"id"`
	File string `json:"file"`
	Name string `json:"name"`
}

func aliasChainQuery() string {
	return fmt.Sprintf(strings.TrimSpace(AliasChain), maxAliasDepth)
}

// AliasChain returns the symbols the given symbol redirects through,
// nearest first. An empty result means the symbol aliases nothing.
func (c *Client) AliasChain(ctx context.Context, projectID uuid.UUID, file, name string) ([]AliasTarget, error) {
	session := c.ReadSession(ctx)
	defer session.Close(ctx)

	targets, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) ([]AliasTarget, error) {
		res, err := tx.Run(ctx, aliasChainQuery(), map[string]any{
			"symbolId": SymbolID(projectID, file, name),
		})
		if err != nil {
			return nil, err
		}

		var out []AliasTarget
		for res.Next(ctx) {
			rec := res.Record()
			id, _ := rec.Get("id")
			targetFile, _ := rec.Get("file")
			targetName, _ := rec.Get("name")
			out = append(out, AliasTarget{
				ID:   asString(id),
				File: asString(targetFile),
				Name: asString(targetName),
			})
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("alias chain for %s: %w", SymbolID(projectID, file, name), err)
	}
	return targets, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
