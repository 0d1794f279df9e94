// Package summary supplies precompiled symbol resolutions to the resolver.
// A Set is loaded once per resolution session from the store (optionally
// through the Valkey cache) and then consulted purely in memory.
package summary

import (
	"fmt"

	"github.com/davidenochk/symgraph/internal/metadata"
	"github.com/davidenochk/symgraph/internal/store/postgres"
	"github.com/davidenochk/symgraph/internal/symbols"
)

// Set is an in-memory collection of precompiled resolutions. It implements
// resolver.SummaryResolver. Handles are interned through the shared symbol
// cache so identity matches the session's resolver.
type Set struct {
	cache    *symbols.Cache
	byHandle map[*symbols.Symbol]metadata.Node
	byFile   map[string][]*symbols.Symbol
}

func NewSet(cache *symbols.Cache) *Set {
	return &Set{
		cache:    cache,
		byHandle: make(map[*symbols.Symbol]metadata.Node),
		byFile:   make(map[string][]*symbols.Symbol),
	}
}

// Add registers the resolved metadata for (file, name).
func (s *Set) Add(file, name string, node metadata.Node) {
	sym := s.cache.Get(file, name)
	if _, ok := s.byHandle[sym]; !ok {
		s.byFile[file] = append(s.byFile[file], sym)
	}
	s.byHandle[sym] = node
}

// ResolveSummary implements resolver.SummaryResolver.
func (s *Set) ResolveSummary(sym *symbols.Symbol) (metadata.Node, bool) {
	node, ok := s.byHandle[sym]
	return node, ok
}

// SymbolsOf implements resolver.SummaryResolver.
func (s *Set) SymbolsOf(filePath string) []*symbols.Symbol {
	return s.byFile[filePath]
}

func (s *Set) Len() int {
	return len(s.byHandle)
}

// FromRecords builds a Set from stored summary rows, rehydrating symbol
// handles embedded in the metadata through the shared cache.
func FromRecords(cache *symbols.Cache, records []postgres.SummaryRecord) (*Set, error) {
	set := NewSet(cache)
	for _, rec := range records {
		node, err := metadata.DecodeNode(rec.Metadata, cache)
		if err != nil {
			return nil, fmt.Errorf("decode summary %s:%s: %w", rec.FilePath, rec.Name, err)
		}
		set.Add(rec.FilePath, rec.Name, node)
	}
	return set, nil
}
