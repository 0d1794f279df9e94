package resolver

import (
	"log/slog"
	"sort"

	"github.com/davidenochk/symgraph/internal/metadata"
	"github.com/davidenochk/symgraph/internal/symbols"
)

// processFile expands a file's declarations and export directives into the
// resolved-symbol cache. It runs at most once per file.
//
// The visited mark is set before any recursive descent. This is a hard
// invariant, not an optimization: wildcard re-export cycles terminate only
// because a re-entered file is already marked and returns whatever it has
// registered so far.
func (r *Resolver) processFile(file string) error {
	if _, ok := r.visited[file]; ok {
		return nil
	}
	r.visited[file] = struct{}{}

	doc, err := r.documentFor(file)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(doc.Declarations))
	for name := range doc.Declarations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		locals := make([]string, 0, 8)
		node, err := r.transform(doc.Declarations[name], file, &locals)
		if err != nil {
			return err
		}
		sym := r.cache.Get(file, name)
		r.resolved[sym] = &ResolvedSymbol{Symbol: sym, Metadata: node}
	}

	for _, directive := range doc.Exports {
		target, err := r.host.ModuleNameToFileName(directive.FromModule(), file)
		if err != nil {
			// Unresolvable specifier: the directive contributes nothing.
			continue
		}

		switch exp := directive.(type) {
		case *metadata.ExplicitExport:
			for _, name := range exp.Names {
				r.registerAlias(file, name.As, r.cache.Get(target, name.Source))
			}

		case *metadata.WildcardExport:
			exported, err := r.symbolsOf(target)
			if err != nil {
				return err
			}
			for _, sym := range exported {
				if len(sym.Members) > 0 {
					continue
				}
				r.registerAlias(file, sym.Name, sym)
			}
		}
	}

	r.logger.Debug("processed module metadata",
		slog.String("file", file),
		slog.Int("declarations", len(names)),
		slog.Int("exports", len(doc.Exports)))
	return nil
}

// registerAlias records an export redirect. Earlier registrations win: a
// file's own declarations are processed first, so a re-export can never
// shadow them, and a wildcard cycle can never alias a symbol to itself.
func (r *Resolver) registerAlias(file, name string, target *symbols.Symbol) {
	alias := r.cache.Get(file, name)
	if alias == target {
		return
	}
	if _, ok := r.resolved[alias]; ok {
		return
	}
	r.resolved[alias] = &ResolvedSymbol{
		Symbol:   alias,
		Metadata: &metadata.SymbolRef{Sym: target},
	}
}
