// Package resolver resolves cross-module symbol references over per-file
// metadata documents, without executing or type-checking any source. It
// merges two metadata sources: freshly loaded documents from a Host and
// precompiled summaries from a SummaryResolver.
package resolver

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/davidenochk/symgraph/internal/metadata"
	"github.com/davidenochk/symgraph/internal/symbols"
)

// Host supplies raw metadata documents and module specifier resolution.
// Implementations live outside this package (filesystem bundles, tests).
type Host interface {
	// GetMetadataFor returns zero or more candidate documents for a file.
	GetMetadataFor(filePath string) ([]metadata.Document, error)

	// ModuleNameToFileName maps a module specifier, relative to the file
	// containing it, to the target file path. Fails when unresolvable.
	ModuleNameToFileName(module, containingFile string) (string, error)
}

// SummaryResolver supplies precompiled resolutions for symbols whose files
// were already processed in an earlier session.
type SummaryResolver interface {
	// ResolveSummary returns the resolved metadata for a symbol, if known.
	ResolveSummary(sym *symbols.Symbol) (metadata.Node, bool)

	// SymbolsOf returns every symbol the summaries know for a file.
	SymbolsOf(filePath string) []*symbols.Symbol
}

// ErrorSink receives recoverable diagnostics. When a Resolver has no sink,
// conditions that would be reported are returned as errors to the caller
// instead.
type ErrorSink interface {
	Report(err error, filePath string)
}

// ResolvedSymbol pairs a symbol with its resolved metadata. Metadata may be
// nil, meaning the symbol resolved to no value.
type ResolvedSymbol struct {
	Symbol   *symbols.Symbol
	Metadata metadata.Node
}

// Resolver owns one resolution session. All caches live for the lifetime of
// the Resolver and are never invalidated; discard the Resolver to reset.
//
// Public methods serialize on a single mutex: cross-file recursion makes
// finer-grained locking unsafe, because a file must never be observed as
// visited before its declarations are registered.
type Resolver struct {
	host      Host
	summaries SummaryResolver
	sink      ErrorSink
	cache     *symbols.Cache
	logger    *slog.Logger

	mu         sync.Mutex
	documents  map[string]*metadata.Document
	resolved   map[*symbols.Symbol]*ResolvedSymbol
	visited    map[string]struct{}
	forwarding map[*symbols.Symbol]struct{}
}

// New creates a Resolver. summaries and sink may be nil; cache may be nil
// to have the Resolver own a fresh one.
func New(host Host, cache *symbols.Cache, summaries SummaryResolver, sink ErrorSink, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = symbols.NewCache()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		host:      host,
		summaries: summaries,
		sink:      sink,
		cache:     cache,
		logger:    logger,
		documents:  make(map[string]*metadata.Document),
		resolved:   make(map[*symbols.Symbol]*ResolvedSymbol),
		visited:    make(map[string]struct{}),
		forwarding: make(map[*symbols.Symbol]struct{}),
	}
}

// Intern returns the canonical handle for (file, name, members).
func (r *Resolver) Intern(file, name string, members ...string) *symbols.Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Get(file, name, members...)
}

// ResolveSymbol resolves a symbol to its metadata. A nil result with a nil
// error means the symbol is unknown; the caller decides whether that is
// fatal.
func (r *Resolver) ResolveSymbol(sym *symbols.Symbol) (*ResolvedSymbol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveSymbol(sym)
}

// ResolveModule resolves the named symbol declared in (or exported by) the
// file a module specifier points to. Unlike export processing, an
// unresolvable specifier here is a caller-facing failure: it is reported
// through the sink, or returned as an error when no sink is configured.
func (r *Resolver) ResolveModule(module, containingFile, name string) (*ResolvedSymbol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, err := r.host.ModuleNameToFileName(module, containingFile)
	if err != nil {
		merr := &ModuleResolutionError{Module: module, ContainingFile: containingFile, Err: err}
		if rerr := r.report(merr, containingFile); rerr != nil {
			return nil, rerr
		}
		return nil, nil
	}
	return r.resolveSymbol(r.cache.Get(target, name))
}

// SymbolsOf returns every symbol visible from a file: the union of what the
// summaries know and what this session has resolved for that file.
func (r *Resolver) SymbolsOf(file string) ([]*symbols.Symbol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.symbolsOf(file)
}

func (r *Resolver) resolveSymbol(sym *symbols.Symbol) (*ResolvedSymbol, error) {
	if sym == nil {
		return nil, nil
	}
	if len(sym.Members) > 0 {
		return r.resolveSymbolMembers(sym)
	}

	// Summary fast path bypasses document loading entirely.
	if r.summaries != nil {
		if node, ok := r.summaries.ResolveSummary(sym); ok {
			return &ResolvedSymbol{Symbol: sym, Metadata: node}, nil
		}
	}
	if rs, ok := r.resolved[sym]; ok {
		return rs, nil
	}
	if err := r.processFile(sym.File); err != nil {
		return nil, err
	}
	return r.resolved[sym], nil
}

// resolveSymbolMembers projects a base symbol through its member path.
// Mutually re-exporting files make alias forwarding re-enter the same
// handle; a handle already being forwarded has no value to project.
func (r *Resolver) resolveSymbolMembers(sym *symbols.Symbol) (*ResolvedSymbol, error) {
	if _, ok := r.forwarding[sym]; ok {
		return nil, nil
	}
	r.forwarding[sym] = struct{}{}
	defer delete(r.forwarding, sym)

	base, err := r.resolveSymbol(r.cache.Get(sym.File, sym.Name))
	if err != nil || base == nil {
		return nil, err
	}

	switch md := base.Metadata.(type) {
	case *metadata.SymbolRef:
		// Aliases transparently forward the member path.
		return r.resolveSymbol(r.cache.Get(md.Sym.File, md.Sym.Name, sym.Members...))
	case *metadata.Class:
		if md.Statics != nil && len(sym.Members) == 1 {
			return &ResolvedSymbol{Symbol: sym, Metadata: md.Statics[sym.Members[0]]}, nil
		}
		return nil, nil
	default:
		value := base.Metadata
		for _, member := range sym.Members {
			if value == nil {
				break
			}
			value = projectMember(value, member)
		}
		// Partial projection is a legitimate, silent outcome.
		return &ResolvedSymbol{Symbol: sym, Metadata: value}, nil
	}
}

// projectMember steps one member into a nested value, or returns nil when
// there is nothing at that step.
func projectMember(value metadata.Node, member string) metadata.Node {
	switch v := value.(type) {
	case *metadata.Object:
		return v.Fields[member]
	case *metadata.Array:
		if member == "" {
			return nil
		}
		idx := 0
		for _, c := range member {
			if c < '0' || c > '9' {
				return nil
			}
			idx = idx*10 + int(c-'0')
		}
		if idx >= len(v.Items) {
			return nil
		}
		return v.Items[idx]
	default:
		return nil
	}
}

func (r *Resolver) symbolsOf(file string) ([]*symbols.Symbol, error) {
	seen := make(map[*symbols.Symbol]struct{})
	var out []*symbols.Symbol

	if r.summaries != nil {
		for _, sym := range r.summaries.SymbolsOf(file) {
			if _, ok := seen[sym]; !ok {
				seen[sym] = struct{}{}
				out = append(out, sym)
			}
		}
	}

	if err := r.processFile(file); err != nil {
		return nil, err
	}

	// The resolved cache accumulates symbols interned while processing other
	// files (alias targets among them), so filter by declaring file.
	for sym := range r.resolved {
		if sym.File != file {
			continue
		}
		if _, ok := seen[sym]; !ok {
			seen[sym] = struct{}{}
			out = append(out, sym)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// documentFor loads and caches the authoritative document for a file,
// selecting the highest offered version (first wins on ties) and
// synthesizing an empty document when the host offers none. A version
// mismatch is reported but the document is still used.
func (r *Resolver) documentFor(file string) (*metadata.Document, error) {
	if doc, ok := r.documents[file]; ok {
		return doc, nil
	}

	candidates, err := r.host.GetMetadataFor(file)
	if err != nil {
		return nil, err
	}

	var doc *metadata.Document
	for i := range candidates {
		if doc == nil || candidates[i].Version > doc.Version {
			doc = &candidates[i]
		}
	}
	if doc == nil {
		doc = metadata.NewEmptyDocument()
	}

	if doc.Version != metadata.SupportedVersion {
		mismatch := &VersionMismatchError{
			FilePath:  file,
			Found:     doc.Version,
			Supported: metadata.SupportedVersion,
		}
		if rerr := r.report(mismatch, file); rerr != nil {
			return nil, rerr
		}
	}

	r.documents[file] = doc
	return doc, nil
}

// report delivers a recoverable diagnostic to the sink, or returns it when
// no sink is configured.
func (r *Resolver) report(err error, filePath string) error {
	if r.sink != nil {
		r.sink.Report(err, filePath)
		return nil
	}
	return err
}
