package resolver

import (
	"sort"

	"github.com/davidenochk/symgraph/internal/metadata"
)

// transform rewrites a raw metadata node into its resolved form, replacing
// reference nodes with symbol handles. locals is the stack of in-scope
// function parameter names: each function node pushes its parameters before
// its subtree is processed and truncates the stack back afterwards, so
// nested functions shadow correctly and references to parameters stay
// lexical markers instead of becoming module-scope symbols.
//
// A nil result with a nil error means the node resolved to no value.
func (r *Resolver) transform(node metadata.Node, file string, locals *[]string) (metadata.Node, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil

	case *metadata.Primitive, *metadata.Error, *metadata.SymbolRef, *metadata.LocalRef:
		return n, nil

	case *metadata.Reference:
		// An absent name resolves to no value, not an error.
		if n.Name == "" {
			return nil, nil
		}
		if n.Module != "" {
			target, err := r.host.ModuleNameToFileName(n.Module, file)
			if err != nil {
				// Embed the failure inertly so siblings keep resolving.
				merr := &ModuleResolutionError{Module: n.Module, ContainingFile: file, Err: err}
				if r.sink != nil {
					r.sink.Report(merr, file)
				}
				return &metadata.Error{Message: merr.Error()}, nil
			}
			return &metadata.SymbolRef{Sym: r.cache.Get(target, n.Name)}, nil
		}
		if isLocal(*locals, n.Name) {
			return &metadata.LocalRef{Name: n.Name}, nil
		}
		return &metadata.SymbolRef{Sym: r.cache.Get(file, n.Name)}, nil

	case *metadata.Function:
		depth := len(*locals)
		*locals = append(*locals, n.Parameters...)
		attrs, err := r.transformMap(n.Attrs, file, locals)
		*locals = (*locals)[:depth]
		if err != nil {
			return nil, err
		}
		return &metadata.Function{Parameters: n.Parameters, Attrs: attrs}, nil

	case *metadata.Class:
		statics, err := r.transformMap(n.Statics, file, locals)
		if err != nil {
			return nil, err
		}
		attrs, err := r.transformMap(n.Attrs, file, locals)
		if err != nil {
			return nil, err
		}
		return &metadata.Class{Statics: statics, Attrs: attrs}, nil

	case *metadata.Object:
		fields, err := r.transformMap(n.Fields, file, locals)
		if err != nil {
			return nil, err
		}
		return &metadata.Object{Fields: fields}, nil

	case *metadata.Array:
		out := &metadata.Array{Items: make([]metadata.Node, 0, len(n.Items))}
		for _, item := range n.Items {
			t, err := r.transform(item, file, locals)
			if err != nil {
				return nil, err
			}
			if t == nil {
				// Keep positions stable for absent elements.
				t = &metadata.Primitive{}
			}
			out.Items = append(out.Items, t)
		}
		return out, nil

	default:
		return n, nil
	}
}

// transformMap rebuilds a field map, dropping entries that resolve to no
// value. Keys are processed in sorted order so diagnostics are stable.
func (r *Resolver) transformMap(fields map[string]metadata.Node, file string, locals *[]string) (map[string]metadata.Node, error) {
	if fields == nil {
		return nil, nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]metadata.Node, len(fields))
	for _, name := range names {
		t, err := r.transform(fields[name], file, locals)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		out[name] = t
	}
	return out, nil
}

func isLocal(locals []string, name string) bool {
	for i := len(locals) - 1; i >= 0; i-- {
		if locals[i] == name {
			return true
		}
	}
	return false
}
