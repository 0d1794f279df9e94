package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/davidenochk/symgraph/internal/symbols"
)

// Node kinds on the wire.
const (
	kindReference = "reference"
	kindFunction  = "function"
	kindClass     = "class"
	kindError     = "error"
	kindSymbol    = "symbol"
	kindLocal     = "local"
)

// UnmarshalJSON decodes the wire shape
// {version, declarations: {name: node}, exports: [directive]}.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire struct {
		Version      int                        `json:"version"`
		Declarations map[string]json.RawMessage `json:"declarations"`
		Exports      []json.RawMessage          `json:"exports"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	d.Version = wire.Version
	d.Declarations = make(map[string]Node, len(wire.Declarations))
	for name, raw := range wire.Declarations {
		n, err := DecodeNode(raw, nil)
		if err != nil {
			return fmt.Errorf("decode declaration %q: %w", name, err)
		}
		d.Declarations[name] = n
	}

	d.Exports = d.Exports[:0]
	for i, raw := range wire.Exports {
		e, err := decodeExport(raw)
		if err != nil {
			return fmt.Errorf("decode export %d: %w", i, err)
		}
		d.Exports = append(d.Exports, e)
	}
	return nil
}

// MarshalJSON emits the same wire shape UnmarshalJSON consumes.
func (d *Document) MarshalJSON() ([]byte, error) {
	exports := d.Exports
	if exports == nil {
		exports = []Export{}
	}
	return json.Marshal(map[string]any{
		"version":      d.Version,
		"declarations": d.Declarations,
		"exports":      exports,
	})
}

// DecodeNode decodes one metadata node. When cache is non-nil, symbol
// handles in resolved trees are interned through it so handle identity is
// preserved across a resolution session; with a nil cache fresh handles
// are created (sufficient for display-only decoding). Raw documents never
// contain symbol handles, so their decode path may always pass nil.
func DecodeNode(data []byte, cache *symbols.Cache) (Node, error) {
	trim := bytes.TrimSpace(data)
	if len(trim) == 0 || bytes.Equal(trim, []byte("null")) {
		return &Primitive{}, nil
	}

	switch trim[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trim, &items); err != nil {
			return nil, err
		}
		arr := &Array{Items: make([]Node, 0, len(items))}
		for _, item := range items {
			n, err := DecodeNode(item, cache)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, n)
		}
		return arr, nil
	case '{':
		return decodeObject(trim, cache)
	default:
		var v any
		if err := json.Unmarshal(trim, &v); err != nil {
			return nil, err
		}
		return &Primitive{Value: v}, nil
	}
}

func decodeObject(data []byte, cache *symbols.Cache) (Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	kind := ""
	if raw, ok := fields["kind"]; ok {
		// A non-string kind demotes the object to a plain mapping.
		_ = json.Unmarshal(raw, &kind)
	}

	switch kind {
	case kindReference:
		ref := &Reference{}
		if raw, ok := fields["module"]; ok {
			_ = json.Unmarshal(raw, &ref.Module)
		}
		if raw, ok := fields["name"]; ok {
			_ = json.Unmarshal(raw, &ref.Name)
		}
		return ref, nil

	case kindFunction:
		fn := &Function{}
		if raw, ok := fields["parameters"]; ok {
			if err := json.Unmarshal(raw, &fn.Parameters); err != nil {
				return nil, fmt.Errorf("function parameters: %w", err)
			}
		}
		attrs, err := decodeAttrs(fields, cache, "kind", "parameters")
		if err != nil {
			return nil, err
		}
		fn.Attrs = attrs
		return fn, nil

	case kindClass:
		cls := &Class{}
		if raw, ok := fields["statics"]; ok {
			var staticFields map[string]json.RawMessage
			if err := json.Unmarshal(raw, &staticFields); err != nil {
				return nil, fmt.Errorf("class statics: %w", err)
			}
			cls.Statics = make(map[string]Node, len(staticFields))
			for name, sraw := range staticFields {
				n, err := DecodeNode(sraw, cache)
				if err != nil {
					return nil, err
				}
				cls.Statics[name] = n
			}
		}
		attrs, err := decodeAttrs(fields, cache, "kind", "statics")
		if err != nil {
			return nil, err
		}
		cls.Attrs = attrs
		return cls, nil

	case kindError:
		e := &Error{}
		if raw, ok := fields["message"]; ok {
			_ = json.Unmarshal(raw, &e.Message)
		}
		return e, nil

	case kindSymbol:
		var file, name string
		var members []string
		if raw, ok := fields["file"]; ok {
			_ = json.Unmarshal(raw, &file)
		}
		if raw, ok := fields["name"]; ok {
			_ = json.Unmarshal(raw, &name)
		}
		if raw, ok := fields["members"]; ok {
			_ = json.Unmarshal(raw, &members)
		}
		if cache != nil {
			return &SymbolRef{Sym: cache.Get(file, name, members...)}, nil
		}
		return &SymbolRef{Sym: &symbols.Symbol{File: file, Name: name, Members: members}}, nil

	case kindLocal:
		l := &LocalRef{}
		if raw, ok := fields["name"]; ok {
			_ = json.Unmarshal(raw, &l.Name)
		}
		return l, nil

	default:
		obj := &Object{Fields: make(map[string]Node, len(fields))}
		for name, raw := range fields {
			n, err := DecodeNode(raw, cache)
			if err != nil {
				return nil, err
			}
			obj.Fields[name] = n
		}
		return obj, nil
	}
}

func decodeAttrs(fields map[string]json.RawMessage, cache *symbols.Cache, skip ...string) (map[string]Node, error) {
	attrs := make(map[string]Node)
outer:
	for name, raw := range fields {
		for _, s := range skip {
			if name == s {
				continue outer
			}
		}
		n, err := DecodeNode(raw, cache)
		if err != nil {
			return nil, err
		}
		attrs[name] = n
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return attrs, nil
}

func decodeExport(data []byte) (Export, error) {
	var wire struct {
		From  string            `json:"from"`
		Names []json.RawMessage `json:"names"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	if wire.Names == nil {
		return &WildcardExport{From: wire.From}, nil
	}

	exp := &ExplicitExport{From: wire.From, Names: make([]ExportName, 0, len(wire.Names))}
	for _, raw := range wire.Names {
		trim := bytes.TrimSpace(raw)
		if len(trim) > 0 && trim[0] == '"' {
			// Bare name shorthand: exported under its own name.
			var s string
			if err := json.Unmarshal(trim, &s); err != nil {
				return nil, err
			}
			exp.Names = append(exp.Names, ExportName{Source: s, As: s})
			continue
		}
		var pair struct {
			Source string `json:"source"`
			As     string `json:"as"`
		}
		if err := json.Unmarshal(trim, &pair); err != nil {
			return nil, err
		}
		if pair.As == "" {
			pair.As = pair.Source
		}
		exp.Names = append(exp.Names, ExportName{Source: pair.Source, As: pair.As})
	}
	return exp, nil
}

func (p *Primitive) MarshalJSON() ([]byte, error) { return json.Marshal(p.Value) }
func (o *Object) MarshalJSON() ([]byte, error)    { return json.Marshal(o.Fields) }

func (a *Array) MarshalJSON() ([]byte, error) {
	if a.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Items)
}

func (r *Reference) MarshalJSON() ([]byte, error) {
	m := map[string]any{"kind": kindReference}
	if r.Module != "" {
		m["module"] = r.Module
	}
	if r.Name != "" {
		m["name"] = r.Name
	}
	return json.Marshal(m)
}

func (f *Function) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(f.Attrs)+2)
	for name, n := range f.Attrs {
		m[name] = n
	}
	m["kind"] = kindFunction
	if f.Parameters != nil {
		m["parameters"] = f.Parameters
	}
	return json.Marshal(m)
}

func (c *Class) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Attrs)+2)
	for name, n := range c.Attrs {
		m[name] = n
	}
	m["kind"] = kindClass
	if c.Statics != nil {
		m["statics"] = c.Statics
	}
	return json.Marshal(m)
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"kind": kindError, "message": e.Message})
}

func (s *SymbolRef) MarshalJSON() ([]byte, error) {
	m := map[string]any{"kind": kindSymbol, "file": s.Sym.File, "name": s.Sym.Name}
	if len(s.Sym.Members) > 0 {
		m["members"] = s.Sym.Members
	}
	return json.Marshal(m)
}

func (l *LocalRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"kind": kindLocal, "name": l.Name})
}

func (e *ExplicitExport) MarshalJSON() ([]byte, error) {
	names := make([]map[string]string, 0, len(e.Names))
	for _, n := range e.Names {
		names = append(names, map[string]string{"source": n.Source, "as": n.As})
	}
	return json.Marshal(map[string]any{"from": e.From, "names": names})
}

func (w *WildcardExport) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"from": w.From})
}
