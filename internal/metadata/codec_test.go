package metadata

import (
	"encoding/json"
	"testing"

	"github.com/davidenochk/symgraph/internal/symbols"
)

func TestDocumentUnmarshal(t *testing.T) {
	raw := `{
		"version": 4,
		"declarations": {
			"answer": 42,
			"Widget": {"kind": "class", "statics": {"defaults": {"size": 10}}},
			"make": {"kind": "function", "parameters": ["opts"], "body": {"kind": "reference", "name": "opts"}},
			"helper": {"kind": "reference", "module": "./util", "name": "helper"}
		},
		"exports": [
			{"from": "./util", "names": ["helper", {"source": "deep", "as": "shallow"}]},
			{"from": "./all"}
		]
	}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Version != 4 {
		t.Errorf("version = %d, want 4", doc.Version)
	}

	prim, ok := doc.Declarations["answer"].(*Primitive)
	if !ok || prim.Value != float64(42) {
		t.Errorf("answer = %#v, want Primitive(42)", doc.Declarations["answer"])
	}

	cls, ok := doc.Declarations["Widget"].(*Class)
	if !ok {
		t.Fatalf("Widget = %#v, want Class", doc.Declarations["Widget"])
	}
	defaults, ok := cls.Statics["defaults"].(*Object)
	if !ok {
		t.Fatalf("Widget statics defaults = %#v, want Object", cls.Statics["defaults"])
	}
	if size, ok := defaults.Fields["size"].(*Primitive); !ok || size.Value != float64(10) {
		t.Errorf("defaults.size = %#v, want 10", defaults.Fields["size"])
	}

	fn, ok := doc.Declarations["make"].(*Function)
	if !ok {
		t.Fatalf("make = %#v, want Function", doc.Declarations["make"])
	}
	if len(fn.Parameters) != 1 || fn.Parameters[0] != "opts" {
		t.Errorf("make parameters = %v", fn.Parameters)
	}
	if _, ok := fn.Attrs["body"].(*Reference); !ok {
		t.Errorf("make body = %#v, want Reference", fn.Attrs["body"])
	}

	ref, ok := doc.Declarations["helper"].(*Reference)
	if !ok || ref.Module != "./util" || ref.Name != "helper" {
		t.Errorf("helper = %#v", doc.Declarations["helper"])
	}

	if len(doc.Exports) != 2 {
		t.Fatalf("exports = %d, want 2", len(doc.Exports))
	}
	explicit, ok := doc.Exports[0].(*ExplicitExport)
	if !ok {
		t.Fatalf("exports[0] = %#v, want ExplicitExport", doc.Exports[0])
	}
	want := []ExportName{{Source: "helper", As: "helper"}, {Source: "deep", As: "shallow"}}
	if len(explicit.Names) != len(want) {
		t.Fatalf("explicit names = %v", explicit.Names)
	}
	for i, n := range explicit.Names {
		if n != want[i] {
			t.Errorf("names[%d] = %v, want %v", i, n, want[i])
		}
	}
	wildcard, ok := doc.Exports[1].(*WildcardExport)
	if !ok || wildcard.From != "./all" {
		t.Errorf("exports[1] = %#v", doc.Exports[1])
	}
}

func TestDecodeNodeSymbolInterning(t *testing.T) {
	cache := symbols.NewCache()
	raw := `{"kind": "symbol", "file": "/lib/b.js", "name": "x"}`

	n, err := DecodeNode([]byte(raw), cache)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ref, ok := n.(*SymbolRef)
	if !ok {
		t.Fatalf("got %#v, want SymbolRef", n)
	}
	if ref.Sym != cache.Get("/lib/b.js", "x") {
		t.Error("decoded symbol not interned through the cache")
	}
}

func TestNodeMarshalRoundTrip(t *testing.T) {
	cache := symbols.NewCache()
	original := &Object{Fields: map[string]Node{
		"sym":   &SymbolRef{Sym: cache.Get("/a.js", "X", "foo")},
		"local": &LocalRef{Name: "p"},
		"err":   &Error{Message: "boom"},
		"list":  &Array{Items: []Node{&Primitive{Value: "a"}, &Primitive{Value: nil}}},
	}}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := DecodeNode(data, cache)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	obj, ok := decoded.(*Object)
	if !ok {
		t.Fatalf("got %#v, want Object", decoded)
	}
	sym, ok := obj.Fields["sym"].(*SymbolRef)
	if !ok || sym.Sym != cache.Get("/a.js", "X", "foo") {
		t.Errorf("sym = %#v", obj.Fields["sym"])
	}
	local, ok := obj.Fields["local"].(*LocalRef)
	if !ok || local.Name != "p" {
		t.Errorf("local = %#v", obj.Fields["local"])
	}
	errNode, ok := obj.Fields["err"].(*Error)
	if !ok || errNode.Message != "boom" {
		t.Errorf("err = %#v", obj.Fields["err"])
	}
	list, ok := obj.Fields["list"].(*Array)
	if !ok || len(list.Items) != 2 {
		t.Fatalf("list = %#v", obj.Fields["list"])
	}
}

func TestUntaggedKindFieldStaysPlainObject(t *testing.T) {
	n, err := DecodeNode([]byte(`{"kind": 7, "other": true}`), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := n.(*Object); !ok {
		t.Errorf("got %#v, want plain Object for non-string kind", n)
	}
}
