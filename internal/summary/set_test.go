package summary

import (
	"testing"

	"github.com/davidenochk/symgraph/internal/metadata"
	"github.com/davidenochk/symgraph/internal/store/postgres"
	"github.com/davidenochk/symgraph/internal/symbols"
)

func TestSetResolveAndList(t *testing.T) {
	cache := symbols.NewCache()
	set := NewSet(cache)
	set.Add("/app/a.js", "A", &metadata.Primitive{Value: float64(1)})
	set.Add("/app/a.js", "B", &metadata.Primitive{Value: float64(2)})
	set.Add("/app/b.js", "C", nil)

	node, ok := set.ResolveSummary(cache.Get("/app/a.js", "A"))
	if !ok {
		t.Fatal("expected summary for A")
	}
	prim, ok := node.(*metadata.Primitive)
	if !ok || prim.Value != float64(1) {
		t.Fatalf("unexpected summary node %#v", node)
	}

	if _, ok := set.ResolveSummary(cache.Get("/app/a.js", "Missing")); ok {
		t.Fatal("unexpected summary for unknown symbol")
	}

	syms := set.SymbolsOf("/app/a.js")
	if len(syms) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(syms))
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", set.Len())
	}
}

func TestSetAddOverwritesWithoutDuplicates(t *testing.T) {
	cache := symbols.NewCache()
	set := NewSet(cache)
	set.Add("/app/a.js", "A", &metadata.Primitive{Value: "old"})
	set.Add("/app/a.js", "A", &metadata.Primitive{Value: "new"})

	if got := len(set.SymbolsOf("/app/a.js")); got != 1 {
		t.Fatalf("expected single handle, got %d", got)
	}
	node, _ := set.ResolveSummary(cache.Get("/app/a.js", "A"))
	if node.(*metadata.Primitive).Value != "new" {
		t.Fatalf("expected latest value, got %#v", node)
	}
}

func TestFromRecordsInternsThroughSharedCache(t *testing.T) {
	cache := symbols.NewCache()
	records := []postgres.SummaryRecord{
		{
			FilePath: "/app/lib.js",
			Name:     "Ref",
			Metadata: []byte(`{"kind":"symbol","file":"/app/other.js","name":"Target"}`),
		},
	}

	set, err := FromRecords(cache, records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	node, ok := set.ResolveSummary(cache.Get("/app/lib.js", "Ref"))
	if !ok {
		t.Fatal("expected summary for Ref")
	}
	ref, ok := node.(*metadata.SymbolRef)
	if !ok {
		t.Fatalf("expected symbol reference, got %#v", node)
	}
	if ref.Sym != cache.Get("/app/other.js", "Target") {
		t.Fatal("embedded handle not interned through shared cache")
	}
}

func TestFromRecordsRejectsMalformedMetadata(t *testing.T) {
	_, err := FromRecords(symbols.NewCache(), []postgres.SummaryRecord{
		{FilePath: "/app/a.js", Name: "X", Metadata: []byte(`{`)},
	})
	if err == nil {
		t.Fatal("expected decode error")
	}
}
