package graph

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSymbolID(t *testing.T) {
	pid := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	got := SymbolID(pid, "src/index.js", "Widget")
	want := "11111111-2222-3333-4444-555555555555:src/index.js:Widget"
	if got != want {
		t.Errorf("SymbolID = %q, want %q", got, want)
	}
}

func TestModuleID(t *testing.T) {
	pid := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	got := ModuleID(pid, "src/lib.js")
	want := "11111111-2222-3333-4444-555555555555:src/lib.js"
	if got != want {
		t.Errorf("ModuleID = %q, want %q", got, want)
	}
}

func TestAliasChainQueryFormatsDepthBound(t *testing.T) {
	q := aliasChainQuery()
	if strings.Contains(q, "%") {
		t.Errorf("depth placeholder left unformatted: %q", q)
	}
	if !strings.Contains(q, "ALIAS_OF*1..16") {
		t.Errorf("query missing bounded traversal: %q", q)
	}
}

func TestSymbolIDDistinctAcrossProjects(t *testing.T) {
	a := SymbolID(uuid.New(), "src/index.js", "Widget")
	b := SymbolID(uuid.New(), "src/index.js", "Widget")
	if a == b {
		t.Error("expected different ids for the same symbol in different projects")
	}
}
