package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/davidenochk/symgraph/internal/metadata"
	"github.com/davidenochk/symgraph/internal/symbols"
)

// fakeHost serves documents from raw JSON and resolves module specifiers
// from a static table keyed by "containingFile|module".
type fakeHost struct {
	docs    map[string][]string // file → raw JSON candidates
	modules map[string]string   // "containingFile|module" → target file
}

func (h *fakeHost) GetMetadataFor(file string) ([]metadata.Document, error) {
	raws, ok := h.docs[file]
	if !ok {
		return nil, nil
	}
	out := make([]metadata.Document, 0, len(raws))
	for _, raw := range raws {
		var doc metadata.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (h *fakeHost) ModuleNameToFileName(module, containingFile string) (string, error) {
	if target, ok := h.modules[containingFile+"|"+module]; ok {
		return target, nil
	}
	return "", fmt.Errorf("unknown module %q", module)
}

type captureSink struct {
	reported []error
}

func (s *captureSink) Report(err error, filePath string) {
	s.reported = append(s.reported, err)
}

func newTestResolver(host *fakeHost, sink ErrorSink) *Resolver {
	return New(host, nil, nil, sink, nil)
}

func TestResolveDeclarationWithoutReferences(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/a.js": {`{"version": 4, "declarations": {"config": {"retries": 3, "tags": ["x", "y"]}}}`},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "config"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rs == nil {
		t.Fatal("expected resolved symbol")
	}
	obj, ok := rs.Metadata.(*metadata.Object)
	if !ok {
		t.Fatalf("metadata = %#v, want Object", rs.Metadata)
	}
	retries, ok := obj.Fields["retries"].(*metadata.Primitive)
	if !ok || retries.Value != float64(3) {
		t.Errorf("retries = %#v, want 3", obj.Fields["retries"])
	}
	tags, ok := obj.Fields["tags"].(*metadata.Array)
	if !ok || len(tags.Items) != 2 {
		t.Errorf("tags = %#v, want 2-element array", obj.Fields["tags"])
	}
}

func TestExplicitExportAlias(t *testing.T) {
	host := &fakeHost{
		docs: map[string][]string{
			"/a.js": {`{"version": 4, "declarations": {}, "exports": [{"from": "./b", "names": [{"source": "x", "as": "y"}]}]}`},
			"/b.js": {`{"version": 4, "declarations": {"x": 5}}`},
		},
		modules: map[string]string{"/a.js|./b": "/b.js"},
	}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "y"))
	if err != nil {
		t.Fatalf("resolve alias: %v", err)
	}
	if rs == nil {
		t.Fatal("expected alias entry for y")
	}
	ref, ok := rs.Metadata.(*metadata.SymbolRef)
	if !ok {
		t.Fatalf("alias metadata = %#v, want SymbolRef", rs.Metadata)
	}
	if ref.Sym != r.Intern("/b.js", "x") {
		t.Errorf("alias target = %s, want /b.js:x", ref.Sym)
	}

	target, err := r.ResolveSymbol(ref.Sym)
	if err != nil {
		t.Fatalf("resolve target: %v", err)
	}
	prim, ok := target.Metadata.(*metadata.Primitive)
	if !ok || prim.Value != float64(5) {
		t.Errorf("target metadata = %#v, want 5", target.Metadata)
	}
}

func TestWildcardExportCycleTerminates(t *testing.T) {
	host := &fakeHost{
		docs: map[string][]string{
			"/a.js": {`{"version": 4, "declarations": {"onlyInA": 1}, "exports": [{"from": "./b"}]}`},
			"/b.js": {`{"version": 4, "declarations": {"onlyInB": 2}, "exports": [{"from": "./a"}]}`},
		},
		modules: map[string]string{"/a.js|./b": "/b.js", "/b.js|./a": "/a.js"},
	}
	r := newTestResolver(host, nil)

	syms, err := r.SymbolsOf("/a.js")
	if err != nil {
		t.Fatalf("symbolsOf: %v", err)
	}

	seen := make(map[string]int)
	for _, s := range syms {
		seen[s.Name]++
	}
	for name, count := range seen {
		if count > 1 {
			t.Errorf("duplicate handle for %q", name)
		}
	}
	if seen["onlyInA"] == 0 {
		t.Error("expected A's own declaration")
	}
	if seen["onlyInB"] == 0 {
		t.Error("expected symbol re-exported from B")
	}
}

func TestClassStaticMemberProjection(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/a.js": {`{"version": 4, "declarations": {"C": {"kind": "class", "statics": {"foo": 42}}}}`},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "C", "foo"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rs == nil {
		t.Fatal("expected resolved static member")
	}
	prim, ok := rs.Metadata.(*metadata.Primitive)
	if !ok || prim.Value != float64(42) {
		t.Errorf("metadata = %#v, want 42", rs.Metadata)
	}
}

func TestVersionMismatchReportedOnce(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/old.js": {`{"version": 99, "declarations": {"x": 1}}`},
	}}
	sink := &captureSink{}
	r := newTestResolver(host, sink)

	rs, err := r.ResolveSymbol(r.Intern("/old.js", "x"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rs == nil {
		t.Fatal("mismatched document must still yield declared symbols")
	}

	// Second lookup hits the document cache; no second report.
	if _, err := r.ResolveSymbol(r.Intern("/old.js", "x")); err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	var mismatches int
	for _, e := range sink.reported {
		var vm *VersionMismatchError
		if errors.As(e, &vm) {
			mismatches++
			if vm.Found != 99 || vm.Supported != metadata.SupportedVersion {
				t.Errorf("mismatch error = %+v", vm)
			}
		}
	}
	if mismatches != 1 {
		t.Errorf("version mismatch reported %d times, want 1", mismatches)
	}
}

func TestVersionMismatchWithoutSinkFails(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/old.js": {`{"version": 99, "declarations": {"x": 1}}`},
	}}
	r := newTestResolver(host, nil)

	_, err := r.ResolveSymbol(r.Intern("/old.js", "x"))
	var vm *VersionMismatchError
	if !errors.As(err, &vm) {
		t.Fatalf("err = %v, want VersionMismatchError", err)
	}
}

func TestHighestVersionWinsFirstOnTie(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/multi.js": {
			`{"version": 4, "declarations": {"which": "first"}}`,
			`{"version": 3, "declarations": {"which": "older"}}`,
			`{"version": 4, "declarations": {"which": "second"}}`,
		},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/multi.js", "which"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	prim, ok := rs.Metadata.(*metadata.Primitive)
	if !ok || prim.Value != "first" {
		t.Errorf("selected document = %#v, want the first version-4 one", rs.Metadata)
	}
}

func TestFunctionParameterStaysLexical(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/f.js": {`{
			"version": 4,
			"declarations": {
				"x": 7,
				"make": {"kind": "function", "parameters": ["x"], "body": {"kind": "reference", "name": "x"}},
				"outside": {"kind": "reference", "name": "x"}
			}
		}`},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/f.js", "make"))
	if err != nil {
		t.Fatalf("resolve make: %v", err)
	}
	fn, ok := rs.Metadata.(*metadata.Function)
	if !ok {
		t.Fatalf("make = %#v, want Function", rs.Metadata)
	}
	local, ok := fn.Attrs["body"].(*metadata.LocalRef)
	if !ok || local.Name != "x" {
		t.Errorf("body = %#v, want LocalRef(x)", fn.Attrs["body"])
	}

	outside, err := r.ResolveSymbol(r.Intern("/f.js", "outside"))
	if err != nil {
		t.Fatalf("resolve outside: %v", err)
	}
	ref, ok := outside.Metadata.(*metadata.SymbolRef)
	if !ok || ref.Sym != r.Intern("/f.js", "x") {
		t.Errorf("outside = %#v, want handle to module-level x", outside.Metadata)
	}
}

func TestNestedFunctionScopeRestored(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/n.js": {`{
			"version": 4,
			"declarations": {
				"outer": {
					"kind": "function",
					"parameters": ["a"],
					"body": {
						"inner": {"kind": "function", "parameters": ["b"], "body": {"kind": "reference", "name": "b"}},
						"afterInner": {"kind": "reference", "name": "b"}
					}
				}
			}
		}`},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/n.js", "outer"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	outer := rs.Metadata.(*metadata.Function)
	body := outer.Attrs["body"].(*metadata.Object)

	inner := body.Fields["inner"].(*metadata.Function)
	if _, ok := inner.Attrs["body"].(*metadata.LocalRef); !ok {
		t.Errorf("inner body = %#v, want LocalRef(b)", inner.Attrs["body"])
	}
	// b is out of scope once inner is done; this must be a module reference.
	if _, ok := body.Fields["afterInner"].(*metadata.SymbolRef); !ok {
		t.Errorf("afterInner = %#v, want SymbolRef", body.Fields["afterInner"])
	}
}

func TestUnresolvableModuleEmbedsErrorMarker(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/a.js": {`{
			"version": 4,
			"declarations": {
				"broken": {"kind": "reference", "module": "missing-pkg", "name": "thing"},
				"fine": 1
			}
		}`},
	}}
	sink := &captureSink{}
	r := newTestResolver(host, sink)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "broken"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	marker, ok := rs.Metadata.(*metadata.Error)
	if !ok {
		t.Fatalf("broken = %#v, want Error marker", rs.Metadata)
	}
	if marker.Message == "" {
		t.Error("error marker must carry a message")
	}

	// Siblings keep resolving.
	fine, err := r.ResolveSymbol(r.Intern("/a.js", "fine"))
	if err != nil || fine == nil {
		t.Fatalf("sibling resolution failed: %v %v", fine, err)
	}

	var found bool
	for _, e := range sink.reported {
		var mr *ModuleResolutionError
		if errors.As(e, &mr) && mr.Module == "missing-pkg" {
			found = true
		}
	}
	if !found {
		t.Error("module resolution failure not reported through the sink")
	}
}

func TestUnresolvableExportSkippedSilently(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/a.js": {`{
			"version": 4,
			"declarations": {"own": 1},
			"exports": [
				{"from": "missing", "names": ["x"]},
				{"from": "also-missing"}
			]
		}`},
	}}
	r := newTestResolver(host, nil)

	syms, err := r.SymbolsOf("/a.js")
	if err != nil {
		t.Fatalf("symbolsOf: %v", err)
	}
	if len(syms) != 1 || syms[0].Name != "own" {
		t.Errorf("symbols = %v, want only the local declaration", syms)
	}
}

func TestResolveModuleUnresolvableFailsWithoutSink(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{}}
	r := newTestResolver(host, nil)

	_, err := r.ResolveModule("nope", "/a.js", "x")
	var mr *ModuleResolutionError
	if !errors.As(err, &mr) {
		t.Fatalf("err = %v, want ModuleResolutionError", err)
	}

	sink := &captureSink{}
	r2 := newTestResolver(host, sink)
	rs, err := r2.ResolveModule("nope", "/a.js", "x")
	if err != nil || rs != nil {
		t.Errorf("with sink: got (%v, %v), want absent result", rs, err)
	}
	if len(sink.reported) != 1 {
		t.Errorf("reported %d errors, want 1", len(sink.reported))
	}
}

func TestResolveModule(t *testing.T) {
	host := &fakeHost{
		docs: map[string][]string{
			"/b.js": {`{"version": 4, "declarations": {"x": 5}}`},
		},
		modules: map[string]string{"/a.js|./b": "/b.js"},
	}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveModule("./b", "/a.js", "x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	prim, ok := rs.Metadata.(*metadata.Primitive)
	if !ok || prim.Value != float64(5) {
		t.Errorf("metadata = %#v, want 5", rs.Metadata)
	}
}

func TestUnknownSymbolIsAbsentNotError(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/a.js": {`{"version": 4, "declarations": {}}`},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "ghost"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs != nil {
		t.Errorf("got %v, want absent", rs)
	}
}

func TestMissingFileSynthesizesEmptyDocument(t *testing.T) {
	host := &fakeHost{}
	sink := &captureSink{}
	r := newTestResolver(host, sink)

	syms, err := r.SymbolsOf("/nowhere.js")
	if err != nil {
		t.Fatalf("symbolsOf: %v", err)
	}
	if len(syms) != 0 {
		t.Errorf("symbols = %v, want none", syms)
	}
	if len(sink.reported) != 0 {
		t.Errorf("synthetic empty document must not trigger reports, got %v", sink.reported)
	}
}

func TestAbsentReferenceNameDropsValue(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/a.js": {`{"version": 4, "declarations": {"holder": {"gone": {"kind": "reference"}, "kept": 1}}}`},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "holder"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	obj := rs.Metadata.(*metadata.Object)
	if _, ok := obj.Fields["gone"]; ok {
		t.Error("nameless reference must resolve to no value")
	}
	if _, ok := obj.Fields["kept"]; !ok {
		t.Error("sibling value lost")
	}
}

func TestMemberProjectionThroughAlias(t *testing.T) {
	host := &fakeHost{
		docs: map[string][]string{
			"/a.js": {`{"version": 4, "declarations": {}, "exports": [{"from": "./b", "names": ["C"]}]}`},
			"/b.js": {`{"version": 4, "declarations": {"C": {"kind": "class", "statics": {"foo": 42}}}}`},
		},
		modules: map[string]string{"/a.js|./b": "/b.js"},
	}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "C", "foo"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rs == nil {
		t.Fatal("expected projection through alias")
	}
	prim, ok := rs.Metadata.(*metadata.Primitive)
	if !ok || prim.Value != float64(42) {
		t.Errorf("metadata = %#v, want 42", rs.Metadata)
	}
}

func TestMemberProjectionThroughAliasCycleIsAbsent(t *testing.T) {
	// Two files re-export the same name from each other and neither
	// declares it. The aliases point at each other; projecting a member
	// through them must come back absent instead of forwarding forever.
	host := &fakeHost{
		docs: map[string][]string{
			"/a.js": {`{"version": 4, "declarations": {}, "exports": [{"from": "./b", "names": ["x"]}]}`},
			"/b.js": {`{"version": 4, "declarations": {}, "exports": [{"from": "./a", "names": ["x"]}]}`},
		},
		modules: map[string]string{"/a.js|./b": "/b.js", "/b.js|./a": "/a.js"},
	}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "x", "m"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rs != nil && rs.Metadata != nil {
		t.Errorf("metadata = %#v, want no value", rs.Metadata)
	}

	// A later non-cyclic projection through the same handles still works.
	rs, err = r.ResolveSymbol(r.Intern("/a.js", "x"))
	if err != nil {
		t.Fatalf("resolve base: %v", err)
	}
	if rs == nil {
		t.Fatal("expected the alias handle itself to resolve")
	}
	if _, ok := rs.Metadata.(*metadata.SymbolRef); !ok {
		t.Errorf("base metadata = %#v, want SymbolRef", rs.Metadata)
	}
}

func TestPartialMemberProjection(t *testing.T) {
	host := &fakeHost{docs: map[string][]string{
		"/a.js": {`{"version": 4, "declarations": {"cfg": {"nested": {"present": 1}}}}`},
	}}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "cfg", "nested", "missing", "deeper"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rs == nil {
		t.Fatal("partial projection must still produce a result")
	}
	if rs.Metadata != nil {
		t.Errorf("metadata = %#v, want no value", rs.Metadata)
	}
}

func TestWildcardDoesNotShadowLocalDeclaration(t *testing.T) {
	host := &fakeHost{
		docs: map[string][]string{
			"/a.js": {`{"version": 4, "declarations": {"x": 1}, "exports": [{"from": "./b"}]}`},
			"/b.js": {`{"version": 4, "declarations": {"x": 2}}`},
		},
		modules: map[string]string{"/a.js|./b": "/b.js"},
	}
	r := newTestResolver(host, nil)

	rs, err := r.ResolveSymbol(r.Intern("/a.js", "x"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	prim, ok := rs.Metadata.(*metadata.Primitive)
	if !ok || prim.Value != float64(1) {
		t.Errorf("x = %#v, want the local declaration", rs.Metadata)
	}
}

type fakeSummaries struct {
	cache *symbols.Cache
	data  map[*symbols.Symbol]metadata.Node
}

func (s *fakeSummaries) ResolveSummary(sym *symbols.Symbol) (metadata.Node, bool) {
	node, ok := s.data[sym]
	return node, ok
}

func (s *fakeSummaries) SymbolsOf(file string) []*symbols.Symbol {
	var out []*symbols.Symbol
	for sym := range s.data {
		if sym.File == file {
			out = append(out, sym)
		}
	}
	return out
}

func TestSummaryFastPath(t *testing.T) {
	cache := symbols.NewCache()
	sum := &fakeSummaries{cache: cache, data: map[*symbols.Symbol]metadata.Node{
		cache.Get("/dep.js", "precompiled"): &metadata.Primitive{Value: "from-summary"},
	}}
	// Host that fails on any access proves the fast path skips documents.
	host := &fakeHost{}
	r := New(host, cache, sum, nil, nil)

	rs, err := r.ResolveSymbol(r.Intern("/dep.js", "precompiled"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	prim, ok := rs.Metadata.(*metadata.Primitive)
	if !ok || prim.Value != "from-summary" {
		t.Errorf("metadata = %#v, want summary value", rs.Metadata)
	}

	syms, err := r.SymbolsOf("/dep.js")
	if err != nil {
		t.Fatalf("symbolsOf: %v", err)
	}
	if len(syms) != 1 || syms[0] != cache.Get("/dep.js", "precompiled") {
		t.Errorf("symbols = %v, want the summary handle", syms)
	}
}
