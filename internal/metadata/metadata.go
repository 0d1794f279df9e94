// Package metadata defines the per-file module metadata document and the
// tagged node tree it contains, plus the JSON wire codec for both.
//
// A node tree exists in two states: raw (as extracted, containing
// Reference nodes) and resolved (References replaced by SymbolRef handles
// or LocalRef lexical markers). Both states share one sealed union so that
// walkers can switch exhaustively.
package metadata

import "github.com/davidenochk/symgraph/internal/symbols"

// SupportedVersion is the document schema version this resolver understands.
const SupportedVersion = 4

// Document is the authoritative metadata for one file.
type Document struct {
	Version      int
	Declarations map[string]Node
	Exports      []Export
}

// NewEmptyDocument returns a synthetic document at the supported version,
// used when the host has no metadata for a file.
func NewEmptyDocument() *Document {
	return &Document{
		Version:      SupportedVersion,
		Declarations: map[string]Node{},
	}
}

// Node is one node of a metadata tree. The concrete types below are the
// only implementations.
type Node interface {
	node()
}

// Primitive holds a string, float64, bool or nil leaf value.
type Primitive struct {
	Value any
}

// Object is a plain nested mapping with no symbolic meaning of its own.
type Object struct {
	Fields map[string]Node
}

// Array is an ordered sequence of nodes.
type Array struct {
	Items []Node
}

// Reference is a raw, unresolved pointer to a declaration. Module is the
// source module specifier ("" means the current file); Name may be empty,
// in which case the reference resolves to no value.
type Reference struct {
	Module string
	Name   string
}

// Function declares a callable with its parameter names. Attrs carries any
// further extracted fields (body, decorators, ...) untouched.
type Function struct {
	Parameters []string
	Attrs      map[string]Node
}

// Class declares a class-like symbol. Statics maps static member names to
// their metadata; Attrs carries any further extracted fields.
type Class struct {
	Statics map[string]Node
	Attrs   map[string]Node
}

// Error is a synthesized diagnostic embedded in place of a value that
// could not be produced.
type Error struct {
	Message string
}

// SymbolRef is a resolved reference: a handle to a declaration elsewhere.
// Only present in resolved trees.
type SymbolRef struct {
	Sym *symbols.Symbol
}

// LocalRef marks a reference to an in-scope function parameter. It is
// deliberately not resolved to a module-level symbol.
type LocalRef struct {
	Name string
}

func (*Primitive) node() {}
func (*Object) node()    {}
func (*Array) node()     {}
func (*Reference) node() {}
func (*Function) node()  {}
func (*Class) node()     {}
func (*Error) node()     {}
func (*SymbolRef) node() {}
func (*LocalRef) node()  {}

// Export is one export directive of a document. Implementations are
// ExplicitExport and WildcardExport.
type Export interface {
	export()
	// FromModule returns the source module specifier.
	FromModule() string
}

// ExportName is one (source, alias) pair of an explicit export.
type ExportName struct {
	Source string
	As     string
}

// ExplicitExport re-exports a named list of symbols from another module.
type ExplicitExport struct {
	From  string
	Names []ExportName
}

// WildcardExport re-exports everything another module exports.
type WildcardExport struct {
	From string
}

func (*ExplicitExport) export() {}
func (*WildcardExport) export() {}

func (e *ExplicitExport) FromModule() string { return e.From }
func (e *WildcardExport) FromModule() string { return e.From }
