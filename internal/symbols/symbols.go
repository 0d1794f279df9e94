// Package symbols provides canonical identities for module-level
// declarations and interns them so equal identities share one handle.
package symbols

import (
	"strconv"
	"strings"
)

// Symbol identifies a declaration by its declaring file, declared name and
// an optional member-projection path. Symbols are immutable; equal triples
// obtained from the same Cache are pointer-identical.
type Symbol struct {
	File    string
	Name    string
	Members []string
}

// ID returns the canonical string key for this symbol.
func (s *Symbol) ID() string {
	if len(s.Members) == 0 {
		return s.File + ":" + s.Name
	}
	return s.File + ":" + s.Name + "." + strings.Join(s.Members, ".")
}

func (s *Symbol) String() string { return s.ID() }

// Cache interns symbols. The zero value is not usable; use NewCache.
type Cache struct {
	byKey map[string]*Symbol
}

func NewCache() *Cache {
	return &Cache{byKey: make(map[string]*Symbol)}
}

// internKey length-prefixes every part so that distinct triples never
// collide, no matter what characters the parts contain. ID is for display;
// ("x", ["y"]) and ("x.y", nil) both read "x.y" there but are different
// symbols.
func internKey(file, name string, members []string) string {
	var b strings.Builder
	part := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	part(file)
	part(name)
	for _, m := range members {
		part(m)
	}
	return b.String()
}

// Get returns the interned symbol for (file, name, members), creating it on
// first use. Two calls with equal arguments return the same pointer.
func (c *Cache) Get(file, name string, members ...string) *Symbol {
	key := internKey(file, name, members)
	if cached, ok := c.byKey[key]; ok {
		return cached
	}
	sym := &Symbol{File: file, Name: name, Members: members}
	c.byKey[key] = sym
	return sym
}
