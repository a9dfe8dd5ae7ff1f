// Package identity provides stable equality and hashing for symbols. Two
// symbols are the same entity iff their original definitions are identical;
// the display string of the original definition doubles as the map key used
// throughout the keep-set. Raw symbol handles are never hashed directly.
package identity

import (
	"codeslice/internal/semantic"
)

// Index canonicalises symbols against a workspace and derives their keys
type Index struct {
	ws semantic.Workspace
}

// NewIndex creates a symbol index over the given workspace
func NewIndex(ws semantic.Workspace) *Index {
	return &Index{ws: ws}
}

// Canonical returns the original definition of a symbol: un-instantiated,
// un-substituted, shared across partial declarations.
func (ix *Index) Canonical(s *semantic.Symbol) *semantic.Symbol {
	if s == nil {
		return nil
	}
	return ix.ws.OriginalDefinition(s)
}

// Key returns the stable display key of a symbol, computed from its original
// definition. Distinct generic instantiations of one definition share a key.
func (ix *Index) Key(s *semantic.Symbol) string {
	c := ix.Canonical(s)
	if c == nil {
		return ""
	}
	return c.Display
}

// Same reports whether two symbols denote the same original definition
func (ix *Index) Same(a, b *semantic.Symbol) bool {
	if a == nil || b == nil {
		return a == b
	}
	return ix.Key(a) == ix.Key(b)
}
