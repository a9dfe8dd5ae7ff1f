package semantic

import "context"

// Workspace is the capability set the extractor core consumes. It abstracts
// the host index and parser: locate a document, enumerate declarations and
// use sites, resolve references, canonicalise symbols, and fetch declaring
// syntax. Every method that may touch the index or disk takes a context and
// honours cancellation.
//
// Contract notes:
//   - DeclaredTypes yields every type, enum, and delegate declared in the
//     document, nested types included.
//   - UseSites yields every occurrence that resolves to a symbol and is not
//     itself a declaration.
//   - ReferencedSymbols returns the symbols directly referenced by the body
//     or initializer of a member; empty for symbols without a body.
//   - OriginalDefinition collapses generic instantiations and partial
//     declarations onto one canonical symbol.
//   - DeclaringSyntax returns one Declaration per partial declaration.
type Workspace interface {
	// LocateDocument finds a document by path, matching the full path
	// case-insensitively
	LocateDocument(path string) (*Document, bool)

	// DeclaredTypes enumerates the types declared in a document
	DeclaredTypes(ctx context.Context, doc *Document) ([]*Symbol, error)

	// UseSites enumerates the use sites in a document
	UseSites(ctx context.Context, doc *Document) ([]UseSite, error)

	// TypeMembers returns the declared members of a type
	TypeMembers(ctx context.Context, typ *Symbol) ([]*Symbol, error)

	// Interfaces returns the transitive set of interfaces implemented by
	// a type
	Interfaces(ctx context.Context, typ *Symbol) ([]*Symbol, error)

	// ReferencedSymbols returns the symbols referenced by a member's body
	ReferencedSymbols(ctx context.Context, sym *Symbol) ([]*Symbol, error)

	// OriginalDefinition canonicalises a symbol
	OriginalDefinition(sym *Symbol) *Symbol

	// ContainingType resolves the owner type of a member symbol
	ContainingType(sym *Symbol) (*Symbol, bool)

	// DeclaredInDocument reports whether sym has a declaration in doc
	DeclaredInDocument(sym *Symbol, doc *Document) bool

	// DeclaringSyntax returns the declaration syntax of a symbol, one
	// entry per partial declaration; empty for metadata-only symbols
	DeclaringSyntax(ctx context.Context, sym *Symbol) ([]Declaration, error)
}
