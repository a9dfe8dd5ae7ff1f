// Package semantictest provides an in-memory Workspace implementation for
// tests. A fake workspace is assembled declaratively: add documents, declare
// types and members, wire reference edges, and attach declaration syntax.
package semantictest

import (
	"context"
	"fmt"
	"strings"

	"codeslice/internal/semantic"
)

// FakeWorkspace implements semantic.Workspace over plain maps
type FakeWorkspace struct {
	docs       []*semantic.Document
	declared   map[string][]*semantic.Symbol // doc path -> declared types
	useSites   map[string][]semantic.UseSite // doc path -> use sites
	members    map[string][]*semantic.Symbol // type ID -> members
	interfaces map[string][]*semantic.Symbol // type ID -> transitive interfaces
	refs       map[string][]*semantic.Symbol // symbol ID -> referenced symbols
	canonical  map[string]*semantic.Symbol   // symbol ID -> original definition
	containing map[string]*semantic.Symbol   // symbol ID -> containing type
	declaredIn map[string]map[string]bool    // symbol ID -> doc paths
	syntax     map[string][]semantic.Declaration

	// Errs injects failures per symbol ID for ReferencedSymbols
	Errs map[string]error
}

// New creates an empty fake workspace
func New() *FakeWorkspace {
	return &FakeWorkspace{
		declared:   make(map[string][]*semantic.Symbol),
		useSites:   make(map[string][]semantic.UseSite),
		members:    make(map[string][]*semantic.Symbol),
		interfaces: make(map[string][]*semantic.Symbol),
		refs:       make(map[string][]*semantic.Symbol),
		canonical:  make(map[string]*semantic.Symbol),
		containing: make(map[string]*semantic.Symbol),
		declaredIn: make(map[string]map[string]bool),
		syntax:     make(map[string][]semantic.Declaration),
		Errs:       make(map[string]error),
	}
}

// Type creates a type symbol
func Type(name, namespace string, kind semantic.SymbolKind) *semantic.Symbol {
	display := name
	if namespace != "" {
		display = namespace + "." + name
	}
	return &semantic.Symbol{
		ID:        display,
		Display:   display,
		Name:      name,
		Kind:      kind,
		Namespace: namespace,
		InSource:  true,
	}
}

// Class creates a class symbol
func Class(name, namespace string) *semantic.Symbol {
	return Type(name, namespace, semantic.KindClass)
}

// Member creates a member symbol owned by typ
func Member(typ *semantic.Symbol, name string, kind semantic.SymbolKind) *semantic.Symbol {
	return &semantic.Symbol{
		ID:          typ.Display + "." + name,
		Display:     typ.Display + "." + name,
		Name:        name,
		Kind:        kind,
		Namespace:   typ.Namespace,
		ContainerID: typ.ID,
		InSource:    true,
	}
}

// AddDocument registers a document by path
func (w *FakeWorkspace) AddDocument(path string) *semantic.Document {
	doc := &semantic.Document{Path: path, RelativePath: path}
	w.docs = append(w.docs, doc)
	return doc
}

// DeclareType places a type (and its members) in a document
func (w *FakeWorkspace) DeclareType(doc *semantic.Document, typ *semantic.Symbol, members ...*semantic.Symbol) {
	w.declared[doc.Path] = append(w.declared[doc.Path], typ)
	w.canonical[typ.ID] = typ
	w.markDeclared(typ, doc)
	for _, m := range members {
		w.AddMember(typ, m)
		w.markDeclared(m, doc)
	}
}

// AddMember attaches a member to a type without declaring a document
func (w *FakeWorkspace) AddMember(typ *semantic.Symbol, m *semantic.Symbol) {
	w.members[typ.ID] = append(w.members[typ.ID], m)
	w.containing[m.ID] = typ
	w.canonical[m.ID] = m
}

// SetInterfaces records the transitive implemented interfaces of a type
func (w *FakeWorkspace) SetInterfaces(typ *semantic.Symbol, ifaces ...*semantic.Symbol) {
	w.interfaces[typ.ID] = ifaces
}

// AddUseSite records a use site in a document
func (w *FakeWorkspace) AddUseSite(doc *semantic.Document, sym *semantic.Symbol, line int, lineText string) {
	w.canonicalize(sym)
	w.useSites[doc.Path] = append(w.useSites[doc.Path], semantic.UseSite{
		Symbol: sym,
		Location: semantic.Location{
			File:     doc.Path,
			Line:     line,
			Column:   1,
			LineText: lineText,
		},
	})
}

// AddRef wires a reference edge from a member body to a symbol
func (w *FakeWorkspace) AddRef(from *semantic.Symbol, to ...*semantic.Symbol) {
	for _, t := range to {
		w.canonicalize(t)
	}
	w.refs[from.ID] = append(w.refs[from.ID], to...)
}

// SetCanonical declares that alias canonicalises to original, modeling a
// generic instantiation or a secondary partial declaration.
func (w *FakeWorkspace) SetCanonical(alias, original *semantic.Symbol) {
	w.canonical[alias.ID] = original
}

// SetSyntax attaches declaration syntax to a symbol
func (w *FakeWorkspace) SetSyntax(sym *semantic.Symbol, decls ...semantic.Declaration) {
	w.syntax[sym.ID] = decls
}

func (w *FakeWorkspace) markDeclared(sym *semantic.Symbol, doc *semantic.Document) {
	set, ok := w.declaredIn[sym.ID]
	if !ok {
		set = make(map[string]bool)
		w.declaredIn[sym.ID] = set
	}
	set[doc.Path] = true
}

func (w *FakeWorkspace) canonicalize(sym *semantic.Symbol) {
	if _, ok := w.canonical[sym.ID]; !ok {
		w.canonical[sym.ID] = sym
	}
}

// LocateDocument implements semantic.Workspace
func (w *FakeWorkspace) LocateDocument(path string) (*semantic.Document, bool) {
	for _, doc := range w.docs {
		if strings.EqualFold(doc.Path, path) {
			return doc, true
		}
	}
	return nil, false
}

// DeclaredTypes implements semantic.Workspace
func (w *FakeWorkspace) DeclaredTypes(ctx context.Context, doc *semantic.Document) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.declared[doc.Path], nil
}

// UseSites implements semantic.Workspace
func (w *FakeWorkspace) UseSites(ctx context.Context, doc *semantic.Document) ([]semantic.UseSite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.useSites[doc.Path], nil
}

// TypeMembers implements semantic.Workspace
func (w *FakeWorkspace) TypeMembers(ctx context.Context, typ *semantic.Symbol) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.members[typ.ID], nil
}

// Interfaces implements semantic.Workspace
func (w *FakeWorkspace) Interfaces(ctx context.Context, typ *semantic.Symbol) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.interfaces[typ.ID], nil
}

// ReferencedSymbols implements semantic.Workspace
func (w *FakeWorkspace) ReferencedSymbols(ctx context.Context, sym *semantic.Symbol) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := w.Errs[sym.ID]; ok {
		return nil, err
	}
	return w.refs[sym.ID], nil
}

// OriginalDefinition implements semantic.Workspace
func (w *FakeWorkspace) OriginalDefinition(sym *semantic.Symbol) *semantic.Symbol {
	if c, ok := w.canonical[sym.ID]; ok {
		return c
	}
	return sym
}

// ContainingType implements semantic.Workspace
func (w *FakeWorkspace) ContainingType(sym *semantic.Symbol) (*semantic.Symbol, bool) {
	t, ok := w.containing[sym.ID]
	return t, ok
}

// DeclaredInDocument implements semantic.Workspace
func (w *FakeWorkspace) DeclaredInDocument(sym *semantic.Symbol, doc *semantic.Document) bool {
	return w.declaredIn[sym.ID][doc.Path]
}

// DeclaringSyntax implements semantic.Workspace
func (w *FakeWorkspace) DeclaringSyntax(ctx context.Context, sym *semantic.Symbol) ([]semantic.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if decls, ok := w.syntax[sym.ID]; ok {
		return decls, nil
	}
	if !sym.InSource {
		return nil, nil
	}
	// Types without attached syntax get a synthesized single-class shape
	// so crawler-level tests can run the emitter without hand-writing
	// declarations.
	if sym.IsType() {
		return []semantic.Declaration{synthesizeDecl(w, sym)}, nil
	}
	return nil, nil
}

func synthesizeDecl(w *FakeWorkspace, typ *semantic.Symbol) semantic.Declaration {
	var header strings.Builder
	fmt.Fprintf(&header, "class %s\n{", typ.Name)
	members := make([]semantic.MemberDecl, 0, len(w.members[typ.ID]))
	for _, m := range w.members[typ.ID] {
		members = append(members, semantic.MemberDecl{
			Lead:   "\n    ",
			Text:   fmt.Sprintf("void %s() { }", m.Name),
			Indent: "    ",
			Keys:   []string{m.Display},
		})
	}
	return semantic.Declaration{
		File:    typ.Display + ".cs",
		Form:    semantic.FormCompound,
		Indent:  "",
		Header:  header.String(),
		Footer:  "\n}",
		Members: members,
	}
}
