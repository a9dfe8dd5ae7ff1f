package identity

import (
	"testing"

	"codeslice/internal/semantic"
	"codeslice/internal/semantic/semantictest"
)

func TestKeyUsesOriginalDefinition(t *testing.T) {
	ws := semantictest.New()
	doc := ws.AddDocument("U.cs")

	clsU := semantictest.Class("U", "App")
	doT := semantictest.Member(clsU, "Do<T>()", semantic.KindMethod)
	ws.DeclareType(doc, clsU, doT)

	doInt := semantictest.Member(clsU, "Do<int>()", semantic.KindMethod)
	ws.SetCanonical(doInt, doT)

	ix := NewIndex(ws)

	if got := ix.Key(doInt); got != doT.Display {
		t.Errorf("instantiation key = %q, want original definition key %q", got, doT.Display)
	}
	if !ix.Same(doInt, doT) {
		t.Error("an instantiation and its original definition are the same symbol")
	}
}

func TestSameDistinguishesSymbols(t *testing.T) {
	ws := semantictest.New()
	doc := ws.AddDocument("B.cs")

	clsB := semantictest.Class("B", "App")
	g := semantictest.Member(clsB, "g()", semantic.KindMethod)
	h := semantictest.Member(clsB, "h()", semantic.KindMethod)
	ws.DeclareType(doc, clsB, g, h)

	ix := NewIndex(ws)
	if ix.Same(g, h) {
		t.Error("distinct members must not compare equal")
	}
	if !ix.Same(g, g) {
		t.Error("a symbol equals itself")
	}
}

func TestNilSymbols(t *testing.T) {
	ws := semantictest.New()
	ix := NewIndex(ws)

	if ix.Key(nil) != "" {
		t.Error("nil symbol has empty key")
	}
	if ix.Canonical(nil) != nil {
		t.Error("nil symbol canonicalises to nil")
	}
	if !ix.Same(nil, nil) {
		t.Error("nil equals nil")
	}
	if ix.Same(nil, semantictest.Class("A", "App")) {
		t.Error("nil differs from a real symbol")
	}
}
