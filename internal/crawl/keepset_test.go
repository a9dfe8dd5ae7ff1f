package crawl

import (
	"testing"

	"codeslice/internal/semantic"
	"codeslice/internal/semantic/semantictest"
)

func TestKeepSetRegisterDedupsPaths(t *testing.T) {
	keep := NewKeepSet()
	typ := semantictest.Class("B", "App")
	member := semantictest.Member(typ, "g()", semantic.KindMethod)

	newType := keep.Register(typ.Display, typ, member.Display, member, "p1")
	if !newType {
		t.Error("first registration must report a new type")
	}
	if keep.Register(typ.Display, typ, member.Display, member, "p1") {
		t.Error("second registration must not report a new type")
	}
	keep.Register(typ.Display, typ, member.Display, member, "p2")

	entry, _ := keep.Entry(typ.Display)
	info := entry.Members[member.Display]
	if got := info.Paths(); len(got) != 2 {
		t.Errorf("expected 2 distinct paths, got %v", got)
	}
}

func TestKeepSetMergeUnionsPathsAndRoots(t *testing.T) {
	typ := semantictest.Class("X", "App")
	p := semantictest.Member(typ, "p", semantic.KindProperty)
	q := semantictest.Member(typ, "q", semantic.KindProperty)

	a := NewKeepSet()
	a.Register(typ.Display, typ, p.Display, p, "via A")
	a.MarkRoot("App.A", semantictest.Class("A", "App"))

	b := NewKeepSet()
	b.Register(typ.Display, typ, p.Display, p, "via B")
	b.Register(typ.Display, typ, q.Display, q, "via B")
	b.MarkRoot("App.B", semantictest.Class("B", "App"))

	a.Merge(b)

	entry, ok := a.Entry(typ.Display)
	if !ok {
		t.Fatal("expected X after merge")
	}
	if got := entry.Members[p.Display].Paths(); len(got) != 2 {
		t.Errorf("expected p's paths to union, got %v", got)
	}
	if _, ok := entry.Members[q.Display]; !ok {
		t.Error("expected q after merge")
	}
	if !a.IsRoot("App.A") || !a.IsRoot("App.B") {
		t.Error("expected root sets to union")
	}
}

func TestPathFormatting(t *testing.T) {
	p := NewPath("A.cs:3 `B.g();`").Append("App.B.g()").Append("App.C.h()")
	want := "A.cs:3 `B.g();` -> App.B.g() -> App.C.h()"
	if got := p.String(); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestPathPrefixSharing(t *testing.T) {
	base := NewPath("root")
	left := base.Append("left")
	right := base.Append("right")

	if left.String() != "root -> left" {
		t.Errorf("unexpected left path %q", left.String())
	}
	if right.String() != "root -> right" {
		t.Errorf("extending one branch must not disturb another: %q", right.String())
	}
}
