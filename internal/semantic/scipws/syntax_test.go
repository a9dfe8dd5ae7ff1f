//go:build cgo

package scipws

import (
	"strings"
	"testing"

	"codeslice/internal/semantic"
)

const classSource = `namespace App
{
    class B
    {
        const int K = 1;
        static readonly int R = 2;

        public static void g() { }

        static B() { }
    }
}
`

func newTestEngine(t *testing.T) syntaxEngine {
	t.Helper()
	engine, err := newSyntaxEngine()
	if err != nil {
		t.Fatalf("newSyntaxEngine: %v", err)
	}
	return engine
}

func TestTypeDeclarationSegments(t *testing.T) {
	engine := newTestEngine(t)
	src := []byte(classSource)

	// The class name token "B" sits on line 2 (0-indexed), column 10.
	decl, err := engine.typeDeclaration(src, 2, 10, nil)
	if err != nil {
		t.Fatalf("typeDeclaration: %v", err)
	}

	if decl.Form != semantic.FormCompound {
		t.Fatalf("expected compound form, got %s", decl.Form)
	}
	if decl.Indent != "    " {
		t.Errorf("indent = %q, want four spaces", decl.Indent)
	}
	if len(decl.Members) != 4 {
		t.Fatalf("expected 4 members, got %d", len(decl.Members))
	}

	// Concatenating header, member segments, and footer must reproduce
	// the declaration's original text byte for byte.
	var b strings.Builder
	b.WriteString(decl.Header)
	for _, m := range decl.Members {
		b.WriteString(m.Lead)
		b.WriteString(m.Text)
	}
	b.WriteString(decl.Footer)
	if b.String() != decl.Text {
		t.Errorf("segments do not reassemble the original:\n%q\nvs\n%q", b.String(), decl.Text)
	}

	if !strings.HasPrefix(decl.Members[0].Text, "const int K") {
		t.Errorf("unexpected first member %q", decl.Members[0].Text)
	}
	if decl.Members[2].Indent != "        " {
		t.Errorf("member indent = %q, want eight spaces", decl.Members[2].Indent)
	}
}

func TestMemberFlags(t *testing.T) {
	engine := newTestEngine(t)
	src := []byte(classSource)

	tests := []struct {
		name       string
		line, char int
		expected   declFlags
	}{
		{"const field", 4, 18, declFlags{isConst: true}},
		{"static readonly field", 5, 28, declFlags{isStaticReadonly: true}},
		{"plain static method", 7, 27, declFlags{}},
		{"static constructor", 9, 15, declFlags{isStaticCtor: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, ok := engine.memberFlags(src, tt.line, tt.char)
			if !ok {
				t.Fatal("expected member flags")
			}
			if flags != tt.expected {
				t.Errorf("flags = %+v, want %+v", flags, tt.expected)
			}
		})
	}
}

func TestMemberSpanCoversBody(t *testing.T) {
	engine := newTestEngine(t)
	src := []byte(classSource)

	sl, _, el, _, ok := engine.memberSpan(src, 7, 27)
	if !ok {
		t.Fatal("expected a member span")
	}
	if sl != 7 || el != 7 {
		t.Errorf("span lines = %d..%d, want 7..7", sl, el)
	}
}

func TestEnumEmittedUnchanged(t *testing.T) {
	engine := newTestEngine(t)
	src := []byte(`namespace App
{
    enum Color
    {
        Red,
        Green,
    }
}
`)

	decl, err := engine.typeDeclaration(src, 2, 9, nil)
	if err != nil {
		t.Fatalf("typeDeclaration: %v", err)
	}
	if decl.Form != semantic.FormEnum {
		t.Fatalf("expected enum form, got %s", decl.Form)
	}
	want := "    enum Color\n    {\n        Red,\n        Green,\n    }"
	if decl.Text != want {
		t.Errorf("enum text:\n%q\nwant:\n%q", decl.Text, want)
	}
}

func TestMemberDeclarationFallback(t *testing.T) {
	engine := newTestEngine(t)
	src := []byte(classSource)

	decl, err := engine.memberDeclaration(src, 7, 27)
	if err != nil {
		t.Fatalf("memberDeclaration: %v", err)
	}
	if decl.Form != semantic.FormOther {
		t.Errorf("expected FormOther, got %s", decl.Form)
	}
	if !strings.Contains(decl.Text, "public static void g() { }") {
		t.Errorf("unexpected member text %q", decl.Text)
	}
}
