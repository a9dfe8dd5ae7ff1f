package scipws

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"codeslice/internal/logging"
	"codeslice/internal/semantic"
)

const (
	symA = "scip-dotnet nuget App 1.0 App/A#"
	symF = "scip-dotnet nuget App 1.0 App/A#f()."
	symB = "scip-dotnet nuget App 1.0 App/B#"
	symG = "scip-dotnet nuget App 1.0 App/B#g()."
	symH = "scip-dotnet nuget App 1.0 App/B#h()."
	symI = "scip-dotnet nuget App 1.0 App/IWork#"
)

const sourceA = `namespace App
{
    class A
    {
        void f()
        {
            B.g();
        }
    }
}
`

const sourceB = `namespace App
{
    class B
    {
        public static void g() { }
        public static void h() { }
    }
}
`

const sourceI = `namespace App
{
    interface IWork
    {
    }
}
`

func def(sym string, rng []int32, enclosing []int32) *scippb.Occurrence {
	return &scippb.Occurrence{
		Symbol:         sym,
		Range:          rng,
		SymbolRoles:    int32(scippb.SymbolRole_Definition),
		EnclosingRange: enclosing,
	}
}

func ref(sym string, rng []int32) *scippb.Occurrence {
	return &scippb.Occurrence{Symbol: sym, Range: rng}
}

func testIndex() *scippb.Index {
	return &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "A.cs",
				Language:     "csharp",
				Occurrences: []*scippb.Occurrence{
					def(symA, []int32{2, 10, 11}, nil),
					def(symF, []int32{4, 13, 14}, []int32{4, 8, 7, 9}),
					ref(symB, []int32{6, 12, 13}),
					ref(symG, []int32{6, 14, 15}),
				},
				Symbols: []*scippb.SymbolInformation{
					{Symbol: symA, Kind: scippb.SymbolInformation_Class},
					{Symbol: symF, Kind: scippb.SymbolInformation_Method},
				},
			},
			{
				RelativePath: "B.cs",
				Language:     "csharp",
				Occurrences: []*scippb.Occurrence{
					def(symB, []int32{2, 10, 11}, nil),
					def(symG, []int32{4, 27, 28}, []int32{4, 8, 4, 34}),
					def(symH, []int32{5, 27, 28}, []int32{5, 8, 5, 34}),
				},
				Symbols: []*scippb.SymbolInformation{
					{
						Symbol: symB,
						Kind:   scippb.SymbolInformation_Class,
						Relationships: []*scippb.Relationship{
							{Symbol: symI, IsImplementation: true},
						},
					},
					{Symbol: symG, Kind: scippb.SymbolInformation_Method},
					{Symbol: symH, Kind: scippb.SymbolInformation_Method},
				},
			},
			{
				RelativePath: "I.cs",
				Language:     "csharp",
				Occurrences: []*scippb.Occurrence{
					def(symI, []int32{2, 14, 19}, nil),
				},
				Symbols: []*scippb.SymbolInformation{
					{Symbol: symI, Kind: scippb.SymbolInformation_Interface},
				},
			},
		},
	}
}

func loadTestWorkspace(t *testing.T) (*Workspace, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"A.cs": sourceA,
		"B.cs": sourceB,
		"I.cs": sourceI,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	indexPath := writeIndex(t, dir, "index.scip", testIndex(), false)

	ws, err := Load(indexPath, dir, logging.NewDiscard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ws, dir
}

func symbolByDisplay(t *testing.T, ws *Workspace, display string) *semantic.Symbol {
	t.Helper()
	entry, ok := ws.byDisplay[display]
	if !ok {
		t.Fatalf("symbol %s not in table", display)
	}
	return entry.sym
}

func TestLocateDocumentCaseInsensitive(t *testing.T) {
	ws, dir := loadTestWorkspace(t)

	tests := []struct {
		name  string
		path  string
		found bool
	}{
		{"exact relative", "A.cs", true},
		{"upper-cased", "A.CS", true},
		{"absolute", filepath.Join(dir, "B.cs"), true},
		{"absolute mixed case", filepath.Join(dir, "b.CS"), true},
		{"missing", "Z.cs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := ws.LocateDocument(tt.path)
			if ok != tt.found {
				t.Fatalf("LocateDocument(%q) found=%v, want %v", tt.path, ok, tt.found)
			}
			if ok && doc.RelativePath == "" {
				t.Error("expected a relative path")
			}
		})
	}
}

func TestDeclaredTypes(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	docA, _ := ws.LocateDocument("A.cs")

	types, err := ws.DeclaredTypes(context.Background(), docA)
	if err != nil {
		t.Fatalf("DeclaredTypes: %v", err)
	}
	if len(types) != 1 || types[0].Display != "App.A" {
		t.Errorf("unexpected declared types: %+v", types)
	}
	if types[0].Kind != semantic.KindClass {
		t.Errorf("unexpected kind %s", types[0].Kind)
	}
	if !types[0].InSource {
		t.Error("declared type must be in source")
	}
}

func TestUseSites(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	docA, _ := ws.LocateDocument("A.cs")

	sites, err := ws.UseSites(context.Background(), docA)
	if err != nil {
		t.Fatalf("UseSites: %v", err)
	}

	var displays []string
	for _, s := range sites {
		displays = append(displays, s.Symbol.Display)
		if s.Location.Line != 7 {
			t.Errorf("expected 1-indexed line 7, got %d", s.Location.Line)
		}
		if !strings.Contains(s.Location.LineText, "B.g();") {
			t.Errorf("unexpected line text %q", s.Location.LineText)
		}
	}
	want := []string{"App.B", "App.B.g()"}
	if strings.Join(displays, ",") != strings.Join(want, ",") {
		t.Errorf("use sites = %v, want %v", displays, want)
	}
}

func TestTypeMembersAndContainingType(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	clsB := symbolByDisplay(t, ws, "App.B")

	members, err := ws.TypeMembers(context.Background(), clsB)
	if err != nil {
		t.Fatalf("TypeMembers: %v", err)
	}
	displays := make(map[string]bool)
	for _, m := range members {
		displays[m.Display] = true

		owner, ok := ws.ContainingType(m)
		if !ok || owner.Display != "App.B" {
			t.Errorf("ContainingType(%s) = %v, want App.B", m.Display, owner)
		}
	}
	if !displays["App.B.g()"] || !displays["App.B.h()"] {
		t.Errorf("unexpected members %v", displays)
	}
}

func TestReferencedSymbols(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	f := symbolByDisplay(t, ws, "App.A.f()")

	refs, err := ws.ReferencedSymbols(context.Background(), f)
	if err != nil {
		t.Fatalf("ReferencedSymbols: %v", err)
	}

	var displays []string
	for _, r := range refs {
		displays = append(displays, r.Display)
	}
	if len(displays) != 2 || displays[0] != "App.B" || displays[1] != "App.B.g()" {
		t.Errorf("referenced symbols = %v, want [App.B App.B.g()]", displays)
	}
}

func TestReferencedSymbolsEmptyForBodyless(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	h := symbolByDisplay(t, ws, "App.B.h()")

	refs, err := ws.ReferencedSymbols(context.Background(), h)
	if err != nil {
		t.Fatalf("ReferencedSymbols: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("empty body references nothing, got %v", refs)
	}
}

func TestInterfacesTransitive(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	clsB := symbolByDisplay(t, ws, "App.B")

	ifaces, err := ws.Interfaces(context.Background(), clsB)
	if err != nil {
		t.Fatalf("Interfaces: %v", err)
	}
	if len(ifaces) != 1 || ifaces[0].Display != "App.IWork" {
		t.Errorf("interfaces = %+v, want App.IWork", ifaces)
	}
}

func TestDeclaredInDocument(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	clsB := symbolByDisplay(t, ws, "App.B")
	docA, _ := ws.LocateDocument("A.cs")
	docB, _ := ws.LocateDocument("B.cs")

	if !ws.DeclaredInDocument(clsB, docB) {
		t.Error("B is declared in B.cs")
	}
	if ws.DeclaredInDocument(clsB, docA) {
		t.Error("B is not declared in A.cs")
	}
}

func TestOriginalDefinitionIsStable(t *testing.T) {
	ws, _ := loadTestWorkspace(t)
	g := symbolByDisplay(t, ws, "App.B.g()")

	// A fresh handle carrying the same index identifier canonicalises to
	// the table's symbol.
	alias := &semantic.Symbol{ID: symG, Display: "App.B.g<int>()"}
	if got := ws.OriginalDefinition(alias); got != g {
		t.Errorf("OriginalDefinition by ID = %+v, want table symbol", got)
	}

	// An instantiated display with an unknown ID falls back to the
	// un-instantiated entry.
	inst := &semantic.Symbol{ID: "unknown", Display: "App.B.g<int>()"}
	if got := ws.OriginalDefinition(inst); got != g {
		t.Errorf("OriginalDefinition by display = %+v, want table symbol", got)
	}
}

func TestExternalSymbolsAreMetadataOnly(t *testing.T) {
	index := testIndex()
	index.ExternalSymbols = []*scippb.SymbolInformation{
		{Symbol: "scip-dotnet nuget Sys 1.0 Sys/Logger#", Kind: scippb.SymbolInformation_Class},
	}

	dir := t.TempDir()
	for name, content := range map[string]string{"A.cs": sourceA, "B.cs": sourceB, "I.cs": sourceI} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	indexPath := writeIndex(t, dir, "index.scip", index, false)
	ws, err := Load(indexPath, dir, logging.NewDiscard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	logger := symbolByDisplay(t, ws, "Sys.Logger")
	if logger.InSource {
		t.Error("external symbols have no in-source declaration")
	}
	if logger.Namespace != "Sys" {
		t.Errorf("unexpected namespace %q", logger.Namespace)
	}
}
