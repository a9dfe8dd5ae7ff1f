package scipws

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"codeslice/internal/errors"
	"codeslice/internal/logging"
	"codeslice/internal/semantic"
)

// docEntry couples an indexed document with its on-disk location
type docEntry struct {
	rel string
	abs string
	pb  *scippb.Document
}

// declFlags are the syntax-derived member properties the index alone cannot
// provide reliably
type declFlags struct {
	isConst          bool
	isStaticReadonly bool
	isStaticCtor     bool
}

// keyResolver maps a syntactic span (0-indexed, half-open) onto the display
// keys of the symbols defined inside it
type keyResolver func(startLine, startChar, endLine, endChar int) []string

// syntaxEngine is the parser half of the workspace. The tree-sitter backed
// implementation lives in syntax.go; builds without cgo get a stub that
// reports syntax as unavailable.
type syntaxEngine interface {
	// typeDeclaration builds the Declaration for the type whose name
	// token sits at (line, char)
	typeDeclaration(src []byte, line, char int, keys keyResolver) (semantic.Declaration, error)

	// memberDeclaration builds a FormOther Declaration for the member
	// whose name token sits at (line, char)
	memberDeclaration(src []byte, line, char int) (semantic.Declaration, error)

	// memberSpan returns the full span of the member enclosing the name
	// token at (line, char)
	memberSpan(src []byte, line, char int) (sl, sc, el, ec int, ok bool)

	// memberFlags inspects the modifiers of the member at (line, char)
	memberFlags(src []byte, line, char int) (declFlags, bool)
}

// Workspace implements semantic.Workspace over one loaded SCIP index. A
// workspace is owned by a single extractor invocation at a time; it may be
// shared read-only across invocations on the same goroutine via the Cache.
type Workspace struct {
	indexPath  string
	sourceRoot string
	logger     *logging.Logger

	docs      []*docEntry
	byPath    map[string]*docEntry // lower-cased absolute path -> doc
	table     map[string]*symbolEntry
	byDisplay map[string]*symbolEntry
	children  map[string][]*symbolEntry // container display -> members
	impls     map[string][]string       // type display -> implemented iface displays

	engine  syntaxEngine
	sources map[string][]byte
	lines   map[string][]string
	flagged map[string]bool // type display -> member flags enriched
}

// Load opens the SCIP index at indexPath and prepares a workspace whose
// source files live under sourceRoot. Loader warnings are forwarded to the
// logger; only an unreadable index aborts.
func Load(indexPath, sourceRoot string, logger *logging.Logger) (*Workspace, error) {
	index, err := loadIndex(indexPath)
	if err != nil {
		return nil, err
	}

	w := &Workspace{
		indexPath:  indexPath,
		sourceRoot: sourceRoot,
		logger:     logger,
		byPath:     make(map[string]*docEntry),
		table:      make(map[string]*symbolEntry),
		byDisplay:  make(map[string]*symbolEntry),
		children:   make(map[string][]*symbolEntry),
		impls:      make(map[string][]string),
		sources:    make(map[string][]byte),
		lines:      make(map[string][]string),
		flagged:    make(map[string]bool),
	}

	engine, err := newSyntaxEngine()
	if err != nil {
		logger.Warn("declaration syntax unavailable", "error", err.Error())
	} else {
		w.engine = engine
	}

	for _, doc := range index.Documents {
		rel := filepath.FromSlash(doc.RelativePath)
		entry := &docEntry{
			rel: doc.RelativePath,
			abs: filepath.Join(sourceRoot, rel),
			pb:  doc,
		}
		w.docs = append(w.docs, entry)
		w.byPath[strings.ToLower(entry.abs)] = entry
	}

	w.buildTable(index)
	return w, nil
}

// buildTable constructs the symbol table: one entry per global symbol, with
// display keys, kinds, containers, and definition locations.
func (w *Workspace) buildTable(index *scippb.Index) {
	addInfo := func(info *scippb.SymbolInformation) {
		if info == nil || isLocalSymbol(info.Symbol) {
			return
		}
		entry, ok := w.table[info.Symbol]
		if !ok {
			entry = &symbolEntry{}
			w.table[info.Symbol] = entry
		}
		if entry.info == nil {
			entry.info = info
		}
	}

	for _, ext := range index.ExternalSymbols {
		addInfo(ext)
	}
	for _, doc := range w.docs {
		for _, info := range doc.pb.Symbols {
			addInfo(info)
		}
		for _, occ := range doc.pb.Occurrences {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) == 0 || isLocalSymbol(occ.Symbol) {
				continue
			}
			entry, ok := w.table[occ.Symbol]
			if !ok {
				entry = &symbolEntry{}
				w.table[occ.Symbol] = entry
			}
			if entry.defOcc == nil {
				entry.defDoc = doc
				entry.defOcc = occ
			}
			entry.defDocs = append(entry.defDocs, doc)
			entry.defOccs = append(entry.defOccs, occ)
		}
	}

	// First pass: derive displays and kinds.
	for raw, entry := range w.table {
		descs := parsedDescriptors(raw)
		ns, display, name := displayParts(descs)
		kind := classifyKind(entry.info, descs)

		entry.containerDisplay = containerDisplayOf(descs)
		entry.sym = &semantic.Symbol{
			ID:        raw,
			Display:   display,
			Name:      name,
			Kind:      kind,
			Namespace: ns,
			InSource:  entry.defOcc != nil,
			IsConst:   entry.info != nil && entry.info.Kind == scippb.SymbolInformation_Constant,
		}

		if _, taken := w.byDisplay[display]; !taken || kind != semantic.KindMethod {
			w.byDisplay[display] = entry
		}
	}

	// Second pass: fold accessor methods onto their property or event,
	// resolve container IDs, group members, and collect implementations.
	for _, entry := range w.table {
		sym := entry.sym
		if sym.Kind == semantic.KindMethod && entry.containerDisplay != "" {
			if target, ok := accessorTarget(strippedName(sym.Name)); ok {
				targetDisplay := entry.containerDisplay + "." + target
				if owner, found := w.byDisplay[targetDisplay]; found {
					sym.Display = owner.sym.Display
					sym.Kind = owner.sym.Kind
				}
			}
		}

		if entry.containerDisplay != "" {
			if container, ok := w.byDisplay[entry.containerDisplay]; ok {
				sym.ContainerID = container.sym.ID
			}
			if !sym.IsType() || sym.Display != entry.containerDisplay {
				w.children[entry.containerDisplay] = append(w.children[entry.containerDisplay], entry)
			}
		}

		if entry.info != nil && sym.IsType() {
			for _, rel := range entry.info.Relationships {
				if !rel.IsImplementation || isLocalSymbol(rel.Symbol) {
					continue
				}
				_, ifaceDisplay, _ := displayParts(parsedDescriptors(rel.Symbol))
				if ifaceDisplay != "" {
					w.impls[sym.Display] = append(w.impls[sym.Display], ifaceDisplay)
				}
			}
		}
	}
}

// strippedName removes a method display's parameter suffix
func strippedName(name string) string {
	if i := strings.IndexByte(name, '('); i > 0 {
		return name[:i]
	}
	return name
}

// LocateDocument implements semantic.Workspace: case-insensitive full-path
// match against the indexed documents.
func (w *Workspace) LocateDocument(path string) (*semantic.Document, bool) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(w.sourceRoot, filepath.FromSlash(path))
	}
	entry, ok := w.byPath[strings.ToLower(filepath.Clean(abs))]
	if !ok {
		return nil, false
	}
	return &semantic.Document{Path: entry.abs, RelativePath: entry.rel}, true
}

func (w *Workspace) docFor(doc *semantic.Document) (*docEntry, bool) {
	entry, ok := w.byPath[strings.ToLower(filepath.Clean(doc.Path))]
	return entry, ok
}

// DeclaredTypes implements semantic.Workspace
func (w *Workspace) DeclaredTypes(ctx context.Context, doc *semantic.Document) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, ok := w.docFor(doc)
	if !ok {
		return nil, errors.Newf(errors.NotFound, nil, "document %s not in workspace", doc.Path)
	}

	var out []*semantic.Symbol
	seen := make(map[string]struct{})
	for _, occ := range entry.pb.Occurrences {
		if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) == 0 || isLocalSymbol(occ.Symbol) {
			continue
		}
		se, ok := w.table[occ.Symbol]
		if !ok || !se.sym.IsType() {
			continue
		}
		if _, dup := seen[se.sym.Display]; dup {
			continue
		}
		seen[se.sym.Display] = struct{}{}
		out = append(out, se.sym)
	}
	return out, nil
}

// UseSites implements semantic.Workspace
func (w *Workspace) UseSites(ctx context.Context, doc *semantic.Document) ([]semantic.UseSite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, ok := w.docFor(doc)
	if !ok {
		return nil, errors.Newf(errors.NotFound, nil, "document %s not in workspace", doc.Path)
	}

	var out []semantic.UseSite
	for _, occ := range entry.pb.Occurrences {
		if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) != 0 || isLocalSymbol(occ.Symbol) {
			continue
		}
		se, ok := w.table[occ.Symbol]
		if !ok {
			continue
		}
		sl, sc, _, _ := decodeRange(occ.Range)
		out = append(out, semantic.UseSite{
			Symbol: se.sym,
			Location: semantic.Location{
				File:     entry.abs,
				Line:     sl + 1,
				Column:   sc + 1,
				LineText: w.lineText(entry.abs, sl),
			},
		})
	}
	return out, nil
}

// TypeMembers implements semantic.Workspace
func (w *Workspace) TypeMembers(ctx context.Context, typ *semantic.Symbol) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.enrichFlags(typ.Display)

	members := w.children[typ.Display]
	out := make([]*semantic.Symbol, 0, len(members))
	seen := make(map[string]struct{})
	for _, se := range members {
		if !se.sym.Kind.Crawlable() {
			continue
		}
		if _, dup := seen[se.sym.Display]; dup {
			continue
		}
		seen[se.sym.Display] = struct{}{}
		out = append(out, se.sym)
	}
	return out, nil
}

// enrichFlags back-fills syntax-derived member flags (const, static
// readonly, static constructor) the first time a type's members are asked
// for. Without a syntax engine the index-derived kinds stand.
func (w *Workspace) enrichFlags(typeDisplay string) {
	if w.engine == nil || w.flagged[typeDisplay] {
		return
	}
	w.flagged[typeDisplay] = true

	for _, se := range w.children[typeDisplay] {
		if se.defOcc == nil || se.defDoc == nil {
			continue
		}
		switch se.sym.Kind {
		case semantic.KindField, semantic.KindConstructor, semantic.KindMethod:
		default:
			continue
		}
		src, err := w.source(se.defDoc.abs)
		if err != nil {
			continue
		}
		sl, sc, _, _ := decodeRange(se.defOcc.Range)
		flags, ok := w.engine.memberFlags(src, sl, sc)
		if !ok {
			continue
		}
		if flags.isConst {
			se.sym.IsConst = true
		}
		if flags.isStaticReadonly {
			se.sym.IsStaticReadonly = true
		}
		if flags.isStaticCtor && se.sym.Kind == semantic.KindConstructor {
			se.sym.Kind = semantic.KindStaticConstructor
		}
	}
}

// Interfaces implements semantic.Workspace: the transitive closure of the
// implemented-interface relation.
func (w *Workspace) Interfaces(ctx context.Context, typ *semantic.Symbol) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*semantic.Symbol
	seen := map[string]struct{}{typ.Display: {}}
	queue := append([]string(nil), w.impls[typ.Display]...)
	for len(queue) > 0 {
		display := queue[0]
		queue = queue[1:]
		if _, dup := seen[display]; dup {
			continue
		}
		seen[display] = struct{}{}

		se, ok := w.byDisplay[display]
		if !ok {
			continue
		}
		out = append(out, se.sym)
		queue = append(queue, w.impls[display]...)
	}
	return out, nil
}

// ReferencedSymbols implements semantic.Workspace: the symbols referenced
// inside the body of a member, located via the definition occurrence's
// enclosing range (falling back to the syntactic member span).
func (w *Workspace) ReferencedSymbols(ctx context.Context, sym *semantic.Symbol) ([]*semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	se, ok := w.table[sym.ID]
	if !ok || se.defOcc == nil || se.defDoc == nil {
		return nil, nil
	}

	sl, sc, el, ec, ok := w.bodySpan(se)
	if !ok {
		return nil, nil
	}

	var out []*semantic.Symbol
	seen := make(map[string]struct{})
	for _, occ := range se.defDoc.pb.Occurrences {
		if occ.Symbol == sym.ID || isLocalSymbol(occ.Symbol) {
			continue
		}
		if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) != 0 {
			continue
		}
		ol, oc, _, _ := decodeRange(occ.Range)
		if !rangeContains(sl, sc, el, ec, ol, oc) {
			continue
		}
		ref, ok := w.table[occ.Symbol]
		if !ok {
			continue
		}
		if _, dup := seen[ref.sym.Display]; dup {
			continue
		}
		seen[ref.sym.Display] = struct{}{}
		out = append(out, ref.sym)
	}
	return out, nil
}

// bodySpan determines the extent of a member's body
func (w *Workspace) bodySpan(se *symbolEntry) (sl, sc, el, ec int, ok bool) {
	if len(se.defOcc.EnclosingRange) > 0 {
		sl, sc, el, ec = decodeRange(se.defOcc.EnclosingRange)
		return sl, sc, el, ec, true
	}
	if w.engine == nil {
		return 0, 0, 0, 0, false
	}
	src, err := w.source(se.defDoc.abs)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	nl, nc, _, _ := decodeRange(se.defOcc.Range)
	return w.engine.memberSpan(src, nl, nc)
}

// OriginalDefinition implements semantic.Workspace. SCIP symbols already
// name original definitions, so canonicalisation is a table lookup; display
// strings carrying generic arguments fall back to the un-instantiated entry.
func (w *Workspace) OriginalDefinition(sym *semantic.Symbol) *semantic.Symbol {
	if se, ok := w.table[sym.ID]; ok {
		return se.sym
	}
	if se, ok := w.byDisplay[stripGenericArgs(sym.Display)]; ok {
		return se.sym
	}
	return sym
}

// stripGenericArgs removes "<...>" argument lists from a display string so
// instantiations collapse onto their original definition.
func stripGenericArgs(display string) string {
	if !strings.ContainsRune(display, '<') {
		return display
	}
	var b strings.Builder
	depth := 0
	for _, r := range display {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
				continue
			}
		}
		if depth == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainingType implements semantic.Workspace
func (w *Workspace) ContainingType(sym *semantic.Symbol) (*semantic.Symbol, bool) {
	se, ok := w.table[sym.ID]
	if !ok {
		return nil, false
	}
	if se.containerDisplay == "" {
		return nil, false
	}
	container, ok := w.byDisplay[se.containerDisplay]
	if !ok || !container.sym.IsType() {
		return nil, false
	}
	return container.sym, true
}

// DeclaredInDocument implements semantic.Workspace
func (w *Workspace) DeclaredInDocument(sym *semantic.Symbol, doc *semantic.Document) bool {
	se, ok := w.table[sym.ID]
	if !ok {
		return false
	}
	target := strings.ToLower(filepath.Clean(doc.Path))
	for _, d := range se.defDocs {
		if strings.ToLower(d.abs) == target {
			return true
		}
	}
	return false
}

// DeclaringSyntax implements semantic.Workspace: one Declaration per
// partial declaration, in index order.
func (w *Workspace) DeclaringSyntax(ctx context.Context, sym *semantic.Symbol) ([]semantic.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	se, ok := w.table[sym.ID]
	if !ok || len(se.defOccs) == 0 {
		return nil, nil
	}
	if w.engine == nil {
		return nil, errors.New(errors.Internal, "declaration syntax unavailable in this build", nil)
	}

	var out []semantic.Declaration
	for i, occ := range se.defOccs {
		doc := se.defDocs[i]
		src, err := w.source(doc.abs)
		if err != nil {
			return nil, err
		}
		sl, sc, _, _ := decodeRange(occ.Range)

		var decl semantic.Declaration
		if sym.IsType() {
			decl, err = w.engine.typeDeclaration(src, sl, sc, w.memberKeyResolver(doc, sym))
		} else {
			decl, err = w.engine.memberDeclaration(src, sl, sc)
		}
		if err != nil {
			return nil, err
		}
		decl.File = doc.abs
		out = append(out, decl)
	}
	return out, nil
}

// memberKeyResolver resolves the display keys of symbols defined within a
// syntactic span of doc that belong to owner (or are owner itself, for a
// nested type declaration).
func (w *Workspace) memberKeyResolver(doc *docEntry, owner *semantic.Symbol) keyResolver {
	return func(sl, sc, el, ec int) []string {
		var keys []string
		seen := make(map[string]struct{})
		for _, occ := range doc.pb.Occurrences {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) == 0 || isLocalSymbol(occ.Symbol) {
				continue
			}
			ol, oc, _, _ := decodeRange(occ.Range)
			if !rangeContains(sl, sc, el, ec, ol, oc) {
				continue
			}
			se, ok := w.table[occ.Symbol]
			if !ok {
				continue
			}
			if se.containerDisplay != owner.Display {
				continue
			}
			if _, dup := seen[se.sym.Display]; dup {
				continue
			}
			seen[se.sym.Display] = struct{}{}
			keys = append(keys, se.sym.Display)
		}
		return keys
	}
}

// source reads and caches a file's bytes
func (w *Workspace) source(abs string) ([]byte, error) {
	if data, ok := w.sources[abs]; ok {
		return data, nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Newf(errors.WorkspaceLoad, err, "cannot read source file %s", abs)
	}
	w.sources[abs] = data
	return data, nil
}

// lineText returns the trimmed text of a 0-indexed line
func (w *Workspace) lineText(abs string, line int) string {
	lines, ok := w.lines[abs]
	if !ok {
		data, err := w.source(abs)
		if err != nil {
			return ""
		}
		lines = strings.Split(string(data), "\n")
		w.lines[abs] = lines
	}
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line], "\r")
}
