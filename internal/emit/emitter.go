// Package emit renders a keep-set back into per-file definition sets. Each
// retained type is emitted from its original declaration syntax with the
// member list narrowed to the kept subset; enums, delegates, and
// unrecognised declaration forms are emitted as-is. Retained source text is
// never reflowed, only left-margin minified.
package emit

import (
	"context"
	"sort"
	"strings"

	"codeslice/internal/config"
	"codeslice/internal/crawl"
	"codeslice/internal/errors"
	"codeslice/internal/identity"
	"codeslice/internal/logging"
	"codeslice/internal/semantic"
)

// Definition is one emitted declaration
type Definition struct {
	// Symbol is the display string of the emitted type
	Symbol string `json:"symbol"`

	// Namespace is the dotted concatenation of containing namespaces
	Namespace string `json:"namespace"`

	// Code is the minified source fragment
	Code string `json:"code"`
}

// FileResult collects the definitions emitted for one source file, keyed by
// "<file>:<type-display-string>".
type FileResult struct {
	Path        string                `json:"path"`
	Definitions map[string]Definition `json:"definitions"`
}

// Emitter renders keep-sets
type Emitter struct {
	ws      semantic.Workspace
	index   *identity.Index
	logger  *logging.Logger
	adorner Adorner
}

// NewEmitter creates an emitter for the given explain mode
func NewEmitter(ws semantic.Workspace, index *identity.Index, logger *logging.Logger, mode config.ExplainMode) *Emitter {
	return &Emitter{
		ws:      ws,
		index:   index,
		logger:  logger,
		adorner: ForMode(mode),
	}
}

// Emit renders one FileResult per source file touched by the keep-set.
// Emission is a pure function of the keep-set: running it twice yields
// byte-identical output.
func (e *Emitter) Emit(ctx context.Context, keep *crawl.KeepSet) ([]FileResult, error) {
	byFile := make(map[string]map[string]Definition)

	for _, typeKey := range keep.TypeKeys() {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(errors.Cancelled, "emission cancelled", err)
		}

		entry, _ := keep.Entry(typeKey)
		decls, err := e.ws.DeclaringSyntax(ctx, entry.Type)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, errors.New(errors.Cancelled, "emission cancelled", cerr)
			}
			e.logger.Warn("cannot load declaring syntax, skipping type", "type", entry.Type.Display, "error", err.Error())
			continue
		}
		if len(decls) == 0 {
			e.logger.Debug("no declaring syntax for type", "type", entry.Type.Display)
			continue
		}

		code := e.render(decls, entry, keep.IsRoot(typeKey))

		file := decls[0].File
		defs, ok := byFile[file]
		if !ok {
			defs = make(map[string]Definition)
			byFile[file] = defs
		}
		defs[file+":"+entry.Type.Display] = Definition{
			Symbol:    entry.Type.Display,
			Namespace: entry.Type.Namespace,
			Code:      MinifyMargin(code),
		}
	}

	paths := make([]string, 0, len(byFile))
	for p := range byFile {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	results := make([]FileResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, FileResult{Path: p, Definitions: byFile[p]})
	}
	return results, nil
}

// render assembles the declaration text for one kept type
func (e *Emitter) render(decls []semantic.Declaration, entry *crawl.TypeEntry, isRoot bool) string {
	rep := decls[0]

	if rep.Form != semantic.FormCompound {
		// Enum and delegate declarations are emitted unchanged; so is
		// any unrecognised declaration form.
		return e.adorner.Lines(rep.Indent, e.typePaths(entry, 1, isRoot, rep.Form)) + rep.Text
	}

	var members strings.Builder
	kept := 0
	for _, decl := range decls {
		for _, m := range decl.Members {
			paths, keep := e.memberPaths(entry, m)
			if !keep {
				continue
			}
			kept++
			members.WriteString(renderMember(m, e.adorner.Lines(m.Indent, paths)))
		}
	}

	typeComments := e.adorner.Lines(rep.Indent, e.typePaths(entry, kept, isRoot, rep.Form))
	return typeComments + rep.Header + members.String() + rep.Footer
}

// memberPaths decides whether a syntactic member is kept: it survives iff
// any of the symbols it declares has a keep-set entry. The returned paths
// are the union over the matching symbols.
func (e *Emitter) memberPaths(entry *crawl.TypeEntry, m semantic.MemberDecl) ([]string, bool) {
	pathSet := make(map[string]struct{})
	matched := false
	for _, key := range m.Keys {
		info, ok := entry.Members[key]
		if !ok {
			continue
		}
		matched = true
		for _, p := range info.Paths() {
			pathSet[p] = struct{}{}
		}
	}
	if !matched {
		return nil, false
	}
	paths := make([]string, 0, len(pathSet))
	for p := range pathSet {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, true
}

// typePaths computes the path set shown for the type itself. A non-root
// compound type whose members were all filtered out gets the placeholder
// entry so the attenuation stays visible.
func (e *Emitter) typePaths(entry *crawl.TypeEntry, keptMembers int, isRoot bool, form semantic.DeclForm) []string {
	if form == semantic.FormCompound && keptMembers == 0 && !isRoot {
		return []string{crawl.NoMembersPlaceholder}
	}
	if info, ok := entry.Members[entry.Type.Display]; ok {
		return info.Paths()
	}
	return nil
}

// renderMember splices the adorner's comment block between the member's
// leading trivia and its first line, preserving original indentation.
func renderMember(m semantic.MemberDecl, comments string) string {
	if comments == "" {
		return m.Lead + m.Text
	}
	if idx := strings.LastIndexByte(m.Lead, '\n'); idx >= 0 {
		return m.Lead[:idx+1] + comments + m.Lead[idx+1:] + m.Text
	}
	return "\n" + comments + m.Lead + m.Text
}
