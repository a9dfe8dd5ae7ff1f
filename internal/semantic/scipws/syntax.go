//go:build cgo

package scipws

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"codeslice/internal/errors"
	"codeslice/internal/semantic"
)

// declForms maps tree-sitter declaration node types onto emitter forms.
// Unlisted node types fall back to FormOther and are emitted as-is.
var declForms = map[string]semantic.DeclForm{
	"class_declaration":         semantic.FormCompound,
	"struct_declaration":        semantic.FormCompound,
	"interface_declaration":     semantic.FormCompound,
	"record_declaration":        semantic.FormCompound,
	"record_struct_declaration": semantic.FormCompound,
	"enum_declaration":          semantic.FormEnum,
	"delegate_declaration":      semantic.FormDelegate,
}

// treeSitterEngine parses C# sources with tree-sitter and slices
// declaration text out of the original bytes.
type treeSitterEngine struct {
	parser *sitter.Parser

	// trees caches parses keyed by the source's backing array; sources
	// are cached upstream in the workspace, so the key is stable
	trees map[*byte]*sitter.Tree
}

func newSyntaxEngine() (syntaxEngine, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())
	return &treeSitterEngine{
		parser: parser,
		trees:  make(map[*byte]*sitter.Tree),
	}, nil
}

func (e *treeSitterEngine) parse(src []byte) (*sitter.Tree, error) {
	if len(src) == 0 {
		return nil, errors.New(errors.Internal, "empty source", nil)
	}
	if tree, ok := e.trees[&src[0]]; ok {
		return tree, nil
	}
	tree, err := e.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, errors.New(errors.Internal, "tree-sitter parse failed", err)
	}
	e.trees[&src[0]] = tree
	return tree, nil
}

// nodeAt returns the smallest named node covering the 0-indexed position
func (e *treeSitterEngine) nodeAt(src []byte, line, char int) (*sitter.Node, error) {
	tree, err := e.parse(src)
	if err != nil {
		return nil, err
	}
	p := sitter.Point{Row: uint32(line), Column: uint32(char)}
	node := tree.RootNode().NamedDescendantForPointRange(p, p)
	if node == nil {
		return nil, errors.Newf(errors.Internal, nil, "no syntax node at %d:%d", line+1, char+1)
	}
	return node, nil
}

// ascendToDecl walks upward to the nearest type declaration node
func ascendToDecl(node *sitter.Node) *sitter.Node {
	for cur := node; cur != nil; cur = cur.Parent() {
		if _, ok := declForms[cur.Type()]; ok {
			return cur
		}
	}
	return nil
}

// ascendToMember walks upward to the nearest member of a declaration list
func ascendToMember(node *sitter.Node) *sitter.Node {
	for cur := node; cur != nil; cur = cur.Parent() {
		parent := cur.Parent()
		if parent != nil && (parent.Type() == "declaration_list" || parent.Type() == "enum_member_declaration_list") {
			return cur
		}
	}
	return nil
}

// lineStartByte walks back from a node start to the beginning of its line
func lineStartByte(src []byte, start uint32) uint32 {
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	return start
}

// lineIndent extracts the whitespace prefix of the line beginning at start
func lineIndent(src []byte, start uint32) string {
	end := start
	for end < uint32(len(src)) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

func (e *treeSitterEngine) typeDeclaration(src []byte, line, char int, keys keyResolver) (semantic.Declaration, error) {
	node, err := e.nodeAt(src, line, char)
	if err != nil {
		return semantic.Declaration{}, err
	}
	decl := ascendToDecl(node)
	if decl == nil {
		// Unrecognised declaration shape: emit the enclosing member
		// (or the node itself) as-is rather than failing.
		return e.memberDeclaration(src, line, char)
	}

	form := declForms[decl.Type()]
	start := lineStartByte(src, decl.StartByte())
	indent := lineIndent(src, start)
	text := string(src[start:decl.EndByte()])

	out := semantic.Declaration{
		Form:   form,
		Indent: indent,
		Text:   text,
	}
	if form != semantic.FormCompound {
		return out, nil
	}

	body := decl.ChildByFieldName("body")
	if body == nil {
		out.Form = semantic.FormOther
		return out, nil
	}

	out.Header = string(src[start : body.StartByte()+1])

	prevEnd := body.StartByte() + 1
	var members []semantic.MemberDecl
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		memberStart := child.StartByte()
		memberLineStart := lineStartByte(src, memberStart)
		members = append(members, semantic.MemberDecl{
			Lead:   string(src[prevEnd:memberStart]),
			Text:   string(src[memberStart:child.EndByte()]),
			Indent: lineIndent(src, memberLineStart),
			Keys:   keysForNode(child, keys),
		})
		prevEnd = child.EndByte()
	}
	out.Members = members
	out.Footer = string(src[prevEnd:decl.EndByte()])
	return out, nil
}

// keysForNode resolves which symbols a member node declares
func keysForNode(node *sitter.Node, keys keyResolver) []string {
	if keys == nil {
		return nil
	}
	start := node.StartPoint()
	end := node.EndPoint()
	return keys(int(start.Row), int(start.Column), int(end.Row), int(end.Column))
}

func (e *treeSitterEngine) memberDeclaration(src []byte, line, char int) (semantic.Declaration, error) {
	node, err := e.nodeAt(src, line, char)
	if err != nil {
		return semantic.Declaration{}, err
	}
	member := ascendToMember(node)
	if member == nil {
		member = node
	}
	start := lineStartByte(src, member.StartByte())
	return semantic.Declaration{
		Form:   semantic.FormOther,
		Indent: lineIndent(src, start),
		Text:   string(src[start:member.EndByte()]),
	}, nil
}

func (e *treeSitterEngine) memberSpan(src []byte, line, char int) (sl, sc, el, ec int, ok bool) {
	node, err := e.nodeAt(src, line, char)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	member := ascendToMember(node)
	if member == nil {
		return 0, 0, 0, 0, false
	}
	start := member.StartPoint()
	end := member.EndPoint()
	return int(start.Row), int(start.Column), int(end.Row), int(end.Column), true
}

func (e *treeSitterEngine) memberFlags(src []byte, line, char int) (declFlags, bool) {
	node, err := e.nodeAt(src, line, char)
	if err != nil {
		return declFlags{}, false
	}
	member := ascendToMember(node)
	if member == nil {
		return declFlags{}, false
	}

	var hasStatic, hasReadonly, hasConst bool
	for i := 0; i < int(member.NamedChildCount()); i++ {
		child := member.NamedChild(i)
		if child.Type() != "modifier" {
			continue
		}
		switch strings.TrimSpace(child.Content(src)) {
		case "static":
			hasStatic = true
		case "readonly":
			hasReadonly = true
		case "const":
			hasConst = true
		}
	}

	return declFlags{
		isConst:          hasConst,
		isStaticReadonly: hasStatic && hasReadonly,
		isStaticCtor:     hasStatic && member.Type() == "constructor_declaration",
	}, true
}
