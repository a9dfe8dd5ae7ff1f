package crawl

import (
	"fmt"
	"strings"

	"codeslice/internal/semantic"
)

// Path records the chain of references that led to a symbol's inclusion.
// Paths share their prefixes: appending a step never copies the chain, so
// deep crawls stay linear in memory. Formatting happens only when a path is
// registered into the keep-set.
type Path struct {
	prev *Path
	step string
}

// NewPath starts a path with a single step
func NewPath(step string) *Path {
	return &Path{step: step}
}

// Append extends the path with one step, returning the new tail
func (p *Path) Append(step string) *Path {
	return &Path{prev: p, step: step}
}

// String formats the path as its steps joined by " -> "
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	var steps []string
	for cur := p; cur != nil; cur = cur.prev {
		steps = append(steps, cur.step)
	}
	var b strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		b.WriteString(steps[i])
		if i > 0 {
			b.WriteString(" -> ")
		}
	}
	return b.String()
}

// UseSiteStep formats the trace of a root use site
func UseSiteStep(site semantic.UseSite) string {
	text := strings.TrimSpace(site.Location.LineText)
	if text == "" {
		return fmt.Sprintf("%s:%d", site.Location.File, site.Location.Line)
	}
	return fmt.Sprintf("%s:%d `%s`", site.Location.File, site.Location.Line, text)
}

// ReferenceStep formats a hop to a referenced symbol
func ReferenceStep(sym *semantic.Symbol) string {
	return sym.Display
}

// DeclaredInFileStep is the path annotation for declarations registered
// because they live in an entry document
func DeclaredInFileStep(file string) string {
	return fmt.Sprintf("declared in %s", file)
}

// ImplementsStep is the path annotation for interfaces dragged in by a root
// type's implemented-interface closure
func ImplementsStep(root, iface *semantic.Symbol) string {
	return fmt.Sprintf("%s implements %s", root.Display, iface.Display)
}

// StaticInitStep is the path annotation for mandatory inclusions: static
// constructors and const/static-readonly fields of a retained type
func StaticInitStep(typ *semantic.Symbol) string {
	return fmt.Sprintf("static initialization of %s", typ.Display)
}

// NoMembersPlaceholder is the path shown for a non-root type whose members
// were all filtered out of the slice
const NoMembersPlaceholder = "(type kept, but no members directly used)"
