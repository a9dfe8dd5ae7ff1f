package emit

import (
	"strings"

	"codeslice/internal/config"
)

// Adorner decorates emitted declarations with presentation trivia. The
// emitter stays a pure minimiser; what the reader sees about provenance is
// the adorner's concern.
type Adorner interface {
	// Lines renders the comment block to place before a declaration or
	// member, using the node's original indentation. Returns "" when
	// nothing should be injected.
	Lines(indent string, paths []string) string
}

// NoopAdorner injects nothing
type NoopAdorner struct{}

// Lines implements Adorner
func (NoopAdorner) Lines(string, []string) string { return "" }

// ReasonAdorner prepends one "// path: <p>" line per inclusion path
type ReasonAdorner struct{}

// Lines implements Adorner
func (ReasonAdorner) Lines(indent string, paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(indent)
		b.WriteString("// path: ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}

// ForMode selects the adorner for an explain mode
func ForMode(mode config.ExplainMode) Adorner {
	if mode == config.ExplainReasonForInclusion {
		return ReasonAdorner{}
	}
	return NoopAdorner{}
}
