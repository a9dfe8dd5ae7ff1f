//go:build !cgo

package scipws

import (
	"codeslice/internal/errors"
)

// newSyntaxEngine reports syntax support as unavailable when CGO is off:
// the workspace still answers index-backed queries, but declaration
// emission requires the tree-sitter build.
func newSyntaxEngine() (syntaxEngine, error) {
	return nil, errors.New(errors.Internal, "declaration syntax requires a cgo-enabled build", nil)
}
