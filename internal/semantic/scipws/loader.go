// Package scipws implements the semantic.Workspace contract over a SCIP
// index paired with tree-sitter syntax trees of the indexed sources. The
// index supplies symbol resolution, use sites, and reference edges; the
// syntax side supplies declaration nodes, member lists, and original text.
// Nothing outside this package touches either substrate.
package scipws

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"codeslice/internal/errors"
)

// loadIndex reads a SCIP index from disk. Plain .scip files and
// gzip-compressed .scip.gz files are both accepted.
func loadIndex(path string) (*scippb.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.WorkspaceLoad, err, "SCIP index not found at %s", path)
		}
		return nil, errors.Newf(errors.WorkspaceLoad, err, "cannot open SCIP index at %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Newf(errors.WorkspaceLoad, err, "cannot decompress SCIP index at %s", path)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Newf(errors.WorkspaceLoad, err, "cannot read SCIP index at %s", path)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, errors.Newf(errors.WorkspaceLoad, err, "cannot parse SCIP index at %s", path)
	}
	return &index, nil
}

// decodeRange unpacks a SCIP range. Ranges come as [startLine, startChar,
// endLine, endChar], or [startLine, startChar, endChar] when the occurrence
// fits on one line. Lines and characters are 0-indexed.
func decodeRange(r []int32) (startLine, startChar, endLine, endChar int) {
	switch len(r) {
	case 3:
		return int(r[0]), int(r[1]), int(r[0]), int(r[2])
	case 4:
		return int(r[0]), int(r[1]), int(r[2]), int(r[3])
	default:
		return 0, 0, 0, 0
	}
}

// rangeContains reports whether the position (line, char) lies inside the
// half-open range [start, end).
func rangeContains(startLine, startChar, endLine, endChar, line, char int) bool {
	if line < startLine || line > endLine {
		return false
	}
	if line == startLine && char < startChar {
		return false
	}
	if line == endLine && char >= endChar {
		return false
	}
	return true
}
