package crawl

import (
	"context"

	"codeslice/internal/errors"
	"codeslice/internal/identity"
	"codeslice/internal/logging"
	"codeslice/internal/semantic"
)

// Aggregate runs one crawl per entry document, in order, and merges the
// results: root-type sets union, and for every (type, member) pair the path
// sets union. ExcludeRootDefinitions applies independently per document, so
// a document's own declarations are suppressed in its crawl yet may still be
// included when another entry document references them.
func Aggregate(ctx context.Context, ws semantic.Workspace, index *identity.Index, logger *logging.Logger, docs []*semantic.Document, opts Options) (*KeepSet, error) {
	if len(docs) == 0 {
		return nil, errors.New(errors.InvalidArgument, "aggregation requires at least one entry document", nil)
	}

	merged := NewKeepSet()
	crawler := New(ws, index, logger, opts)
	for _, doc := range docs {
		keep, err := crawler.Crawl(ctx, doc)
		if err != nil {
			return nil, err
		}
		merged.Merge(keep)
	}
	return merged, nil
}
