// Package extract exposes the extraction entry points: the full walk, the
// minimal slice for one root file, and the aggregated minimal slice over
// several root files. It wires the crawler and the emitter over a semantic
// workspace and owns argument validation and error surfacing.
package extract

import (
	"context"

	"github.com/google/uuid"

	"codeslice/internal/config"
	"codeslice/internal/crawl"
	"codeslice/internal/emit"
	"codeslice/internal/errors"
	"codeslice/internal/identity"
	"codeslice/internal/logging"
	"codeslice/internal/semantic"
)

// Engine coordinates one workspace's extractions. The workspace is owned
// exclusively by the engine's caller; the engine itself holds no mutable
// state across invocations.
type Engine struct {
	ws     semantic.Workspace
	index  *identity.Index
	logger *logging.Logger

	excludedPrefixes []string
}

// NewEngine creates an engine over ws. excludedPrefixes filters symbols by
// containing-namespace prefix for every extraction run through this engine.
func NewEngine(ws semantic.Workspace, logger *logging.Logger, excludedPrefixes []string) *Engine {
	return &Engine{
		ws:               ws,
		index:            identity.NewIndex(ws),
		logger:           logger,
		excludedPrefixes: excludedPrefixes,
	}
}

// FindAllDefinitions performs the full walk: every declaration reachable
// within depth cross-type hops is returned with all of its members, ignoring
// minimisation.
func (e *Engine) FindAllDefinitions(ctx context.Context, rootFile string, depth int) ([]emit.FileResult, error) {
	return e.run(ctx, []string{rootFile}, crawl.Options{
		Depth:                     depth,
		KeepAllMembers:            true,
		ExcludedNamespacePrefixes: e.excludedPrefixes,
	}, config.ExplainNone)
}

// FindMinimalDefinitions produces the minimal slice for one root file.
func (e *Engine) FindMinimalDefinitions(ctx context.Context, rootFile string, depth int, mode config.ExplainMode, excludeRootDefinitions bool) ([]emit.FileResult, error) {
	return e.run(ctx, []string{rootFile}, crawl.Options{
		Depth:                     depth,
		ExcludeRootDefinitions:    excludeRootDefinitions,
		ExcludedNamespacePrefixes: e.excludedPrefixes,
	}, mode)
}

// FindAggregatedMinimalDefinitions produces one merged minimal slice over
// several root files. ExcludeRootDefinitions applies per entry document: a
// document's own declarations are suppressed in its crawl but may still be
// reached from another entry document.
func (e *Engine) FindAggregatedMinimalDefinitions(ctx context.Context, rootFiles []string, depth int, mode config.ExplainMode, excludeRootDefinitions bool) ([]emit.FileResult, error) {
	return e.run(ctx, rootFiles, crawl.Options{
		Depth:                     depth,
		ExcludeRootDefinitions:    excludeRootDefinitions,
		ExcludedNamespacePrefixes: e.excludedPrefixes,
	}, mode)
}

func (e *Engine) run(ctx context.Context, rootFiles []string, opts crawl.Options, mode config.ExplainMode) ([]emit.FileResult, error) {
	if opts.Depth < 0 {
		return nil, errors.Newf(errors.InvalidArgument, nil, "depth must be >= 0, got %d", opts.Depth)
	}
	if len(rootFiles) == 0 {
		return nil, errors.New(errors.InvalidArgument, "at least one root file is required", nil)
	}

	docs := make([]*semantic.Document, 0, len(rootFiles))
	for _, path := range rootFiles {
		doc, ok := e.ws.LocateDocument(path)
		if !ok {
			return nil, errors.Newf(errors.NotFound, nil, "root file %s is not part of the workspace", path)
		}
		docs = append(docs, doc)
	}

	// Every line below belongs to this invocation: stamp the run ID once
	// here instead of threading it through the crawler and emitter.
	logger := e.logger.WithRun(uuid.NewString())
	logger.Debug("extraction started", "roots", len(docs), "depth", opts.Depth)

	keep, err := crawl.Aggregate(ctx, e.ws, e.index, logger.WithScope("crawl"), docs, opts)
	if err != nil {
		return nil, err
	}

	emitter := emit.NewEmitter(e.ws, e.index, logger.WithScope("emit"), mode)
	results, err := emitter.Emit(ctx, keep)
	if err != nil {
		return nil, err
	}

	logger.Info("extraction finished", "types", keep.Len(), "files", len(results))
	return results, nil
}
