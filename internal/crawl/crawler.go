package crawl

import (
	"context"

	"codeslice/internal/errors"
	"codeslice/internal/identity"
	"codeslice/internal/logging"
	"codeslice/internal/semantic"
)

// Options bound one crawl
type Options struct {
	// Depth is the cross-type hop budget; hops within a type are free
	Depth int

	// ExcludeRootDefinitions suppresses the root document's own
	// declarations while still crawling outward from its use sites
	ExcludeRootDefinitions bool

	// KeepAllMembers retains every member of every reached type instead
	// of the minimal subset (the full, non-minimised walk)
	KeepAllMembers bool

	// ExcludedNamespacePrefixes filters symbols whose containing
	// namespace begins with any of these tokens
	ExcludedNamespacePrefixes []string
}

// frontier is one BFS work item: a discovered symbol, the depth budget it
// has left, and the inclusion path that reached it.
type frontier struct {
	sym       *semantic.Symbol
	depthLeft int
	path      *Path
}

// Crawler performs the bounded breadth-first reachability walk for a single
// entry document.
type Crawler struct {
	ws     semantic.Workspace
	index  *identity.Index
	logger *logging.Logger
	opts   Options
}

// New creates a crawler
func New(ws semantic.Workspace, index *identity.Index, logger *logging.Logger, opts Options) *Crawler {
	return &Crawler{ws: ws, index: index, logger: logger, opts: opts}
}

// Crawl walks the reference graph from doc's use sites and returns the
// keep-set. Dequeue order follows enqueue order, so discovery is
// shortest-path-first when depth costs are uniform. No partial result is
// returned on error.
func (c *Crawler) Crawl(ctx context.Context, doc *semantic.Document) (*KeepSet, error) {
	if c.opts.Depth < 0 {
		return nil, errors.Newf(errors.InvalidArgument, nil, "depth must be >= 0, got %d", c.opts.Depth)
	}

	keep := NewKeepSet()
	exclude := NamespaceExclusion(c.opts.ExcludedNamespacePrefixes)
	reg := NewRegistry(c.ws, c.index, keep, exclude, c.logger, c.opts.KeepAllMembers)

	if err := c.collectRoots(ctx, doc, keep, reg); err != nil {
		return nil, err
	}

	queue, err := c.seed(ctx, doc, exclude)
	if err != nil {
		return nil, err
	}

	processed := make(map[string]struct{})
	for len(queue) > 0 {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}

		f := queue[0]
		queue = queue[1:]

		key := c.index.Key(f.sym)
		if _, done := processed[key]; done {
			continue
		}
		processed[key] = struct{}{}

		sym := c.index.Canonical(f.sym)
		if !sym.InSource {
			c.logger.Debug("skipping metadata-only symbol", "symbol", sym.Display)
			continue
		}
		if exclude(sym) {
			continue
		}

		owner, ok := c.ownerType(sym)
		if !ok {
			c.logger.Warn("no containing type for symbol, skipping", "symbol", sym.Display)
			continue
		}
		if exclude(owner) {
			continue
		}

		if c.opts.ExcludeRootDefinitions && c.ws.DeclaredInDocument(owner, doc) {
			// The owner is a root declaration: suppressed from the
			// output, and its members cannot contribute anything
			// the root's own use sites have not already seeded.
			continue
		}

		reg.Register(ctx, owner, sym, f.path.String())

		// Children are enumerated even with no budget left: hops that
		// stay within the owner type are free, so an exhausted budget
		// only prunes cross-type edges below.
		children, err := c.ws.ReferencedSymbols(ctx, sym)
		if err != nil {
			if cerr := cancelled(ctx); cerr != nil {
				return nil, cerr
			}
			c.logger.Warn("cannot resolve referenced symbols, skipping node", "symbol", sym.Display, "error", err.Error())
			continue
		}

		ownerKey := c.index.Key(owner)
		for _, child := range children {
			child = c.index.Canonical(child)
			if child == nil || !child.Kind.Crawlable() {
				continue
			}
			childOwner, ok := c.ownerType(child)
			if !ok {
				continue
			}
			if exclude(child) || exclude(childOwner) {
				continue
			}

			next := f.depthLeft
			if c.index.Key(childOwner) != ownerKey {
				next--
			}
			if next < 0 {
				continue
			}
			queue = append(queue, frontier{
				sym:       child,
				depthLeft: next,
				path:      f.path.Append(ReferenceStep(child)),
			})
		}
	}

	return keep, nil
}

// collectRoots marks every type declared in the document as a root and,
// unless root definitions are excluded, retains each root type with all of
// its declared members plus its transitive implemented interfaces.
func (c *Crawler) collectRoots(ctx context.Context, doc *semantic.Document, keep *KeepSet, reg *Registry) error {
	types, err := c.ws.DeclaredTypes(ctx, doc)
	if err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			return cerr
		}
		return errors.Newf(errors.Internal, err, "cannot enumerate declared types of %s", doc.RelativePath)
	}

	for _, t := range types {
		t = c.index.Canonical(t)
		if t == nil {
			continue
		}
		keep.MarkRoot(t.Display, t)

		if c.opts.ExcludeRootDefinitions {
			continue
		}

		declPath := DeclaredInFileStep(doc.RelativePath)
		reg.Register(ctx, t, t, declPath)

		members, err := c.ws.TypeMembers(ctx, t)
		if err != nil {
			c.logger.Warn("cannot enumerate root type members", "type", t.Display, "error", err.Error())
			continue
		}
		for _, m := range members {
			reg.Register(ctx, t, m, declPath)
		}

		ifaces, err := c.ws.Interfaces(ctx, t)
		if err != nil {
			c.logger.Warn("cannot enumerate implemented interfaces", "type", t.Display, "error", err.Error())
			continue
		}
		for _, iface := range ifaces {
			iface = c.index.Canonical(iface)
			if iface == nil || !iface.InSource {
				continue
			}
			ifacePath := ImplementsStep(t, iface)
			reg.Register(ctx, iface, iface, ifacePath)

			ifaceMembers, err := c.ws.TypeMembers(ctx, iface)
			if err != nil {
				continue
			}
			for _, im := range ifaceMembers {
				reg.Register(ctx, iface, im, ifacePath)
			}
		}
	}
	return nil
}

// seed builds the initial frontier from the document's use sites. The hop
// from the root document to the used symbol is charged like any other: free
// when the symbol's owner type is declared in the root document, one unit of
// budget otherwise.
func (c *Crawler) seed(ctx context.Context, doc *semantic.Document, exclude ExcludeFunc) ([]frontier, error) {
	sites, err := c.ws.UseSites(ctx, doc)
	if err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, errors.Newf(errors.Internal, err, "cannot enumerate use sites of %s", doc.RelativePath)
	}

	queue := make([]frontier, 0, len(sites))
	for _, site := range sites {
		sym := c.index.Canonical(site.Symbol)
		if sym == nil || !sym.Kind.Crawlable() {
			continue
		}
		if exclude(sym) {
			continue
		}

		depth := c.opts.Depth
		if owner, ok := c.ownerType(sym); !ok || !c.ws.DeclaredInDocument(owner, doc) {
			depth--
		}
		if depth < 0 {
			continue
		}
		queue = append(queue, frontier{
			sym:       sym,
			depthLeft: depth,
			path:      NewPath(UseSiteStep(site)),
		})
	}
	return queue, nil
}

// ownerType resolves the owner of a symbol: the symbol itself when it is a
// type, its containing type otherwise.
func (c *Crawler) ownerType(sym *semantic.Symbol) (*semantic.Symbol, bool) {
	if sym.IsType() {
		return sym, true
	}
	owner, ok := c.ws.ContainingType(sym)
	if !ok {
		return nil, false
	}
	return c.index.Canonical(owner), true
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.New(errors.Cancelled, "crawl cancelled", err)
	}
	return nil
}
