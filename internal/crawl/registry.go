package crawl

import (
	"context"
	"strings"

	"codeslice/internal/identity"
	"codeslice/internal/logging"
	"codeslice/internal/semantic"
)

// ExcludeFunc decides whether a symbol is filtered from the crawl entirely.
// The exclusion policy is data passed to the registry, not behaviour captured
// in a closure over the keep-set.
type ExcludeFunc func(*semantic.Symbol) bool

// NamespaceExclusion builds the standard exclusion predicate: a symbol is
// filtered when its containing namespace begins with any of the tokens.
func NamespaceExclusion(prefixes []string) ExcludeFunc {
	tokens := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return func(s *semantic.Symbol) bool {
		if s == nil {
			return true
		}
		for _, tok := range tokens {
			if strings.HasPrefix(s.Namespace, tok) {
				return true
			}
		}
		return false
	}
}

// Registry mediates every insertion into the keep-set: it canonicalises
// symbols, applies the exclusion policy, and performs mandatory inclusion
// whenever a type is first retained.
type Registry struct {
	ws      semantic.Workspace
	index   *identity.Index
	keep    *KeepSet
	exclude ExcludeFunc
	logger  *logging.Logger

	// keepAllMembers widens registration to every declared member of a
	// newly retained type; used by the full (non-minimal) walk
	keepAllMembers bool
}

// NewRegistry creates a registry writing into keep
func NewRegistry(ws semantic.Workspace, index *identity.Index, keep *KeepSet, exclude ExcludeFunc, logger *logging.Logger, keepAllMembers bool) *Registry {
	if exclude == nil {
		exclude = func(*semantic.Symbol) bool { return false }
	}
	return &Registry{
		ws:             ws,
		index:          index,
		keep:           keep,
		exclude:        exclude,
		logger:         logger,
		keepAllMembers: keepAllMembers,
	}
}

// Register retains member under owner with the given inclusion path. Symbols
// in excluded namespaces never enter the keep-set. When owner is retained
// for the first time its static constructors and const/static-readonly
// fields are retained too: construction or initialization of the type
// implicitly depends on them.
func (r *Registry) Register(ctx context.Context, owner, member *semantic.Symbol, path string) {
	owner = r.index.Canonical(owner)
	member = r.index.Canonical(member)
	if owner == nil || member == nil {
		return
	}
	if r.exclude(owner) || r.exclude(member) {
		return
	}

	ownerKey := owner.Display
	memberKey := member.Display
	newType := r.keep.Register(ownerKey, owner, memberKey, member, path)
	if !newType {
		return
	}

	r.registerMandatory(ctx, owner, ownerKey)
	if r.keepAllMembers {
		r.registerAll(ctx, owner, ownerKey, path)
	}
}

func (r *Registry) registerMandatory(ctx context.Context, owner *semantic.Symbol, ownerKey string) {
	members, err := r.ws.TypeMembers(ctx, owner)
	if err != nil {
		r.logger.Warn("cannot enumerate members for mandatory inclusion", "type", owner.Display, "error", err.Error())
		return
	}
	path := StaticInitStep(owner)
	for _, m := range members {
		m = r.index.Canonical(m)
		if m == nil || !m.MandatoryMember() {
			continue
		}
		if r.exclude(m) {
			continue
		}
		r.keep.Register(ownerKey, owner, m.Display, m, path)
	}
}

func (r *Registry) registerAll(ctx context.Context, owner *semantic.Symbol, ownerKey, path string) {
	members, err := r.ws.TypeMembers(ctx, owner)
	if err != nil {
		r.logger.Warn("cannot enumerate members", "type", owner.Display, "error", err.Error())
		return
	}
	for _, m := range members {
		m = r.index.Canonical(m)
		if m == nil || r.exclude(m) {
			continue
		}
		r.keep.Register(ownerKey, owner, m.Display, m, path)
	}
}
