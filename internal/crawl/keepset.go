// Package crawl implements the bounded reachability walk at the core of the
// extractor: starting from the use sites of an entry document it performs a
// breadth-first traversal of the reference graph, where hops within a type
// are free and hops across types spend one unit of the depth budget. The
// result is a keep-set mapping each reached owner type to the members that
// must survive emission, each with the set of inclusion paths that brought
// it in.
package crawl

import (
	"sort"

	"codeslice/internal/semantic"
)

// MemberInfo is a symbol chosen to be kept, with provenance. Paths are a
// set: duplicates collapse and ordering is not part of the contract.
type MemberInfo struct {
	Symbol *semantic.Symbol
	paths  map[string]struct{}
}

func newMemberInfo(sym *semantic.Symbol, path string) *MemberInfo {
	return &MemberInfo{
		Symbol: sym,
		paths:  map[string]struct{}{path: {}},
	}
}

// AddPath records one more inclusion path
func (m *MemberInfo) AddPath(path string) {
	m.paths[path] = struct{}{}
}

// Paths returns the inclusion paths, sorted for deterministic emission
func (m *MemberInfo) Paths() []string {
	out := make([]string, 0, len(m.paths))
	for p := range m.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HasPath reports whether the exact path string is recorded
func (m *MemberInfo) HasPath(path string) bool {
	_, ok := m.paths[path]
	return ok
}

// TypeEntry collects the kept members of one owner type, keyed by member
// display key
type TypeEntry struct {
	Type    *semantic.Symbol
	Members map[string]*MemberInfo
}

// MemberKeys returns the member keys in sorted order
func (e *TypeEntry) MemberKeys() []string {
	out := make([]string, 0, len(e.Members))
	for k := range e.Members {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KeepSet maps owner types to their retained members, plus the set of root
// types (those declared in any entry document).
type KeepSet struct {
	entries map[string]*TypeEntry
	order   []string // type keys in first-registration order
	roots   map[string]*semantic.Symbol
}

// NewKeepSet creates an empty keep-set
func NewKeepSet() *KeepSet {
	return &KeepSet{
		entries: make(map[string]*TypeEntry),
		roots:   make(map[string]*semantic.Symbol),
	}
}

// Register records that member (keyed memberKey) of owner (keyed ownerKey)
// must be kept, with the given inclusion path. It returns true when the
// owner type was not present before this call.
func (k *KeepSet) Register(ownerKey string, owner *semantic.Symbol, memberKey string, member *semantic.Symbol, path string) bool {
	entry, ok := k.entries[ownerKey]
	newType := !ok
	if newType {
		entry = &TypeEntry{
			Type:    owner,
			Members: make(map[string]*MemberInfo),
		}
		k.entries[ownerKey] = entry
		k.order = append(k.order, ownerKey)
	}

	if info, ok := entry.Members[memberKey]; ok {
		info.AddPath(path)
	} else {
		entry.Members[memberKey] = newMemberInfo(member, path)
	}
	return newType
}

// MarkRoot records that a type is declared in an entry document
func (k *KeepSet) MarkRoot(key string, typ *semantic.Symbol) {
	k.roots[key] = typ
}

// IsRoot reports whether the type key belongs to a root type
func (k *KeepSet) IsRoot(key string) bool {
	_, ok := k.roots[key]
	return ok
}

// Roots returns the root type keys in sorted order
func (k *KeepSet) Roots() []string {
	out := make([]string, 0, len(k.roots))
	for key := range k.roots {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Entry looks up the kept members of a type
func (k *KeepSet) Entry(key string) (*TypeEntry, bool) {
	e, ok := k.entries[key]
	return e, ok
}

// Has reports whether the type key is present
func (k *KeepSet) Has(key string) bool {
	_, ok := k.entries[key]
	return ok
}

// TypeKeys returns the kept type keys in first-registration order; the
// crawl is deterministic, so emission over this order is too.
func (k *KeepSet) TypeKeys() []string {
	return append([]string(nil), k.order...)
}

// Len returns the number of kept types
func (k *KeepSet) Len() int {
	return len(k.entries)
}

// Merge unions other into k: root sets union, and for every (type, member)
// pair the path sets union.
func (k *KeepSet) Merge(other *KeepSet) {
	for key, typ := range other.roots {
		k.roots[key] = typ
	}
	for _, key := range other.order {
		otherEntry := other.entries[key]
		entry, ok := k.entries[key]
		if !ok {
			entry = &TypeEntry{
				Type:    otherEntry.Type,
				Members: make(map[string]*MemberInfo),
			}
			k.entries[key] = entry
			k.order = append(k.order, key)
		}
		for mk, otherInfo := range otherEntry.Members {
			info, ok := entry.Members[mk]
			if !ok {
				info = &MemberInfo{
					Symbol: otherInfo.Symbol,
					paths:  make(map[string]struct{}),
				}
				entry.Members[mk] = info
			}
			for p := range otherInfo.paths {
				info.AddPath(p)
			}
		}
	}
}
