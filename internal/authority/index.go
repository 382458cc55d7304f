package authority

import (
	"sort"

	"posawiki/internal/textutil"
)

// Index maps folded aliases to the ordered set of canonical names they
// resolve to. It is derived from a Snapshot and never mutated afterwards.
type Index struct {
	entries map[string][]string
}

// MultiMapping is an alias that resolves to more than one authority.
type MultiMapping struct {
	Alias string   `json:"alias"`
	Names []string `json:"canonical_names"`
}

// BuildIndex derives the alias index from snap. Authorities are visited in
// definition order, so the order of names within an entry is deterministic.
func BuildIndex(snap *Snapshot) *Index {
	idx := &Index{entries: make(map[string][]string)}
	if snap == nil {
		return idx
	}
	for _, auth := range snap.authorities {
		for _, alias := range auth.Aliases {
			key := textutil.FoldKey(alias)
			names := idx.entries[key]
			if !containsString(names, auth.CanonicalName) {
				idx.entries[key] = append(names, auth.CanonicalName)
			}
		}
	}
	return idx
}

// Lookup returns the canonical names for a raw tag.
func (i *Index) Lookup(tag string) ([]string, bool) {
	if i == nil {
		return nil, false
	}
	names, ok := i.entries[textutil.FoldKey(tag)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), names...), true
}

// Contains reports whether tag resolves to at least one authority.
func (i *Index) Contains(tag string) bool {
	if i == nil {
		return false
	}
	_, ok := i.entries[textutil.FoldKey(tag)]
	return ok
}

// Len returns the number of distinct folded aliases.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// MultiMapped lists aliases shared by several authorities, sorted by alias.
func (i *Index) MultiMapped() []MultiMapping {
	if i == nil {
		return nil
	}
	var out []MultiMapping
	for alias, names := range i.entries {
		if len(names) > 1 {
			out = append(out, MultiMapping{Alias: alias, Names: append([]string(nil), names...)})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Alias < out[b].Alias })
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
