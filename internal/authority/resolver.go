package authority

// Assignment is the outcome of resolving one video's tags.
type Assignment struct {
	Original    []string `json:"original"`
	Validated   []string `json:"validated"`
	Unvalidated []string `json:"unvalidated"`
}

// SameSets reports whether both assignments hold the same validated and
// unvalidated tags, ignoring order.
func (a Assignment) SameSets(other Assignment) bool {
	return sameSet(a.Validated, other.Validated) && sameSet(a.Unvalidated, other.Unvalidated)
}

// Resolver maps raw tags to canonical names using a fixed index.
type Resolver struct {
	index *Index
}

// NewResolver builds a resolver over snap.
func NewResolver(snap *Snapshot) *Resolver {
	return &Resolver{index: BuildIndex(snap)}
}

// NewResolverFromIndex wraps an already built index.
func NewResolverFromIndex(idx *Index) *Resolver {
	return &Resolver{index: idx}
}

// Index exposes the alias index backing the resolver.
func (r *Resolver) Index() *Index {
	return r.index
}

// Resolve splits tags into canonical names and unknown tags. Validated names
// are deduplicated across the whole list in first-seen order; unvalidated tags
// keep their original spelling and are deduplicated exactly. Unknown tags are
// never an error.
func (r *Resolver) Resolve(tags []string) Assignment {
	out := Assignment{
		Original:    append([]string{}, tags...),
		Validated:   []string{},
		Unvalidated: []string{},
	}
	seenValid := make(map[string]struct{})
	seenRaw := make(map[string]struct{})
	for _, tag := range tags {
		if names, ok := r.index.Lookup(tag); ok {
			for _, name := range names {
				if _, dup := seenValid[name]; dup {
					continue
				}
				seenValid[name] = struct{}{}
				out.Validated = append(out.Validated, name)
			}
			continue
		}
		if _, dup := seenRaw[tag]; dup {
			continue
		}
		seenRaw[tag] = struct{}{}
		out.Unvalidated = append(out.Unvalidated, tag)
	}
	return out
}

func sameSet(a, b []string) bool {
	left := make(map[string]struct{}, len(a))
	for _, v := range a {
		left[v] = struct{}{}
	}
	right := make(map[string]struct{}, len(b))
	for _, v := range b {
		right[v] = struct{}{}
	}
	if len(left) != len(right) {
		return false
	}
	for v := range left {
		if _, ok := right[v]; !ok {
			return false
		}
	}
	return true
}
