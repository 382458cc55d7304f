package authority

import (
	"fmt"
	"strings"

	"posawiki/internal/textutil"
	"posawiki/internal/validation"
)

// Snapshot is an immutable, validated authority table.
type Snapshot struct {
	authorities []Authority
	byName      map[string]int
}

var inputValidator = validation.New()

// NewSnapshot validates authorities and freezes them into a Snapshot.
// Canonical names must be unique and aliases must be unique (ignoring case)
// within one authority. The input slice is copied.
func NewSnapshot(authorities []Authority) (*Snapshot, error) {
	snap := &Snapshot{
		authorities: make([]Authority, 0, len(authorities)),
		byName:      make(map[string]int, len(authorities)),
	}
	for i, raw := range authorities {
		auth := raw.clone()
		auth.CanonicalName = strings.TrimSpace(auth.CanonicalName)
		auth.Description = strings.TrimSpace(auth.Description)
		for j := range auth.Aliases {
			auth.Aliases[j] = strings.TrimSpace(auth.Aliases[j])
		}
		if err := inputValidator.Validate("authority", auth); err != nil {
			return nil, fmt.Errorf("%w: entry %d (%q): %v", ErrInvalid, i, auth.CanonicalName, err)
		}
		category, err := ParseCategory(string(auth.Category))
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, auth.CanonicalName, err)
		}
		auth.Category = category

		if _, dup := snap.byName[auth.CanonicalName]; dup {
			return nil, fmt.Errorf("%w: canonical name %q defined twice", ErrInvalid, auth.CanonicalName)
		}
		seen := make(map[string]string, len(auth.Aliases))
		for _, alias := range auth.Aliases {
			key := textutil.FoldKey(alias)
			if prev, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: %q lists alias %q twice (as %q)", ErrInvalid, auth.CanonicalName, alias, prev)
			}
			seen[key] = alias
		}

		snap.byName[auth.CanonicalName] = len(snap.authorities)
		snap.authorities = append(snap.authorities, auth)
	}
	return snap, nil
}

// Len reports the number of authorities.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.authorities)
}

// Authorities returns a copy of the table in definition order.
func (s *Snapshot) Authorities() []Authority {
	if s == nil {
		return nil
	}
	out := make([]Authority, len(s.authorities))
	for i, a := range s.authorities {
		out[i] = a.clone()
	}
	return out
}

// Get returns the authority with the given canonical name.
func (s *Snapshot) Get(name string) (Authority, bool) {
	if s == nil {
		return Authority{}, false
	}
	idx, ok := s.byName[strings.TrimSpace(name)]
	if !ok {
		return Authority{}, false
	}
	return s.authorities[idx].clone(), true
}

// AliasCount returns the total number of alias spellings across all authorities.
func (s *Snapshot) AliasCount() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, a := range s.authorities {
		total += len(a.Aliases)
	}
	return total
}

// CategoryCounts returns how many authorities fall in each category.
func (s *Snapshot) CategoryCounts() map[Category]int {
	counts := make(map[Category]int, len(categories))
	if s == nil {
		return counts
	}
	for _, a := range s.authorities {
		counts[a.Category]++
	}
	return counts
}
