package store

import "sort"

// SeenSet is the set of listing identifiers observed in prior runs. It only
// ever grows; stale identifiers are harmless.
type SeenSet map[string]struct{}

// NewSeenSet creates a seen-set pre-populated with the given identifiers
func NewSeenSet(ids ...string) SeenSet {
	s := make(SeenSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether the identifier has been seen
func (s SeenSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks an identifier as seen
func (s SeenSet) Add(id string) {
	s[id] = struct{}{}
}

// Len returns the number of identifiers in the set
func (s SeenSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set
func (s SeenSet) Clone() SeenSet {
	clone := make(SeenSet, len(s))
	for id := range s {
		clone[id] = struct{}{}
	}
	return clone
}

// IDs returns the identifiers in sorted order for stable persistence
func (s SeenSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SeenStore persists the seen-set between runs
type SeenStore interface {
	// Load reads the persisted seen-set. A missing or unreadable backing
	// file yields an empty set, never an error.
	Load() (SeenSet, error)

	// Save persists the seen-set as a whole-file snapshot
	Save(SeenSet) error
}
