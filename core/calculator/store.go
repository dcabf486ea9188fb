package calculator

import (
	"fmt"
	"sort"
)

// Store is an immutable set of calculator definitions. It is built once and
// safe for concurrent reads.
type Store struct {
	defs map[string]Definition
	ids  []string
}

// NewStore validates and indexes the definitions
func NewStore(defs ...Definition) (*Store, error) {
	s := &Store{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := s.defs[d.ID]; exists {
			return nil, fmt.Errorf("calculator already defined: %s", d.ID)
		}
		s.defs[d.ID] = d.Clone()
		s.ids = append(s.ids, d.ID)
	}
	sort.Strings(s.ids)
	return s, nil
}

// MustNewStore is like NewStore but panics on invalid definitions
func MustNewStore(defs ...Definition) *Store {
	s, err := NewStore(defs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns a copy of the definition with the given id
func (s *Store) Get(id string) (Definition, bool) {
	d, ok := s.defs[id]
	if !ok {
		return Definition{}, false
	}
	return d.Clone(), true
}

// IDs returns the calculator ids, sorted
func (s *Store) IDs() []string {
	return append([]string(nil), s.ids...)
}

// List returns copies of all definitions, sorted by id
func (s *Store) List() []Definition {
	out := make([]Definition, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.defs[id].Clone())
	}
	return out
}

// Len returns the number of calculators
func (s *Store) Len() int {
	return len(s.defs)
}
