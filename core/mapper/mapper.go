// Package mapper - Input aliasing and calculator id mapping
// Exposes an input entered under one name under the name a formula
// expects, and maps engine calculator ids to content slugs.
package mapper

import (
	"fmt"
	"sort"
)

// AliasTable maps a source input id to the id formulas read. Calculator
// entries are keyed by slug and override shared entries with the same
// source; an empty target disables a shared alias for that calculator.
type AliasTable struct {
	Shared      map[string]string            `json:"shared,omitempty" yaml:"shared"`
	Calculators map[string]map[string]string `json:"calculators,omitempty" yaml:"calculators"`
}

// Mapper is immutable once built and safe for concurrent use
type Mapper struct {
	shared  map[string]string
	perCalc map[string]map[string]string
	slugs   map[string]string // calculator id -> slug
	ids     map[string]string // slug -> calculator id
}

// New builds a mapper from an alias table and an id-to-slug table
func New(aliases AliasTable, slugs map[string]string) (*Mapper, error) {
	m := &Mapper{
		shared:  make(map[string]string, len(aliases.Shared)),
		perCalc: make(map[string]map[string]string, len(aliases.Calculators)),
		slugs:   make(map[string]string, len(slugs)),
		ids:     make(map[string]string, len(slugs)),
	}

	for from, to := range aliases.Shared {
		if err := checkAlias(from, to); err != nil {
			return nil, err
		}
		if to != "" {
			m.shared[from] = to
		}
	}
	for slug, table := range aliases.Calculators {
		entries := make(map[string]string, len(table))
		for from, to := range table {
			if err := checkAlias(from, to); err != nil {
				return nil, fmt.Errorf("calculator %q: %w", slug, err)
			}
			entries[from] = to
		}
		m.perCalc[slug] = entries
	}

	for id, slug := range slugs {
		if id == "" || slug == "" {
			return nil, fmt.Errorf("calculator slug mapping has an empty side: %q -> %q", id, slug)
		}
		if other, exists := m.ids[slug]; exists && other != id {
			return nil, fmt.Errorf("slug %q is mapped from both %q and %q", slug, other, id)
		}
		m.slugs[id] = slug
		m.ids[slug] = id
	}
	return m, nil
}

func checkAlias(from, to string) error {
	if from == "" {
		return fmt.Errorf("alias has an empty source")
	}
	if from == to {
		return fmt.Errorf("alias %q maps to itself", from)
	}
	return nil
}

// Aliases returns the effective source-to-target table for a calculator
func (m *Mapper) Aliases(slug string) map[string]string {
	out := make(map[string]string, len(m.shared))
	for from, to := range m.shared {
		out[from] = to
	}
	for from, to := range m.perCalc[slug] {
		if to == "" {
			delete(out, from)
			continue
		}
		out[from] = to
	}
	return out
}

// MapInputsForCalculator copies values and adds each aliased key next to
// its source. Source keys are kept, existing keys are never overwritten and
// aliases do not chain.
func (m *Mapper) MapInputsForCalculator(slug string, values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		out[k] = v
	}

	aliases := m.Aliases(slug)
	sources := make([]string, 0, len(aliases))
	for from := range aliases {
		sources = append(sources, from)
	}
	sort.Strings(sources)

	for _, from := range sources {
		v, ok := values[from]
		if !ok {
			continue
		}
		to := aliases[from]
		if _, exists := out[to]; exists {
			continue
		}
		out[to] = v
	}
	return out
}

// MapCalculatorIDToSlug returns the slug registered for an engine id, or
// the id itself when none is registered
func (m *Mapper) MapCalculatorIDToSlug(id string) string {
	if slug, ok := m.slugs[id]; ok {
		return slug
	}
	return id
}

// CalculatorIDForSlug is the reverse lookup, with the same identity fallback
func (m *Mapper) CalculatorIDForSlug(slug string) string {
	if id, ok := m.ids[slug]; ok {
		return id
	}
	return slug
}

// AliasSources returns every source id in the table, sorted
func (m *Mapper) AliasSources() []string {
	set := make(map[string]bool)
	for from := range m.shared {
		set[from] = true
	}
	for _, table := range m.perCalc {
		for from, to := range table {
			if to != "" {
				set[from] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for from := range set {
		out = append(out, from)
	}
	sort.Strings(out)
	return out
}

// Slugs returns a copy of the id-to-slug table
func (m *Mapper) Slugs() map[string]string {
	out := make(map[string]string, len(m.slugs))
	for id, slug := range m.slugs {
		out[id] = slug
	}
	return out
}
