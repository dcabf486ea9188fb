// Package catalog - Calculator definition catalog
// Loads calculator definitions, input definitions, aliases and slug
// mappings from JSON, YAML and HCL files, merges them, and builds the
// immutable registries the engine runs on.
package catalog

import (
	"sort"

	"calcengine/core/calculator"
	"calcengine/core/engine"
	"calcengine/core/expression"
	"calcengine/core/mapper"
	"calcengine/core/schema"
	"calcengine/internal/errors"
)

// Catalog accumulates definition documents. It is not safe for concurrent
// use; Build produces the read-only Bundle that is.
type Catalog struct {
	inputs           map[string]schema.InputField
	inlineInputs     map[string]schema.InputField
	calculatorInputs map[string]schema.CalculatorInputs
	calculators      []calculator.Definition
	calculatorIndex  map[string]string // id -> source
	shared           map[string]string
	perCalc          map[string]map[string]string
	slugs            map[string]string
	sources          []string
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		inputs:           make(map[string]schema.InputField),
		inlineInputs:     make(map[string]schema.InputField),
		calculatorInputs: make(map[string]schema.CalculatorInputs),
		calculatorIndex:  make(map[string]string),
		shared:           make(map[string]string),
		perCalc:          make(map[string]map[string]string),
		slugs:            make(map[string]string),
	}
}

// Add merges a document. Calculator ids, master input ids and calculator
// input lists must be unique across documents; aliases and slugs may be
// repeated only with the same value.
func (c *Catalog) Add(doc Document, source string) error {
	for _, id := range sortedKeys(doc.InputDefinitions) {
		if _, exists := c.inputs[id]; exists {
			return errors.Configf("%s: input %q already defined", source, id)
		}
		c.inputs[id] = doc.InputDefinitions[id].Field(id)
	}

	for _, slug := range sortedKeys(doc.CalculatorInputs) {
		if _, exists := c.calculatorInputs[slug]; exists {
			return errors.Configf("%s: inputs for calculator %q already listed", source, slug)
		}
		c.calculatorInputs[slug] = doc.CalculatorInputs[slug]
	}

	for _, spec := range doc.Calculators {
		if spec.ID == "" {
			return errors.Configf("%s: calculator without id", source)
		}
		if prev, exists := c.calculatorIndex[spec.ID]; exists {
			return errors.Configf("%s: calculator %q already defined in %s", source, spec.ID, prev)
		}
		c.calculatorIndex[spec.ID] = source
		c.calculators = append(c.calculators, spec.Definition())

		if spec.Slug != "" {
			if err := c.addSlug(spec.ID, spec.Slug, source); err != nil {
				return err
			}
		}
		for _, in := range spec.Inputs {
			if in.ID == "" {
				return errors.Configf("%s: calculator %q has an inline input without id", source, spec.ID)
			}
			if _, exists := c.inlineInputs[in.ID]; !exists {
				c.inlineInputs[in.ID] = in.Field(in.ID)
			}
		}
	}

	for _, from := range sortedKeys(doc.Aliases.Shared) {
		if err := mergeAlias(c.shared, from, doc.Aliases.Shared[from], source); err != nil {
			return err
		}
	}
	for _, slug := range sortedKeys(doc.Aliases.Calculators) {
		table := c.perCalc[slug]
		if table == nil {
			table = make(map[string]string)
			c.perCalc[slug] = table
		}
		for _, from := range sortedKeys(doc.Aliases.Calculators[slug]) {
			if err := mergeAlias(table, from, doc.Aliases.Calculators[slug][from], source); err != nil {
				return err
			}
		}
	}

	for _, id := range sortedKeys(doc.CalculatorSlugs) {
		if err := c.addSlug(id, doc.CalculatorSlugs[id], source); err != nil {
			return err
		}
	}

	c.sources = append(c.sources, source)
	return nil
}

func (c *Catalog) addSlug(id, slug, source string) error {
	if prev, exists := c.slugs[id]; exists && prev != slug {
		return errors.Configf("%s: calculator %q mapped to slug %q and %q", source, id, prev, slug)
	}
	c.slugs[id] = slug
	return nil
}

func mergeAlias(table map[string]string, from, to, source string) error {
	if prev, exists := table[from]; exists && prev != to {
		return errors.Configf("%s: alias %q points to %q and %q", source, from, prev, to)
	}
	table[from] = to
	return nil
}

// Sources lists the documents added, in order
func (c *Catalog) Sources() []string {
	return append([]string(nil), c.sources...)
}

// Len returns the number of calculators
func (c *Catalog) Len() int {
	return len(c.calculators)
}

// SlugFor returns the content slug of a calculator id
func (c *Catalog) SlugFor(id string) string {
	if slug, ok := c.slugs[id]; ok {
		return slug
	}
	return id
}

// Bundle is the immutable result of building a catalog
type Bundle struct {
	Schema    *schema.Registry
	Store     *calculator.Store
	Mapper    *mapper.Mapper
	Functions *expression.FunctionSet
}

// Engine creates an engine over the bundle
func (b *Bundle) Engine() *engine.Engine {
	return engine.New(b.Store, b.Functions)
}

// Orchestrator creates the id-or-slug facade over the bundle
func (b *Bundle) Orchestrator() *engine.Orchestrator {
	return engine.NewOrchestrator(b.Schema, b.Mapper, b.Engine())
}

// Build validates the catalog and produces the registries. Master input
// definitions win over inline ones, and inline input lists are used only
// for calculators the master table does not list. Formulas are not compiled
// here: a formula that does not parse fails only its own output, and
// Inspect reports it as an error finding.
func (c *Catalog) Build(functions *expression.FunctionSet) (*Bundle, error) {
	registry := schema.NewRegistry()

	for _, id := range sortedKeys(c.inputs) {
		if err := registry.Define(c.inputs[id]); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "invalid input definition", err)
		}
	}
	for _, id := range sortedKeys(c.inlineInputs) {
		if _, ok := c.inputs[id]; ok {
			continue
		}
		if err := registry.Define(c.inlineInputs[id]); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "invalid inline input", err)
		}
	}

	for _, slug := range sortedKeys(c.calculatorInputs) {
		if err := registry.Assign(slug, c.calculatorInputs[slug]); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "invalid calculator inputs", err)
		}
	}
	for _, def := range c.calculators {
		slug := c.SlugFor(def.ID)
		if _, listed := c.calculatorInputs[slug]; listed || len(def.Inputs) == 0 {
			continue
		}
		var inputs schema.CalculatorInputs
		for _, ref := range def.Inputs {
			if ref.Required {
				inputs.Mandatory = append(inputs.Mandatory, ref.ID)
			} else {
				inputs.Optional = append(inputs.Optional, ref.ID)
			}
		}
		if err := registry.Assign(slug, inputs); err != nil {
			return nil, errors.Wrapf(errors.TypeConfig, err, "calculator %q", def.ID)
		}
	}
	registry.Seal()

	defs := make([]calculator.Definition, len(c.calculators))
	for i, def := range c.calculators {
		if def.Slug == "" {
			def.Slug = c.SlugFor(def.ID)
		}
		defs[i] = def
	}
	store, err := calculator.NewStore(defs...)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid calculator", err)
	}

	m, err := mapper.New(mapper.AliasTable{Shared: c.shared, Calculators: c.perCalc}, c.slugs)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid alias table", err)
	}

	return &Bundle{Schema: registry, Store: store, Mapper: m, Functions: functions}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
