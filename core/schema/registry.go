package schema

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"calcengine/core/expression"
	"calcengine/internal/logging"
)

// CalculatorInputs lists the input ids a calculator requires and accepts
type CalculatorInputs struct {
	Mandatory []string `json:"mandatory"`
	Optional  []string `json:"optional"`
}

// IDs returns mandatory then optional ids
func (c CalculatorInputs) IDs() []string {
	ids := make([]string, 0, len(c.Mandatory)+len(c.Optional))
	ids = append(ids, c.Mandatory...)
	return append(ids, c.Optional...)
}

// Registry holds the input definitions and per-calculator input lists.
// Registration fails once the registry is sealed.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]InputField
	calculators map[string]CalculatorInputs
	sealed      bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]InputField),
		calculators: make(map[string]CalculatorInputs),
	}
}

// Define adds an input definition
func (r *Registry) Define(field InputField) error {
	if err := field.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("registry is sealed: cannot define input %q", field.ID)
	}
	if _, exists := r.definitions[field.ID]; exists {
		return fmt.Errorf("input already defined: %s", field.ID)
	}
	field.Required = false
	r.definitions[field.ID] = field
	return nil
}

// Assign records the input lists of a calculator. Ids are checked against
// the definitions when the registry is sealed, not here, so calculators
// may be assigned before their inputs are defined.
func (r *Registry) Assign(calculator string, inputs CalculatorInputs) error {
	if calculator == "" {
		return fmt.Errorf("calculator id is empty")
	}

	seen := make(map[string]bool)
	for _, id := range inputs.IDs() {
		if seen[id] {
			return fmt.Errorf("calculator %q lists input %q more than once", calculator, id)
		}
		seen[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("registry is sealed: cannot assign inputs to %q", calculator)
	}
	if _, exists := r.calculators[calculator]; exists {
		return fmt.Errorf("calculator inputs already assigned: %s", calculator)
	}
	r.calculators[calculator] = CalculatorInputs{
		Mandatory: append([]string(nil), inputs.Mandatory...),
		Optional:  append([]string(nil), inputs.Optional...),
	}
	return nil
}

// Seal freezes the registry and returns the unresolved input references,
// keyed by calculator. Each is logged; they are skipped at lookup time.
func (r *Registry) Seal() map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
	unresolved := r.unresolvedLocked()
	for _, calc := range sortedKeys(unresolved) {
		logging.Warn("calculator references undefined inputs",
			logging.Calculator(calc),
			zap.Strings("inputs", unresolved[calc]),
		)
	}
	return unresolved
}

// IsSealed reports whether the registry accepts no more registrations
func (r *Registry) IsSealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Unresolved returns, per calculator, the listed ids with no definition
func (r *Registry) Unresolved() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.unresolvedLocked()
}

func (r *Registry) unresolvedLocked() map[string][]string {
	out := make(map[string][]string)
	for calc, inputs := range r.calculators {
		for _, id := range inputs.IDs() {
			if _, ok := r.definitions[id]; !ok {
				out[calc] = append(out[calc], id)
			}
		}
	}
	return out
}

// Definition returns the input definition for id
func (r *Registry) Definition(id string) (InputField, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.definitions[id]
	return f, ok
}

// HasCalculator reports whether inputs are assigned for the calculator
func (r *Registry) HasCalculator(calculator string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.calculators[calculator]
	return ok
}

// CalculatorInputConfig returns the mandatory and optional ids of a
// calculator. An unknown calculator yields empty lists and a warning.
func (r *Registry) CalculatorInputConfig(calculator string) CalculatorInputs {
	r.mu.RLock()
	cfg, ok := r.calculators[calculator]
	r.mu.RUnlock()

	if !ok {
		logging.Warn("no input configuration for calculator", logging.Calculator(calculator))
		return CalculatorInputs{Mandatory: []string{}, Optional: []string{}}
	}
	return CalculatorInputs{
		Mandatory: append([]string{}, cfg.Mandatory...),
		Optional:  append([]string{}, cfg.Optional...),
	}
}

// CalculatorInputs resolves the input fields of a calculator, mandatory
// first. Ids without a definition are skipped.
func (r *Registry) CalculatorInputs(calculator string) []InputField {
	cfg := r.CalculatorInputConfig(calculator)

	fields := make([]InputField, 0, len(cfg.Mandatory)+len(cfg.Optional))
	add := func(ids []string, required bool) {
		for _, id := range ids {
			f, ok := r.Definition(id)
			if !ok {
				logging.Debug("skipping undefined input",
					logging.Calculator(calculator),
					zap.String("input", id),
				)
				continue
			}
			f.Required = required
			fields = append(fields, f)
		}
	}
	add(cfg.Mandatory, true)
	add(cfg.Optional, false)
	return fields
}

// Defaults returns the default value of every resolved input of a calculator
func (r *Registry) Defaults(calculator string) map[string]interface{} {
	defaults := make(map[string]interface{})
	for _, f := range r.CalculatorInputs(calculator) {
		defaults[f.ID] = f.DefaultValue()
	}
	return defaults
}

// Calculators returns the ids with assigned inputs, sorted
func (r *Registry) Calculators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.calculators))
	for name := range r.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefinitionIDs returns every defined input id, sorted
func (r *Registry) DefinitionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.definitions))
	for id := range r.definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsInputVisible is true unless the field is conditional on another input
// whose current value is falsy
func IsInputVisible(field InputField, values map[string]interface{}) bool {
	if field.Conditional == "" {
		return true
	}
	return expression.Truthy(values[field.Conditional])
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
