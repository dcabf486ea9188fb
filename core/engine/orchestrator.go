package engine

import (
	"calcengine/core/calculator"
	"calcengine/core/input"
	"calcengine/core/mapper"
	"calcengine/core/schema"
)

// Orchestrator is the entry point for callers that address calculators by
// engine id or content slug. It composes the schema registry, the mapper
// and the engine:
//
//	resolve id -> normalize -> add aliases -> fill defaults -> compute
type Orchestrator struct {
	schema *schema.Registry
	mapper *mapper.Mapper
	engine *Engine
}

// NewOrchestrator wires the components together
func NewOrchestrator(registry *schema.Registry, m *mapper.Mapper, e *Engine) *Orchestrator {
	return &Orchestrator{schema: registry, mapper: m, engine: e}
}

// Engine returns the underlying engine
func (o *Orchestrator) Engine() *Engine {
	return o.engine
}

// Schema returns the input schema registry
func (o *Orchestrator) Schema() *schema.Registry {
	return o.schema
}

// Mapper returns the alias and slug mapper
func (o *Orchestrator) Mapper() *mapper.Mapper {
	return o.mapper
}

// Resolve maps an id or slug to the engine id and the schema slug
func (o *Orchestrator) Resolve(idOrSlug string) (id, slug string) {
	id = o.mapper.CalculatorIDForSlug(idOrSlug)
	slug = o.mapper.MapCalculatorIDToSlug(id)
	return id, slug
}

// Prepare turns caller values into the variables a calculator's formulas
// see: numeric strings parsed, aliased keys added and schema defaults for
// inputs still absent. A default never hides a value supplied under an
// alias.
func (o *Orchestrator) Prepare(idOrSlug string, values map[string]interface{}) map[string]interface{} {
	_, slug := o.Resolve(idOrSlug)

	prepared := o.mapper.MapInputsForCalculator(slug, input.Normalize(values))
	if !o.schema.HasCalculator(slug) {
		return prepared
	}
	// defaults filed under an alias source still reach the target
	prepared = input.Overlay(input.Normalize(o.schema.Defaults(slug)), prepared)
	return o.mapper.MapInputsForCalculator(slug, prepared)
}

// Compute evaluates a calculator by id or slug. Unknown calculators
// yield an empty map.
func (o *Orchestrator) Compute(idOrSlug string, values map[string]interface{}) map[string]float64 {
	id, _ := o.Resolve(idOrSlug)
	return o.engine.Compute(id, o.Prepare(idOrSlug, values))
}

// ComputeDetailed is Compute with per-output errors
func (o *Orchestrator) ComputeDetailed(idOrSlug string, values map[string]interface{}) (Result, bool) {
	id, _ := o.Resolve(idOrSlug)
	return o.engine.ComputeDetailed(id, o.Prepare(idOrSlug, values))
}

// CalculatorInputs returns the resolved input fields, mandatory first
func (o *Orchestrator) CalculatorInputs(idOrSlug string) []schema.InputField {
	_, slug := o.Resolve(idOrSlug)
	return o.schema.CalculatorInputs(slug)
}

// CalculatorDefaults returns the default value of every input
func (o *Orchestrator) CalculatorDefaults(idOrSlug string) map[string]interface{} {
	_, slug := o.Resolve(idOrSlug)
	return o.schema.Defaults(slug)
}

// ValidateCalculatorInputs checks values against the calculator's
// mandatory inputs and reports every failure at once. Values supplied
// under an alias count for their target.
func (o *Orchestrator) ValidateCalculatorInputs(idOrSlug string, values map[string]interface{}) input.ValidationResult {
	_, slug := o.Resolve(idOrSlug)
	return input.Validate(o.schema.CalculatorInputs(slug), o.mapper.MapInputsForCalculator(slug, values))
}

// IsInputVisible reports whether a field is shown for the current values
func (o *Orchestrator) IsInputVisible(field schema.InputField, values map[string]interface{}) bool {
	return schema.IsInputVisible(field, values)
}

// Calculator returns a calculator definition by id or slug
func (o *Orchestrator) Calculator(idOrSlug string) (calculator.Definition, bool) {
	id, _ := o.Resolve(idOrSlug)
	return o.engine.Store().Get(id)
}

// Calculators lists every calculator definition
func (o *Orchestrator) Calculators() []calculator.Definition {
	return o.engine.Store().List()
}
