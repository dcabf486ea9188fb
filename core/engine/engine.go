// Package engine - Formula execution
// Evaluates a calculator's outputs in declaration order against one
// per-call context. Every output is attempted; a failing output is logged
// and recorded as 0 so the outputs after it still compute.
package engine

import (
	"go.uber.org/zap"

	"calcengine/core/calculator"
	"calcengine/core/expression"
	"calcengine/core/input"
	"calcengine/internal/logging"
)

// Engine computes calculator outputs. It holds no per-call state and is
// safe for concurrent use.
type Engine struct {
	store     *calculator.Store
	functions *expression.FunctionSet
	programs  map[string][]compiledOutput
}

type compiledOutput struct {
	name    string
	formula string
	program *expression.Program
	err     error
}

// OutputResult is the outcome of one output formula
type OutputResult struct {
	Name    string  `json:"name"`
	Formula string  `json:"formula"`
	Value   float64 `json:"value"`
	Err     error   `json:"-"`
}

// Failed reports whether the formula failed and the value was zeroed
func (o OutputResult) Failed() bool {
	return o.Err != nil
}

// Result holds every output of one computation in declaration order
type Result struct {
	Calculator string         `json:"calculator"`
	Outputs    []OutputResult `json:"outputs"`
}

// Values flattens the result into a name to value map
func (r Result) Values() map[string]float64 {
	out := make(map[string]float64, len(r.Outputs))
	for _, o := range r.Outputs {
		out[o.Name] = o.Value
	}
	return out
}

// Failures returns the outputs whose formula failed
func (r Result) Failures() []OutputResult {
	var failed []OutputResult
	for _, o := range r.Outputs {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// New creates an engine over a store. Every formula is compiled up front;
// a formula that does not compile fails each time its output is computed.
func New(store *calculator.Store, functions *expression.FunctionSet) *Engine {
	e := &Engine{
		store:     store,
		functions: functions,
		programs:  make(map[string][]compiledOutput, store.Len()),
	}

	for _, def := range store.List() {
		outputs := make([]compiledOutput, len(def.Outputs))
		for i, o := range def.Outputs {
			p, err := expression.Compile(o.Formula)
			if err != nil {
				logging.Warn("formula does not compile",
					logging.Calculator(def.ID),
					logging.Output(o.Name),
					zap.Error(err),
				)
			}
			outputs[i] = compiledOutput{name: o.Name, formula: o.Formula, program: p, err: err}
		}
		e.programs[def.ID] = outputs
	}
	return e
}

// Store returns the calculator store
func (e *Engine) Store() *calculator.Store {
	return e.store
}

// Functions returns the function set formulas are evaluated with
func (e *Engine) Functions() *expression.FunctionSet {
	return e.functions
}

// Compute evaluates every output of a calculator. An unknown calculator
// yields an empty map. Compute never returns an error.
func (e *Engine) Compute(calculatorID string, values map[string]interface{}) map[string]float64 {
	result, ok := e.ComputeDetailed(calculatorID, values)
	if !ok {
		return map[string]float64{}
	}
	return result.Values()
}

// ComputeDetailed is Compute with per-output errors. The bool is false when
// the calculator is unknown.
func (e *Engine) ComputeDetailed(calculatorID string, values map[string]interface{}) (Result, bool) {
	outputs, ok := e.programs[calculatorID]
	if !ok {
		logging.Warn("calculator not found", logging.Calculator(calculatorID))
		return Result{Calculator: calculatorID}, false
	}

	ctx := expression.NewContext(e.functions)
	ctx.SetVariables(input.Normalize(values))

	log := logging.ForCalculator(calculatorID)
	result := Result{
		Calculator: calculatorID,
		Outputs:    make([]OutputResult, 0, len(outputs)),
	}
	for _, o := range outputs {
		value, err := evaluate(o, ctx)
		if err != nil {
			log.Warn("output evaluation failed",
				logging.Output(o.name),
				logging.Expression(o.formula),
				zap.Error(err),
			)
			value = 0
		}
		ctx.SetVariable(o.name, value)
		result.Outputs = append(result.Outputs, OutputResult{
			Name:    o.name,
			Formula: o.formula,
			Value:   value,
			Err:     err,
		})
	}

	log.Debug("calculator computed", zap.Int("outputs", len(result.Outputs)))
	return result, true
}

// evaluate runs one output; a formula that did not compile fails here
func evaluate(o compiledOutput, ctx *expression.Context) (float64, error) {
	if o.err != nil {
		return 0, o.err
	}
	return o.program.Number(ctx)
}

