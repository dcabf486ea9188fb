package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"calcengine/core/calculator"
	"calcengine/core/expression"
	"calcengine/core/taxrules"
	"calcengine/internal/errors"
	"calcengine/internal/logging"
)

func outputs(pairs ...string) []calculator.Output {
	out := make([]calculator.Output, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, calculator.Output{Name: pairs[i], Formula: pairs[i+1]})
	}
	return out
}

func fixtureEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := calculator.NewStore(
		calculator.Definition{ID: "chain", Outputs: outputs("a", "x + 1", "b", "a * 2")},
		calculator.Definition{ID: "isolation", Outputs: outputs("a", "1/0 * undeclaredVar", "b", "x + 1")},
		calculator.Definition{ID: "forward", Outputs: outputs("a", "b + 1", "b", "2")},
		calculator.Definition{ID: "bad-syntax", Outputs: outputs("a", "1 +", "b", "3")},
		calculator.Definition{ID: "branching", Outputs: outputs("rate", "status === 'married' ? 0.1 : 0.2", "tax", "income * rate")},
		calculator.Definition{ID: "panicky", Outputs: outputs("a", "explode(1)", "b", "7")},
		calculator.Definition{
			ID: "ireland-hourly-to-salary",
			Inputs: []calculator.InputRef{
				{ID: "hourlyRate", Required: true},
				{ID: "hoursPerWeek", Required: true},
			},
			Outputs: outputs(
				"grossAnnual", "hourlyRate * hoursPerWeek * 52",
				"netAnnual", "grossAnnual - irelandTax(grossAnnual)",
			),
		},
	)
	require.NoError(t, err)

	functions := taxrules.Functions().Merge(expression.NewFunctionSet().Unary("explode", func(float64) float64 {
		panic("boom")
	}))
	return New(store, functions)
}

func quietLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	previous := logging.Logger
	t.Cleanup(func() { logging.SetLogger(previous) })

	core, logs := observer.New(zapcore.WarnLevel)
	logging.SetLogger(zap.New(core))
	return logs
}

func TestDeclarationOrderDependency(t *testing.T) {
	e := fixtureEngine(t)
	assert.Equal(t, map[string]float64{"a": 6, "b": 12}, e.Compute("chain", map[string]interface{}{"x": 5}))
}

func TestNumericStringsAreNormalized(t *testing.T) {
	e := fixtureEngine(t)
	assert.Equal(t, map[string]float64{"a": 6, "b": 12}, e.Compute("chain", map[string]interface{}{"x": "5"}))
}

func TestUnboundReferenceIsolation(t *testing.T) {
	logs := quietLogs(t)
	e := fixtureEngine(t)

	got := e.Compute("isolation", map[string]interface{}{"x": 4})
	assert.Equal(t, map[string]float64{"a": 0, "b": 5}, got)

	failed := logs.FilterMessage("output evaluation failed").All()
	require.Len(t, failed, 1)
	fields := failed[0].ContextMap()
	assert.Equal(t, "isolation", fields["calculator"])
	assert.Equal(t, "a", fields["output"])
	assert.Equal(t, "1/0 * undeclaredVar", fields["expression"])
}

func TestForwardReferenceFails(t *testing.T) {
	quietLogs(t)
	e := fixtureEngine(t)

	result, ok := e.ComputeDetailed("forward", nil)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"a": 0, "b": 2}, result.Values())

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "a", failures[0].Name)
	assert.True(t, errors.IsType(failures[0].Err, errors.TypeEvaluation))
}

func TestSyntaxErrorIsPerOutput(t *testing.T) {
	quietLogs(t)
	e := fixtureEngine(t)

	result, ok := e.ComputeDetailed("bad-syntax", nil)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"a": 0, "b": 3}, result.Values())
	assert.True(t, errors.IsType(result.Outputs[0].Err, errors.TypeParsing))
}

func TestPanickingHelperIsContained(t *testing.T) {
	quietLogs(t)
	e := fixtureEngine(t)

	result, ok := e.ComputeDetailed("panicky", nil)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"a": 0, "b": 7}, result.Values())
	assert.True(t, errors.IsType(result.Outputs[0].Err, errors.TypeInternal))
}

func TestStringInputsBranch(t *testing.T) {
	e := fixtureEngine(t)

	assert.InDelta(t, 1000.0, e.Compute("branching", map[string]interface{}{"status": "married", "income": 10000})["tax"], 1e-9)
	assert.InDelta(t, 2000.0, e.Compute("branching", map[string]interface{}{"status": "single", "income": "10000"})["tax"], 1e-9)
}

func TestUnknownCalculator(t *testing.T) {
	logs := quietLogs(t)
	e := fixtureEngine(t)

	var got map[string]float64
	assert.NotPanics(t, func() { got = e.Compute("does-not-exist", map[string]interface{}{}) })
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, ok := e.ComputeDetailed("does-not-exist", nil)
	assert.False(t, ok)

	warned := logs.FilterMessage("calculator not found").All()
	require.NotEmpty(t, warned)
	assert.Equal(t, "does-not-exist", warned[0].ContextMap()["calculator"])
}

func TestIrelandEndToEnd(t *testing.T) {
	e := fixtureEngine(t)

	got := e.Compute("ireland-hourly-to-salary", map[string]interface{}{"hourlyRate": 20, "hoursPerWeek": 40})
	assert.Equal(t, 41600.0, got["grossAnnual"])
	assert.Less(t, got["netAnnual"], got["grossAnnual"])
	assert.Greater(t, got["netAnnual"], 0.0)
	assert.InDelta(t, 34780.4, got["netAnnual"], 1e-6)
}

func TestComputeIsDeterministic(t *testing.T) {
	e := fixtureEngine(t)
	values := map[string]interface{}{"hourlyRate": 27.5, "hoursPerWeek": 37.5}

	first := e.Compute("ireland-hourly-to-salary", values)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Compute("ireland-hourly-to-salary", values))
	}
}

func TestDetailedResultKeepsDeclarationOrder(t *testing.T) {
	e := fixtureEngine(t)
	result, ok := e.ComputeDetailed("ireland-hourly-to-salary", map[string]interface{}{"hourlyRate": 20, "hoursPerWeek": 40})
	require.True(t, ok)

	require.Len(t, result.Outputs, 2)
	assert.Equal(t, "grossAnnual", result.Outputs[0].Name)
	assert.Equal(t, "netAnnual", result.Outputs[1].Name)
	assert.Equal(t, "hourlyRate * hoursPerWeek * 52", result.Outputs[0].Formula)
	assert.Empty(t, result.Failures())
}

func TestInputsAreNotMutated(t *testing.T) {
	e := fixtureEngine(t)
	values := map[string]interface{}{"x": "5"}
	e.Compute("chain", values)
	assert.Equal(t, map[string]interface{}{"x": "5"}, values)
}

func TestConcurrentCompute(t *testing.T) {
	e := fixtureEngine(t)

	var wg sync.WaitGroup
	results := make([]map[string]float64, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Compute("ireland-hourly-to-salary", map[string]interface{}{
				"hourlyRate":   float64(10 + i%4),
				"hoursPerWeek": 40,
			})
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, float64(10+i%4)*40*52, got["grossAnnual"], "goroutine %d", i)
		assert.Equal(t, results[i%4], got)
	}
}
