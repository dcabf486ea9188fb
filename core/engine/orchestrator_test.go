package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcengine/core/calculator"
	"calcengine/core/mapper"
	"calcengine/core/schema"
	"calcengine/core/taxrules"
)

const (
	salaryID   = "ireland-hourly-to-salary"
	salarySlug = "hourly-to-salary-ireland"
)

func fixtureOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()

	reg := schema.NewRegistry()
	require.NoError(t, reg.Define(schema.InputField{ID: "hourlyRate", Label: "Hourly rate", Type: schema.TypeNumber, Min: schema.Float(0)}))
	require.NoError(t, reg.Define(schema.InputField{ID: "hoursPerWeek", Label: "Hours per week", Type: schema.TypeNumber, Default: 39, Min: schema.Float(0), Max: schema.Float(100)}))
	require.NoError(t, reg.Define(schema.InputField{ID: "paymentFrequency", Label: "Pay frequency", Type: schema.TypeSelect, Options: []schema.Option{
		{Value: "monthly", Label: "Monthly"},
		{Value: "weekly", Label: "Weekly"},
	}}))
	require.NoError(t, reg.Assign(salarySlug, schema.CalculatorInputs{
		Mandatory: []string{"hourlyRate", "hoursPerWeek"},
		Optional:  []string{"paymentFrequency"},
	}))
	reg.Seal()

	m, err := mapper.New(mapper.AliasTable{
		Shared: map[string]string{"paymentFrequency": "payFrequency"},
	}, map[string]string{salaryID: salarySlug})
	require.NoError(t, err)

	store := calculator.MustNewStore(calculator.Definition{
		ID: salaryID,
		Outputs: outputs(
			"grossAnnual", "hourlyRate * hoursPerWeek * 52",
			"netAnnual", "grossAnnual - irelandTax(grossAnnual)",
			"netPerPeriod", "payFrequency == 'weekly' ? netAnnual / 52 : netAnnual / 12",
		),
	})
	return NewOrchestrator(reg, m, New(store, taxrules.Functions()))
}

func TestOrchestratorComputeByIDOrSlug(t *testing.T) {
	o := fixtureOrchestrator(t)
	values := map[string]interface{}{"hourlyRate": "20", "hoursPerWeek": "40"}

	byID := o.Compute(salaryID, values)
	bySlug := o.Compute(salarySlug, values)
	assert.Equal(t, byID, bySlug)
	assert.Equal(t, 41600.0, byID["grossAnnual"])
}

func TestOrchestratorFillsDefaults(t *testing.T) {
	o := fixtureOrchestrator(t)

	got := o.Compute(salarySlug, map[string]interface{}{"hourlyRate": 20})
	assert.Equal(t, 20.0*39*52, got["grossAnnual"])
	assert.InDelta(t, got["netAnnual"]/12, got["netPerPeriod"], 1e-9, "default select option is monthly")
}

func TestOrchestratorAppliesAliases(t *testing.T) {
	o := fixtureOrchestrator(t)

	got := o.Compute(salaryID, map[string]interface{}{"hourlyRate": 20, "hoursPerWeek": 40, "paymentFrequency": "weekly"})
	assert.InDelta(t, got["netAnnual"]/52, got["netPerPeriod"], 1e-9)

	prepared := o.Prepare(salaryID, map[string]interface{}{"paymentFrequency": "weekly"})
	assert.Equal(t, "weekly", prepared["paymentFrequency"])
	assert.Equal(t, "weekly", prepared["payFrequency"])
}

func TestOrchestratorUnknownCalculator(t *testing.T) {
	quietLogs(t)
	o := fixtureOrchestrator(t)

	assert.Empty(t, o.Compute("does-not-exist", map[string]interface{}{}))
	assert.Empty(t, o.CalculatorInputs("does-not-exist"))
	assert.Empty(t, o.CalculatorDefaults("does-not-exist"))
	assert.True(t, o.ValidateCalculatorInputs("does-not-exist", nil).IsValid)
}

func TestOrchestratorValidation(t *testing.T) {
	o := fixtureOrchestrator(t)

	result := o.ValidateCalculatorInputs(salaryID, map[string]interface{}{})
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 2)

	result = o.ValidateCalculatorInputs(salarySlug, map[string]interface{}{"hourlyRate": 20, "hoursPerWeek": 150})
	assert.False(t, result.IsValid)
	assert.Equal(t, map[string]string{"hoursPerWeek": "Hours per week must be at most 100"}, result.Errors)

	assert.True(t, o.ValidateCalculatorInputs(salarySlug, map[string]interface{}{"hourlyRate": 20, "hoursPerWeek": 40}).IsValid)
}

func TestOrchestratorInputsAndDefaults(t *testing.T) {
	o := fixtureOrchestrator(t)

	fields := o.CalculatorInputs(salaryID)
	require.Len(t, fields, 3)
	assert.Equal(t, "hourlyRate", fields[0].ID)
	assert.True(t, fields[0].Required)
	assert.False(t, fields[2].Required)

	assert.Equal(t, map[string]interface{}{
		"hourlyRate":       0.0,
		"hoursPerWeek":     39,
		"paymentFrequency": "monthly",
	}, o.CalculatorDefaults(salarySlug))

	def, ok := o.Calculator(salarySlug)
	require.True(t, ok)
	assert.Equal(t, salaryID, def.ID)
	assert.Len(t, o.Calculators(), 1)
}
