package taxrules

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcengine/core/expression"
)

func TestScheduleTax(t *testing.T) {
	s := Schedule{
		band(0, 10000, "0.10"),
		band(10000, 20000, "0.20"),
		band(20000, 0, "0.50"),
	}

	tests := []struct {
		income int64
		want   string
	}{
		{0, "0"},
		{5000, "500"},
		{10000, "1000"},
		{15000, "2000"},
		{30000, "8000"},
	}
	for _, tt := range tests {
		got := s.Tax(decimal.NewFromInt(tt.income))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "income %d: got %s", tt.income, got)
	}
}

func TestIreland(t *testing.T) {
	assert.Equal(t, 4320.0, IrelandIncomeTax(41600))
	assert.Equal(t, 794.0, IrelandUSC(41600))
	assert.Equal(t, 1705.6, IrelandPRSI(41600))
	assert.Equal(t, 6819.6, IrelandTax(41600))

	// higher rate band above €44,000
	assert.Equal(t, 44000*0.2+6000*0.4-4000, IrelandIncomeTax(50000))

	// exemptions and credits
	assert.Equal(t, 0.0, IrelandUSC(13000))
	assert.Equal(t, 0.0, IrelandPRSI(18304))
	assert.Equal(t, 0.0, IrelandIncomeTax(15000), "credits exceed liability")
}

func TestUK(t *testing.T) {
	assert.Equal(t, 7486.0, UKIncomeTax(50000))
	assert.Equal(t, 2994.4, UKNationalInsurance(50000))
	assert.Equal(t, 10480.4, UKTax(50000))

	assert.Equal(t, 12570.0, UKPersonalAllowance(100000))
	assert.Equal(t, 7570.0, UKPersonalAllowance(110000))
	assert.Equal(t, 0.0, UKPersonalAllowance(125140))

	assert.Equal(t, 42516.0, UKIncomeTax(125140))
	assert.Equal(t, 53703.0, UKIncomeTax(150000))
	assert.Equal(t, 0.0, UKIncomeTax(12570))
}

func TestUS(t *testing.T) {
	assert.Equal(t, 5161.5, USFederalIncomeTax(60000))
	assert.Equal(t, 4590.0, USFICA(60000))
	assert.Equal(t, 9751.5, USTax(60000))

	assert.Equal(t, 0.0, USFederalIncomeTax(15000))
	assert.Equal(t, 14993.2, USFICA(250000))
}

func TestHelpersIgnoreNonPositiveAndNonFinite(t *testing.T) {
	for _, fn := range []func(float64) float64{IrelandTax, UKTax, USTax, IrelandUSC, USFICA} {
		assert.Equal(t, 0.0, fn(0))
		assert.Equal(t, 0.0, fn(-500))
		assert.Equal(t, 0.0, fn(math.NaN()))
		assert.Equal(t, 0.0, fn(math.Inf(1)))
	}
}

func TestTaxIsBelowIncome(t *testing.T) {
	for _, gross := range []float64{20000, 41600, 80000, 250000, 1e6} {
		for name, fn := range map[string]func(float64) float64{"ireland": IrelandTax, "uk": UKTax, "us": USTax} {
			tax := fn(gross)
			assert.Greater(t, tax, 0.0, "%s %v", name, gross)
			assert.Less(t, tax, gross, "%s %v", name, gross)
		}
	}
}

func TestFunctionsInFormulas(t *testing.T) {
	ctx := expression.NewContext(Functions())
	ctx.SetVariable("hourlyRate", 20)
	ctx.SetVariable("hoursPerWeek", 40)

	gross, err := expression.EvaluateStrict("hourlyRate * hoursPerWeek * 52", ctx)
	require.NoError(t, err)
	assert.Equal(t, 41600.0, gross)

	ctx.SetVariable("grossAnnual", gross)
	net, err := expression.EvaluateStrict("grossAnnual - irelandTax(grossAnnual)", ctx)
	require.NoError(t, err)
	assert.InDelta(t, 34780.4, net, 1e-6)

	got, err := expression.EvaluateStrict("Math.max(ukTax(50000), usTax(60000))", ctx)
	require.NoError(t, err)
	assert.Equal(t, 10480.4, got)

	_, err = expression.EvaluateStrict("irelandTax(1, 2)", ctx)
	assert.Error(t, err, "helpers take exactly one argument")
}
