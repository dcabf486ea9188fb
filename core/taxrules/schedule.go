// Package taxrules provides the jurisdiction tax helpers formulas can call.
// Every helper takes an annual gross amount and returns an annual amount.
// Figures are for the 2025 tax year.
package taxrules

import (
	"math"

	"github.com/shopspring/decimal"
)

// Bracket is one band of a progressive schedule. A zero Max leaves the band
// open-ended.
type Bracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// Schedule is an ordered list of brackets, lowest first
type Schedule []Bracket

// band builds a bracket from whole-currency bounds and a decimal rate string
func band(min, max int64, rate string) Bracket {
	return Bracket{
		Min:  decimal.NewFromInt(min),
		Max:  decimal.NewFromInt(max),
		Rate: decimal.RequireFromString(rate),
	}
}

// Tax applies the schedule to income
func (s Schedule) Tax(income decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	if income.LessThanOrEqual(decimal.Zero) {
		return total
	}

	for _, b := range s {
		if income.LessThanOrEqual(b.Min) {
			break
		}
		upper := income
		if !b.Max.IsZero() {
			upper = decimal.Min(income, b.Max)
		}
		inBand := upper.Sub(b.Min)
		if inBand.GreaterThan(decimal.Zero) {
			total = total.Add(inBand.Mul(b.Rate))
		}
	}
	return total
}

// fromFloat converts a helper argument. Non-finite and non-positive values
// carry no tax, so ok is false for them.
func fromFloat(x float64) (d decimal.Decimal, ok bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(x), true
}

// toFloat rounds to cents
func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// nonNegative clamps a liability at zero
func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
