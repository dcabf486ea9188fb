package taxrules

import "github.com/shopspring/decimal"

var (
	ukPersonalAllowance = decimal.NewFromInt(12570)
	ukTaperThreshold    = decimal.NewFromInt(100000)

	// bands apply to income above the personal allowance
	ukIncomeTaxBands = Schedule{
		band(0, 37700, "0.20"),
		band(37700, 125140, "0.40"),
		band(125140, 0, "0.45"),
	}

	ukNIBands = Schedule{
		band(12570, 50270, "0.08"),
		band(50270, 0, "0.02"),
	}
)

// UKIncomeTax is income tax for England, Wales and Northern Ireland. The
// personal allowance shrinks by £1 for every £2 over £100,000.
func UKIncomeTax(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(ukIncomeTax(income))
}

// UKNationalInsurance is employee class 1 National Insurance
func UKNationalInsurance(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(ukNIBands.Tax(income))
}

// UKTax is income tax plus National Insurance
func UKTax(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(ukIncomeTax(income).Add(ukNIBands.Tax(income)))
}

// UKPersonalAllowance returns the tax-free allowance for an income
func UKPersonalAllowance(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return toFloat(ukPersonalAllowance)
	}
	return toFloat(ukAllowance(income))
}

func ukAllowance(income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(ukTaperThreshold) {
		return ukPersonalAllowance
	}
	reduction := income.Sub(ukTaperThreshold).Div(decimal.NewFromInt(2)).Floor()
	return nonNegative(ukPersonalAllowance.Sub(reduction))
}

func ukIncomeTax(income decimal.Decimal) decimal.Decimal {
	taxable := income.Sub(ukAllowance(income))
	return ukIncomeTaxBands.Tax(taxable)
}
