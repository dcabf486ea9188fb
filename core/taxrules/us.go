package taxrules

import "github.com/shopspring/decimal"

var (
	usStandardDeductionSingle = decimal.NewFromInt(15000)

	usFederalBracketsSingle = Schedule{
		band(0, 11925, "0.10"),
		band(11925, 48475, "0.12"),
		band(48475, 103350, "0.22"),
		band(103350, 197300, "0.24"),
		band(197300, 250525, "0.32"),
		band(250525, 626350, "0.35"),
		band(626350, 0, "0.37"),
	}

	usSSWageBase           = decimal.NewFromInt(176100)
	usSSRate               = decimal.RequireFromString("0.062")
	usMedicareRate         = decimal.RequireFromString("0.0145")
	usAdditionalMedicare   = decimal.RequireFromString("0.009")
	usAdditionalMedicareAt = decimal.NewFromInt(200000)
)

// USFederalIncomeTax is federal income tax for a single filer taking the
// standard deduction
func USFederalIncomeTax(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(usFederalIncomeTax(income))
}

// USFICA is employee Social Security plus Medicare, including the
// additional Medicare tax on wages over $200,000
func USFICA(gross float64) float64 {
	wages, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(usFICA(wages))
}

// USTax is federal income tax plus FICA
func USTax(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(usFederalIncomeTax(income).Add(usFICA(income)))
}

func usFederalIncomeTax(income decimal.Decimal) decimal.Decimal {
	taxable := income.Sub(usStandardDeductionSingle)
	return usFederalBracketsSingle.Tax(taxable)
}

func usFICA(wages decimal.Decimal) decimal.Decimal {
	ssBase := decimal.Min(wages, usSSWageBase)
	total := ssBase.Mul(usSSRate).Add(wages.Mul(usMedicareRate))
	if wages.GreaterThan(usAdditionalMedicareAt) {
		total = total.Add(wages.Sub(usAdditionalMedicareAt).Mul(usAdditionalMedicare))
	}
	return total
}
