package taxrules

import "github.com/shopspring/decimal"

var (
	irelandIncomeTaxBands = Schedule{
		band(0, 44000, "0.20"),
		band(44000, 0, "0.40"),
	}

	// personal credit plus employee (PAYE) credit
	irelandTaxCredits = decimal.NewFromInt(4000)

	irelandUSCBands = Schedule{
		band(0, 12012, "0.005"),
		band(12012, 27382, "0.02"),
		band(27382, 70044, "0.03"),
		band(70044, 0, "0.08"),
	}
	irelandUSCExemption = decimal.NewFromInt(13000)

	irelandPRSIRate      = decimal.RequireFromString("0.041")
	irelandPRSIThreshold = decimal.NewFromInt(18304)
)

// IrelandIncomeTax is PAYE income tax for a single person after credits
func IrelandIncomeTax(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(irelandIncomeTax(income))
}

// IrelandUSC is the Universal Social Charge. Incomes at or below the
// exemption threshold pay nothing.
func IrelandUSC(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(irelandUSC(income))
}

// IrelandPRSI is class A employee PRSI
func IrelandPRSI(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	return toFloat(irelandPRSI(income))
}

// IrelandTax is income tax, USC and PRSI combined
func IrelandTax(gross float64) float64 {
	income, ok := fromFloat(gross)
	if !ok {
		return 0
	}
	total := irelandIncomeTax(income).Add(irelandUSC(income)).Add(irelandPRSI(income))
	return toFloat(total)
}

func irelandIncomeTax(income decimal.Decimal) decimal.Decimal {
	return nonNegative(irelandIncomeTaxBands.Tax(income).Sub(irelandTaxCredits))
}

func irelandUSC(income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(irelandUSCExemption) {
		return decimal.Zero
	}
	return irelandUSCBands.Tax(income)
}

func irelandPRSI(income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(irelandPRSIThreshold) {
		return decimal.Zero
	}
	return income.Mul(irelandPRSIRate)
}
