package taxrules

import "calcengine/core/expression"

// Helpers returns the jurisdiction helpers keyed by the name formulas use
func Helpers() *expression.FunctionSet {
	return expression.NewFunctionSet().
		Unary("irelandIncomeTax", IrelandIncomeTax).
		Unary("irelandUSC", IrelandUSC).
		Unary("irelandPRSI", IrelandPRSI).
		Unary("irelandTax", IrelandTax).
		Unary("ukIncomeTax", UKIncomeTax).
		Unary("ukNationalInsurance", UKNationalInsurance).
		Unary("ukPersonalAllowance", UKPersonalAllowance).
		Unary("ukTax", UKTax).
		Unary("usFederalIncomeTax", USFederalIncomeTax).
		Unary("usFICA", USFICA).
		Unary("usTax", USTax)
}

// Functions returns the math library extended with every helper
func Functions() *expression.FunctionSet {
	return expression.MathLibrary().Merge(Helpers())
}
