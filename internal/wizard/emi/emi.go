// internal/wizard/emi/emi.go
package emi

import "github.com/shopspring/decimal"

// Economics holds the derived loan figures. All values are rounded to two
// decimal places; TotalPayable is MonthlyPayment times tenure, so the two stay
// consistent after rounding.
type Economics struct {
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	TotalPayable   decimal.Decimal `json:"totalPayable"`
	Principal      decimal.Decimal `json:"principal"`
}

// IsZero reports whether every derived figure is zero.
func (e Economics) IsZero() bool {
	return e.MonthlyPayment.IsZero() && e.TotalInterest.IsZero() &&
		e.TotalPayable.IsZero() && e.Principal.IsZero()
}

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Calculate derives the monthly payment, total interest and total payable
// amount from principal, annual percentage rate and tenure in months using
// the standard amortizing annuity formula P*r*(1+r)^n / ((1+r)^n - 1).
//
// A zero rate degenerates to simple division P/n. In both branches TotalPayable
// is the rounded monthly payment times tenure, so TotalInterest carries any
// rounding residue and can be a few paise off zero on a zero-rate loan. Invalid
// input (non-positive principal or tenure, negative rate) yields an all-zero
// result rather than propagating a non-finite value to the caller.
func Calculate(principal, annualRate decimal.Decimal, tenureMonths int) Economics {
	if tenureMonths <= 0 || principal.Sign() <= 0 || annualRate.Sign() < 0 {
		return Economics{}
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	roundedPrincipal := principal.Round(2)

	if annualRate.IsZero() {
		monthly := principal.Div(n).Round(2)
		totalPayable := monthly.Mul(n)
		return Economics{
			MonthlyPayment: monthly,
			TotalInterest:  totalPayable.Sub(roundedPrincipal),
			TotalPayable:   totalPayable,
			Principal:      roundedPrincipal,
		}
	}

	monthlyRate := annualRate.Div(twelve).Div(hundred)
	growth := one.Add(monthlyRate).Pow(n)
	denominator := growth.Sub(one)
	if denominator.Sign() <= 0 {
		// Degenerate exponentiation; do not let a division blow up.
		return Economics{}
	}

	monthly := principal.Mul(monthlyRate).Mul(growth).Div(denominator).Round(2)
	totalPayable := monthly.Mul(n)
	totalInterest := totalPayable.Sub(roundedPrincipal)

	return Economics{
		MonthlyPayment: monthly,
		TotalInterest:  totalInterest,
		TotalPayable:   totalPayable,
		Principal:      roundedPrincipal,
	}
}

// CalculateFloat is a float64 convenience wrapper used where the caller holds
// raw JSON numbers instead of decimals.
func CalculateFloat(principal, annualRate float64, tenureMonths int) Economics {
	return Calculate(
		decimal.NewFromFloat(principal),
		decimal.NewFromFloat(annualRate),
		tenureMonths,
	)
}
