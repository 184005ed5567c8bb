// internal/wizard/validate/loanamount.go
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"financeflow/internal/models"
)

// LoanAmount is the final wizard section. LoanType comes from the reference
// list fetched at wizard start; MonthlyIncome is read from the employment
// section entered earlier (the single draft object makes it visible here).
type LoanAmount struct {
	LoanType      *models.LoanType
	DesiredAmount string // currency-formatted input accepted
	TenureMonths  string
	MonthlyIncome string
}

func (LoanAmount) Key() SectionKey { return SectionLoanAmount }

func (l LoanAmount) Validate(rules Rules) FieldErrors {
	errs := FieldErrors{}

	if l.LoanType == nil {
		errs["loanType"] = "Select a loan type"
	}

	amountStr := strings.TrimSpace(l.DesiredAmount)
	var amount decimal.Decimal
	amountOK := false
	if amountStr == "" {
		errs["desiredAmount"] = "Desired amount is required"
	} else if parsed, err := ParseAmount(amountStr); err != nil {
		errs["desiredAmount"] = "Enter a valid amount"
	} else if parsed.Sign() <= 0 {
		errs["desiredAmount"] = "Amount must be greater than zero"
	} else {
		amount = parsed
		amountOK = true
	}

	if amountOK {
		if floor := decimal.NewFromFloat(rules.MinAmount); amount.LessThan(floor) {
			errs["desiredAmount"] = fmt.Sprintf("Minimum loan amount is %s", floor.StringFixed(0))
			amountOK = false
		}
	}

	if amountOK && l.LoanType != nil {
		if max := decimal.NewFromFloat(l.LoanType.MaxAmount); amount.GreaterThan(max) {
			errs["desiredAmount"] = fmt.Sprintf("Amount exceeds the %s maximum of %s",
				l.LoanType.Name, max.StringFixed(0))
			amountOK = false
		}
	}

	// Affordability ceiling derived from income entered in the employment section.
	if amountOK && strings.TrimSpace(l.MonthlyIncome) != "" {
		if income, err := ParseAmount(l.MonthlyIncome); err == nil && income.Sign() > 0 {
			ceiling := income.Mul(decimal.NewFromInt(int64(rules.AffordabilityMultiple)))
			if amount.GreaterThan(ceiling) {
				errs["desiredAmount"] = "Amount exceeds what your income qualifies for"
			}
		}
	}

	tenureStr := strings.TrimSpace(l.TenureMonths)
	if tenureStr == "" {
		errs["tenureMonths"] = "Tenure is required"
	} else if tenure, err := strconv.Atoi(tenureStr); err != nil || tenure <= 0 {
		errs["tenureMonths"] = "Enter tenure in months"
	} else if l.LoanType != nil && !l.LoanType.AllowsTenure(tenure) {
		errs["tenureMonths"] = fmt.Sprintf("Tenure not offered for %s loans", l.LoanType.Name)
	}

	return errs
}
