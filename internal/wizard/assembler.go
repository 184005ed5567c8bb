// internal/wizard/assembler.go
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"financeflow/internal/common/errors"
	"financeflow/internal/models"
	"financeflow/internal/wizard/emi"
	"financeflow/internal/wizard/validate"
)

func fromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Assemble transforms the flat draft into the nested payload shape the
// backend expects, stripping currency formatting back to raw numbers.
// The four calculation-derived money figures must be strictly positive;
// anything else is an internal invariant violation and aborts assembly
// before any network activity.
func Assemble(d Draft, eco emi.Economics) (models.ApplicationPayload, error) {
	var payload models.ApplicationPayload

	amount, err := validate.ParseAmount(d.Loan.DesiredAmount)
	if err != nil {
		return payload, errors.NewInvariantViolationError(fmt.Sprintf("desired amount: %v", err))
	}
	income, err := validate.ParseAmount(d.Employment.MonthlyIncome)
	if err != nil {
		return payload, errors.NewInvariantViolationError(fmt.Sprintf("monthly income: %v", err))
	}

	var rent decimal.Decimal
	if strings.TrimSpace(d.Address.MonthlyRent) != "" {
		rent, err = validate.ParseAmount(d.Address.MonthlyRent)
		if err != nil {
			return payload, errors.NewInvariantViolationError(fmt.Sprintf("monthly rent: %v", err))
		}
	}

	for name, figure := range map[string]decimal.Decimal{
		"desiredAmount":  amount,
		"monthlyPayment": eco.MonthlyPayment,
		"totalInterest":  eco.TotalInterest,
		"totalPayable":   eco.TotalPayable,
	} {
		if figure.Sign() <= 0 {
			return payload, errors.NewInvariantViolationError(
				fmt.Sprintf("%s must be strictly positive, got %s", name, figure))
		}
	}

	tenure, err := strconv.Atoi(strings.TrimSpace(d.Loan.TenureMonths))
	if err != nil {
		return payload, errors.NewInvariantViolationError(fmt.Sprintf("tenure: %v", err))
	}
	yearsEmployed, _ := strconv.Atoi(strings.TrimSpace(d.Employment.YearsEmployed))

	if d.Loan.LoanType == nil {
		return payload, errors.NewInvariantViolationError("loan type not selected")
	}

	payload = models.ApplicationPayload{
		PersonalDetails: models.PersonalDetailsPayload{
			FirstName:     strings.TrimSpace(d.Personal.FirstName),
			MiddleName:    strings.TrimSpace(d.Personal.MiddleName),
			LastName:      strings.TrimSpace(d.Personal.LastName),
			Email:         strings.TrimSpace(d.Personal.Email),
			Phone:         strings.TrimSpace(d.Personal.Phone),
			DateOfBirth:   strings.TrimSpace(d.Personal.DateOfBirth),
			MaritalStatus: strings.TrimSpace(d.Personal.MaritalStatus),
		},
		IdentityDetails: models.IdentityDetailsPayload{
			DocumentType:   strings.TrimSpace(d.Identity.DocumentType),
			DocumentNumber: strings.TrimSpace(d.Identity.DocumentNumber),
		},
		AddressDetails: models.AddressDetailsPayload{
			AddressLine1:      strings.TrimSpace(d.Address.AddressLine1),
			AddressLine2:      strings.TrimSpace(d.Address.AddressLine2),
			City:              strings.TrimSpace(d.Address.City),
			State:             strings.TrimSpace(d.Address.State),
			PostalCode:        strings.TrimSpace(d.Address.PostalCode),
			ResidentialStatus: strings.TrimSpace(d.Address.ResidentialStatus),
			MonthlyRent:       toFloat(rent),
		},
		EmploymentInfo: models.EmploymentInfoPayload{
			EmploymentType: strings.TrimSpace(d.Employment.EmploymentType),
			EmployerName:   strings.TrimSpace(d.Employment.EmployerName),
			MonthlyIncome:  toFloat(income),
			YearsEmployed:  yearsEmployed,
		},
		LoanDetails: models.LoanDetailsPayload{
			LoanTypeID:     d.Loan.LoanType.ID,
			LoanTypeName:   d.Loan.LoanType.Name,
			DesiredAmount:  toFloat(amount),
			TenureMonths:   tenure,
			InterestRate:   d.Loan.LoanType.InterestRate,
			MonthlyPayment: toFloat(eco.MonthlyPayment),
			TotalInterest:  toFloat(eco.TotalInterest),
			TotalPayable:   toFloat(eco.TotalPayable),
		},
	}

	if err := checkPayloadSchema(payload); err != nil {
		return models.ApplicationPayload{}, err
	}

	return payload, nil
}
