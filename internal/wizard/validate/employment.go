// internal/wizard/validate/employment.go
package validate

import "strings"

var employmentTypes = map[string]bool{
	"Salaried":      true,
	"Self-Employed": true,
	"Business":      true,
	"Professional":  true,
}

// EmploymentDetails is the fourth wizard section. MonthlyIncome feeds the
// affordability ceiling applied by the loan-amount section.
type EmploymentDetails struct {
	EmploymentType string
	EmployerName   string
	MonthlyIncome  string // currency-formatted input accepted
	YearsEmployed  string
}

func (EmploymentDetails) Key() SectionKey { return SectionEmployment }

func (e EmploymentDetails) Validate(Rules) FieldErrors {
	errs := FieldErrors{}

	empType := strings.TrimSpace(e.EmploymentType)
	if empType == "" {
		errs["employmentType"] = "Employment type is required"
	} else if !employmentTypes[empType] {
		errs["employmentType"] = "Select a valid employment type"
	}

	if strings.TrimSpace(e.EmployerName) == "" {
		errs["employerName"] = "Employer name is required"
	}

	if strings.TrimSpace(e.MonthlyIncome) == "" {
		errs["monthlyIncome"] = "Monthly income is required"
	} else if income, err := ParseAmount(e.MonthlyIncome); err != nil {
		errs["monthlyIncome"] = "Enter a valid income amount"
	} else if income.Sign() <= 0 {
		errs["monthlyIncome"] = "Income must be greater than zero"
	}

	years := strings.TrimSpace(e.YearsEmployed)
	if years == "" {
		errs["yearsEmployed"] = "Years employed is required"
	} else if !digitsPattern.MatchString(years) {
		errs["yearsEmployed"] = "Enter years employed as a whole number"
	}

	return errs
}
