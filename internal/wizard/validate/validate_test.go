// internal/wizard/validate/validate_test.go
package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeflow/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func testRules() Rules {
	return Rules{
		MinAmount:             10000,
		MinApplicantAge:       21,
		AffordabilityMultiple: 60,
		Now: func() time.Time {
			return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		},
	}
}

func validPersonal() PersonalDetails {
	return PersonalDetails{
		FirstName:   "Ravi",
		LastName:    "Sharma",
		Email:       "ravi.sharma@example.com",
		Phone:       "9876543210",
		DateOfBirth: "1990-03-12",
	}
}

func personalLoanType() *models.LoanType {
	return &models.LoanType{
		ID:             "personal",
		Name:           "Personal",
		InterestRate:   8,
		MaxAmount:      1200000,
		AllowedTenures: []int{12, 24, 36},
	}
}

// ==========================
// Personal Details
// ==========================

func TestPersonalDetails_Valid(t *testing.T) {
	errs := validPersonal().Validate(testRules())
	assert.Empty(t, errs)
}

func TestPersonalDetails_OptionalMiddleName(t *testing.T) {
	p := validPersonal()
	p.MiddleName = ""
	assert.Empty(t, p.Validate(testRules()), "empty optional field is always valid")

	p.MiddleName = "Kumar"
	assert.Empty(t, p.Validate(testRules()))

	p.MiddleName = "12345"
	errs := p.Validate(testRules())
	assert.Contains(t, errs, "middleName")
}

func TestPersonalDetails_FieldRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*PersonalDetails)
		badField string
	}{
		{name: "missing first name", mutate: func(p *PersonalDetails) { p.FirstName = "" }, badField: "firstName"},
		{name: "missing last name", mutate: func(p *PersonalDetails) { p.LastName = "  " }, badField: "lastName"},
		{name: "malformed email", mutate: func(p *PersonalDetails) { p.Email = "not-an-email" }, badField: "email"},
		{name: "missing email", mutate: func(p *PersonalDetails) { p.Email = "" }, badField: "email"},
		{name: "short phone", mutate: func(p *PersonalDetails) { p.Phone = "98765" }, badField: "phone"},
		{name: "letters in phone", mutate: func(p *PersonalDetails) { p.Phone = "98765abcde" }, badField: "phone"},
		{name: "bad date format", mutate: func(p *PersonalDetails) { p.DateOfBirth = "12/03/1990" }, badField: "dateOfBirth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPersonal()
			tt.mutate(&p)
			errs := p.Validate(testRules())
			assert.Contains(t, errs, tt.badField)
		})
	}
}

func TestPersonalDetails_PhoneWithCountryCode(t *testing.T) {
	p := validPersonal()
	p.Phone = "+91 9876543210"
	assert.Empty(t, p.Validate(testRules()))
}

func TestPersonalDetails_MinimumAge(t *testing.T) {
	rules := testRules()

	p := validPersonal()
	p.DateOfBirth = "2004-06-16" // turns 21 the day after the fixed clock
	errs := p.Validate(rules)
	require.Contains(t, errs, "dateOfBirth")
	assert.Contains(t, errs["dateOfBirth"], "21")

	p.DateOfBirth = "2003-06-14" // already 21
	assert.Empty(t, p.Validate(rules))
}

// ==========================
// Identity Details
// ==========================

func TestIdentityDetails_Validate(t *testing.T) {
	tests := []struct {
		name      string
		section   IdentityDetails
		badFields []string
	}{
		{
			name:    "valid aadhaar",
			section: IdentityDetails{DocumentType: "Aadhaar", DocumentNumber: "1234 5678 9012"},
		},
		{
			name:    "valid pan",
			section: IdentityDetails{DocumentType: "PAN", DocumentNumber: "ABCDE1234F"},
		},
		{
			name:      "missing everything",
			section:   IdentityDetails{},
			badFields: []string{"documentType", "documentNumber"},
		},
		{
			name:      "unsupported type",
			section:   IdentityDetails{DocumentType: "Library Card", DocumentNumber: "ABCDE1234F"},
			badFields: []string{"documentType"},
		},
		{
			name:      "number too short",
			section:   IdentityDetails{DocumentType: "PAN", DocumentNumber: "AB"},
			badFields: []string{"documentNumber"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.section.Validate(testRules())
			if len(tt.badFields) == 0 {
				assert.Empty(t, errs)
				return
			}
			for _, f := range tt.badFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

// ==========================
// Address Details
// ==========================

func validAddress() AddressDetails {
	return AddressDetails{
		AddressLine1:      "42 MG Road",
		City:              "Bengaluru",
		State:             "Karnataka",
		PostalCode:        "560001",
		ResidentialStatus: "Owned",
	}
}

func TestAddressDetails_Valid(t *testing.T) {
	assert.Empty(t, validAddress().Validate(testRules()))
}

func TestAddressDetails_RentRequiredOnlyWhenRented(t *testing.T) {
	a := validAddress()
	a.ResidentialStatus = "Rented"
	errs := a.Validate(testRules())
	require.Contains(t, errs, "monthlyRent")

	a.MonthlyRent = "₹18,500"
	assert.Empty(t, a.Validate(testRules()), "currency-formatted rent must parse")

	a.ResidentialStatus = "Owned"
	a.MonthlyRent = ""
	assert.Empty(t, a.Validate(testRules()), "rent not required for owned accommodation")
}

func TestAddressDetails_PINCode(t *testing.T) {
	a := validAddress()
	a.PostalCode = "56001"
	assert.Contains(t, a.Validate(testRules()), "postalCode")

	a.PostalCode = "056001"
	assert.Contains(t, a.Validate(testRules()), "postalCode")

	a.PostalCode = "560001"
	assert.Empty(t, a.Validate(testRules()))
}

// ==========================
// Employment Details
// ==========================

func validEmployment() EmploymentDetails {
	return EmploymentDetails{
		EmploymentType: "Salaried",
		EmployerName:   "Acme Software Pvt Ltd",
		MonthlyIncome:  "₹1,25,000",
		YearsEmployed:  "6",
	}
}

func TestEmploymentDetails_Validate(t *testing.T) {
	assert.Empty(t, validEmployment().Validate(testRules()))

	e := validEmployment()
	e.MonthlyIncome = "lots"
	assert.Contains(t, e.Validate(testRules()), "monthlyIncome")

	e = validEmployment()
	e.MonthlyIncome = "-5000"
	assert.Contains(t, e.Validate(testRules()), "monthlyIncome")

	e = validEmployment()
	e.YearsEmployed = "six"
	assert.Contains(t, e.Validate(testRules()), "yearsEmployed")

	e = validEmployment()
	e.EmploymentType = "Freelancer"
	assert.Contains(t, e.Validate(testRules()), "employmentType")
}

// ==========================
// Loan Amount
// ==========================

func TestLoanAmount_AmountExceedsTypeMaximum(t *testing.T) {
	l := LoanAmount{
		LoanType:      personalLoanType(),
		DesiredAmount: "15,00,000",
		TenureMonths:  "24",
		MonthlyIncome: "1,00,000",
	}
	errs := l.Validate(testRules())
	require.Contains(t, errs, "desiredAmount")
	assert.Contains(t, errs["desiredAmount"], "maximum")

	l.DesiredAmount = "10,00,000"
	assert.Empty(t, l.Validate(testRules()))
}

func TestLoanAmount_TenureMustBeAllowed(t *testing.T) {
	l := LoanAmount{
		LoanType:      personalLoanType(),
		DesiredAmount: "5,00,000",
		TenureMonths:  "48",
		MonthlyIncome: "1,00,000",
	}
	assert.Contains(t, l.Validate(testRules()), "tenureMonths")

	l.TenureMonths = "36"
	assert.Empty(t, l.Validate(testRules()))
}

func TestLoanAmount_AffordabilityCeiling(t *testing.T) {
	// 15,000 x 60 = 9,00,000 ceiling
	l := LoanAmount{
		LoanType:      personalLoanType(),
		DesiredAmount: "9,50,000",
		TenureMonths:  "24",
		MonthlyIncome: "15,000",
	}
	errs := l.Validate(testRules())
	require.Contains(t, errs, "desiredAmount")
	assert.Contains(t, errs["desiredAmount"], "income")

	l.DesiredAmount = "9,00,000"
	assert.Empty(t, l.Validate(testRules()))
}

func TestLoanAmount_FloorAndRequired(t *testing.T) {
	l := LoanAmount{
		LoanType:      personalLoanType(),
		DesiredAmount: "5000",
		TenureMonths:  "12",
	}
	assert.Contains(t, l.Validate(testRules()), "desiredAmount")

	l.DesiredAmount = ""
	assert.Contains(t, l.Validate(testRules()), "desiredAmount")

	l.DesiredAmount = "50,000"
	l.TenureMonths = ""
	assert.Contains(t, l.Validate(testRules()), "tenureMonths")
}

func TestLoanAmount_MissingLoanType(t *testing.T) {
	l := LoanAmount{
		DesiredAmount: "50,000",
		TenureMonths:  "12",
	}
	assert.Contains(t, l.Validate(testRules()), "loanType")
}

// ==========================
// Money parsing
// ==========================

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "₹12,00,000", want: "1200000"},
		{in: "1,200,000.50", want: "1200000.5"},
		{in: " 9500 ", want: "9500"},
		{in: "$150000", want: "150000"},
		{in: "", wantErr: true},
		{in: "₹", wantErr: true},
		{in: "12a45", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
