// internal/models/payload.go
package models

// ApplicationPayload is the nested submission shape the backend expects.
// The wizard assembles it from the flat draft; the server decodes it from the
// JSON part of the multipart submission.
type ApplicationPayload struct {
	PersonalDetails PersonalDetailsPayload `json:"personalDetails"`
	IdentityDetails IdentityDetailsPayload `json:"identityDetails"`
	AddressDetails  AddressDetailsPayload  `json:"addressDetails"`
	EmploymentInfo  EmploymentInfoPayload  `json:"employmentInfo"`
	LoanDetails     LoanDetailsPayload     `json:"loanDetails"`
}

type PersonalDetailsPayload struct {
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DateOfBirth   string `json:"dateOfBirth"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
}

type IdentityDetailsPayload struct {
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
}

type AddressDetailsPayload struct {
	AddressLine1      string  `json:"addressLine1"`
	AddressLine2      string  `json:"addressLine2,omitempty"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	PostalCode        string  `json:"postalCode"`
	ResidentialStatus string  `json:"residentialStatus"`
	MonthlyRent       float64 `json:"monthlyRent,omitempty"`
}

type EmploymentInfoPayload struct {
	EmploymentType string  `json:"employmentType"`
	EmployerName   string  `json:"employerName"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	YearsEmployed  int     `json:"yearsEmployed"`
}

type LoanDetailsPayload struct {
	LoanTypeID     string  `json:"loanTypeId"`
	LoanTypeName   string  `json:"loanTypeName"`
	DesiredAmount  float64 `json:"desiredAmount"`
	TenureMonths   int     `json:"tenureMonths"`
	InterestRate   float64 `json:"interestRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPayable   float64 `json:"totalPayable"`
}
