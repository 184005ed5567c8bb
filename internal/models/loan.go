// internal/models/loan.go
package models

// LoanStatus is the fixed status enumeration for persisted applications.
type LoanStatus string

const (
	StatusPending     LoanStatus = "Pending"
	StatusApproved    LoanStatus = "Approved"
	StatusRejected    LoanStatus = "Rejected"
	StatusUnderReview LoanStatus = "Under Review"
)

// Valid reports whether s is a member of the status enumeration.
func (s LoanStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusUnderReview:
		return true
	}
	return false
}

// LoanType is the reference data the wizard fetches once per session.
type LoanType struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	InterestRate   float64 `json:"interestRate"` // annual, percent
	MaxAmount      float64 `json:"maxAmount"`
	AllowedTenures []int   `json:"allowedTenures"` // months
}

// AllowsTenure reports whether the tenure belongs to the type's allowed list.
func (t LoanType) AllowsTenure(months int) bool {
	for _, allowed := range t.AllowedTenures {
		if allowed == months {
			return true
		}
	}
	return false
}

// LoanApplication is the persisted record, denormalized from the wizard draft.
type LoanApplication struct {
	ID     string     `json:"id"`
	UserID string     `json:"userId"`
	LoanID string     `json:"loanId"`
	Status LoanStatus `json:"status"`

	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DateOfBirth   string `json:"dateOfBirth"`
	MaritalStatus string `json:"maritalStatus,omitempty"`

	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	DocumentKey    string `json:"documentKey,omitempty"`

	AddressLine1      string  `json:"addressLine1"`
	AddressLine2      string  `json:"addressLine2,omitempty"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	PostalCode        string  `json:"postalCode"`
	ResidentialStatus string  `json:"residentialStatus"`
	MonthlyRent       float64 `json:"monthlyRent,omitempty"`

	EmploymentType string  `json:"employmentType"`
	EmployerName   string  `json:"employerName"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	YearsEmployed  int     `json:"yearsEmployed"`

	LoanTypeID     string  `json:"loanTypeId"`
	LoanTypeName   string  `json:"loanTypeName"`
	DesiredAmount  float64 `json:"desiredAmount"`
	TenureMonths   int     `json:"tenureMonths"`
	InterestRate   float64 `json:"interestRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPayable   float64 `json:"totalPayable"`

	AppliedAt string `json:"appliedAt"` // ISO 8601
	UpdatedAt string `json:"updatedAt"`
}

// SubmissionAck is the acknowledgement returned to the wizard after submission.
type SubmissionAck struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	Application *LoanApplication `json:"application,omitempty"`
}
