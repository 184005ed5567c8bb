// internal/wizard/validate/address.go
package validate

import "strings"

const residentialRented = "Rented"

var residentialStatuses = map[string]bool{
	"Owned":           true,
	residentialRented: true,
	"Family":          true,
	"Company":         true,
}

// AddressDetails is the third wizard section.
type AddressDetails struct {
	AddressLine1      string
	AddressLine2      string // optional
	City              string
	State             string
	PostalCode        string
	ResidentialStatus string
	MonthlyRent       string // required only when ResidentialStatus is "Rented"
}

func (AddressDetails) Key() SectionKey { return SectionAddress }

func (a AddressDetails) Validate(Rules) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(a.AddressLine1) == "" {
		errs["addressLine1"] = "Address is required"
	}

	if strings.TrimSpace(a.City) == "" {
		errs["city"] = "City is required"
	}

	if strings.TrimSpace(a.State) == "" {
		errs["state"] = "State is required"
	}

	if strings.TrimSpace(a.PostalCode) == "" {
		errs["postalCode"] = "PIN code is required"
	} else if !pinPattern.MatchString(strings.TrimSpace(a.PostalCode)) {
		errs["postalCode"] = "Enter a valid 6-digit PIN code"
	}

	status := strings.TrimSpace(a.ResidentialStatus)
	if status == "" {
		errs["residentialStatus"] = "Residential status is required"
	} else if !residentialStatuses[status] {
		errs["residentialStatus"] = "Select a valid residential status"
	}

	// Rent is conditionally required.
	if status == residentialRented {
		if strings.TrimSpace(a.MonthlyRent) == "" {
			errs["monthlyRent"] = "Monthly rent is required for rented accommodation"
		} else if rent, err := ParseAmount(a.MonthlyRent); err != nil {
			errs["monthlyRent"] = "Enter a valid rent amount"
		} else if rent.Sign() <= 0 {
			errs["monthlyRent"] = "Rent must be greater than zero"
		}
	} else if strings.TrimSpace(a.MonthlyRent) != "" {
		if _, err := ParseAmount(a.MonthlyRent); err != nil {
			errs["monthlyRent"] = "Enter a valid rent amount"
		}
	}

	return errs
}
