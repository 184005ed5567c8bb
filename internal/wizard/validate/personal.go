// internal/wizard/validate/personal.go
package validate

import (
	"fmt"
	"strings"
	"time"
)

// PersonalDetails is the first wizard section.
type PersonalDetails struct {
	FirstName     string
	MiddleName    string // optional
	LastName      string
	Email         string
	Phone         string
	DateOfBirth   string // YYYY-MM-DD
	MaritalStatus string // optional
}

func (PersonalDetails) Key() SectionKey { return SectionPersonal }

func (p PersonalDetails) Validate(rules Rules) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(p.FirstName) == "" {
		errs["firstName"] = "First name is required"
	} else if !namePattern.MatchString(strings.TrimSpace(p.FirstName)) {
		errs["firstName"] = "First name may only contain letters"
	}

	// Middle name is optional; validate format only when present.
	if mid := strings.TrimSpace(p.MiddleName); mid != "" && !namePattern.MatchString(mid) {
		errs["middleName"] = "Middle name may only contain letters"
	}

	if strings.TrimSpace(p.LastName) == "" {
		errs["lastName"] = "Last name is required"
	} else if !namePattern.MatchString(strings.TrimSpace(p.LastName)) {
		errs["lastName"] = "Last name may only contain letters"
	}

	if strings.TrimSpace(p.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(strings.TrimSpace(p.Email)) {
		errs["email"] = "Enter a valid email address"
	}

	if strings.TrimSpace(p.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if !phonePattern.MatchString(strings.TrimSpace(p.Phone)) {
		errs["phone"] = "Enter a valid 10-digit mobile number"
	}

	if strings.TrimSpace(p.DateOfBirth) == "" {
		errs["dateOfBirth"] = "Date of birth is required"
	} else if dob, err := time.Parse(dateLayout, strings.TrimSpace(p.DateOfBirth)); err != nil {
		errs["dateOfBirth"] = "Enter date of birth as YYYY-MM-DD"
	} else if age := ageAt(dob, rules.now()); age < rules.MinApplicantAge {
		errs["dateOfBirth"] = fmt.Sprintf("Applicant must be at least %d years old", rules.MinApplicantAge)
	}

	return errs
}
