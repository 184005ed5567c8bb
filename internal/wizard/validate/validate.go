// internal/wizard/validate/validate.go

// Package validate holds the per-section field validators for the loan
// application wizard. Each of the five fixed sections is its own struct
// implementing Section; an absent key in the returned FieldErrors is the sole
// validity signal for a field.
package validate

import (
	"regexp"
	"time"
)

// SectionKey identifies one of the five fixed wizard sections.
type SectionKey string

const (
	SectionPersonal   SectionKey = "personal"
	SectionIdentity   SectionKey = "identity"
	SectionAddress    SectionKey = "address"
	SectionEmployment SectionKey = "employment"
	SectionLoanAmount SectionKey = "loan-amount"
)

// SectionOrder is the fixed wizard stage ordering.
var SectionOrder = [5]SectionKey{
	SectionPersonal,
	SectionIdentity,
	SectionAddress,
	SectionEmployment,
	SectionLoanAmount,
}

// FieldErrors maps a field name to a human-readable message. An absent key
// means the field is valid.
type FieldErrors map[string]string

// Section is one typed wizard stage. Validation is pure: no side effects,
// no panics, no error returns.
type Section interface {
	Key() SectionKey
	Validate(rules Rules) FieldErrors
}

// Rules carries the configurable business limits the validators apply.
type Rules struct {
	MinAmount             float64
	MinApplicantAge       int
	AffordabilityMultiple int // months of income the desired amount may not exceed

	// Now is injectable for age computation in tests; nil means time.Now.
	Now func() time.Time
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

const dateLayout = "2006-01-02"

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern  = regexp.MustCompile(`^(\+91[\-\s]?)?[6-9][0-9]{9}$`)
	pinPattern    = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	idNumPattern  = regexp.MustCompile(`^[A-Za-z0-9\-\s]{4,24}$`)
	namePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z'\-\s]*$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ageAt returns whole years between dob and now.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	return years
}
