// internal/wizard/draft.go

// Package wizard implements the five-stage loan application flow: an
// accumulating draft, per-section validation state, derived loan economics,
// stage navigation and final submission.
package wizard

import "financeflow/internal/wizard/validate"

// Document is the identity document attached at submission time. Data may be
// freshly selected bytes or bytes re-materialized from a stored preview.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Draft is the immutable accumulating application state. Values are replaced,
// never mutated in place; a Patch produces the next Draft from the previous
// one, so unrelated sections always survive an update.
type Draft struct {
	Personal   validate.PersonalDetails
	Identity   validate.IdentityDetails
	Address    validate.AddressDetails
	Employment validate.EmploymentDetails
	Loan       validate.LoanAmount
	Document   *Document
}

// Patch is a reducer-style update producing the next draft state.
type Patch func(Draft) Draft

// Apply threads the draft through the given patches in order
// (last-write-wins per section).
func Apply(d Draft, patches ...Patch) Draft {
	for _, p := range patches {
		d = p(d)
	}
	return d
}

func SetPersonal(p validate.PersonalDetails) Patch {
	return func(d Draft) Draft {
		d.Personal = p
		return d
	}
}

func SetIdentity(i validate.IdentityDetails) Patch {
	return func(d Draft) Draft {
		d.Identity = i
		return d
	}
}

func SetAddress(a validate.AddressDetails) Patch {
	return func(d Draft) Draft {
		d.Address = a
		return d
	}
}

func SetEmployment(e validate.EmploymentDetails) Patch {
	return func(d Draft) Draft {
		d.Employment = e
		return d
	}
}

func SetLoan(l validate.LoanAmount) Patch {
	return func(d Draft) Draft {
		d.Loan = l
		return d
	}
}

func AttachDocument(doc *Document) Patch {
	return func(d Draft) Draft {
		d.Document = doc
		return d
	}
}

// section returns the typed section value for a key. The loan section is
// handed the employment income entered earlier so the affordability ceiling
// can be applied.
func (d Draft) section(key validate.SectionKey) validate.Section {
	switch key {
	case validate.SectionPersonal:
		return d.Personal
	case validate.SectionIdentity:
		return d.Identity
	case validate.SectionAddress:
		return d.Address
	case validate.SectionEmployment:
		return d.Employment
	case validate.SectionLoanAmount:
		loan := d.Loan
		loan.MonthlyIncome = d.Employment.MonthlyIncome
		return loan
	}
	return nil
}
