// internal/wizard/validate/identity.go
package validate

import "strings"

// documentTypes are the identity documents the wizard accepts.
var documentTypes = map[string]bool{
	"Aadhaar":         true,
	"PAN":             true,
	"Passport":        true,
	"Voter ID":        true,
	"Driving Licence": true,
}

// IdentityDetails is the second wizard section. The binary document itself is
// attached at submission time; this section validates only the declared
// document metadata.
type IdentityDetails struct {
	DocumentType   string
	DocumentNumber string
}

func (IdentityDetails) Key() SectionKey { return SectionIdentity }

func (d IdentityDetails) Validate(Rules) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(d.DocumentType) == "" {
		errs["documentType"] = "Document type is required"
	} else if !documentTypes[strings.TrimSpace(d.DocumentType)] {
		errs["documentType"] = "Select a supported document type"
	}

	if strings.TrimSpace(d.DocumentNumber) == "" {
		errs["documentNumber"] = "Document number is required"
	} else if !idNumPattern.MatchString(strings.TrimSpace(d.DocumentNumber)) {
		errs["documentNumber"] = "Enter a valid document number"
	}

	return errs
}
