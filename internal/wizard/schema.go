// internal/wizard/schema.go
package wizard

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"financeflow/internal/common/errors"
	"financeflow/internal/models"
)

// payloadSchema is the last line of defence before the payload leaves the
// client: shape and positivity constraints, independent of the per-section
// validators.
const payloadSchema = `{
	"type": "object",
	"required": ["personalDetails", "identityDetails", "addressDetails", "employmentInfo", "loanDetails"],
	"properties": {
		"personalDetails": {
			"type": "object",
			"required": ["firstName", "lastName", "email", "phone", "dateOfBirth"],
			"properties": {
				"firstName": {"type": "string", "minLength": 1},
				"lastName": {"type": "string", "minLength": 1},
				"email": {"type": "string", "minLength": 3},
				"phone": {"type": "string", "minLength": 10},
				"dateOfBirth": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
			}
		},
		"identityDetails": {
			"type": "object",
			"required": ["documentType", "documentNumber"],
			"properties": {
				"documentType": {"type": "string", "minLength": 1},
				"documentNumber": {"type": "string", "minLength": 4}
			}
		},
		"addressDetails": {
			"type": "object",
			"required": ["addressLine1", "city", "state", "postalCode", "residentialStatus"],
			"properties": {
				"postalCode": {"type": "string", "pattern": "^[1-9][0-9]{5}$"}
			}
		},
		"employmentInfo": {
			"type": "object",
			"required": ["employmentType", "employerName", "monthlyIncome"],
			"properties": {
				"monthlyIncome": {"type": "number", "minimum": 0.01}
			}
		},
		"loanDetails": {
			"type": "object",
			"required": ["loanTypeId", "desiredAmount", "tenureMonths", "monthlyPayment", "totalPayable"],
			"properties": {
				"desiredAmount": {"type": "number", "minimum": 0.01},
				"tenureMonths": {"type": "integer", "minimum": 1},
				"monthlyPayment": {"type": "number", "minimum": 0.01},
				"totalInterest": {"type": "number", "minimum": 0.01},
				"totalPayable": {"type": "number", "minimum": 0.01}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(payloadSchema)

func checkPayloadSchema(payload models.ApplicationPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.NewInvariantViolationError(fmt.Sprintf("marshal payload: %v", err))
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return errors.NewInvariantViolationError(fmt.Sprintf("schema validation: %v", err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.NewInvariantViolationError(strings.Join(details, "; "))
	}
	return nil
}
