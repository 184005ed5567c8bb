// internal/wizard/store.go
package wizard

import (
	"context"
	"strconv"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
	"financeflow/internal/wizard/emi"
	"financeflow/internal/wizard/validate"
)

// SubmitFunc performs the network submission. The store is transport-agnostic;
// Client.SubmitApplication satisfies this.
type SubmitFunc func(ctx context.Context, payload models.ApplicationPayload, doc *Document) (*models.SubmissionAck, error)

// Store is the single source of truth for the accumulating draft and the
// per-section validity flags shared by all wizard stages.
type Store struct {
	draft    Draft
	errs     map[validate.SectionKey]validate.FieldErrors
	validity map[validate.SectionKey]bool
	rules    validate.Rules
	submit   SubmitFunc
	logger   logger.Logger
}

func NewStore(rules validate.Rules, submit SubmitFunc, log logger.Logger) *Store {
	return &Store{
		errs:     make(map[validate.SectionKey]validate.FieldErrors),
		validity: make(map[validate.SectionKey]bool),
		rules:    rules,
		submit:   submit,
		logger:   log.WithFields(map[string]interface{}{"component": "wizard-store"}),
	}
}

// Draft returns the current accumulated state.
func (s *Store) Draft() Draft {
	return s.draft
}

// Update merges the given patches into the draft. It does not validate;
// section validity is recomputed by ValidateSection. Fields outside the
// patched sections are never discarded.
func (s *Store) Update(patches ...Patch) {
	s.draft = Apply(s.draft, patches...)
}

// ValidateSection runs the section's validator, stores the resulting field
// errors and validity flag, and returns the boolean result.
func (s *Store) ValidateSection(key validate.SectionKey) bool {
	section := s.draft.section(key)
	if section == nil {
		return false
	}

	errs := section.Validate(s.rules)
	s.errs[key] = errs
	valid := len(errs) == 0
	s.validity[key] = valid

	s.logger.Debug("section validated", map[string]interface{}{
		"section":    string(key),
		"valid":      valid,
		"errorCount": len(errs),
	})
	return valid
}

// SectionValid reports the stored validity flag for a section.
func (s *Store) SectionValid(key validate.SectionKey) bool {
	return s.validity[key]
}

// FieldErrors returns the stored field errors for a section.
func (s *Store) FieldErrors(key validate.SectionKey) validate.FieldErrors {
	return s.errs[key]
}

// AllSectionsValid reports whether every one of the five sections has passed
// validation.
func (s *Store) AllSectionsValid() bool {
	for _, key := range validate.SectionOrder {
		if !s.validity[key] {
			return false
		}
	}
	return true
}

// Economics derives the loan figures from the current draft. It is a pure
// function of loan type, desired amount and tenure; callers invoke it
// whenever one of those inputs changes. Unparseable or incomplete input
// yields the all-zero result.
func (s *Store) Economics() emi.Economics {
	loan := s.draft.Loan
	if loan.LoanType == nil {
		return emi.Economics{}
	}

	amount, err := validate.ParseAmount(loan.DesiredAmount)
	if err != nil {
		return emi.Economics{}
	}
	tenure, err := strconv.Atoi(loan.TenureMonths)
	if err != nil {
		return emi.Economics{}
	}

	return emi.Calculate(amount, fromFloat(loan.LoanType.InterestRate), tenure)
}

// Submit assembles the nested payload and performs the network submission.
// Every section must already be valid; the identity document must resolve.
func (s *Store) Submit(ctx context.Context) (*models.SubmissionAck, error) {
	for _, key := range validate.SectionOrder {
		if !s.validity[key] {
			return nil, errors.NewSectionIncompleteError(string(key))
		}
	}

	if s.draft.Document == nil || len(s.draft.Document.Data) == 0 {
		return nil, errors.NewDocumentRequiredError()
	}

	payload, err := Assemble(s.draft, s.Economics())
	if err != nil {
		return nil, err
	}

	ack, err := s.submit(ctx, payload, s.draft.Document)
	if err != nil {
		s.logger.Error("submission failed", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}

	s.logger.Info("application submitted", map[string]interface{}{
		"loanType": payload.LoanDetails.LoanTypeName,
		"success":  ack.Success,
	})
	return ack, nil
}
