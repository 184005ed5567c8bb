// internal/wizard/controller.go
package wizard

import (
	"context"
	"sync/atomic"

	"financeflow/internal/common/errors"
	"financeflow/internal/models"
	"financeflow/internal/wizard/validate"
)

var ErrSubmissionInFlight = errors.NewInvariantViolationError("a submission is already in flight")

// Wizard sequences the five ordered stages and gates navigation on section
// validity. Navigation is event-driven and synchronous; only the submitting
// flag is shared, so a second Submit while one is in flight fails fast.
type Wizard struct {
	store      *Store
	index      int
	submitting atomic.Bool
	completed  bool
	lastErr    error
}

func NewWizard(store *Store) *Wizard {
	return &Wizard{store: store}
}

// Store exposes the underlying state store to the stage views.
func (w *Wizard) Store() *Store {
	return w.store
}

// Index returns the current stage index (0..4).
func (w *Wizard) Index() int {
	return w.index
}

// Current returns the key of the currently displayed section.
func (w *Wizard) Current() validate.SectionKey {
	return validate.SectionOrder[w.index]
}

// Completed reports whether a submission has succeeded and the wizard is done.
func (w *Wizard) Completed() bool {
	return w.completed
}

// LastError returns the surfaced error from the most recent failed action.
func (w *Wizard) LastError() error {
	return w.lastErr
}

// Forward advances to the next stage. The move is permitted only when the
// current section validates; otherwise it is a no-op, not an error.
func (w *Wizard) Forward() bool {
	if w.index >= len(validate.SectionOrder)-1 {
		return false
	}
	if !w.store.ValidateSection(w.Current()) {
		return false
	}
	w.index++
	return true
}

// Back moves to the previous stage. Always permitted; re-editing validated
// data does not clear forward progress.
func (w *Wizard) Back() bool {
	if w.index == 0 {
		return false
	}
	w.index--
	return true
}

// GoTo jumps directly to a stage. Earlier stages are always reachable;
// a later stage is reachable only when every stage before it has a stored
// valid flag.
func (w *Wizard) GoTo(index int) bool {
	if index < 0 || index >= len(validate.SectionOrder) {
		return false
	}
	if index <= w.index {
		w.index = index
		return true
	}
	for i := w.index; i < index; i++ {
		if !w.store.SectionValid(validate.SectionOrder[i]) {
			return false
		}
	}
	w.index = index
	return true
}

// Submit performs the terminal action. It is enabled only when every
// section's validity flag is true; on failure the wizard stays on the final
// stage with the error surfaced for correction and resubmission.
func (w *Wizard) Submit(ctx context.Context) (*models.SubmissionAck, error) {
	if !w.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer w.submitting.Store(false)

	// Revalidate the final stage; earlier flags are already held by the store.
	w.store.ValidateSection(w.Current())
	if !w.store.AllSectionsValid() {
		err := errors.NewSectionIncompleteError(string(w.firstInvalidSection()))
		w.lastErr = err
		return nil, err
	}

	ack, err := w.store.Submit(ctx)
	if err != nil {
		w.lastErr = err
		return nil, err
	}

	w.lastErr = nil
	w.completed = true
	return ack, nil
}

func (w *Wizard) firstInvalidSection() validate.SectionKey {
	for _, key := range validate.SectionOrder {
		if !w.store.SectionValid(key) {
			return key
		}
	}
	return validate.SectionOrder[0]
}
