// internal/wizard/controller_test.go
package wizard

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeflow/internal/common/errors"
	"financeflow/internal/models"
	"financeflow/internal/wizard/validate"
)

// ==========================================
// Navigation Tests
// ==========================================

func TestWizard_Forward_BlockedOnInvalidSection(t *testing.T) {
	w := NewWizard(newTestStore(nil))

	moved := w.Forward()

	assert.False(t, moved, "empty personal section does not validate")
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, validate.SectionPersonal, w.Current())
}

func TestWizard_Forward_AdvancesWhenValid(t *testing.T) {
	store := newTestStore(nil)
	store.Update(SetPersonal(validPersonal()))
	w := NewWizard(store)

	assert.True(t, w.Forward())
	assert.Equal(t, validate.SectionIdentity, w.Current())
}

func TestWizard_Forward_StopsAtFinalStage(t *testing.T) {
	store := newTestStore(nil)
	fillValidDraft(store)
	w := NewWizard(store)

	for i := 0; i < len(validate.SectionOrder)-1; i++ {
		require.True(t, w.Forward())
	}
	assert.Equal(t, validate.SectionLoanAmount, w.Current())
	assert.False(t, w.Forward(), "no stage past the last")
}

func TestWizard_Back_AlwaysAllowed(t *testing.T) {
	store := newTestStore(nil)
	store.Update(SetPersonal(validPersonal()))
	w := NewWizard(store)
	require.True(t, w.Forward())

	assert.True(t, w.Back())
	assert.Equal(t, 0, w.Index())
	assert.False(t, w.Back(), "already on the first stage")
}

func TestWizard_Back_PreservesForwardValidity(t *testing.T) {
	store := newTestStore(nil)
	store.Update(SetPersonal(validPersonal()), SetIdentity(validIdentity()))
	w := NewWizard(store)
	require.True(t, w.Forward())
	require.True(t, w.Forward())

	w.Back()
	w.Back()

	assert.True(t, store.SectionValid(validate.SectionIdentity),
		"revisiting an earlier stage keeps later validity flags")
	assert.True(t, w.GoTo(2))
}

func TestWizard_GoTo(t *testing.T) {
	store := newTestStore(nil)
	store.Update(SetPersonal(validPersonal()), SetIdentity(validIdentity()))
	w := NewWizard(store)
	require.True(t, w.Forward())
	require.True(t, w.Forward()) // now on address

	tests := []struct {
		name    string
		target  int
		allowed bool
	}{
		{name: "earlier stage always reachable", target: 0, allowed: true},
		{name: "current stage is a no-op jump", target: 2, allowed: true},
		{name: "later stage blocked until intervening stages validate", target: 4, allowed: false},
		{name: "out of range low", target: -1, allowed: false},
		{name: "out of range high", target: 5, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := w.Index()
			got := w.GoTo(tt.target)
			assert.Equal(t, tt.allowed, got)
			if !tt.allowed {
				assert.Equal(t, before, w.Index(), "blocked jump leaves position unchanged")
			}
			w.GoTo(2) // restore
		})
	}
}

func TestWizard_GoTo_ForwardAfterAllValid(t *testing.T) {
	store := newTestStore(nil)
	fillValidDraft(store)
	w := NewWizard(store)

	assert.True(t, w.GoTo(4))
	assert.Equal(t, validate.SectionLoanAmount, w.Current())
}

// ==========================================
// Submission Tests
// ==========================================

func submitToFinalStage(t *testing.T, submit SubmitFunc) *Wizard {
	t.Helper()
	store := newTestStore(submit)
	fillValidDraft(store)
	w := NewWizard(store)
	require.True(t, w.GoTo(4))
	return w
}

func TestWizard_Submit_Success(t *testing.T) {
	w := submitToFinalStage(t, func(ctx context.Context, payload models.ApplicationPayload, doc *Document) (*models.SubmissionAck, error) {
		return &models.SubmissionAck{Success: true, Message: "received"}, nil
	})

	ack, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.True(t, w.Completed())
	assert.NoError(t, w.LastError())
}

func TestWizard_Submit_BlockedWhenSectionInvalid(t *testing.T) {
	store := newTestStore(nil)
	fillValidDraft(store)
	loan := validLoan()
	loan.DesiredAmount = "15,00,000" // over the Personal cap
	store.Update(SetLoan(loan))

	w := NewWizard(store)
	require.True(t, w.GoTo(4))

	_, err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSectionIncomplete, errors.Normalize(err).Code)
	assert.False(t, w.Completed())
}

func TestWizard_Submit_FailureStaysOnFinalStage(t *testing.T) {
	w := submitToFinalStage(t, func(ctx context.Context, payload models.ApplicationPayload, doc *Document) (*models.SubmissionAck, error) {
		return nil, errors.NewValidationFailedError("backend rejected")
	})

	_, err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 4, w.Index(), "failed submission leaves the user in place")
	assert.False(t, w.Completed())
	assert.Error(t, w.LastError())
}

func TestWizard_Submit_RetryAfterFailure(t *testing.T) {
	attempts := 0
	w := submitToFinalStage(t, func(ctx context.Context, payload models.ApplicationPayload, doc *Document) (*models.SubmissionAck, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.NewValidationFailedError("transient")
		}
		return &models.SubmissionAck{Success: true}, nil
	})

	_, err := w.Submit(context.Background())
	require.Error(t, err)

	ack, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, 2, attempts)
}

func TestWizard_Submit_NoConcurrentSecondSubmission(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	w := submitToFinalStage(t, func(ctx context.Context, payload models.ApplicationPayload, doc *Document) (*models.SubmissionAck, error) {
		close(entered)
		<-release
		return &models.SubmissionAck{Success: true}, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = w.Submit(context.Background())
	}()

	<-entered
	_, secondErr := w.Submit(context.Background())
	require.Error(t, secondErr)
	assert.Equal(t, errors.ErrCodeInvariantViolation, errors.Normalize(secondErr).Code)

	close(release)
	wg.Wait()
	assert.NoError(t, firstErr)
}
