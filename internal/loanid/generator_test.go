// internal/loanid/generator_test.go
package loanid

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
)

// ==========================================
// Test Helpers
// ==========================================

func newTestGenerator(t *testing.T, at time.Time) (*Generator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gen := NewGenerator(db, logger.NewNoOpLogger())
	gen.now = func() time.Time { return at }
	return gen, mock
}

func expectSeq(mock sqlmock.Sqlmock, prefix, day string, seq int64) {
	mock.ExpectQuery(`INSERT INTO loan_id_counters`).
		WithArgs(prefix, day).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(seq))
}

// ==========================================
// Prefix Tests
// ==========================================

func TestPrefixFor(t *testing.T) {
	tests := []struct {
		loanType string
		prefix   string
	}{
		{loanType: "Home", prefix: "HL"},
		{loanType: "Personal", prefix: "PL"},
		{loanType: "Car", prefix: "CL"},
		{loanType: "Education", prefix: "EL"},
		{loanType: "Gold", prefix: "GL"},
		{loanType: "Business", prefix: "BL"},
	}

	for _, tt := range tests {
		t.Run(tt.loanType, func(t *testing.T) {
			got, err := PrefixFor(tt.loanType)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, got)
		})
	}
}

func TestPrefixFor_UnknownType(t *testing.T) {
	_, err := PrefixFor("Yacht")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLoanTypeUnknown, errors.Normalize(err).Code)
}

// ==========================================
// Generation Tests
// ==========================================

func TestGenerator_Next_Format(t *testing.T) {
	gen, mock := newTestGenerator(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	expectSeq(mock, "HL", "20240101", 1)

	id, err := gen.Next(context.Background(), "Home")
	require.NoError(t, err)
	assert.Equal(t, "HL-20240101-00001", id)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{2}-\d{8}-\d{5}$`), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerator_Next_ConsecutiveSameDay(t *testing.T) {
	gen, mock := newTestGenerator(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	expectSeq(mock, "PL", "20240101", 1)
	expectSeq(mock, "PL", "20240101", 2)

	first, err := gen.Next(context.Background(), "Personal")
	require.NoError(t, err)
	second, err := gen.Next(context.Background(), "Personal")
	require.NoError(t, err)

	assert.Equal(t, "PL-20240101-00001", first)
	assert.Equal(t, "PL-20240101-00002", second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerator_Next_SequenceResetsOnNewDate(t *testing.T) {
	gen, mock := newTestGenerator(t, time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC))
	expectSeq(mock, "HL", "20240101", 41)
	expectSeq(mock, "HL", "20240102", 1)

	first, err := gen.Next(context.Background(), "Home")
	require.NoError(t, err)
	assert.Equal(t, "HL-20240101-00041", first)

	gen.now = func() time.Time { return time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC) }
	second, err := gen.Next(context.Background(), "Home")
	require.NoError(t, err)
	assert.Equal(t, "HL-20240102-00001", second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerator_Next_UsesUTCDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// Local date is already Jan 2 but UTC is still Jan 1.
	gen, mock := newTestGenerator(t, time.Date(2024, 1, 2, 3, 0, 0, 0, ist))
	expectSeq(mock, "CL", "20240101", 7)

	id, err := gen.Next(context.Background(), "Car")
	require.NoError(t, err)
	assert.Equal(t, "CL-20240101-00007", id)
}

func TestGenerator_Next_UnknownTypeSkipsDatabase(t *testing.T) {
	gen, mock := newTestGenerator(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := gen.Next(context.Background(), "Timeshare")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLoanTypeUnknown, errors.Normalize(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerator_Next_SequenceExhausted(t *testing.T) {
	gen, mock := newTestGenerator(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	expectSeq(mock, "HL", "20240101", 100000)

	_, err := gen.Next(context.Background(), "Home")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSequenceExhausted, errors.Normalize(err).Code)
}

func TestGenerator_Next_QueryFailure(t *testing.T) {
	gen, mock := newTestGenerator(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(`INSERT INTO loan_id_counters`).
		WithArgs("HL", "20240101").
		WillReturnError(assert.AnError)

	_, err := gen.Next(context.Background(), "Home")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, errors.Normalize(err).Code)
}
