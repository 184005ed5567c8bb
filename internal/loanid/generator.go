// internal/loanid/generator.go

// Package loanid issues the human-facing loan application identifiers in the
// form {PREFIX}-{YYYYMMDD}-{SEQ}: a loan type prefix, the UTC issue date and a
// zero-padded daily sequence number.
package loanid

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/common/metrics"
)

const maxDailySequence = 99999

// prefixes maps loan type names to their two-letter identifier prefixes.
var prefixes = map[string]string{
	"Home":      "HL",
	"Personal":  "PL",
	"Car":       "CL",
	"Education": "EL",
	"Gold":      "GL",
	"Business":  "BL",
}

// PrefixFor returns the identifier prefix for a loan type name.
func PrefixFor(loanType string) (string, error) {
	prefix, ok := prefixes[loanType]
	if !ok {
		return "", errors.NewLoanTypeUnknownError(loanType)
	}
	return prefix, nil
}

// Generator allocates identifiers from a per-prefix, per-day counter stored
// in Postgres. The upsert increments and reads the counter in one statement,
// so concurrent allocations can never observe the same sequence number.
type Generator struct {
	db     *sql.DB
	logger logger.Logger

	// now is injectable for date-rollover tests; nil means time.Now.
	now func() time.Time
}

func NewGenerator(db *sql.DB, log logger.Logger) *Generator {
	return &Generator{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "loanid-generator"}),
	}
}

const allocateSeqQuery = `
	INSERT INTO loan_id_counters (prefix, day, seq)
	VALUES ($1, $2, 1)
	ON CONFLICT (prefix, day)
	DO UPDATE SET seq = loan_id_counters.seq + 1
	RETURNING seq`

// Next issues the next identifier for the given loan type name. Sequence
// numbers restart at 1 whenever the UTC date changes.
func (g *Generator) Next(ctx context.Context, loanType string) (string, error) {
	prefix, err := PrefixFor(loanType)
	if err != nil {
		return "", err
	}

	day := g.today()

	var seq int64
	if err := g.db.QueryRowContext(ctx, allocateSeqQuery, prefix, day).Scan(&seq); err != nil {
		g.logger.Error("sequence allocation failed", map[string]interface{}{
			"prefix": prefix,
			"day":    day,
			"error":  err,
		})
		return "", errors.NewQueryExecutionFailedError("allocate loan id sequence", err)
	}

	if seq > maxDailySequence {
		return "", errors.NewSequenceExhaustedError(prefix, day)
	}

	id := fmt.Sprintf("%s-%s-%05d", prefix, day, seq)
	metrics.LoanIDsIssued.WithLabelValues(prefix).Inc()
	g.logger.Debug("loan id issued", map[string]interface{}{
		"loanId": id,
	})
	return id, nil
}

func (g *Generator) today() string {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return now().UTC().Format("20060102")
}
