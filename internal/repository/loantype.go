// internal/repository/loantype.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

const loanTypesCacheKey = "financeflow:loan-types"

// LoanTypeRepo serves the loan type reference data. Reads go through a Redis
// cache with a TTL; a cache miss or a Redis outage falls back to Postgres.
type LoanTypeRepo struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewLoanTypeRepo(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *LoanTypeRepo {
	return &LoanTypeRepo{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "loantype-repo"}),
	}
}

// List returns every configured loan type.
func (r *LoanTypeRepo) List(ctx context.Context) ([]models.LoanType, error) {
	if types, ok := r.fromCache(ctx); ok {
		return types, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, interest_rate, max_amount, allowed_tenures
		 FROM loan_types ORDER BY name`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list loan types", err)
	}
	defer rows.Close()

	types := []models.LoanType{}
	for rows.Next() {
		var t models.LoanType
		var tenures pq.Int64Array
		if err := rows.Scan(&t.ID, &t.Name, &t.InterestRate, &t.MaxAmount, &tenures); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan loan type", err)
		}
		t.AllowedTenures = make([]int, len(tenures))
		for i, months := range tenures {
			t.AllowedTenures[i] = int(months)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list loan types", err)
	}

	r.toCache(ctx, types)
	return types, nil
}

// GetByName resolves a single loan type by its display name.
func (r *LoanTypeRepo) GetByName(ctx context.Context, name string) (*models.LoanType, error) {
	types, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range types {
		if types[i].Name == name {
			return &types[i], nil
		}
	}
	return nil, errors.NewLoanTypeUnknownError(name)
}

func (r *LoanTypeRepo) fromCache(ctx context.Context) ([]models.LoanType, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, loanTypesCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("loan type cache read failed", map[string]interface{}{
				"error": err,
			})
		}
		return nil, false
	}
	var types []models.LoanType
	if err := json.Unmarshal([]byte(raw), &types); err != nil {
		return nil, false
	}
	return types, true
}

func (r *LoanTypeRepo) toCache(ctx context.Context, types []models.LoanType) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(types)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, loanTypesCacheKey, raw, r.cacheTTL).Err(); err != nil {
		r.logger.Warn("loan type cache write failed", map[string]interface{}{
			"error": err,
		})
	}
}
