// internal/repository/application.go

// Package repository is the persistence layer: loan applications and users in
// Postgres, loan type reference data in Postgres behind a Redis cache.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

// LoanApplicationRepo persists submitted applications. Every read and write
// is scoped to the owning user except the admin-facing status update.
type LoanApplicationRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func NewLoanApplicationRepo(db *sql.DB, log logger.Logger) *LoanApplicationRepo {
	return &LoanApplicationRepo{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "application-repo"}),
	}
}

const applicationColumns = `
	id, user_id, loan_id, status,
	first_name, middle_name, last_name, email, phone, date_of_birth, marital_status,
	document_type, document_number, document_key,
	address_line1, address_line2, city, state, postal_code, residential_status, monthly_rent,
	employment_type, employer_name, monthly_income, years_employed,
	loan_type_id, loan_type_name, desired_amount, tenure_months, interest_rate,
	monthly_payment, total_interest, total_payable,
	applied_at, updated_at`

// Create inserts a freshly assembled application. The caller supplies the
// generated loan identifier; status always starts as Pending.
func (r *LoanApplicationRepo) Create(ctx context.Context, app *models.LoanApplication) error {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	app.Status = models.StatusPending
	app.AppliedAt = now
	app.UpdatedAt = now

	query := `
		INSERT INTO loan_applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34, $35)`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.UserID, app.LoanID, app.Status,
		app.FirstName, app.MiddleName, app.LastName, app.Email, app.Phone, app.DateOfBirth, app.MaritalStatus,
		app.DocumentType, app.DocumentNumber, app.DocumentKey,
		app.AddressLine1, app.AddressLine2, app.City, app.State, app.PostalCode, app.ResidentialStatus, app.MonthlyRent,
		app.EmploymentType, app.EmployerName, app.MonthlyIncome, app.YearsEmployed,
		app.LoanTypeID, app.LoanTypeName, app.DesiredAmount, app.TenureMonths, app.InterestRate,
		app.MonthlyPayment, app.TotalInterest, app.TotalPayable,
		app.AppliedAt, app.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.NewDuplicateLoanIDError(app.LoanID)
		}
		r.logger.Error("application insert failed", map[string]interface{}{
			"loanId": app.LoanID,
			"error":  err,
		})
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func scanApplication(row interface{ Scan(...interface{}) error }) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := row.Scan(
		&app.ID, &app.UserID, &app.LoanID, &app.Status,
		&app.FirstName, &app.MiddleName, &app.LastName, &app.Email, &app.Phone, &app.DateOfBirth, &app.MaritalStatus,
		&app.DocumentType, &app.DocumentNumber, &app.DocumentKey,
		&app.AddressLine1, &app.AddressLine2, &app.City, &app.State, &app.PostalCode, &app.ResidentialStatus, &app.MonthlyRent,
		&app.EmploymentType, &app.EmployerName, &app.MonthlyIncome, &app.YearsEmployed,
		&app.LoanTypeID, &app.LoanTypeName, &app.DesiredAmount, &app.TenureMonths, &app.InterestRate,
		&app.MonthlyPayment, &app.TotalInterest, &app.TotalPayable,
		&app.AppliedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByOwner returns the user's applications, newest first.
func (r *LoanApplicationRepo) ListByOwner(ctx context.Context, userID string) ([]*models.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM loan_applications WHERE user_id = $1 ORDER BY applied_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list applications", err)
	}
	defer rows.Close()

	apps := []*models.LoanApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan application", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list applications", err)
	}
	return apps, nil
}

// GetByOwner fetches one application, enforcing ownership in the query so a
// foreign id behaves exactly like a missing one.
func (r *LoanApplicationRepo) GetByOwner(ctx context.Context, userID, id string) (*models.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM loan_applications WHERE id = $1 AND user_id = $2`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("loan application", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get application", err)
	}
	return app, nil
}

// ApplicationPatch carries the owner-editable contact fields. Nil fields are
// left untouched.
type ApplicationPatch struct {
	Email        *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
}

// UpdateByOwner applies a partial update to the owner's application.
func (r *LoanApplicationRepo) UpdateByOwner(ctx context.Context, userID, id string, patch ApplicationPatch) error {
	query := `
		UPDATE loan_applications SET
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			address_line1 = COALESCE($5, address_line1),
			address_line2 = COALESCE($6, address_line2),
			city = COALESCE($7, city),
			state = COALESCE($8, state),
			postal_code = COALESCE($9, postal_code),
			updated_at = $10
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID,
		patch.Email, patch.Phone,
		patch.AddressLine1, patch.AddressLine2, patch.City, patch.State, patch.PostalCode,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update application", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("update application", err)
	}
	if affected == 0 {
		return errors.NewRecordNotFoundError("loan application", id)
	}
	return nil
}

// DeleteByOwner removes the owner's application.
func (r *LoanApplicationRepo) DeleteByOwner(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM loan_applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete application", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete application", err)
	}
	if affected == 0 {
		return errors.NewRecordNotFoundError("loan application", id)
	}
	return nil
}

// UpdateStatus sets a new status on any user's application. Authorization is
// enforced at the handler layer; the repo only checks the status enumeration.
func (r *LoanApplicationRepo) UpdateStatus(ctx context.Context, id string, status models.LoanStatus) (*models.LoanApplication, error) {
	if !status.Valid() {
		return nil, errors.NewValidationFailedError("unknown application status: " + string(status))
	}

	query := `
		UPDATE loan_applications SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRowContext(ctx, query,
		id, status, time.Now().UTC().Format(time.RFC3339)))
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("loan application", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("update application status", err)
	}

	r.logger.Info("application status updated", map[string]interface{}{
		"applicationId": id,
		"status":        string(status),
	})
	return app, nil
}
