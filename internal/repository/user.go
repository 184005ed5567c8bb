// internal/repository/user.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

// UserRepo persists accounts. Passwords are stored as bcrypt hashes and never
// leave this package in plaintext.
type UserRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserRepo(db *sql.DB, log logger.Logger) *UserRepo {
	return &UserRepo{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "user-repo"}),
	}
}

// Create registers a new account with the default user role.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.NewValidationFailedError("password hashing failed")
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, phone, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.Email, user.Phone, string(hash), user.Role, user.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.NewValidationFailedError("username or email already registered")
		}
		return errors.NewDatabaseInsertFailedError(err)
	}

	user.Password = ""
	return nil
}

// Authenticate verifies the credentials and returns the stored account.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (r *UserRepo) Authenticate(ctx context.Context, login models.UserLogin) (*models.User, error) {
	var user models.User
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, phone, password_hash, role, created_at
		 FROM users WHERE username = $1`, login.Username).
		Scan(&user.ID, &user.Username, &user.Email, &user.Phone, &hash, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewAuthenticationError("invalid credentials")
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(login.Password)); err != nil {
		return nil, errors.NewAuthenticationError("invalid credentials")
	}
	return &user, nil
}

// GetByUsername fetches an account without credential verification. The OTP
// flow uses it to resolve the delivery phone number.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, phone, role, created_at
		 FROM users WHERE username = $1`, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.Phone, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("user", username)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get user", err)
	}
	return &user, nil
}
