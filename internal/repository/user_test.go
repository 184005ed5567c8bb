// internal/repository/user_test.go
package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/logger"
	"financeflow/internal/models"
)

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db, logger.NewNoOpLogger()), mock
}

func testUser() *models.User {
	return &models.User{
		Username: "asha",
		Email:    "asha.menon@example.com",
		Phone:    "9876543210",
		Password: "correct-horse",
	}
}

func TestUserRepo_Create(t *testing.T) {
	repo, mock := newUserRepo(t)
	user := testUser()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), user))

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role, "defaults to the user role")
	assert.Empty(t, user.Password, "plaintext cleared after hashing")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), testUser())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.Normalize(err).Code)
}

func TestUserRepo_Authenticate(t *testing.T) {
	repo, mock := newUserRepo(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "phone", "password_hash", "role", "created_at"}).
		AddRow("user-1", "asha", "asha.menon@example.com", "9876543210", string(hash), "user", "2024-01-01T00:00:00Z")
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("asha").
		WillReturnRows(rows)

	user, err := repo.Authenticate(context.Background(), models.UserLogin{Username: "asha", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestUserRepo_Authenticate_WrongPassword(t *testing.T) {
	repo, mock := newUserRepo(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "phone", "password_hash", "role", "created_at"}).
		AddRow("user-1", "asha", "asha.menon@example.com", "9876543210", string(hash), "user", "2024-01-01T00:00:00Z")
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WillReturnRows(rows)

	_, err = repo.Authenticate(context.Background(), models.UserLogin{Username: "asha", Password: "tr0ub4dor"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, errors.Normalize(err).Code)
}

func TestUserRepo_Authenticate_UnknownUser(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "phone", "password_hash", "role", "created_at"}))

	_, err := repo.Authenticate(context.Background(), models.UserLogin{Username: "ghost", Password: "anything"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, errors.Normalize(err).Code,
		"unknown user and wrong password are indistinguishable")
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "phone", "role", "created_at"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRecordNotFound, errors.Normalize(err).Code)
}
