// internal/common/database/postgres_test.go
package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeflow/internal/common/errors"
)

// ==========================================
// Ping Tests
// ==========================================

func TestPostgresClient_Ping(t *testing.T) {
	t.Run("healthy connection", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		mock.ExpectPing()

		client := &PostgresClient{DB: db}
		assert.NoError(t, client.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable database surfaces a connection error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		mock.ExpectPing().WillReturnError(fmt.Errorf("dial tcp 127.0.0.1:5432: connect: connection refused"))

		client := &PostgresClient{DB: db}
		err = client.Ping(context.Background())
		require.Error(t, err)

		stdErr, ok := err.(*errors.StandardError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeDatabaseConnectionFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
		assert.Contains(t, stdErr.Details, "connection refused")
	})
}
