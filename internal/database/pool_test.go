package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("dial tcp: connection refused")))
	assert.True(t, isRetryableError(errors.New("driver: bad connection")))
	assert.False(t, isRetryableError(errors.New(`pq: relation "bookings" does not exist`)))
	assert.False(t, isRetryableError(nil))
}

func TestQueryWithRetry(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := Wrap(sqlDB)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	rows, err := db.QueryWithRetry(context.Background(), "SELECT 1")
	require.NoError(t, err)
	rows.Close()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryWithRetryNonRetryable(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := Wrap(sqlDB)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("syntax error"))

	_, err = db.QueryWithRetry(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-retryable")
}

func TestHealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	db := Wrap(sqlDB)
	defer db.Close()

	mock.ExpectPing()
	hc := db.HealthCheck(context.Background())
	assert.Equal(t, "healthy", hc.Status)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	hc = db.HealthCheck(context.Background())
	assert.Equal(t, "unhealthy", hc.Status)
	assert.Equal(t, "connection refused", hc.Error)
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "zeko", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=zeko sslmode=disable", cfg.DSN())
}
