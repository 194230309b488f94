package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/runabol/mountgate/health"
	"github.com/stretchr/testify/assert"
)

func TestDBIndicatorUp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	assert.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	ind := health.DBIndicator(sqlx.NewDb(db, "sqlmock"))
	assert.NoError(t, ind(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBIndicatorDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	assert.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	ind := health.DBIndicator(sqlx.NewDb(db, "sqlmock"))
	err = ind(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSQLIndicatorUnknownDriver(t *testing.T) {
	ind := health.SQLIndicator("nosuchdriver", "")
	assert.Error(t, ind(context.Background()))
}

func TestSQLIndicatorUnreachable(t *testing.T) {
	ind := health.SQLIndicator(health.DriverPostgres, "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	assert.Error(t, ind(context.Background()))
}
