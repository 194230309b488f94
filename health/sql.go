package health

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// SQLIndicator opens a fresh connection on every call so that a server
// which only just started listening is picked up on the next attempt.
func SQLIndicator(driver, dsn string) HealthIndicator {
	return func(ctx context.Context) error {
		db, err := sqlx.Open(driver, dsn)
		if err != nil {
			return errors.Wrapf(err, "unable to open %s connection", driver)
		}
		defer db.Close()
		return DBIndicator(db)(ctx)
	}
}

func DBIndicator(db *sqlx.DB) HealthIndicator {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Wrapf(err, "error pinging %s", db.DriverName())
		}
		return nil
	}
}
