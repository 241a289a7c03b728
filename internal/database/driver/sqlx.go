package driver

import (
	storage "bannerwindow/internal/database"
	"bannerwindow/pkg/lib/sl"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type SQLXConfig struct {
	DriverName     string
	DataSourceName string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
}

func PostgresDSN(host string, port int, user, password, dbName, sslMode string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s "+"password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode,
	)
}

func (c *SQLXConfig) NewSQLXDatabase(log *slog.Logger) (*sqlx.DB, error) {
	const op = "database.driver.sqlx.NewSQLXDatabase"

	log = log.With(
		slog.String("op", op),
		slog.String("driver", c.DriverName),
	)

	if c.DriverName != DriverPostgres && c.DriverName != DriverSQLite {
		return nil, fmt.Errorf("%s: %w: %s", op, storage.ErrUnsupportedDriver, c.DriverName)
	}

	db, err := sqlx.Open(c.DriverName, c.DataSourceName)
	if err != nil {
		log.Error("failed to open database", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	maxOpen, maxIdle, maxLifetime := c.MaxOpenConns, c.MaxIdleConns, c.MaxLifetime
	if c.DriverName == DriverSQLite && c.DataSourceName == ":memory:" {
		// every new connection to ":memory:" is a separate empty database,
		// so the single connection must never be dropped
		maxOpen, maxIdle, maxLifetime = 1, 1, 0
	}

	log.Info(
		"database parameters",
		slog.Int("max number of open connections", maxOpen),
		slog.Int("max number of idle connections", maxIdle),
		slog.Duration("max lifetime of open connection", maxLifetime),
	)

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	if err = db.Ping(); err != nil {
		log.Error("failed to ping database", sl.Err(err))
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return db, nil
}
