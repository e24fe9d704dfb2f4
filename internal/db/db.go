package db

import (
	"database/sql"
	"strconv"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"schema-link/internal/config"
)

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens a Postgres connection with the statement timeout configured
// once at connection establishment. The server kills any statement exceeding
// the limit on its own; the guard only classifies the resulting error.
func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	timeoutMS := cfg.StatementTimeoutSeconds * 1000
	opts := []pgdriver.Option{
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithConnParams(map[string]interface{}{
			"statement_timeout": strconv.Itoa(timeoutMS),
		}),
	}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
}
