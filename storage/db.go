package storage

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "modernc.org/sqlite"
)

//go:embed schema/ledger.sql
var ledgerSchema string

const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

type DB = *sqlx.DB

// Open connects to a duckdb or sqlite database and creates the
// ledger tables when missing.
func Open(driver, dsn string) (DB, error) {
	switch driver {
	case DriverDuckDB, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %s", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range strings.Split(ledgerSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %s", err)
		}
	}

	return db, nil
}
