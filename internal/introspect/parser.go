// Package introspect defines the Parser contract every dialect
// implementation satisfies, plus the factory that selects one by
// dialect. Earlier revisions of this tool kept a process-wide mutable
// registry populated by package init() side effects; per the design note
// in §9 that pattern is gone; NewParser is a plain switch over a
// closed set of dialects, so adding one is a one-line change with no
// import-order-dependent registration.
package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"dbscribe/internal/core"
	"dbscribe/internal/introspect/mssql"
	"dbscribe/internal/introspect/mysql"
	"dbscribe/internal/introspect/postgres"
	"dbscribe/internal/introspect/sqlite"
)

// Parser turns one live database connection into Schema Model values, per
// the contract in §4.1.
type Parser interface {
	ListTables(ctx context.Context, exclude map[string]bool) ([]string, error)
	ParseTable(ctx context.Context, name string) (*core.Table, error)
	TableExists(ctx context.Context, name string) (bool, error)
	DatabaseName() string
	DriverTag() core.DriverTag
}

// NewParser selects the Parser implementation for the connection's
// dialect. An unrecognized dialect fails with core.ErrUnsupportedDriver.
func NewParser(dialect core.Dialect, db *sql.DB, databaseName string) (Parser, error) {
	switch dialect {
	case core.DialectMySQL, core.DialectMariaDB:
		return mysql.New(db, databaseName, dialect), nil
	case core.DialectPostgreSQL:
		return postgres.New(db, databaseName), nil
	case core.DialectSQLite:
		return sqlite.New(db, databaseName), nil
	case core.DialectMSSQL:
		return mssql.New(db, databaseName), nil
	default:
		return nil, fmt.Errorf("introspect: dialect %q: %w", dialect, core.ErrUnsupportedDriver)
	}
}
