// Package mysql implements the Parser contract for MySQL and MariaDB,
// which share a catalog (information_schema) closely enough to need only
// one implementation, distinguished by the Dialect passed to New.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"dbscribe/internal/core"
)

// Parser reads a MySQL/MariaDB information_schema.
type Parser struct {
	db      *sql.DB
	dbName  string
	dialect core.Dialect
}

// New returns a Parser bound to db for the named database/schema.
func New(db *sql.DB, databaseName string, dialect core.Dialect) *Parser {
	return &Parser{db: db, dbName: databaseName, dialect: dialect}
}

func (p *Parser) DatabaseName() string    { return p.dbName }
func (p *Parser) DriverTag() core.DriverTag { return core.DriverMySQL }

// ListTables returns base table names in the bound database, sorted by
// name, skipping names present in exclude.
func (p *Parser) ListTables(ctx context.Context, exclude map[string]bool) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, p.dbName)
	if err != nil {
		return nil, core.NewQueryFailed("information_schema.tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if exclude[name] {
			continue
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableExists reports whether name is a base table in the bound database.
func (p *Parser) TableExists(ctx context.Context, name string) (bool, error) {
	var found int
	err := p.db.QueryRowContext(ctx, `
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ? AND table_type = 'BASE TABLE'
	`, p.dbName, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, core.NewQueryFailed("information_schema.tables", err)
	}
	return true, nil
}

// ParseTable runs the table-metadata, column, index, and foreign-key
// catalog queries and composes the result into a Table, per §4.1.
func (p *Parser) ParseTable(ctx context.Context, name string) (*core.Table, error) {
	exists, err := p.TableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &core.TableNotFoundError{Name: name}
	}

	t := &core.Table{Name: name, Attributes: map[string]any{}}
	if err := introspectTableOptions(ctx, p.db, p.dbName, t); err != nil {
		return nil, err
	}
	if err := introspectColumns(ctx, p.db, p.dbName, t); err != nil {
		return nil, err
	}
	if err := introspectIndexes(ctx, p.db, p.dbName, t); err != nil {
		return nil, err
	}
	if err := introspectForeignKeys(ctx, p.db, p.dbName, t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("mysql: table %q: %w", name, err)
	}
	return t, nil
}
