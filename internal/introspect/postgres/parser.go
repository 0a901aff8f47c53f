// Package postgres implements the Parser contract for PostgreSQL,
// reading tables and columns from information_schema and indexes,
// foreign keys, and enum labels from pg_catalog.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dbscribe/internal/core"
)

// Parser reads a PostgreSQL catalog, scoped to the "public" schema.
type Parser struct {
	db     *sql.DB
	dbName string
	schema string
}

// New returns a Parser bound to db for the named database, introspecting
// the "public" schema.
func New(db *sql.DB, databaseName string) *Parser {
	return &Parser{db: db, dbName: databaseName, schema: "public"}
}

func (p *Parser) DatabaseName() string      { return p.dbName }
func (p *Parser) DriverTag() core.DriverTag { return core.DriverPgSQL }

// ListTables returns base table names in the bound schema, sorted by
// name, skipping names present in exclude.
func (p *Parser) ListTables(ctx context.Context, exclude map[string]bool) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, p.schema)
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

// TableExists reports whether name is a base table in the bound schema.
func (p *Parser) TableExists(ctx context.Context, name string) (bool, error) {
	var found int
	err := p.db.QueryRowContext(ctx, `
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = $1 AND table_name = $2 AND table_type = 'BASE TABLE'
	`, p.schema, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, core.NewQueryFailed("information_schema.tables", err)
	}
	return true, nil
}

// ParseTable runs the table-comment, column, index, and foreign-key
// catalog queries and composes the result into a Table, per §4.1.
func (p *Parser) ParseTable(ctx context.Context, name string) (*core.Table, error) {
	exists, err := p.TableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &core.TableNotFoundError{Name: name}
	}

	t := &core.Table{Name: name, Attributes: map[string]any{string(core.AttrSchema): p.schema}}
	if err := introspectTableComment(ctx, p.db, p.schema, t); err != nil {
		return nil, err
	}
	if err := introspectColumns(ctx, p.db, p.schema, t); err != nil {
		return nil, err
	}
	if err := introspectIndexes(ctx, p.db, p.schema, t); err != nil {
		return nil, err
	}
	if err := introspectForeignKeys(ctx, p.db, p.schema, t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("postgres: table %q: %w", name, err)
	}
	return t, nil
}
