// Package mssql implements the Parser contract for SQL Server, reading
// the sys.* catalog views rather than information_schema, which is
// needed to see identity columns and named default/check constraints.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	"dbscribe/internal/core"
)

// Parser reads a SQL Server sys.* catalog, scoped to the "dbo" schema.
type Parser struct {
	db     *sql.DB
	dbName string
	schema string
}

// New returns a Parser bound to db for the named database, introspecting
// the "dbo" schema.
func New(db *sql.DB, databaseName string) *Parser {
	return &Parser{db: db, dbName: databaseName, schema: "dbo"}
}

func (p *Parser) DatabaseName() string      { return p.dbName }
func (p *Parser) DriverTag() core.DriverTag { return core.DriverSQLSrv }

// ListTables returns base table names in the bound schema, sorted by
// name, skipping names present in exclude.
func (p *Parser) ListTables(ctx context.Context, exclude map[string]bool) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT t.name
		FROM sys.tables t
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE s.name = @p1
		ORDER BY t.name
	`, p.schema)
	if err != nil {
		return nil, core.NewQueryFailed("sys.tables", err)
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
		SELECT 1 FROM sys.tables t
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE s.name = @p1 AND t.name = @p2
	`, p.schema, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, core.NewQueryFailed("sys.tables", err)
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
		return nil, fmt.Errorf("mssql: table %q: %w", name, err)
	}
	return t, nil
}
