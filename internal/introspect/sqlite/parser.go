// Package sqlite implements the Parser contract for SQLite, reading the
// PRAGMA table-metadata functions rather than a catalog schema, since
// SQLite exposes none.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"dbscribe/internal/core"
)

// Parser reads a SQLite database via PRAGMA statements.
type Parser struct {
	db     *sql.DB
	dbName string
}

// New returns a Parser bound to db.
func New(db *sql.DB, databaseName string) *Parser {
	return &Parser{db: db, dbName: databaseName}
}

func (p *Parser) DatabaseName() string      { return p.dbName }
func (p *Parser) DriverTag() core.DriverTag { return core.DriverSQLite }

// ListTables returns base table names, sorted by name, skipping
// SQLite's internal sqlite_% tables and any name present in exclude.
func (p *Parser) ListTables(ctx context.Context, exclude map[string]bool) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name
	`)
	if err != nil {
		return nil, core.NewQueryFailed("sqlite_master", err)
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

// TableExists reports whether name is a base table.
func (p *Parser) TableExists(ctx context.Context, name string) (bool, error) {
	var found int
	err := p.db.QueryRowContext(ctx, `
		SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?
	`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, core.NewQueryFailed("sqlite_master", err)
	}
	return true, nil
}

// ParseTable runs the PRAGMA table_info / index_list / foreign_key_list
// statements and composes the result into a Table, per §4.1.
func (p *Parser) ParseTable(ctx context.Context, name string) (*core.Table, error) {
	exists, err := p.TableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &core.TableNotFoundError{Name: name}
	}

	t := &core.Table{Name: name, Attributes: map[string]any{}}
	pkCols, err := introspectColumns(ctx, p.db, t)
	if err != nil {
		return nil, err
	}
	if err := introspectIndexes(ctx, p.db, t, pkCols); err != nil {
		return nil, err
	}
	if err := introspectForeignKeys(ctx, p.db, t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("sqlite: table %q: %w", name, err)
	}
	return t, nil
}
