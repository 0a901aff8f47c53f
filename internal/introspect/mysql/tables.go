package mysql

import (
	"context"
	"database/sql"
	"strings"

	"dbscribe/internal/core"
)

func introspectTableOptions(ctx context.Context, db *sql.DB, dbName string, t *core.Table) error {
	row := db.QueryRowContext(ctx, `
		SELECT engine, table_collation, table_comment
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
	`, dbName, t.Name)

	var engine, collation, comment sql.NullString
	if err := row.Scan(&engine, &collation, &comment); err != nil {
		return core.NewQueryFailed("information_schema.tables", err)
	}

	t.Engine = engine.String
	t.Comment = comment.String
	t.Collation = collation.String
	if idx := strings.Index(collation.String, "_"); idx > 0 {
		t.Charset = collation.String[:idx]
	}
	return nil
}
