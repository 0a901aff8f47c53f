package postgres

import (
	"context"
	"database/sql"

	"dbscribe/internal/core"
)

func introspectTableComment(ctx context.Context, db *sql.DB, schema string, t *core.Table) error {
	var comment sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT obj_description(format('%I.%I', $1::text, $2::text)::regclass::oid, 'pg_class')
	`, schema, t.Name).Scan(&comment)
	if err != nil {
		return core.NewQueryFailed("obj_description", err)
	}
	t.Comment = comment.String
	return nil
}
