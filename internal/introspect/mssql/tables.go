package mssql

import (
	"context"
	"database/sql"

	"dbscribe/internal/core"
)

func introspectTableComment(ctx context.Context, db *sql.DB, schema string, t *core.Table) error {
	var comment sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT CAST(ep.value AS nvarchar(max))
		FROM sys.tables tb
		JOIN sys.schemas s ON s.schema_id = tb.schema_id
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = tb.object_id AND ep.minor_id = 0 AND ep.name = 'MS_Description'
		WHERE s.name = @p1 AND tb.name = @p2
	`, schema, t.Name).Scan(&comment)
	if err != nil && err != sql.ErrNoRows {
		return core.NewQueryFailed("sys.extended_properties", err)
	}
	t.Comment = comment.String
	return nil
}
