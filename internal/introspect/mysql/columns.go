package mysql

import (
	"context"
	"database/sql"
	"strings"

	"dbscribe/internal/core"
	"dbscribe/internal/introspect/normalize"
	"dbscribe/internal/typemap"
)

func introspectColumns(ctx context.Context, db *sql.DB, dbName string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.column_name,
			c.column_type,
			c.column_comment,
			c.is_nullable,
			c.column_default,
			c.extra,
			c.character_set_name,
			c.collation_name,
			c.column_key,
			c.generation_expression
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`, dbName, t.Name)
	if err != nil {
		return core.NewQueryFailed("information_schema.columns", err)
	}
	defer rows.Close()

	tm := typemap.NewBuilder(core.DialectMySQL).Build()

	for rows.Next() {
		var name, colType, comment, nullable, defaultVal, extra, charset, collation, colKey, genExpr sql.NullString
		if err := rows.Scan(&name, &colType, &comment, &nullable, &defaultVal, &extra, &charset, &collation, &colKey, &genExpr); err != nil {
			return err
		}

		canonical := tm.Canonical(colType.String)
		unsigned := strings.Contains(strings.ToLower(colType.String), "unsigned")

		col := &core.Column{
			Name:          name.String,
			Type:          canonical,
			NativeType:    colType.String,
			Nullable:      nullable.String == "YES",
			AutoIncrement: strings.Contains(extra.String, "auto_increment"),
			Unsigned:      unsigned,
			Length:        normalize.ExtractLength(colType.String),
			Charset:       charset.String,
			Collation:     collation.String,
			Comment:       comment.String,
			Attributes:    map[string]any{},
		}
		if canonical == core.TypeDecimal {
			col.Precision, col.Scale = normalize.ExtractPrecisionScale(colType.String)
		}
		if canonical.IsEnumerable() {
			col.Attributes[string(core.AttrEnumValues)] = normalize.ExtractEnumValues(colType.String)
		}
		if colKey.String == "PRI" {
			col.Attributes[string(core.AttrPrimary)] = true
		}
		if genExpr.Valid && genExpr.String != "" {
			col.Attributes[string(core.AttrComputed)] = true
			col.Attributes[string(core.AttrIsExpr)] = genExpr.String
		}
		if defaultVal.Valid {
			col.Default = normalize.ParseDefault(defaultVal.String, canonical == core.TypeBoolean)
		}

		t.Columns = append(t.Columns, col)
	}

	return rows.Err()
}
