package mssql

import (
	"context"
	"database/sql"

	"dbscribe/internal/core"
	"dbscribe/internal/introspect/normalize"
	"dbscribe/internal/typemap"
)

func introspectColumns(ctx context.Context, db *sql.DB, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.name,
			ty.name AS type_name,
			c.max_length,
			c.precision,
			c.scale,
			c.is_nullable,
			c.is_identity,
			dc.definition AS default_definition,
			CAST(ep.value AS nvarchar(max)) AS comment,
			cc.definition AS computed_definition
		FROM sys.columns c
		JOIN sys.tables tb ON tb.object_id = c.object_id
		JOIN sys.schemas s ON s.schema_id = tb.schema_id
		JOIN sys.types ty ON ty.user_type_id = c.user_type_id
		LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
		LEFT JOIN sys.computed_columns cc ON cc.object_id = c.object_id AND cc.column_id = c.column_id
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = c.object_id AND ep.minor_id = c.column_id AND ep.name = 'MS_Description'
		WHERE s.name = @p1 AND tb.name = @p2
		ORDER BY c.column_id
	`, schema, t.Name)
	if err != nil {
		return core.NewQueryFailed("sys.columns", err)
	}
	defer rows.Close()

	tm := typemap.NewBuilder(core.DialectMSSQL).Build()

	for rows.Next() {
		var name, typeName string
		var maxLength int
		var precision, scale int
		var nullable, identity bool
		var defaultDef, comment, computedDef sql.NullString
		if err := rows.Scan(&name, &typeName, &maxLength, &precision, &scale, &nullable, &identity, &defaultDef, &comment, &computedDef); err != nil {
			return err
		}

		canonical := tm.Canonical(typeName)
		col := &core.Column{
			Name:          name,
			Type:          canonical,
			NativeType:    typeName,
			Nullable:      nullable,
			AutoIncrement: identity,
			Comment:       comment.String,
			Attributes:    map[string]any{},
		}
		if isVariableLength(typeName) && maxLength > 0 {
			l := maxLength
			if isWide(typeName) {
				l /= 2
			}
			col.Length = &l
		}
		if canonical == core.TypeDecimal {
			p, s := precision, scale
			col.Precision, col.Scale = &p, &s
		}
		if defaultDef.Valid {
			col.Default = normalize.ParseDefault(defaultDef.String, canonical == core.TypeBoolean)
		}
		if computedDef.Valid && computedDef.String != "" {
			col.Attributes[string(core.AttrComputed)] = true
			col.Attributes[string(core.AttrIsExpr)] = computedDef.String
		}

		t.Columns = append(t.Columns, col)
	}

	return rows.Err()
}

func isVariableLength(typeName string) bool {
	switch typeName {
	case "char", "varchar", "nchar", "nvarchar", "binary", "varbinary":
		return true
	default:
		return false
	}
}

func isWide(typeName string) bool {
	return typeName == "nchar" || typeName == "nvarchar"
}
