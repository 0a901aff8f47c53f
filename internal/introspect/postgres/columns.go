package postgres

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
			c.column_name,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.collation_name,
			col_description(format('%I.%I', c.table_schema, c.table_name)::regclass::oid, c.ordinal_position)
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`, schema, t.Name)
	if err != nil {
		return core.NewQueryFailed("information_schema.columns", err)
	}
	defer rows.Close()

	tm := typemap.NewBuilder(core.DialectPostgreSQL).Build()

	for rows.Next() {
		var name, udtName, nullable string
		var defaultVal, collation, comment sql.NullString
		var charLen, numPrecision, numScale sql.NullInt64
		if err := rows.Scan(&name, &udtName, &nullable, &defaultVal, &charLen, &numPrecision, &numScale, &collation, &comment); err != nil {
			return err
		}

		canonical := tm.Canonical(udtName)
		col := &core.Column{
			Name:       name,
			Type:       canonical,
			NativeType: udtName,
			Nullable:   nullable == "YES",
			Collation:  collation.String,
			Comment:    comment.String,
			Attributes: map[string]any{},
		}
		if charLen.Valid {
			l := int(charLen.Int64)
			col.Length = &l
		}
		if numPrecision.Valid {
			p := int(numPrecision.Int64)
			col.Precision = &p
		}
		if numScale.Valid {
			s := int(numScale.Int64)
			col.Scale = &s
		}
		if defaultVal.Valid {
			col.Default = normalize.ParseDefault(defaultVal.String, canonical == core.TypeBoolean)
			if normalize.IsAutoIncrementExpression(defaultVal.String) {
				col.AutoIncrement = true
			}
		}
		// serial pseudo-types resolve to int/bigint/smallint udt_name with
		// a nextval() default; the columns-level check above already
		// covers them, but bare SERIAL declared inline without a visible
		// default string cannot occur via udt_name alone, so no further
		// detection is required here.

		if canonical == core.TypeEnum {
			values, err := enumLabels(ctx, db, udtName)
			if err != nil {
				return err
			}
			col.Attributes[string(core.AttrEnumValues)] = values
		}

		t.Columns = append(t.Columns, col)
	}

	return rows.Err()
}

func enumLabels(ctx context.Context, db *sql.DB, typeName string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.enumlabel
		FROM pg_enum e
		JOIN pg_type t ON t.oid = e.enumtypid
		WHERE t.typname = $1
		ORDER BY e.enumsortorder
	`, typeName)
	if err != nil {
		return nil, core.NewQueryFailed("pg_enum", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
