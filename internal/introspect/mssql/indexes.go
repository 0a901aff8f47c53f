package mssql

import (
	"context"
	"database/sql"

	"dbscribe/internal/core"
)

func introspectIndexes(ctx context.Context, db *sql.DB, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			i.name,
			i.is_unique,
			i.is_primary_key,
			i.type_desc,
			c.name AS column_name,
			ic.key_ordinal
		FROM sys.indexes i
		JOIN sys.tables tb ON tb.object_id = i.object_id
		JOIN sys.schemas s ON s.schema_id = tb.schema_id
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
		WHERE s.name = @p1 AND tb.name = @p2 AND i.name IS NOT NULL
		ORDER BY i.name, ic.key_ordinal
	`, schema, t.Name)
	if err != nil {
		return core.NewQueryFailed("sys.indexes", err)
	}
	defer rows.Close()

	type acc struct {
		unique  bool
		primary bool
		typeDesc string
		cols    []string
	}
	order := []string{}
	byName := map[string]*acc{}

	for rows.Next() {
		var name, typeDesc, col string
		var unique, primary bool
		var ordinal int
		if err := rows.Scan(&name, &unique, &primary, &typeDesc, &col, &ordinal); err != nil {
			return err
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{unique: unique, primary: primary, typeDesc: typeDesc}
			byName[name] = a
			order = append(order, name)
		}
		a.cols = append(a.cols, col)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		a := byName[name]
		kind := core.IndexPlain
		switch {
		case a.primary:
			kind = core.IndexPrimary
		case a.unique:
			kind = core.IndexUnique
		}
		algo := core.AlgorithmBTree
		if a.typeDesc == "NONCLUSTERED HASH" || a.typeDesc == "HASH" {
			algo = core.AlgorithmHash
		}
		t.Indexes = append(t.Indexes, &core.Index{
			Name:      name,
			Kind:      kind,
			Columns:   a.cols,
			Algorithm: algo,
		})
	}
	return nil
}
