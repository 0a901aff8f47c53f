package mssql

import (
	"context"
	"database/sql"

	"dbscribe/internal/core"
)

func introspectForeignKeys(ctx context.Context, db *sql.DB, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			fk.name,
			fk.update_referential_action_desc,
			fk.delete_referential_action_desc,
			c.name AS column_name,
			rc.name AS ref_column_name,
			rt.name AS ref_table_name,
			fkc.constraint_column_id
		FROM sys.foreign_keys fk
		JOIN sys.tables t2 ON t2.object_id = fk.parent_object_id
		JOIN sys.schemas s ON s.schema_id = t2.schema_id
		JOIN sys.tables rt ON rt.object_id = fk.referenced_object_id
		JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
		JOIN sys.columns c ON c.object_id = fkc.parent_object_id AND c.column_id = fkc.parent_column_id
		JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
		WHERE s.name = @p1 AND t2.name = @p2
		ORDER BY fk.name, fkc.constraint_column_id
	`, schema, t.Name)
	if err != nil {
		return core.NewQueryFailed("sys.foreign_keys", err)
	}
	defer rows.Close()

	type acc struct {
		refTable string
		onUpdate string
		onDelete string
		cols     []string
		refCols  []string
	}
	order := []string{}
	byName := map[string]*acc{}

	for rows.Next() {
		var name, onUpdate, onDelete, col, refCol, refTable string
		var pos int
		if err := rows.Scan(&name, &onUpdate, &onDelete, &col, &refCol, &refTable, &pos); err != nil {
			return err
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{refTable: refTable, onUpdate: onUpdate, onDelete: onDelete}
			byName[name] = a
			order = append(order, name)
		}
		a.cols = append(a.cols, col)
		a.refCols = append(a.refCols, refCol)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		a := byName[name]
		t.ForeignKeys = append(t.ForeignKeys, &core.ForeignKey{
			Name:              name,
			Columns:           a.cols,
			ReferencedTable:   a.refTable,
			ReferencedColumns: a.refCols,
			OnUpdate:          core.MapFKAction(a.onUpdate),
			OnDelete:          core.MapFKAction(a.onDelete),
		})
	}
	return nil
}
