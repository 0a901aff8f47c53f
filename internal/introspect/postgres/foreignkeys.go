package postgres

import (
	"context"
	"database/sql"

	"dbscribe/internal/core"
)

func introspectForeignKeys(ctx context.Context, db *sql.DB, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			con.conname,
			con.confupdtype,
			con.confdeltype,
			a.attname AS column_name,
			af.attname AS ref_column_name,
			cf.relname AS ref_table_name,
			array_position(con.conkey, a.attnum)
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_class cf ON cf.oid = con.confrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = ANY(con.conkey)
		JOIN pg_attribute af ON af.attrelid = con.confrelid AND af.attnum = con.confkey[array_position(con.conkey, a.attnum)]
		WHERE con.contype = 'f' AND n.nspname = $1 AND c.relname = $2
		ORDER BY con.conname, array_position(con.conkey, a.attnum)
	`, schema, t.Name)
	if err != nil {
		return core.NewQueryFailed("pg_constraint", err)
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
