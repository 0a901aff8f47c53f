package mysql

import (
	"context"
	"database/sql"
	"sort"

	"dbscribe/internal/core"
)

type fkColRow struct {
	seq          int
	column       string
	refColumn    string
}

func introspectForeignKeys(ctx context.Context, db *sql.DB, dbName string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			k.constraint_name,
			k.ordinal_position,
			k.column_name,
			k.referenced_table_name,
			k.referenced_column_name,
			r.update_rule,
			r.delete_rule
		FROM information_schema.key_column_usage k
		JOIN information_schema.referential_constraints r
			ON r.constraint_schema = k.table_schema
			AND r.constraint_name = k.constraint_name
		WHERE k.table_schema = ? AND k.table_name = ? AND k.referenced_table_name IS NOT NULL
		ORDER BY k.constraint_name, k.ordinal_position
	`, dbName, t.Name)
	if err != nil {
		return core.NewQueryFailed("information_schema.key_column_usage", err)
	}
	defer rows.Close()

	type acc struct {
		refTable   string
		onUpdate   string
		onDelete   string
		cols       []fkColRow
	}
	order := []string{}
	byName := map[string]*acc{}

	for rows.Next() {
		var name, refTable, updateRule, deleteRule, col, refCol string
		var seq int
		if err := rows.Scan(&name, &seq, &col, &refTable, &refCol, &updateRule, &deleteRule); err != nil {
			return err
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{refTable: refTable, onUpdate: updateRule, onDelete: deleteRule}
			byName[name] = a
			order = append(order, name)
		}
		a.cols = append(a.cols, fkColRow{seq: seq, column: col, refColumn: refCol})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		a := byName[name]
		sort.Slice(a.cols, func(i, j int) bool { return a.cols[i].seq < a.cols[j].seq })
		cols := make([]string, len(a.cols))
		refCols := make([]string, len(a.cols))
		for i, c := range a.cols {
			cols[i] = c.column
			refCols[i] = c.refColumn
		}

		t.ForeignKeys = append(t.ForeignKeys, &core.ForeignKey{
			Name:              name,
			Columns:           cols,
			ReferencedTable:   a.refTable,
			ReferencedColumns: refCols,
			OnUpdate:          core.MapFKAction(a.onUpdate),
			OnDelete:          core.MapFKAction(a.onDelete),
		})
	}
	return nil
}
