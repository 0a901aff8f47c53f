package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"dbscribe/internal/core"
)

func introspectForeignKeys(ctx context.Context, db *sql.DB, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `PRAGMA foreign_key_list(`+quoteIdent(t.Name)+`)`)
	if err != nil {
		return core.NewQueryFailed("PRAGMA foreign_key_list", err)
	}
	defer rows.Close()

	type acc struct {
		refTable string
		onUpdate string
		onDelete string
		cols     []string
		refCols  []string
	}
	order := []int{}
	byID := map[int]*acc{}

	for rows.Next() {
		var id, seq int
		var refTable, from, to, onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return err
		}
		a, ok := byID[id]
		if !ok {
			a = &acc{refTable: refTable, onUpdate: onUpdate, onDelete: onDelete}
			byID[id] = a
			order = append(order, id)
		}
		a.cols = append(a.cols, from)
		a.refCols = append(a.refCols, to)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sort.Ints(order)
	for _, id := range order {
		a := byID[id]
		t.ForeignKeys = append(t.ForeignKeys, &core.ForeignKey{
			Name:              fmt.Sprintf("fk_%s_%d", t.Name, id),
			Columns:           a.cols,
			ReferencedTable:   a.refTable,
			ReferencedColumns: a.refCols,
			OnUpdate:          core.MapFKAction(a.onUpdate),
			OnDelete:          core.MapFKAction(a.onDelete),
		})
	}
	return nil
}
