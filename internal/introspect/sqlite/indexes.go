package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"dbscribe/internal/core"
)

// introspectIndexes populates t.Indexes from PRAGMA index_list/index_info,
// discarding SQLite's synthetic sqlite_autoindex_* entries, and
// synthesizes the Primary index from the primary-key columns table_info
// already extracted, since SQLite never lists it as a regular index.
func introspectIndexes(ctx context.Context, db *sql.DB, t *core.Table, pkCols []string) error {
	if len(pkCols) > 0 {
		t.Indexes = append(t.Indexes, &core.Index{
			Name:      "PRIMARY",
			Kind:      core.IndexPrimary,
			Columns:   pkCols,
			Algorithm: core.AlgorithmBTree,
		})
	}

	rows, err := db.QueryContext(ctx, `PRAGMA index_list(`+quoteIdent(t.Name)+`)`)
	if err != nil {
		return core.NewQueryFailed("PRAGMA index_list", err)
	}
	defer rows.Close()

	type listRow struct {
		name   string
		unique bool
		origin string
	}
	var list []listRow
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return err
		}
		list = append(list, listRow{name: name, unique: unique == 1, origin: origin})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, li := range list {
		if strings.HasPrefix(li.name, "sqlite_autoindex_") {
			continue
		}
		cols, err := indexColumns(ctx, db, li.name)
		if err != nil {
			return err
		}
		kind := core.IndexPlain
		if li.unique {
			kind = core.IndexUnique
		}
		t.Indexes = append(t.Indexes, &core.Index{
			Name:      li.name,
			Kind:      kind,
			Columns:   cols,
			Algorithm: core.AlgorithmBTree,
		})
	}
	return nil
}

func indexColumns(ctx context.Context, db *sql.DB, indexName string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA index_info(`+quoteIdent(indexName)+`)`)
	if err != nil {
		return nil, core.NewQueryFailed("PRAGMA index_info", err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		cols = append(cols, name.String)
	}
	return cols, rows.Err()
}
