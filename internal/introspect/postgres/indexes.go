package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dbscribe/internal/core"
)

func introspectIndexes(ctx context.Context, db *sql.DB, schema string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT
			i.relname AS index_name,
			ix.indisunique,
			ix.indisprimary,
			am.amname,
			a.attname,
			array_position(ix.indkey, a.attnum)
		FROM pg_index ix
		JOIN pg_class t2 ON t2.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t2.relnamespace
		JOIN pg_am am ON am.oid = i.relam
		JOIN pg_attribute a ON a.attrelid = t2.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1 AND t2.relname = $2
		ORDER BY i.relname, array_position(ix.indkey, a.attnum)
	`, schema, t.Name)
	if err != nil {
		return core.NewQueryFailed("pg_index", err)
	}
	defer rows.Close()

	type acc struct {
		unique    bool
		primary   bool
		algorithm string
		cols      []string
	}
	order := []string{}
	byName := map[string]*acc{}

	for rows.Next() {
		var name, amname, col string
		var unique, primary bool
		var pos int
		if err := rows.Scan(&name, &unique, &primary, &amname, &col, &pos); err != nil {
			return err
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{unique: unique, primary: primary, algorithm: amname}
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
		if strings.EqualFold(a.algorithm, "hash") {
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
