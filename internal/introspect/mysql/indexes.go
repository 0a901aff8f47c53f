package mysql

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"dbscribe/internal/core"
)

type indexColRow struct {
	seq  int
	name string
}

func introspectIndexes(ctx context.Context, db *sql.DB, dbName string, t *core.Table) error {
	rows, err := db.QueryContext(ctx, `
		SELECT index_name, non_unique, index_type, seq_in_index, column_name
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ?
		ORDER BY index_name, seq_in_index
	`, dbName, t.Name)
	if err != nil {
		return core.NewQueryFailed("information_schema.statistics", err)
	}
	defer rows.Close()

	type acc struct {
		nonUnique int
		indexType string
		cols      []indexColRow
	}
	order := []string{}
	byName := map[string]*acc{}

	for rows.Next() {
		var name, indexType string
		var nonUnique, seq int
		var col string
		if err := rows.Scan(&name, &nonUnique, &indexType, &seq, &col); err != nil {
			return err
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{nonUnique: nonUnique, indexType: indexType}
			byName[name] = a
			order = append(order, name)
		}
		a.cols = append(a.cols, indexColRow{seq: seq, name: col})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range order {
		a := byName[name]
		sort.Slice(a.cols, func(i, j int) bool { return a.cols[i].seq < a.cols[j].seq })
		cols := make([]string, len(a.cols))
		for i, c := range a.cols {
			cols[i] = c.name
		}

		idx := &core.Index{
			Name:      name,
			Columns:   cols,
			Kind:      classifyIndexKind(name, a.nonUnique == 0, a.indexType),
			Algorithm: classifyAlgorithm(a.indexType),
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return nil
}

func classifyIndexKind(name string, unique bool, indexType string) core.IndexKind {
	switch {
	case name == "PRIMARY":
		return core.IndexPrimary
	case strings.EqualFold(indexType, "FULLTEXT"):
		return core.IndexFulltext
	case strings.EqualFold(indexType, "SPATIAL"):
		return core.IndexSpatial
	case unique:
		return core.IndexUnique
	default:
		return core.IndexPlain
	}
}

func classifyAlgorithm(indexType string) core.IndexAlgorithm {
	if strings.EqualFold(indexType, "HASH") {
		return core.AlgorithmHash
	}
	return core.AlgorithmBTree
}
