package sqlite

import (
	"context"
	"database/sql"
	"sort"

	"dbscribe/internal/core"
	"dbscribe/internal/introspect/normalize"
	"dbscribe/internal/typemap"
)

type pkCol struct {
	seq  int
	name string
}

// introspectColumns populates t.Columns from PRAGMA table_info and
// returns the primary-key columns in ordinal order, since SQLite never
// exposes the primary key through a regular index.
func introspectColumns(ctx context.Context, db *sql.DB, t *core.Table) ([]string, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(`+quoteIdent(t.Name)+`)`)
	if err != nil {
		return nil, core.NewQueryFailed("PRAGMA table_info", err)
	}
	defer rows.Close()

	tm := typemap.NewBuilder(core.DialectSQLite).Build()
	var pkCols []pkCol
	integerPK := ""

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}

		canonical := tm.Canonical(colType)
		col := &core.Column{
			Name:       name,
			Type:       canonical,
			NativeType: colType,
			Nullable:   notNull == 0,
			Length:     normalize.ExtractLength(colType),
			Attributes: map[string]any{},
		}
		if canonical == core.TypeDecimal {
			col.Precision, col.Scale = normalize.ExtractPrecisionScale(colType)
		}
		if dflt.Valid {
			col.Default = normalize.ParseDefault(dflt.String, canonical == core.TypeBoolean)
		}
		if pk > 0 {
			col.Attributes[string(core.AttrPrimary)] = true
			pkCols = append(pkCols, pkCol{seq: pk, name: name})
			if len(pkCols) == 1 && canonical == core.TypeBigInt {
				integerPK = name
			} else {
				integerPK = ""
			}
		}

		t.Columns = append(t.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(pkCols, func(i, j int) bool { return pkCols[i].seq < pkCols[j].seq })
	names := make([]string, len(pkCols))
	for i, c := range pkCols {
		names[i] = c.name
	}

	// A single INTEGER PRIMARY KEY column is an alias for the table's
	// rowid and behaves as an auto-increment identity, per §4.1.
	if integerPK != "" && len(pkCols) == 1 {
		if c := t.FindColumn(integerPK); c != nil {
			c.AutoIncrement = true
		}
	}

	return names, nil
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}
