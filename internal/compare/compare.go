// Package compare implements the Schema Comparator (§4.6): a structural
// diff between two schema sets, in direct mode (two live Tables) or
// migration-aware mode (a live Table set against the table/column names
// the external Legacy Scanner extracted from old creation scripts).
package compare

import (
	"dbscribe/internal/core"
)

// ColumnChange names one differing attribute between two versions of a
// column, carrying both values for reporting.
type ColumnChange struct {
	Field  string
	Before any
	After  any
}

// ColumnDiff is one column that differs between current and target.
type ColumnDiff struct {
	Name    string
	Changes []ColumnChange
}

// TableDiff is the per-table structural diff computed by compareTable.
type TableDiff struct {
	Name string

	AddedColumns    []string
	DroppedColumns  []string
	ModifiedColumns []ColumnDiff

	AddedIndexes   []string
	DroppedIndexes []string

	AddedForeignKeys   []string
	DroppedForeignKeys []string
}

// IsEmpty reports whether the table has no detected drift.
func (d TableDiff) IsEmpty() bool {
	return len(d.AddedColumns) == 0 && len(d.DroppedColumns) == 0 && len(d.ModifiedColumns) == 0 &&
		len(d.AddedIndexes) == 0 && len(d.DroppedIndexes) == 0 &&
		len(d.AddedForeignKeys) == 0 && len(d.DroppedForeignKeys) == 0
}

// Diff is the result of Compare: table names created/dropped outright,
// plus the per-table diff for every table present on both sides that
// changed.
type Diff struct {
	Created  []string
	Dropped  []string
	Modified []TableDiff
}

// IsInSync is true iff every list in the Diff is empty.
func (d Diff) IsInSync() bool {
	return len(d.Created) == 0 && len(d.Dropped) == 0 && len(d.Modified) == 0
}

// Compare runs direct mode: set difference on table names for
// created/dropped, then compareTable on the intersection.
func Compare(current, target []*core.Table) Diff {
	curByName := indexByName(current)
	tgtByName := indexByName(target)

	var diff Diff
	for _, t := range target {
		if _, ok := curByName[t.Name]; !ok {
			diff.Created = append(diff.Created, t.Name)
		}
	}
	for _, c := range current {
		if _, ok := tgtByName[c.Name]; !ok {
			diff.Dropped = append(diff.Dropped, c.Name)
		}
	}
	for _, c := range current {
		t, ok := tgtByName[c.Name]
		if !ok {
			continue
		}
		td := compareTable(c, t)
		if !td.IsEmpty() {
			diff.Modified = append(diff.Modified, td)
		}
	}
	return diff
}

func indexByName(tables []*core.Table) map[string]*core.Table {
	m := make(map[string]*core.Table, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}
	return m
}

// compareTable computes added/dropped/modified columns, added/dropped
// indexes, and added/dropped FKs between two versions of the same table.
// A column counts as modified iff any of {type, nullable, default,
// length, precision, scale} differ. Indexes and FKs match by name.
func compareTable(current, target *core.Table) TableDiff {
	td := TableDiff{Name: current.Name}

	curCols := columnsByName(current)
	tgtCols := columnsByName(target)
	for _, c := range target.Columns {
		if _, ok := curCols[c.Name]; !ok {
			td.AddedColumns = append(td.AddedColumns, c.Name)
		}
	}
	for _, c := range current.Columns {
		tc, ok := tgtCols[c.Name]
		if !ok {
			td.DroppedColumns = append(td.DroppedColumns, c.Name)
			continue
		}
		if changes := diffColumn(c, tc); len(changes) > 0 {
			td.ModifiedColumns = append(td.ModifiedColumns, ColumnDiff{Name: c.Name, Changes: changes})
		}
	}

	curIdx := indexesByName(current.Indexes)
	tgtIdx := indexesByName(target.Indexes)
	for name := range tgtIdx {
		if _, ok := curIdx[name]; !ok {
			td.AddedIndexes = append(td.AddedIndexes, name)
		}
	}
	for name := range curIdx {
		if _, ok := tgtIdx[name]; !ok {
			td.DroppedIndexes = append(td.DroppedIndexes, name)
		}
	}

	curFK := fksByName(current.ForeignKeys)
	tgtFK := fksByName(target.ForeignKeys)
	for name := range tgtFK {
		if _, ok := curFK[name]; !ok {
			td.AddedForeignKeys = append(td.AddedForeignKeys, name)
		}
	}
	for name := range curFK {
		if _, ok := tgtFK[name]; !ok {
			td.DroppedForeignKeys = append(td.DroppedForeignKeys, name)
		}
	}

	return td
}

func columnsByName(t *core.Table) map[string]*core.Column {
	m := make(map[string]*core.Column, len(t.Columns))
	for _, c := range t.Columns {
		m[c.Name] = c
	}
	return m
}

func indexesByName(indexes []*core.Index) map[string]*core.Index {
	m := make(map[string]*core.Index, len(indexes))
	for _, i := range indexes {
		m[i.Name] = i
	}
	return m
}

func fksByName(fks []*core.ForeignKey) map[string]*core.ForeignKey {
	m := make(map[string]*core.ForeignKey, len(fks))
	for _, fk := range fks {
		m[fk.Name] = fk
	}
	return m
}

func diffColumn(current, target *core.Column) []ColumnChange {
	var changes []ColumnChange
	if current.Type != target.Type {
		changes = append(changes, ColumnChange{Field: "type", Before: current.Type, After: target.Type})
	}
	if current.Nullable != target.Nullable {
		changes = append(changes, ColumnChange{Field: "nullable", Before: current.Nullable, After: target.Nullable})
	}
	if !sameDefault(current.Default, target.Default) {
		changes = append(changes, ColumnChange{Field: "default", Before: current.Default, After: target.Default})
	}
	if !sameIntPtr(current.Length, target.Length) {
		changes = append(changes, ColumnChange{Field: "length", Before: current.Length, After: target.Length})
	}
	if !sameIntPtr(current.Precision, target.Precision) {
		changes = append(changes, ColumnChange{Field: "precision", Before: current.Precision, After: target.Precision})
	}
	if !sameIntPtr(current.Scale, target.Scale) {
		changes = append(changes, ColumnChange{Field: "scale", Before: current.Scale, After: target.Scale})
	}
	return changes
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameDefault(a, b *core.DefaultValue) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Value == b.Value && a.Raw == b.Raw
}

// LegacyExtraction is what the external Migration Scanner (§1, "out of
// scope") produces from lexically reading old creation scripts: the set
// of table names it found, and per table the set of column names its
// scan recognized. It misses columns introduced only via condensed
// helper directives (timestamps(), softDeletes()) — ported as-is from
// the source, per the open limitation in §9.
type LegacyExtraction struct {
	Tables  []string
	Columns map[string][]string // table name -> column names
}

// MigrationDiff is the result of CompareWithMigrations.
type MigrationDiff struct {
	New      []string
	Modified []string
	Removed  []string
}

// CompareWithMigrations runs migration-aware mode: tables relative to the
// union of table names extracted from legacy scripts. "Modified" is a
// coarser check than direct mode: any column named in the live schema
// but absent from the scanner's extraction for that table, or vice versa.
func CompareWithMigrations(tables []*core.Table, legacy LegacyExtraction) MigrationDiff {
	legacyTables := make(map[string]bool, len(legacy.Tables))
	for _, name := range legacy.Tables {
		legacyTables[name] = true
	}
	liveTables := make(map[string]bool, len(tables))

	var diff MigrationDiff
	for _, t := range tables {
		liveTables[t.Name] = true
		if !legacyTables[t.Name] {
			diff.New = append(diff.New, t.Name)
			continue
		}
		if columnsDrifted(t, legacy.Columns[t.Name]) {
			diff.Modified = append(diff.Modified, t.Name)
		}
	}
	for _, name := range legacy.Tables {
		if !liveTables[name] {
			diff.Removed = append(diff.Removed, name)
		}
	}
	return diff
}

func columnsDrifted(t *core.Table, legacyCols []string) bool {
	legacySet := make(map[string]bool, len(legacyCols))
	for _, c := range legacyCols {
		legacySet[c] = true
	}
	liveSet := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		liveSet[c.Name] = true
		if !legacySet[c.Name] {
			return true
		}
	}
	for name := range legacySet {
		if !liveSet[name] {
			return true
		}
	}
	return false
}

// IsInSync reports whether a direct-mode Diff shows no drift at all.
func IsInSync(d Diff) bool { return d.IsInSync() }
