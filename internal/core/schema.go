package core

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect identifies a supported SQL dialect. MariaDB shares MySQL's
// parser and type map; it is listed separately so a connection can be
// configured under either name. Nothing probes the server to tell them apart.
type Dialect string

const (
	DialectMySQL      Dialect = "mysql"
	DialectMariaDB    Dialect = "mariadb"
	DialectPostgreSQL Dialect = "postgresql"
	DialectSQLite     Dialect = "sqlite"
	DialectMSSQL      Dialect = "mssql"
)

// DriverTag is the short token a database/sql driver name normalizes to
// (mysql, pgsql, sqlite, sqlsrv), used by the dialect Factory in §6.
type DriverTag string

const (
	DriverMySQL  DriverTag = "mysql"
	DriverPgSQL  DriverTag = "pgsql"
	DriverSQLite DriverTag = "sqlite"
	DriverSQLSrv DriverTag = "sqlsrv"
)

// DriverTag returns the driver family this dialect resolves to.
func (d Dialect) DriverTag() DriverTag {
	switch d {
	case DialectMySQL, DialectMariaDB:
		return DriverMySQL
	case DialectPostgreSQL:
		return DriverPgSQL
	case DialectSQLite:
		return DriverSQLite
	case DialectMSSQL:
		return DriverSQLSrv
	default:
		return ""
	}
}

// Database is the unit a Parser produces and every downstream component
// (Dependency Engine, Detector, Emitters, Comparator) consumes.
type Database struct {
	Name    string
	Dialect Dialect
	Tables  []*Table
}

// FindTable looks up a table by name, or nil if absent.
func (db *Database) FindTable(name string) *Table {
	if db == nil {
		return nil
	}
	for _, t := range db.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// DataType is the closed, dialect-neutral column type vocabulary. Every
// Parser reduces its dialect's native tokens down to one of these.
type DataType string

const (
	// Integer family.
	TypeTinyInt   DataType = "tiny"
	TypeSmallInt  DataType = "small"
	TypeMediumInt DataType = "medium"
	TypeInt       DataType = "int"
	TypeBigInt    DataType = "big"

	// Floating / fixed point.
	TypeFloat   DataType = "float"
	TypeDouble  DataType = "double"
	TypeDecimal DataType = "decimal"

	// Textual.
	TypeChar       DataType = "char"
	TypeVarchar    DataType = "varchar"
	TypeText       DataType = "text"
	TypeTinyText   DataType = "tinytext"
	TypeMediumText DataType = "mediumtext"
	TypeLongText   DataType = "longtext"

	// Binary.
	TypeBinary DataType = "binary"
	TypeBlob   DataType = "blob"

	// Temporal.
	TypeDate        DataType = "date"
	TypeTime        DataType = "time"
	TypeDatetime    DataType = "datetime"
	TypeTimestamp   DataType = "timestamp"
	TypeTimestampTZ DataType = "timestamp-tz"
	TypeYear        DataType = "year"

	// Structured.
	TypeJSON  DataType = "json"
	TypeJSONB DataType = "jsonb"

	// Logical.
	TypeBoolean DataType = "boolean"

	// Identity.
	TypeUUID DataType = "uuid"
	TypeULID DataType = "ulid"

	// Enumerable.
	TypeEnum DataType = "enum"
	TypeSet  DataType = "set"

	// Spatial.
	TypePoint    DataType = "point"
	TypePolygon  DataType = "polygon"
	TypeGeometry DataType = "geometry"

	TypeUnknown DataType = "unknown"
)

var integerFamily = map[DataType]bool{
	TypeTinyInt: true, TypeSmallInt: true, TypeMediumInt: true,
	TypeInt: true, TypeBigInt: true,
}

// IsIntegerFamily reports whether t belongs to the integer family, the
// precondition for AutoIncrement per the Column invariant in §3.
func (t DataType) IsIntegerFamily() bool { return integerFamily[t] }

var temporalFamily = map[DataType]bool{
	TypeDate: true, TypeTime: true, TypeDatetime: true,
	TypeTimestamp: true, TypeTimestampTZ: true, TypeYear: true,
}

// IsTemporal reports whether t belongs to the temporal family.
func (t DataType) IsTemporal() bool { return temporalFamily[t] }

// IsEnumerable reports whether t carries an attached enum_values list.
func (t DataType) IsEnumerable() bool { return t == TypeEnum || t == TypeSet }

// AttributeKey names a well-known flag carried in a Column or Table's
// free-form Attributes map, per the discriminated-union-plus-escape-hatch
// design of §9.
type AttributeKey string

const (
	AttrPrimary    AttributeKey = "primary"
	AttrEnumValues AttributeKey = "enum_values"
	AttrComputed   AttributeKey = "computed"
	AttrMaxVarchar AttributeKey = "max_varchar"
	AttrIsExpr     AttributeKey = "default_is_expression"
	AttrSchema     AttributeKey = "schema" // dialect namespace, e.g. Postgres schema
)

// Column is an immutable description of one table column, produced by a
// Parser and never mutated afterward.
type Column struct {
	Name string

	// Type is the canonical, dialect-neutral classification.
	Type DataType
	// NativeType preserves the raw dialect string as read from the catalog.
	NativeType string

	Nullable      bool
	AutoIncrement bool
	Unsigned      bool

	Length    *int
	Precision *int
	Scale     *int

	Charset   string
	Collation string
	Comment   string
	Default   *DefaultValue

	// Attributes carries well-known flags (see AttributeKey) plus any
	// dialect-specific escape hatch that doesn't warrant its own field.
	Attributes map[string]any
}

// DefaultValue is the typed, parsed form of a catalog default-value
// string, per the normalization rules in §4.1.
type DefaultValue struct {
	// Kind classifies how Value/Raw should be interpreted.
	Kind DefaultKind
	// Value holds the typed literal for Kind in {String, Int, Float, Bool}.
	Value any
	// Raw preserves the verbatim expression text for Kind == Expression
	// (e.g. "CURRENT_TIMESTAMP", "NOW()", "UUID()"); the emitter wraps it
	// in a raw-SQL marker rather than quoting it.
	Raw string
}

// DefaultKind classifies a DefaultValue's Kind.
type DefaultKind string

const (
	DefaultNull       DefaultKind = "null"
	DefaultString     DefaultKind = "string"
	DefaultInt        DefaultKind = "int"
	DefaultFloat      DefaultKind = "float"
	DefaultBool       DefaultKind = "bool"
	DefaultExpression DefaultKind = "expression"
)

// IsPrimary reports whether the column is flagged as part of the primary
// key via its Attributes map.
func (c *Column) IsPrimary() bool {
	if c == nil || c.Attributes == nil {
		return false
	}
	v, _ := c.Attributes[string(AttrPrimary)].(bool)
	return v
}

// EnumValues returns the attached value list for enum/set columns.
func (c *Column) EnumValues() []string {
	if c == nil || c.Attributes == nil {
		return nil
	}
	v, _ := c.Attributes[string(AttrEnumValues)].([]string)
	return v
}

// IsComputed reports whether the column is a generated/computed column.
func (c *Column) IsComputed() bool {
	if c == nil || c.Attributes == nil {
		return false
	}
	v, _ := c.Attributes[string(AttrComputed)].(bool)
	return v
}

// Validate checks the Column invariants from §3.
func (c *Column) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("core: column has empty name")
	}
	if c.Precision != nil && c.Scale != nil && *c.Scale > *c.Precision {
		return fmt.Errorf("core: column %q: scale %d exceeds precision %d", c.Name, *c.Scale, *c.Precision)
	}
	if c.AutoIncrement && !c.Type.IsIntegerFamily() {
		return fmt.Errorf("core: column %q: auto_increment on non-integer type %q", c.Name, c.Type)
	}
	if c.Type.IsEnumerable() && len(c.EnumValues()) == 0 {
		return fmt.Errorf("core: column %q: type %q requires non-empty enum_values", c.Name, c.Type)
	}
	return nil
}

// IndexKind is the closed vocabulary of index kinds from §3.
type IndexKind string

const (
	IndexPrimary  IndexKind = "primary"
	IndexUnique   IndexKind = "unique"
	IndexPlain    IndexKind = "index"
	IndexFulltext IndexKind = "fulltext"
	IndexSpatial  IndexKind = "spatial"
)

// IndexAlgorithm is an optional storage-algorithm hint.
type IndexAlgorithm string

const (
	AlgorithmBTree IndexAlgorithm = "btree"
	AlgorithmHash  IndexAlgorithm = "hash"
)

// Index describes one index on a table.
type Index struct {
	Name      string
	Kind      IndexKind
	Columns   []string
	Algorithm IndexAlgorithm
}

// IsComposite reports whether the index covers more than one column.
func (i *Index) IsComposite() bool { return len(i.Columns) > 1 }

// Validate checks the Index invariants from §3.
func (i *Index) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("core: index has empty name")
	}
	if len(i.Columns) == 0 {
		return fmt.Errorf("core: index %q has no columns", i.Name)
	}
	return nil
}

// ReferentialAction is the closed vocabulary of FK actions from §3.
// Unknown catalog values degrade to NoAction per §7.
type ReferentialAction string

const (
	ActionCascade    ReferentialAction = "cascade"
	ActionSetNull    ReferentialAction = "set_null"
	ActionSetDefault ReferentialAction = "set_default"
	ActionRestrict   ReferentialAction = "restrict"
	ActionNoAction   ReferentialAction = "no_action"
)

// ForeignKey describes one foreign key on a table.
type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          ReferentialAction
	OnUpdate          ReferentialAction
}

// Validate checks the ForeignKey invariants from §3.
func (fk *ForeignKey) Validate() error {
	if fk.Name == "" {
		return fmt.Errorf("core: foreign key has empty name")
	}
	if len(fk.Columns) == 0 {
		return fmt.Errorf("core: foreign key %q has no local columns", fk.Name)
	}
	if len(fk.Columns) != len(fk.ReferencedColumns) {
		return fmt.Errorf("core: foreign key %q: %d local columns but %d referenced columns",
			fk.Name, len(fk.Columns), len(fk.ReferencedColumns))
	}
	if fk.ReferencedTable == "" {
		return fmt.Errorf("core: foreign key %q has no referenced table", fk.Name)
	}
	return nil
}

// IsSelfReference reports whether the FK's referenced table is its own
// owning table.
func (fk *ForeignKey) IsSelfReference(owner string) bool {
	return fk.ReferencedTable == owner
}

// Table is an immutable description of one table, produced by a Parser.
// Columns preserve catalog (ordinal) order; Indexes and ForeignKeys are
// unordered sets identified by name.
type Table struct {
	Name        string
	Columns     []*Column
	Indexes     []*Index
	ForeignKeys []*ForeignKey

	Engine    string
	Charset   string
	Collation string
	Comment   string

	// Attributes carries dialect-specific extras, e.g. a Postgres schema
	// namespace (AttrSchema).
	Attributes map[string]any
}

func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (t *Table) FindIndex(name string) *Index {
	for _, i := range t.Indexes {
		if i.Name == name {
			return i
		}
	}
	return nil
}

func (t *Table) FindForeignKey(name string) *ForeignKey {
	for _, fk := range t.ForeignKeys {
		if fk.Name == name {
			return fk
		}
	}
	return nil
}

// PrimaryKeyIndex returns the table's single Primary index, or nil.
func (t *Table) PrimaryKeyIndex() *Index {
	for _, i := range t.Indexes {
		if i.Kind == IndexPrimary {
			return i
		}
	}
	return nil
}

// PrimaryKeyColumns returns the primary key's column names, preferring the
// Primary index, falling back to columns individually flagged via
// Column.IsPrimary (some dialects expose PK membership only per-column).
func (t *Table) PrimaryKeyColumns() []string {
	if pk := t.PrimaryKeyIndex(); pk != nil {
		return pk.Columns
	}
	var cols []string
	for _, c := range t.Columns {
		if c.IsPrimary() {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// String renders a short diagnostic summary, in the teacher's style.
func (t *Table) String() string {
	return fmt.Sprintf("Table: %s (%d cols, %d indexes, %d foreign keys)",
		t.Name, len(t.Columns), len(t.Indexes), len(t.ForeignKeys))
}

// Validate checks the Table invariants from §3: every column referenced by
// an index or FK (local side) exists, at most one Primary index, and index
// names are unique within the table.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("core: table has empty name")
	}
	cols := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if err := c.Validate(); err != nil {
			return err
		}
		cols[c.Name] = true
	}

	seenIndexNames := make(map[string]bool, len(t.Indexes))
	primaryCount := 0
	for _, idx := range t.Indexes {
		if err := idx.Validate(); err != nil {
			return err
		}
		if seenIndexNames[idx.Name] {
			return fmt.Errorf("core: table %q: duplicate index name %q", t.Name, idx.Name)
		}
		seenIndexNames[idx.Name] = true
		if idx.Kind == IndexPrimary {
			primaryCount++
		}
		for _, col := range idx.Columns {
			if !cols[col] {
				return fmt.Errorf("core: table %q: index %q references unknown column %q", t.Name, idx.Name, col)
			}
		}
	}
	if primaryCount > 1 {
		return fmt.Errorf("core: table %q: %d primary indexes, expected at most one", t.Name, primaryCount)
	}

	for _, fk := range t.ForeignKeys {
		if err := fk.Validate(); err != nil {
			return err
		}
		for _, col := range fk.Columns {
			if !cols[col] {
				return fmt.Errorf("core: table %q: foreign key %q references unknown local column %q", t.Name, fk.Name, col)
			}
		}
	}
	return nil
}

// SortedTableNames is a small determinism helper returning the table names
// in sorted order, independent of input order.
func SortedTableNames(tables []*Table) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}

// MapFKAction maps a dialect-specific action token to the canonical
// vocabulary. Unknown values degrade to NoAction per §7.
func MapFKAction(native string) ReferentialAction {
	switch strings.ToUpper(strings.TrimSpace(native)) {
	case "CASCADE", "C":
		return ActionCascade
	case "SET NULL", "SET_NULL", "N":
		return ActionSetNull
	case "SET DEFAULT", "SET_DEFAULT", "D":
		return ActionSetDefault
	case "RESTRICT", "R":
		return ActionRestrict
	case "NO ACTION", "NO_ACTION", "A", "":
		return ActionNoAction
	default:
		return ActionNoAction
	}
}
