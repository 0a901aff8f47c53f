// Package typemap provides the per-dialect mapping between dbscribe's
// canonical core.DataType vocabulary, the native SQL type tokens a Parser
// reads from a catalog, and the column-definition tokens the Creation-
// Script and Class-Stub Emitters write back out.
//
// The registry is built, not mutated: a Builder assembles per-dialect
// overrides and produces an immutable Map, per the "module-level state
// becomes a builder" note in §9 — there is no process-wide mutable
// registry in dbscribe. The dialect Parsers build their Maps with no
// overrides, so the `type_mappings` config key is validated by
// internal/config but does not change how any column is typed.
package typemap

import (
	"regexp"
	"strconv"
	"strings"

	"dbscribe/internal/core"
)

// Map resolves native type tokens to canonical types for one dialect, and
// canonical types back to emission tokens.
type Map struct {
	dialect   core.Dialect
	overrides map[string]core.DataType // upper-cased native token -> canonical
}

// Builder assembles a Map. Overrides are applied before the built-in
// normalization rules, so an Override can redirect any native token to a
// different canonical type.
type Builder struct {
	dialect   core.Dialect
	overrides map[string]core.DataType
}

// NewBuilder starts a Builder for the given dialect.
func NewBuilder(dialect core.Dialect) *Builder {
	return &Builder{dialect: dialect, overrides: make(map[string]core.DataType)}
}

// Override redirects a native type token to a canonical type.
func (b *Builder) Override(nativeToken string, canonical core.DataType) *Builder {
	b.overrides[strings.ToUpper(strings.TrimSpace(nativeToken))] = canonical
	return b
}

// Build produces the immutable Map.
func (b *Builder) Build() *Map {
	cp := make(map[string]core.DataType, len(b.overrides))
	for k, v := range b.overrides {
		cp[k] = v
	}
	return &Map{dialect: b.dialect, overrides: cp}
}

var parenRe = regexp.MustCompile(`\([^)]*\)`)

func baseToken(native string) string {
	stripped := parenRe.ReplaceAllString(native, "")
	return strings.ToUpper(strings.TrimSpace(stripped))
}

// Canonical maps a native type string to the canonical DataType, applying
// any Builder overrides first, then the dialect's normalization rules.
func (m *Map) Canonical(native string) core.DataType {
	base := baseToken(native)
	if dt, ok := m.overrides[base]; ok {
		return dt
	}
	switch m.dialect {
	case core.DialectMySQL, core.DialectMariaDB:
		return mysqlCanonical(native)
	case core.DialectPostgreSQL:
		return postgresCanonical(native)
	case core.DialectSQLite:
		return sqliteAffinity(native)
	case core.DialectMSSQL:
		return mssqlCanonical(native)
	default:
		return core.TypeUnknown
	}
}

// mysqlNativeRules maps MySQL/MariaDB base type tokens to canonical types,
// per the worked examples in §4.1 (int2->smallInteger, etc. are Postgres;
// MySQL's own tokens are matched directly).
var mysqlNativeRules = map[string]core.DataType{
	"TINYINT": core.TypeTinyInt, "SMALLINT": core.TypeSmallInt,
	"MEDIUMINT": core.TypeMediumInt, "INT": core.TypeInt, "INTEGER": core.TypeInt,
	"BIGINT": core.TypeBigInt,
	"FLOAT":  core.TypeFloat, "DOUBLE": core.TypeDouble, "DOUBLE PRECISION": core.TypeDouble,
	"DECIMAL": core.TypeDecimal, "DEC": core.TypeDecimal, "NUMERIC": core.TypeDecimal,
	"CHAR": core.TypeChar, "VARCHAR": core.TypeVarchar,
	"TINYTEXT": core.TypeTinyText, "TEXT": core.TypeText,
	"MEDIUMTEXT": core.TypeMediumText, "LONGTEXT": core.TypeLongText,
	"BINARY": core.TypeBinary, "VARBINARY": core.TypeBinary,
	"TINYBLOB": core.TypeBlob, "BLOB": core.TypeBlob, "MEDIUMBLOB": core.TypeBlob, "LONGBLOB": core.TypeBlob,
	"DATE": core.TypeDate, "TIME": core.TypeTime, "DATETIME": core.TypeDatetime,
	"TIMESTAMP": core.TypeTimestamp, "YEAR": core.TypeYear,
	"JSON":    core.TypeJSON,
	"BOOL":    core.TypeBoolean, "BOOLEAN": core.TypeBoolean,
	"ENUM": core.TypeEnum, "SET": core.TypeSet,
	"POINT": core.TypePoint, "POLYGON": core.TypePolygon, "GEOMETRY": core.TypeGeometry,
	"UUID": core.TypeUUID, // MariaDB native UUID type
}

func mysqlCanonical(native string) core.DataType {
	base := baseToken(native)
	if dt, ok := mysqlNativeRules[base]; ok {
		return dt
	}
	return core.TypeUnknown
}

// postgresNativeRules maps PostgreSQL base type tokens, per the worked
// examples in §4.1 (int2->smallInteger, int8->bigInteger, varchar->string,
// bpchar->char, timestamptz->timestamp-tz).
var postgresNativeRules = map[string]core.DataType{
	"SMALLINT": core.TypeSmallInt, "INT2": core.TypeSmallInt,
	"INTEGER": core.TypeInt, "INT": core.TypeInt, "INT4": core.TypeInt,
	"BIGINT": core.TypeBigInt, "INT8": core.TypeBigInt,
	"DECIMAL": core.TypeDecimal, "NUMERIC": core.TypeDecimal,
	"REAL": core.TypeFloat, "FLOAT4": core.TypeFloat,
	"DOUBLE PRECISION": core.TypeDouble, "FLOAT8": core.TypeDouble,
	"SMALLSERIAL": core.TypeSmallInt, "SERIAL2": core.TypeSmallInt,
	"SERIAL": core.TypeInt, "SERIAL4": core.TypeInt,
	"BIGSERIAL": core.TypeBigInt, "SERIAL8": core.TypeBigInt,
	"CHARACTER": core.TypeChar, "CHAR": core.TypeChar, "BPCHAR": core.TypeChar,
	"CHARACTER VARYING": core.TypeVarchar, "VARCHAR": core.TypeVarchar,
	"TEXT":  core.TypeText,
	"BYTEA": core.TypeBinary,
	"TIMESTAMP": core.TypeTimestamp, "TIMESTAMP WITHOUT TIME ZONE": core.TypeTimestamp,
	"TIMESTAMP WITH TIME ZONE": core.TypeTimestampTZ, "TIMESTAMPTZ": core.TypeTimestampTZ,
	"DATE": core.TypeDate,
	"TIME": core.TypeTime, "TIME WITHOUT TIME ZONE": core.TypeTime,
	"TIME WITH TIME ZONE": core.TypeTime, "TIMETZ": core.TypeTime,
	// PostgreSQL interval loses range semantics under this vocabulary;
	// flagged, not silently extended, per §9.
	"INTERVAL": core.TypeVarchar,
	"BOOLEAN":  core.TypeBoolean, "BOOL": core.TypeBoolean,
	"JSON": core.TypeJSON, "JSONB": core.TypeJSONB,
	"UUID":    core.TypeUUID,
	"POINT":   core.TypePoint, "POLYGON": core.TypePolygon,
	"ENUM": core.TypeEnum,
}

func postgresCanonical(native string) core.DataType {
	base := baseToken(native)
	if dt, ok := postgresNativeRules[base]; ok {
		return dt
	}
	return core.TypeUnknown
}

// sqliteAffinity implements SQLite's type-affinity rules verbatim from
// §4.1: substring containment on the declared type, in a fixed priority
// order, falling back to NUMERIC affinity.
func sqliteAffinity(native string) core.DataType {
	lower := strings.ToLower(native)
	switch {
	case strings.Contains(lower, "int"):
		return core.TypeBigInt
	case strings.Contains(lower, "char"), strings.Contains(lower, "clob"), strings.Contains(lower, "text"):
		return core.TypeText
	case strings.Contains(lower, "blob"), lower == "":
		return core.TypeBlob
	case strings.Contains(lower, "real"), strings.Contains(lower, "floa"), strings.Contains(lower, "doub"):
		return core.TypeDouble
	case strings.Contains(lower, "bool"):
		return core.TypeBigInt
	case strings.Contains(lower, "date"), strings.Contains(lower, "time"):
		return core.TypeText
	default:
		return core.TypeDecimal
	}
}

var mssqlNativeRules = map[string]core.DataType{
	"TINYINT": core.TypeTinyInt, "SMALLINT": core.TypeSmallInt,
	"INT": core.TypeInt, "BIGINT": core.TypeBigInt,
	"DECIMAL": core.TypeDecimal, "NUMERIC": core.TypeDecimal,
	"REAL": core.TypeFloat, "FLOAT": core.TypeDouble,
	"CHAR": core.TypeChar, "NCHAR": core.TypeChar,
	"VARCHAR": core.TypeVarchar, "NVARCHAR": core.TypeVarchar,
	"TEXT": core.TypeText, "NTEXT": core.TypeText,
	"BINARY": core.TypeBinary, "VARBINARY": core.TypeBinary, "IMAGE": core.TypeBlob,
	"DATE": core.TypeDate, "TIME": core.TypeTime,
	"DATETIME": core.TypeDatetime, "DATETIME2": core.TypeDatetime, "SMALLDATETIME": core.TypeDatetime,
	"DATETIMEOFFSET": core.TypeTimestampTZ,
	"BIT":             core.TypeBoolean,
	"UNIQUEIDENTIFIER": core.TypeUUID,
}

func mssqlCanonical(native string) core.DataType {
	base := baseToken(native)
	if dt, ok := mssqlNativeRules[base]; ok {
		return dt
	}
	return core.TypeUnknown
}

// GoCastType returns the symbolic cast token the Class-Stub Emitter writes
// into a generated model's $casts property for a column of the given canonical type
// and scale, per §4.5.
func GoCastType(dt core.DataType, scale *int) string {
	switch {
	case dt == core.TypeBoolean:
		return "boolean"
	case dt == core.TypeJSON || dt == core.TypeJSONB:
		return "array"
	case dt == core.TypeDecimal:
		s := 2
		if scale != nil {
			s = *scale
		}
		return decimalCast(s)
	case dt.IsTemporal():
		return "datetime"
	default:
		return ""
	}
}

func decimalCast(scale int) string {
	return "decimal:" + strconv.Itoa(scale)
}

// EmitToken returns the creation-script method token for a column's
// canonical type (e.g. "string", "text", "bigInteger"), the base name the
// Creation-Script Emitter composes with the unsigned prefix or the
// auto-increment short-form per §4.4.
func EmitToken(dt core.DataType) string {
	switch dt {
	case core.TypeTinyInt:
		return "tinyInteger"
	case core.TypeSmallInt:
		return "smallInteger"
	case core.TypeMediumInt:
		return "mediumInteger"
	case core.TypeInt:
		return "integer"
	case core.TypeBigInt:
		return "bigInteger"
	case core.TypeFloat:
		return "float"
	case core.TypeDouble:
		return "double"
	case core.TypeDecimal:
		return "decimal"
	case core.TypeChar:
		return "char"
	case core.TypeVarchar:
		return "string"
	case core.TypeText:
		return "text"
	case core.TypeTinyText:
		return "tinyText"
	case core.TypeMediumText:
		return "mediumText"
	case core.TypeLongText:
		return "longText"
	case core.TypeBinary:
		return "binary"
	case core.TypeBlob:
		return "blob"
	case core.TypeDate:
		return "date"
	case core.TypeTime:
		return "time"
	case core.TypeDatetime:
		return "dateTime"
	case core.TypeTimestamp:
		return "timestamp"
	case core.TypeTimestampTZ:
		return "timestampTz"
	case core.TypeYear:
		return "year"
	case core.TypeJSON:
		return "json"
	case core.TypeJSONB:
		return "jsonb"
	case core.TypeBoolean:
		return "boolean"
	case core.TypeUUID:
		return "uuid"
	case core.TypeULID:
		return "ulid"
	case core.TypeEnum:
		return "enum"
	case core.TypeSet:
		return "set"
	case core.TypePoint:
		return "point"
	case core.TypePolygon:
		return "polygon"
	case core.TypeGeometry:
		return "geometry"
	default:
		return "string"
	}
}
