package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dbscribe/internal/core"
)

func TestMySQLCanonical(t *testing.T) {
	m := NewBuilder(core.DialectMySQL).Build()
	cases := map[string]core.DataType{
		"varchar(255)": core.TypeVarchar,
		"BIGINT":       core.TypeBigInt,
		"tinyint(1)":   core.TypeTinyInt,
		"enum":         core.TypeEnum,
		"json":         core.TypeJSON,
	}
	for in, want := range cases {
		assert.Equal(t, want, m.Canonical(in), "Canonical(%q)", in)
	}
}

func TestPostgresWorkedExamples(t *testing.T) {
	m := NewBuilder(core.DialectPostgreSQL).Build()
	assert.Equal(t, core.TypeSmallInt, m.Canonical("int2"))
	assert.Equal(t, core.TypeBigInt, m.Canonical("int8"))
	assert.Equal(t, core.TypeVarchar, m.Canonical("varchar"))
	assert.Equal(t, core.TypeChar, m.Canonical("bpchar"))
	assert.Equal(t, core.TypeTimestampTZ, m.Canonical("timestamptz"))
	// interval loses range semantics by design, per §9.
	assert.Equal(t, core.TypeVarchar, m.Canonical("interval"))
}

func TestSQLiteAffinity(t *testing.T) {
	m := NewBuilder(core.DialectSQLite).Build()
	assert.Equal(t, core.TypeBigInt, m.Canonical("INTEGER"))
	assert.Equal(t, core.TypeBigInt, m.Canonical("BIGINT"))
	assert.Equal(t, core.TypeText, m.Canonical("VARCHAR(255)"))
	assert.Equal(t, core.TypeBlob, m.Canonical("BLOB"))
	assert.Equal(t, core.TypeDouble, m.Canonical("REAL"))
	assert.Equal(t, core.TypeBigInt, m.Canonical("BOOLEAN"))
	assert.Equal(t, core.TypeText, m.Canonical("DATE"))
	assert.Equal(t, core.TypeDecimal, m.Canonical("SOMETHING_WEIRD"))
}

func TestBuilderOverride(t *testing.T) {
	m := NewBuilder(core.DialectMySQL).Override("enum", core.TypeVarchar).Build()
	assert.Equal(t, core.TypeVarchar, m.Canonical("enum"))
}

func TestGoCastType(t *testing.T) {
	scale2 := 2
	assert.Equal(t, "boolean", GoCastType(core.TypeBoolean, nil))
	assert.Equal(t, "array", GoCastType(core.TypeJSON, nil))
	assert.Equal(t, "decimal:2", GoCastType(core.TypeDecimal, &scale2))
	assert.Equal(t, "decimal:2", GoCastType(core.TypeDecimal, nil))
	assert.Equal(t, "datetime", GoCastType(core.TypeTimestamp, nil))
	assert.Equal(t, "", GoCastType(core.TypeVarchar, nil))
}

func TestEmitToken(t *testing.T) {
	assert.Equal(t, "bigInteger", EmitToken(core.TypeBigInt))
	assert.Equal(t, "string", EmitToken(core.TypeVarchar))
	assert.Equal(t, "string", EmitToken(core.TypeUnknown))
}
