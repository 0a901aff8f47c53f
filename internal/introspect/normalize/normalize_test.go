package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbscribe/internal/core"
)

func TestStripCast(t *testing.T) {
	assert.Equal(t, "0", StripCast("0::text"))
	assert.Equal(t, "0", StripCast("((0))"))
	assert.Equal(t, "1", StripCast("b'1'"))
	assert.Equal(t, "hello", StripCast("hello"))
}

func TestParseDefaultKinds(t *testing.T) {
	require.Nil(t, ParseDefault("", false))

	d := ParseDefault("NULL", false)
	require.NotNil(t, d)
	assert.Equal(t, core.DefaultNull, d.Kind)

	d = ParseDefault("'hello''s'", false)
	require.NotNil(t, d)
	assert.Equal(t, core.DefaultString, d.Kind)
	assert.Equal(t, "hello's", d.Value)

	d = ParseDefault("42", false)
	require.NotNil(t, d)
	assert.Equal(t, core.DefaultInt, d.Kind)
	assert.EqualValues(t, 42, d.Value)

	d = ParseDefault("3.14", false)
	require.NotNil(t, d)
	assert.Equal(t, core.DefaultFloat, d.Kind)

	d = ParseDefault("1", true)
	require.NotNil(t, d)
	assert.Equal(t, core.DefaultBool, d.Kind)
	assert.Equal(t, true, d.Value)

	d = ParseDefault("CURRENT_TIMESTAMP", false)
	require.NotNil(t, d)
	assert.Equal(t, core.DefaultExpression, d.Kind)
	assert.Equal(t, "CURRENT_TIMESTAMP", d.Value)
}

func TestExtractLength(t *testing.T) {
	l := ExtractLength("varchar(255)")
	require.NotNil(t, l)
	assert.Equal(t, 255, *l)
	assert.Nil(t, ExtractLength("text"))
}

func TestExtractPrecisionScale(t *testing.T) {
	p, s := ExtractPrecisionScale("decimal(10,2)")
	require.NotNil(t, p)
	require.NotNil(t, s)
	assert.Equal(t, 10, *p)
	assert.Equal(t, 2, *s)

	p, s = ExtractPrecisionScale("decimal(10)")
	require.NotNil(t, p)
	assert.Nil(t, s)
}

func TestExtractEnumValues(t *testing.T) {
	values := ExtractEnumValues("enum('draft','published','archived')")
	assert.Equal(t, []string{"draft", "published", "archived"}, values)
}

func TestIsAutoIncrementExpression(t *testing.T) {
	assert.True(t, IsAutoIncrementExpression("nextval('users_id_seq'::regclass)"))
	assert.False(t, IsAutoIncrementExpression("CURRENT_TIMESTAMP"))
}
