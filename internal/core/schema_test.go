package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestColumnValidate(t *testing.T) {
	t.Run("scale exceeding precision is rejected", func(t *testing.T) {
		c := &Column{Name: "amount", Type: TypeDecimal, Precision: intPtr(4), Scale: intPtr(6)}
		require.Error(t, c.Validate())
	})

	t.Run("auto increment requires integer family", func(t *testing.T) {
		c := &Column{Name: "id", Type: TypeVarchar, AutoIncrement: true}
		require.Error(t, c.Validate())

		c2 := &Column{Name: "id", Type: TypeBigInt, AutoIncrement: true}
		require.NoError(t, c2.Validate())
	})

	t.Run("enum requires non-empty enum_values", func(t *testing.T) {
		c := &Column{Name: "status", Type: TypeEnum}
		require.Error(t, c.Validate())

		c.Attributes = map[string]any{string(AttrEnumValues): []string{"draft", "published"}}
		require.NoError(t, c.Validate())
	})
}

func TestTableValidate(t *testing.T) {
	t.Run("at most one primary index", func(t *testing.T) {
		tbl := &Table{
			Name:    "users",
			Columns: []*Column{{Name: "id", Type: TypeBigInt}},
			Indexes: []*Index{
				{Name: "pk1", Kind: IndexPrimary, Columns: []string{"id"}},
				{Name: "pk2", Kind: IndexPrimary, Columns: []string{"id"}},
			},
		}
		require.Error(t, tbl.Validate())
	})

	t.Run("index names unique within table", func(t *testing.T) {
		tbl := &Table{
			Name:    "users",
			Columns: []*Column{{Name: "id", Type: TypeBigInt}, {Name: "email", Type: TypeVarchar}},
			Indexes: []*Index{
				{Name: "idx_email", Kind: IndexUnique, Columns: []string{"email"}},
				{Name: "idx_email", Kind: IndexPlain, Columns: []string{"email"}},
			},
		}
		require.Error(t, tbl.Validate())
	})

	t.Run("index referencing unknown column fails", func(t *testing.T) {
		tbl := &Table{
			Name:    "users",
			Columns: []*Column{{Name: "id", Type: TypeBigInt}},
			Indexes: []*Index{{Name: "idx_ghost", Kind: IndexPlain, Columns: []string{"ghost"}}},
		}
		require.Error(t, tbl.Validate())
	})

	t.Run("valid table passes", func(t *testing.T) {
		tbl := &Table{
			Name: "posts",
			Columns: []*Column{
				{Name: "id", Type: TypeBigInt, AutoIncrement: true},
				{Name: "user_id", Type: TypeBigInt},
			},
			Indexes: []*Index{{Name: "PRIMARY", Kind: IndexPrimary, Columns: []string{"id"}}},
			ForeignKeys: []*ForeignKey{
				{Name: "fk_posts_user", Columns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"}},
			},
		}
		require.NoError(t, tbl.Validate())
	})
}

func TestMapFKAction(t *testing.T) {
	cases := map[string]ReferentialAction{
		"CASCADE":    ActionCascade,
		"SET NULL":   ActionSetNull,
		"SET_DEFAULT": ActionSetDefault,
		"r":          ActionRestrict,
		"bogus":      ActionNoAction,
		"":           ActionNoAction,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapFKAction(in), "input %q", in)
	}
}

func TestDataTypeFamilies(t *testing.T) {
	assert.True(t, TypeBigInt.IsIntegerFamily())
	assert.False(t, TypeVarchar.IsIntegerFamily())
	assert.True(t, TypeTimestampTZ.IsTemporal())
	assert.True(t, TypeSet.IsEnumerable())
}

func TestDatabaseFindTable(t *testing.T) {
	db := &Database{Tables: []*Table{{Name: "users"}, {Name: "posts"}}}
	require.NotNil(t, db.FindTable("posts"))
	require.Nil(t, db.FindTable("missing"))
}
