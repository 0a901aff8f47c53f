package compare

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbscribe/internal/core"
)

func tbl(name string, cols ...*core.Column) *core.Table {
	return &core.Table{Name: name, Columns: cols}
}

func boolCol(name string, nullable bool) *core.Column {
	return &core.Column{Name: name, Type: core.TypeBoolean, Nullable: nullable}
}

func TestCompareIdenticalIsEmpty(t *testing.T) {
	a := []*core.Table{tbl("users", boolCol("active", true))}
	diff := Compare(a, a)
	assert.True(t, diff.IsInSync())
}

func TestCompareSymmetryOfCreatedAndDropped(t *testing.T) {
	a := []*core.Table{tbl("users")}
	b := []*core.Table{tbl("users"), tbl("posts")}

	ab := Compare(a, b)
	ba := Compare(b, a)

	sort.Strings(ab.Created)
	sort.Strings(ba.Dropped)
	assert.Equal(t, ab.Created, ba.Dropped)
}

func TestCompareColumnDriftOnNullable(t *testing.T) {
	current := []*core.Table{tbl("users", boolCol("active", false))}
	target := []*core.Table{tbl("users", boolCol("active", true))}

	diff := Compare(current, target)
	require.Len(t, diff.Modified, 1)
	require.Len(t, diff.Modified[0].ModifiedColumns, 1)
	cd := diff.Modified[0].ModifiedColumns[0]
	require.Len(t, cd.Changes, 1)
	assert.Equal(t, "nullable", cd.Changes[0].Field)
	assert.Equal(t, false, cd.Changes[0].Before)
	assert.Equal(t, true, cd.Changes[0].After)
}

func TestCompareTableRenameProducesDropAndCreate(t *testing.T) {
	current := []*core.Table{tbl("legacy_users")}
	target := []*core.Table{tbl("users")}
	diff := Compare(current, target)
	assert.Equal(t, []string{"users"}, diff.Created)
	assert.Equal(t, []string{"legacy_users"}, diff.Dropped)
	assert.Empty(t, diff.Modified)
}

func TestCompareWithMigrationsDetectsNewModifiedRemoved(t *testing.T) {
	tables := []*core.Table{
		tbl("posts", boolCol("published", true), boolCol("featured", true)),
		tbl("tags"),
	}
	legacy := LegacyExtraction{
		Tables: []string{"posts", "comments"},
		Columns: map[string][]string{
			"posts": {"published"},
		},
	}
	diff := CompareWithMigrations(tables, legacy)
	assert.Equal(t, []string{"tags"}, diff.New)
	assert.Equal(t, []string{"posts"}, diff.Modified)
	assert.Equal(t, []string{"comments"}, diff.Removed)
}
