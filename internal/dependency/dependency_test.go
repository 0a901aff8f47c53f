package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbscribe/internal/core"
)

func fk(name, col, refTable, refCol string) *core.ForeignKey {
	return &core.ForeignKey{Name: name, Columns: []string{col}, ReferencedTable: refTable, ReferencedColumns: []string{refCol}}
}

func table(name string, fks ...*core.ForeignKey) *core.Table {
	return &core.Table{Name: name, Columns: []*core.Column{{Name: "id", Type: core.TypeBigInt, AutoIncrement: true}}, ForeignKeys: fks}
}

func TestResolveOrdersDependenciesFirst(t *testing.T) {
	users := table("users")
	posts := table("posts", fk("fk_posts_user", "user_id", "users", "id"))
	comments := table("comments", fk("fk_comments_post", "post_id", "posts", "id"))

	sorted, err := Resolve([]*core.Table{comments, posts, users})
	require.NoError(t, err)
	require.Len(t, sorted, 3)

	pos := map[string]int{}
	for i, tb := range sorted {
		pos[tb.Name] = i
	}
	assert.Less(t, pos["users"], pos["posts"])
	assert.Less(t, pos["posts"], pos["comments"])
}

func TestResolveStableAmongIndependentTables(t *testing.T) {
	a := table("categories")
	b := table("tags")
	sorted, err := Resolve([]*core.Table{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"categories", "tags"}, []string{sorted[0].Name, sorted[1].Name})
}

func TestResolveDetectsSelfReferenceIsNotACycle(t *testing.T) {
	categories := table("categories", fk("fk_cat_parent", "parent_id", "categories", "id"))
	_, err := Resolve([]*core.Table{categories})
	require.NoError(t, err)
}

func TestResolveExternalReferenceIsDropped(t *testing.T) {
	posts := table("posts", fk("fk_posts_tenant", "tenant_id", "tenants", "id"))
	_, err := Resolve([]*core.Table{posts})
	require.NoError(t, err)
}

func TestDetectCircularDependencies(t *testing.T) {
	a := table("a", fk("fk_a_b", "b_id", "b", "id"))
	b := table("b", fk("fk_b_a", "a_id", "a", "id"))

	cycles := DetectCircularDependencies([]*core.Table{a, b})
	require.Len(t, cycles, 1)
	assert.Equal(t, "a", cycles[0][0])
	assert.Equal(t, "a", cycles[0][len(cycles[0])-1])
}

func TestResolveReturnsCircularDependencyError(t *testing.T) {
	a := table("a", fk("fk_a_b", "b_id", "b", "id"))
	b := table("b", fk("fk_b_a", "a_id", "a", "id"))

	_, err := Resolve([]*core.Table{a, b})
	require.Error(t, err)
	var cdErr *core.CircularDependencyError
	require.ErrorAs(t, err, &cdErr)
}

func TestGroupIntoBatches(t *testing.T) {
	users := table("users")
	roles := table("roles")
	posts := table("posts", fk("fk_posts_user", "user_id", "users", "id"))

	batches, err := GroupIntoBatches([]*core.Table{users, roles, posts})
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)
	assert.Equal(t, "posts", batches[1][0].Name)
}

func TestGroupByLevel(t *testing.T) {
	users := table("users")
	posts := table("posts", fk("fk_posts_user", "user_id", "users", "id"))
	comments := table("comments", fk("fk_comments_post", "post_id", "posts", "id"))

	levels, err := GroupByLevel([]*core.Table{users, posts, comments})
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, levels[0])
	assert.Equal(t, []string{"posts"}, levels[1])
	assert.Equal(t, []string{"comments"}, levels[2])
}

func TestGetRootAndLeafTables(t *testing.T) {
	users := table("users")
	posts := table("posts", fk("fk_posts_user", "user_id", "users", "id"))
	comments := table("comments", fk("fk_comments_post", "post_id", "posts", "id"))
	tables := []*core.Table{users, posts, comments}

	roots := GetRootTables(tables)
	require.Len(t, roots, 1)
	assert.Equal(t, "users", roots[0].Name)

	leaves := GetLeafTables(tables)
	require.Len(t, leaves, 1)
	assert.Equal(t, "comments", leaves[0].Name)
}

func TestIsPivot(t *testing.T) {
	pivot := &core.Table{
		Name: "post_tags",
		Columns: []*core.Column{
			{Name: "post_id", Type: core.TypeBigInt},
			{Name: "tag_id", Type: core.TypeBigInt},
		},
		ForeignKeys: []*core.ForeignKey{
			fk("fk_pt_post", "post_id", "posts", "id"),
			fk("fk_pt_tag", "tag_id", "tags", "id"),
		},
	}
	inSet := map[string]bool{"post_tags": true, "posts": true, "tags": true}
	assert.True(t, IsPivot(pivot, inSet))

	tooWide := &core.Table{
		Name:        "post_tags",
		Columns:     make([]*core.Column, 10),
		ForeignKeys: pivot.ForeignKeys,
	}
	for i := range tooWide.Columns {
		tooWide.Columns[i] = &core.Column{Name: "c"}
	}
	assert.False(t, IsPivot(tooWide, inSet))
}

func TestWouldCreateCycle(t *testing.T) {
	users := table("users")
	posts := table("posts", fk("fk_posts_user", "user_id", "users", "id"))
	tables := []*core.Table{users, posts}

	assert.True(t, WouldCreateCycle("users", "posts", tables))
	assert.False(t, WouldCreateCycle("posts", "users", tables))
}
