package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbscribe/internal/core"
)

func fk(name, col, refTable, refCol string) *core.ForeignKey {
	return &core.ForeignKey{Name: name, Columns: []string{col}, ReferencedTable: refTable, ReferencedColumns: []string{refCol}}
}

func col(name string, t core.DataType) *core.Column {
	return &core.Column{Name: name, Type: t}
}

func TestOwnsOneAndReferredTo(t *testing.T) {
	users := &core.Table{Name: "users", Columns: []*core.Column{col("id", core.TypeBigInt)}}
	posts := &core.Table{
		Name:        "posts",
		Columns:     []*core.Column{col("id", core.TypeBigInt), col("user_id", core.TypeBigInt)},
		ForeignKeys: []*core.ForeignKey{fk("fk_posts_user", "user_id", "users", "id")},
	}
	all := []*core.Table{users, posts}

	d := NewDetector()
	userRels := d.Detect(users, all)
	require.Len(t, userRels, 1)
	assert.Equal(t, KindHasMany, userRels[0].Kind)
	assert.Equal(t, "posts", userRels[0].Method)

	postRels := d.Detect(posts, all)
	require.Len(t, postRels, 1)
	assert.Equal(t, KindOwnsOne, postRels[0].Kind)
	assert.Equal(t, "user", postRels[0].Method)
}

func TestReferredToSingularWhenUniqueIndex(t *testing.T) {
	users := &core.Table{Name: "users", Columns: []*core.Column{col("id", core.TypeBigInt)}}
	profiles := &core.Table{
		Name:        "profiles",
		Columns:     []*core.Column{col("id", core.TypeBigInt), col("user_id", core.TypeBigInt)},
		ForeignKeys: []*core.ForeignKey{fk("fk_profiles_user", "user_id", "users", "id")},
		Indexes:     []*core.Index{{Name: "idx_profiles_user", Kind: core.IndexUnique, Columns: []string{"user_id"}}},
	}
	all := []*core.Table{users, profiles}

	rels := NewDetector().Detect(users, all)
	require.Len(t, rels, 1)
	assert.Equal(t, KindHasOne, rels[0].Kind)
	assert.Equal(t, "profile", rels[0].Method)
}

func TestManyToManyViaPivot(t *testing.T) {
	posts := &core.Table{Name: "posts", Columns: []*core.Column{col("id", core.TypeBigInt)}}
	tags := &core.Table{Name: "tags", Columns: []*core.Column{col("id", core.TypeBigInt)}}
	postTags := &core.Table{
		Name: "post_tags",
		Columns: []*core.Column{
			col("post_id", core.TypeBigInt),
			col("tag_id", core.TypeBigInt),
		},
		ForeignKeys: []*core.ForeignKey{
			fk("fk_pt_post", "post_id", "posts", "id"),
			fk("fk_pt_tag", "tag_id", "tags", "id"),
		},
	}
	all := []*core.Table{posts, tags, postTags}

	rels := NewDetector().Detect(posts, all)
	require.Len(t, rels, 1)
	assert.Equal(t, KindManyToMany, rels[0].Kind)
	assert.Equal(t, "tags", rels[0].Method)
	assert.Equal(t, "post_tags", rels[0].Via)
}

func TestPolymorphicTo(t *testing.T) {
	comments := &core.Table{
		Name: "comments",
		Columns: []*core.Column{
			col("id", core.TypeBigInt),
			col("commentable_type", core.TypeVarchar),
			col("commentable_id", core.TypeBigInt),
		},
	}
	rels := NewDetector().Detect(comments, []*core.Table{comments})
	require.Len(t, rels, 1)
	assert.Equal(t, KindPolymorphicTo, rels[0].Kind)
	assert.Equal(t, "commentable", rels[0].Method)
	assert.Equal(t, "commentable_type", rels[0].TypeColumn)
	assert.Equal(t, "commentable_id", rels[0].IDColumn)
}

func TestSelfReferenceFlagged(t *testing.T) {
	categories := &core.Table{
		Name:        "categories",
		Columns:     []*core.Column{col("id", core.TypeBigInt), col("parent_id", core.TypeBigInt)},
		ForeignKeys: []*core.ForeignKey{fk("fk_categories_parent", "parent_id", "categories", "id")},
	}
	rels := NewDetector().Detect(categories, []*core.Table{categories})
	require.Len(t, rels, 1) // owns-one to itself only; referred-to rules skip the table itself
	var sawSelfOwnsOne bool
	for _, r := range rels {
		if r.Kind == KindOwnsOne && r.SelfReference {
			sawSelfOwnsOne = true
		}
	}
	assert.True(t, sawSelfOwnsOne)
}
