package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbscribe/internal/core"
)

func idCol() *core.Column {
	return &core.Column{Name: "id", Type: core.TypeBigInt, Unsigned: true, AutoIncrement: true,
		Attributes: map[string]any{string(core.AttrPrimary): true}}
}

func fkCol(name string) *core.Column {
	return &core.Column{Name: name, Type: core.TypeBigInt, Unsigned: true}
}

func TestGenerateCreationScriptsFilenamesAndOrder(t *testing.T) {
	users := &core.Table{Name: "users", Columns: []*core.Column{idCol()}}
	posts := &core.Table{
		Name:    "posts",
		Columns: []*core.Column{idCol(), fkCol("user_id")},
		ForeignKeys: []*core.ForeignKey{
			{Name: "fk_posts_user", Columns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"}},
		},
	}

	files := GenerateCreationScripts([]*core.Table{users, posts}, Options{SeparateForeignKeys: true, StartTimestamp: 1_700_000_000})
	require.Len(t, files, 3)
	assert.Equal(t, "2023_11_14_221320_create_users_table.php", files[0].Filename)
	assert.Equal(t, "2023_11_14_221321_create_posts_table.php", files[1].Filename)
	assert.Equal(t, "2023_11_14_221322_add_foreign_keys_to_posts_table.php", files[2].Filename)

	assert.Contains(t, files[1].Body, "Schema::create('posts'")
	assert.NotContains(t, files[1].Body, "$table->foreign(")
	assert.Contains(t, files[2].Body, "$table->foreign('user_id', 'fk_posts_user')->references('id')->on('users');")
	assert.Contains(t, files[2].Body, "$table->dropForeign(['user_id']);")
}

func TestGenerateCreationScriptsEmbedsForeignKeysWhenNotSeparated(t *testing.T) {
	users := &core.Table{Name: "users", Columns: []*core.Column{idCol()}}
	posts := &core.Table{
		Name:    "posts",
		Columns: []*core.Column{idCol(), fkCol("user_id")},
		ForeignKeys: []*core.ForeignKey{
			{Name: "fk_posts_user", Columns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"},
				OnDelete: core.ActionCascade},
		},
	}

	files := GenerateCreationScripts([]*core.Table{users, posts}, Options{StartTimestamp: 1_700_000_000})
	require.Len(t, files, 2)
	assert.Contains(t, files[1].Body, "->onDelete('cascade');")
}

func TestGenerateCreationScriptsDeterministic(t *testing.T) {
	tables := []*core.Table{
		{Name: "users", Columns: []*core.Column{idCol(), {Name: "name", Type: core.TypeVarchar, Length: intPtr(255)}}},
	}
	a := GenerateCreationScripts(tables, Options{StartTimestamp: 42})
	b := GenerateCreationScripts(tables, Options{StartTimestamp: 42})
	assert.Equal(t, a, b)
}

func TestColumnDefinitionEnumFragment(t *testing.T) {
	status := &core.Column{
		Name: "status", Type: core.TypeEnum, Nullable: false,
		Default:    &core.DefaultValue{Kind: core.DefaultString, Value: "draft"},
		Attributes: map[string]any{string(core.AttrEnumValues): []string{"draft", "published"}},
	}
	got := columnDefinition(status)
	assert.Equal(t, "$table->enum('status', ['draft', 'published'])->default('draft');", got)
}

func TestColumnDefinitionTimestampsAndSoftDeletesCondensed(t *testing.T) {
	users := &core.Table{
		Name: "users",
		Columns: []*core.Column{
			idCol(),
			{Name: "created_at", Type: core.TypeTimestamp, Nullable: true},
			{Name: "updated_at", Type: core.TypeTimestamp, Nullable: true},
			{Name: "deleted_at", Type: core.TypeTimestamp, Nullable: true},
		},
	}
	m := buildCreateMigration(users, false)
	stmts := m.SQLStatements()
	assert.Contains(t, stmts, "$table->timestamps();")
	assert.Contains(t, stmts, "$table->softDeletes();")
	for _, s := range stmts {
		assert.NotContains(t, s, "created_at")
		assert.NotContains(t, s, "updated_at")
		assert.NotContains(t, s, "deleted_at")
	}
}

func TestColumnDefinitionCompositePrimaryKey(t *testing.T) {
	postTags := &core.Table{
		Name: "post_tags",
		Columns: []*core.Column{
			fkCol("post_id"),
			fkCol("tag_id"),
		},
		Indexes: []*core.Index{
			{Name: "post_tags_pk", Kind: core.IndexPrimary, Columns: []string{"post_id", "tag_id"}},
		},
	}
	m := buildCreateMigration(postTags, false)
	assert.Contains(t, m.SQLStatements(), "$table->primary(['post_id', 'tag_id']);")
}

func intPtr(v int) *int { return &v }
