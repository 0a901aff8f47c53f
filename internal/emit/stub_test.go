package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dbscribe/internal/core"
)

func baseStubOptions() StubOptions {
	return StubOptions{GenerateRelationships: true, GenerateScopes: true, UseFillable: true, DocBlock: true}
}

func TestGenerateClassStubEnumFillableNoCast(t *testing.T) {
	posts := &core.Table{
		Name: "posts",
		Columns: []*core.Column{
			idCol(),
			{Name: "title", Type: core.TypeVarchar, Length: intPtr(255)},
			{
				Name: "status", Type: core.TypeEnum, Nullable: false,
				Default:    &core.DefaultValue{Kind: core.DefaultString, Value: "draft"},
				Attributes: map[string]any{string(core.AttrEnumValues): []string{"draft", "published"}},
			},
		},
	}
	file := GenerateClassStub(posts, []*core.Table{posts}, baseStubOptions())
	assert.Equal(t, "Post.php", file.Filename)
	assert.Contains(t, file.Body, "'status',")
	assert.NotContains(t, file.Body, "'status' =>")
}

func TestGenerateClassStubTableNameOverrideForNonInverse(t *testing.T) {
	metaData := &core.Table{Name: "meta_data", Columns: []*core.Column{idCol()}}
	file := GenerateClassStub(metaData, []*core.Table{metaData}, baseStubOptions())
	assert.Equal(t, "MetaDatum.php", file.Filename)
	assert.Contains(t, file.Body, "protected $table = 'meta_data';")
}

func TestGenerateClassStubPrimaryKeyAndKeyTypeOverrides(t *testing.T) {
	sessions := &core.Table{
		Name: "sessions",
		Columns: []*core.Column{
			{Name: "uuid", Type: core.TypeUUID, Attributes: map[string]any{string(core.AttrPrimary): true}},
			{Name: "payload", Type: core.TypeText},
		},
		Indexes: []*core.Index{{Name: "sessions_pk", Kind: core.IndexPrimary, Columns: []string{"uuid"}}},
	}
	file := GenerateClassStub(sessions, []*core.Table{sessions}, baseStubOptions())
	assert.Contains(t, file.Body, "protected $primaryKey = 'uuid';")
	assert.Contains(t, file.Body, "public $incrementing = false;")
	assert.Contains(t, file.Body, "protected $keyType = 'string';")
	assert.Contains(t, file.Body, "public $timestamps = false;")
}

func TestGenerateClassStubRelationshipMethods(t *testing.T) {
	users := &core.Table{Name: "users", Columns: []*core.Column{idCol()}}
	posts := &core.Table{
		Name:    "posts",
		Columns: []*core.Column{idCol(), fkCol("user_id")},
		ForeignKeys: []*core.ForeignKey{
			{Name: "fk_posts_user", Columns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"}},
		},
	}
	all := []*core.Table{users, posts}
	file := GenerateClassStub(posts, all, baseStubOptions())
	assert.Contains(t, file.Body, "use Illuminate\\Database\\Eloquent\\Relations\\BelongsTo;")
	assert.Contains(t, file.Body, "public function user(): BelongsTo")
	assert.Contains(t, file.Body, "$this->belongsTo(User::class, 'user_id')")

	userFile := GenerateClassStub(users, all, baseStubOptions())
	assert.Contains(t, userFile.Body, "public function posts(): HasMany")
}

func TestGenerateClassStubGuardedMode(t *testing.T) {
	opts := baseStubOptions()
	opts.UseFillable = false
	opts.GuardedColumns = []string{"id", "is_admin"}
	users := &core.Table{Name: "users", Columns: []*core.Column{idCol(), {Name: "is_admin", Type: core.TypeBoolean}}}
	file := GenerateClassStub(users, []*core.Table{users}, opts)
	assert.Contains(t, file.Body, "protected $guarded = [\n        'id',\n        'is_admin',\n    ];")
}
