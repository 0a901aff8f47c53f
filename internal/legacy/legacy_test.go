package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const createUsers = `<?php

use Illuminate\Database\Migrations\Migration;
use Illuminate\Database\Schema\Blueprint;
use Illuminate\Support\Facades\Schema;

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('users', function (Blueprint $table) {
            $table->id();
            $table->string('name');
            $table->string('email');
            $table->rememberToken();
            $table->timestamps();
        });
    }

    public function down(): void
    {
        Schema::dropIfExists('users');
    }
};
`

const alterPosts = `<?php

return new class extends Migration
{
    public function up(): void
    {
        Schema::table('posts', function (Blueprint $table) {
            $table->foreign('user_id', 'fk_posts_user')->references('id')->on('users');
        });
    }

    public function down(): void
    {
        Schema::table('posts', function (Blueprint $table) {
            $table->dropForeign(['user_id']);
        });
    }
};
`

func TestScanExtractsTablesAndColumns(t *testing.T) {
	out := Scan(map[string]string{
		"1_create_users_table.php":          createUsers,
		"2_add_foreign_keys_to_posts.php": alterPosts,
	})
	assert.ElementsMatch(t, []string{"users", "posts"}, out.Tables)
	assert.ElementsMatch(t, []string{"name", "email"}, out.Columns["users"])
}

func TestScanMissesRememberTokenColumn(t *testing.T) {
	out := Scan(map[string]string{"x.php": createUsers})
	assert.NotContains(t, out.Columns["users"], "remember_token")
}

func TestScanIgnoresForeignKeyDirectiveAsColumn(t *testing.T) {
	out := Scan(map[string]string{"x.php": alterPosts})
	assert.Empty(t, out.Columns["posts"])
}
