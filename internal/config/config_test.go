package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load([]byte(`connection = "mysql"`))
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Connection)
	assert.True(t, cfg.GenerateRelationships())
	assert.True(t, cfg.UseFillable())
	assert.Equal(t, "database/migrations", cfg.MigrationsPath)
}

func TestLoadOverridesDefaults(t *testing.T) {
	data := []byte(`
exclude_tables = ["migrations", "password_resets"]

[models]
use_fillable = false
guarded_columns = ["id", "password"]

[features]
separate_foreign_keys = true
`)
	cfg, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations", "password_resets"}, cfg.ExcludeTables)
	assert.False(t, cfg.UseFillable())
	assert.Equal(t, []string{"id", "password"}, cfg.Models.GuardedColumns)
	assert.True(t, cfg.Features.SeparateForeignKeys)
}

func TestLoadRejectsUnrecognizedDialectInTypeMappings(t *testing.T) {
	data := []byte(`
[type_mappings.oracle]
NUMBER = "decimal"
`)
	_, err := Load(data)
	require.Error(t, err)
}

func TestLoadRejectsBadIndent(t *testing.T) {
	data := []byte(`
[formatting]
indent = "x"
`)
	_, err := Load(data)
	require.Error(t, err)
}
