package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dbscribe/internal/core"
)

func TestMigrationSQLStatements(t *testing.T) {
	m := &Migration{}
	m.AddStatementWithRollback("CREATE TABLE users (id bigint)", "DROP TABLE users")
	m.AddNote("table created")
	m.AddStatementWithRollback("ALTER TABLE users ADD email varchar(255)", "")

	assert.Equal(t, []string{
		"CREATE TABLE users (id bigint)",
		"ALTER TABLE users ADD email varchar(255)",
	}, m.SQLStatements())
}

func TestMigrationRollbackStatements(t *testing.T) {
	m := &Migration{}
	m.AddStatementWithRollback("CREATE TABLE users (id bigint)", "DROP TABLE users")
	m.AddStatementWithRollback("ALTER TABLE users ADD email varchar(255)", "")

	assert.Equal(t, []string{"DROP TABLE users"}, m.RollbackStatements())
}

func TestMigrationBreakingAndUnresolvedNotes(t *testing.T) {
	m := &Migration{}
	m.AddBreaking("column 'legacy_id' dropped")
	m.AddUnresolved("cannot infer default for computed column 'full_name'")
	m.AddNote("2 tables unchanged")

	assert.Equal(t, []string{"column 'legacy_id' dropped"}, m.BreakingNotes())
	assert.Equal(t, []string{"cannot infer default for computed column 'full_name'"}, m.UnresolvedNotes())
	assert.Equal(t, []string{"2 tables unchanged"}, m.InfoNotes())
}

func TestMigrationBlankOperationsIgnored(t *testing.T) {
	m := &Migration{}
	m.AddStatement("   ")
	m.AddStatementWithRollback("", "")
	m.AddBreaking("")
	m.AddNote("")
	m.AddUnresolved("")
	assert.Empty(t, m.Operations)
}

func TestMigrationPlanReturnsOperations(t *testing.T) {
	m := &Migration{Operations: []core.Operation{{Kind: core.OperationSQL, SQL: "SELECT 1"}}}
	assert.Len(t, m.Plan(), 1)
}
