package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dbscribe/internal/core"
)

func TestClassifyIndexKind(t *testing.T) {
	assert.Equal(t, core.IndexPrimary, classifyIndexKind("PRIMARY", true, "BTREE"))
	assert.Equal(t, core.IndexFulltext, classifyIndexKind("idx_body", false, "FULLTEXT"))
	assert.Equal(t, core.IndexSpatial, classifyIndexKind("idx_loc", false, "SPATIAL"))
	assert.Equal(t, core.IndexUnique, classifyIndexKind("idx_email", true, "BTREE"))
	assert.Equal(t, core.IndexPlain, classifyIndexKind("idx_status", false, "BTREE"))
}

func TestClassifyAlgorithm(t *testing.T) {
	assert.Equal(t, core.AlgorithmHash, classifyAlgorithm("HASH"))
	assert.Equal(t, core.AlgorithmBTree, classifyAlgorithm("BTREE"))
}
