package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbscribe/internal/compare"
	"dbscribe/internal/emit"
)

func TestDiffHumanInSync(t *testing.T) {
	out, err := Diff(compare.Diff{}, FormatHuman)
	require.NoError(t, err)
	assert.Equal(t, "Schema is in sync.\n", out)
}

func TestDiffHumanShowsCreatedAndModified(t *testing.T) {
	d := compare.Diff{
		Created: []string{"posts"},
		Modified: []compare.TableDiff{
			{Name: "users", AddedColumns: []string{"bio"}},
		},
	}
	out, err := Diff(d, FormatHuman)
	require.NoError(t, err)
	assert.Contains(t, out, "Created tables (1):")
	assert.Contains(t, out, "+ posts")
	assert.Contains(t, out, "Modified table users:")
	assert.Contains(t, out, "+ column bio")
}

func TestDiffJSONRoundTripsInSync(t *testing.T) {
	out, err := Diff(compare.Diff{}, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, out, `"inSync": true`)
}

func TestParseFormatPrefersJSONFlag(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("human", true))
	assert.Equal(t, FormatSummary, ParseFormat("summary", false))
	assert.Equal(t, FormatHuman, ParseFormat("bogus", false))
}

func TestPreviewHumanListsFiles(t *testing.T) {
	files := []emit.File{{Filename: "a.php", Body: "<?php\n"}}
	out, err := Preview(files, FormatHuman)
	require.NoError(t, err)
	assert.Contains(t, out, "// a.php")
}
