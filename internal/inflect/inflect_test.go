package inflect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"post":    "posts",
		"box":     "boxes",
		"buzz":    "buzzes",
		"church":  "churches",
		"dish":    "dishes",
		"city":    "cities",
		"key":     "keys",
		"leaf":    "leaves",
		"wife":    "wives",
		"person":  "people",
		"child":   "children",
		"goose":   "geese",
	}
	for in, want := range cases {
		assert.Equal(t, want, Pluralize(in), "Pluralize(%q)", in)
	}
}

func TestSingularize(t *testing.T) {
	cases := map[string]string{
		"posts":    "post",
		"boxes":    "box",
		"cities":   "city",
		"keys":     "key",
		"leaves":   "leaf",
		"wives":    "wife",
		"people":   "person",
		"children": "child",
		"geese":    "goose",
		"data":     "datum",
	}
	for in, want := range cases {
		assert.Equal(t, want, Singularize(in), "Singularize(%q)", in)
	}
}

func TestCaseConversion(t *testing.T) {
	assert.Equal(t, "blog_post", ToSnake("BlogPost"))
	assert.Equal(t, "BlogPost", ToStudly("blog_post"))
	assert.Equal(t, "userId", ToCamel("user_id"))
}

func TestTableModelRoundTrip(t *testing.T) {
	cases := map[string]string{
		"users":      "User",
		"posts":      "Post",
		"categories": "Category",
		"post_tags":  "PostTag",
	}
	for table, model := range cases {
		assert.Equal(t, model, TableToModel(table), "TableToModel(%q)", table)
		assert.Equal(t, table, ModelToTable(model), "ModelToTable(%q)", model)
	}
}

func TestMetaDataKnownNonInverse(t *testing.T) {
	// Documented open question from §9: this pair does not round-trip.
	assert.Equal(t, "MetaDatum", TableToModel("meta_data"))
	assert.Equal(t, "meta_datums", ModelToTable("MetaDatum"))
}

func TestRelationMethodName(t *testing.T) {
	assert.Equal(t, "user", RelationMethodName("user_id"))
	assert.Equal(t, "author", RelationMethodName("author_uuid"))
	assert.Equal(t, "parentCategory", RelationMethodName("parent_category_key"))
}
