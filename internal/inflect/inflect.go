// Package inflect provides the deterministic identifier transforms the
// rest of dbscribe needs: English pluralization/singularization, case
// conversion (snake, camel, studly), and the FK-column-to-relation-name
// rule used by the Relationship Detector.
package inflect

import (
	"strings"
	"unicode"
)

// irregulars lists the singular→plural pairs the rule-based inflector
// cannot derive, per §9 ("the implementer must ship a deterministic rule
// table; the source's inflector handles a known set").
var irregulars = map[string]string{
	"person": "people",
	"child":  "children",
	"goose":  "geese",
	"man":    "men",
	"woman":  "women",
	"tooth":  "teeth",
	"foot":   "feet",
	"mouse":  "mice",
}

// irregularSingulars reverses irregulars and adds "data" -> "datum", a
// one-way pair: Singularize("data") is "datum", but Pluralize("datum")
// follows the regular rule and gives "datums". This is the source of the
// meta_data/MetaDatum non-inverse documented on TableToModel.
var irregularSingulars = func() map[string]string {
	m := reverseMap(irregulars)
	m["data"] = "datum"
	return m
}()

func reverseMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

var vowels = map[byte]bool{'a': true, 'e': true, 'i': true, 'o': true, 'u': true}

func isVowel(b byte) bool { return vowels[b|0x20] }

// Pluralize converts a singular noun to its plural form.
func Pluralize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	if plural, ok := irregulars[lower]; ok {
		return preserveCase(word, plural)
	}

	switch {
	case hasAnySuffix(lower, "s", "x", "z", "ch", "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f"):
		return word[:len(word)-1] + "ves"
	default:
		return word + "s"
	}
}

// Singularize converts a plural noun to its singular form. Known
// non-inverses are documented in DESIGN.md: Pluralize(Singularize(w)) does
// not round-trip for every w (e.g. "meta_data" becomes "MetaDatum" through
// TableToModel, whose plural is "meta_datums", matching the teacher's
// behavior rather than a linguistically "correct" one).
func Singularize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	if singular, ok := irregularSingulars[lower]; ok {
		return preserveCase(word, singular)
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "ives") && len(word) > 4:
		return word[:len(word)-3] + "fe"
	case strings.HasSuffix(lower, "ves") && len(word) > 3:
		return word[:len(word)-3] + "f"
	case hasAnySuffix(lower, "ses", "xes", "zes", "ches", "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(word) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func preserveCase(original, transformed string) string {
	if original == "" {
		return transformed
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(transformed)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(transformed[:1]) + transformed[1:]
	}
	return transformed
}

// ToSnake converts CamelCase, StudlyCase, or space/dash separated words
// into snake_case.
func ToSnake(s string) string {
	var b strings.Builder
	var prevLower bool
	for i, r := range s {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if i > 0 && (prevLower || (i+1 < len(s) && unicode.IsLower(rune(s[i+1])))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

// ToStudly converts snake_case (or any underscore/dash separated string)
// into StudlyCase, e.g. "blog_post" -> "BlogPost".
func ToStudly(s string) string {
	parts := splitWords(s)
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// ToCamel converts snake_case into camelCase, e.g. "user_id" -> "userId".
func ToCamel(s string) string {
	studly := ToStudly(s)
	if studly == "" {
		return studly
	}
	return strings.ToLower(studly[:1]) + studly[1:]
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
}

// TableToModel converts a snake_case, plural table name into its
// StudlySingular model name, e.g. "blog_posts" -> "BlogPost".
//
// Known non-inverse per §9: table "meta_data" singularizes to "MetaDatum"
// ("data" is the irregular plural of "datum"), but ModelToTable("MetaDatum")
// produces "meta_datums", not "meta_data". This is the documented
// open question from §9, kept as-is rather than special-cased; see
// DESIGN.md.
func TableToModel(table string) string {
	words := splitWords(strings.ToLower(table))
	if len(words) == 0 {
		return ""
	}
	words[len(words)-1] = Singularize(words[len(words)-1])
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

// ModelToTable converts a StudlySingular model name into its snake_case
// plural table name, e.g. "BlogPost" -> "blog_posts".
func ModelToTable(model string) string {
	snake := ToSnake(model)
	words := strings.Split(snake, "_")
	if len(words) == 0 {
		return ""
	}
	words[len(words)-1] = Pluralize(words[len(words)-1])
	return strings.Join(words, "_")
}

// RelationMethodName derives the method name for an owns-one relationship
// from its foreign-key column, per §4.3: strip a trailing _id/_uuid/_key
// suffix, then camel-case what remains. A column with no such suffix is
// camel-cased as-is.
func RelationMethodName(fkColumn string) string {
	base := fkColumn
	for _, suffix := range []string{"_id", "_uuid", "_key"} {
		if strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
			break
		}
	}
	return ToCamel(base)
}
