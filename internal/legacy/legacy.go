// Package legacy implements the optional Migration Scanner collaborator
// from §1: a lexical reader over old creation scripts that predate the
// tool, used only to feed the Schema Comparator's migration-aware mode
// (§4.6). It scans text with regular expressions, not a PHP parser, and
// inherits the source's own documented blind spot (§9): columns
// introduced only via a condensed helper directive with no literal
// column-name argument (rememberToken(), a bare ulid()) are invisible to
// it. Ported as-is; because migration-aware mode flags any live column
// missing from the scan, a table holding such a column is reported as
// "modified" even when its schema has not changed.
package legacy

import (
	"regexp"
	"sort"
	"strings"

	"dbscribe/internal/compare"
)

var tableDirectiveRe = regexp.MustCompile(`Schema::(?:create|table)\(\s*'([^']+)'`)
var columnDirectiveRe = regexp.MustCompile(`\$table->([A-Za-z]+)\(\s*'([^']+)'`)

// nonColumnMethods lists Blueprint calls whose first quoted argument is
// not a column name (an index/FK directive, a chained modifier, or a
// reference target) so the scan does not mistake them for columns.
var nonColumnMethods = map[string]bool{
	"primary": true, "unique": true, "index": true, "fullText": true,
	"spatialIndex": true, "foreign": true, "dropForeign": true,
	"dropColumn": true, "dropIndex": true, "dropUnique": true,
	"references": true, "on": true, "onDelete": true, "onUpdate": true,
	"comment": true, "charset": true, "collation": true, "default": true,
}

// Scan reads a set of legacy migration script bodies (filename -> text,
// the filename is unused but kept for caller symmetry with the emitter's
// output shape) and extracts the table and column names they declare.
func Scan(scripts map[string]string) compare.LegacyExtraction {
	tableNames := map[string]bool{}
	columns := map[string]map[string]bool{}

	for _, body := range scripts {
		for _, m := range tableDirectiveRe.FindAllStringSubmatch(body, -1) {
			tableNames[m[1]] = true
		}

		current := ""
		for _, line := range strings.Split(body, "\n") {
			if m := tableDirectiveRe.FindStringSubmatch(line); m != nil {
				current = m[1]
				if columns[current] == nil {
					columns[current] = map[string]bool{}
				}
				continue
			}
			if current == "" {
				continue
			}
			if m := columnDirectiveRe.FindStringSubmatch(line); m != nil && !nonColumnMethods[m[1]] {
				columns[current][m[2]] = true
			}
		}
	}

	var out compare.LegacyExtraction
	out.Columns = make(map[string][]string, len(columns))
	for name := range tableNames {
		out.Tables = append(out.Tables, name)
	}
	sort.Strings(out.Tables)
	for table, cols := range columns {
		names := make([]string, 0, len(cols))
		for c := range cols {
			names = append(names, c)
		}
		sort.Strings(names)
		out.Columns[table] = names
	}
	return out
}
