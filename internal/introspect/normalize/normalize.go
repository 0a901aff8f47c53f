// Package normalize implements the catalog-normalization rules shared by
// every dialect Parser in §4.1: default-value classification, enum-value
// extraction, and length/precision/scale parsing out of a native type
// string. Keeping these here instead of duplicating them per dialect is
// what lets four very different catalogs converge on one Schema Model.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"dbscribe/internal/core"
)

var (
	parenArgsRe = regexp.MustCompile(`\(([^)]*)\)`)
	bitLiteral  = regexp.MustCompile(`(?i)^b'([01]+)'$`)
	numericRe   = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// StripCast removes the catalog-appended type casts §4.1 calls out before
// classification is attempted: PostgreSQL's trailing "::text", SQL
// Server's wrapping parentheses, and a MySQL/SQLite leading bit literal
// prefix "b'1'" (reduced to its bit value).
func StripCast(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, "::"); idx >= 0 {
		s = s[:idx]
	}
	for i := 0; i < 3 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"); i++ {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if m := bitLiteral.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(s)
}

// ParseDefault classifies a catalog default-value string per §4.1.
// isBoolean disambiguates bare "0"/"1" tokens, which are otherwise
// indistinguishable from small integers, for columns the Parser already
// knows are canonically boolean.
func ParseDefault(raw string, isBoolean bool) *core.DefaultValue {
	if raw == "" {
		return nil
	}
	s := StripCast(raw)
	if s == "" {
		return nil
	}
	upper := strings.ToUpper(s)
	if upper == "NULL" {
		return &core.DefaultValue{Kind: core.DefaultNull, Raw: raw}
	}

	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		unquoted := strings.ReplaceAll(s[1:len(s)-1], "''", "'")
		return &core.DefaultValue{Kind: core.DefaultString, Value: unquoted, Raw: raw}
	}

	if b, ok := parseBoolLiteral(s, isBoolean); ok {
		return &core.DefaultValue{Kind: core.DefaultBool, Value: b, Raw: raw}
	}

	if numericRe.MatchString(s) {
		if strings.Contains(s, ".") {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &core.DefaultValue{Kind: core.DefaultFloat, Value: f, Raw: raw}
			}
		} else if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &core.DefaultValue{Kind: core.DefaultInt, Value: i, Raw: raw}
		}
	}

	// Bare expression such as CURRENT_TIMESTAMP, NOW(), UUID(), nextval(...).
	return &core.DefaultValue{Kind: core.DefaultExpression, Value: s, Raw: raw}
}

func parseBoolLiteral(s string, isBoolean bool) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if !isBoolean {
		return false, false
	}
	switch s {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	return false, false
}

// ExtractLength pulls the single numeric argument out of a native type
// string like "varchar(255)".
func ExtractLength(native string) *int {
	m := parenArgsRe.FindStringSubmatch(native)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ",")
	if len(parts) != 1 {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	return &n
}

// ExtractPrecisionScale pulls precision and scale out of a native type
// string like "decimal(10,2)". A single-argument type yields precision
// only.
func ExtractPrecisionScale(native string) (*int, *int) {
	m := parenArgsRe.FindStringSubmatch(native)
	if m == nil {
		return nil, nil
	}
	parts := strings.Split(m[1], ",")
	if len(parts) == 0 {
		return nil, nil
	}
	p, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil
	}
	precision := p
	if len(parts) < 2 {
		return &precision, nil
	}
	sc, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return &precision, nil
	}
	scale := sc
	return &precision, &scale
}

// ExtractEnumValues parses MySQL/MariaDB-style "enum('a','b','c')" or
// "set('a','b')" native type strings into their ordered value list.
func ExtractEnumValues(native string) []string {
	m := parenArgsRe.FindStringSubmatch(native)
	if m == nil {
		return nil
	}
	var values []string
	for _, raw := range splitQuotedCSV(m[1]) {
		v := strings.TrimSpace(raw)
		if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
			v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
		}
		values = append(values, v)
	}
	return values
}

// splitQuotedCSV splits a comma-separated argument list while respecting
// single-quoted strings that may themselves contain commas.
func splitQuotedCSV(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ',' && !inQuote:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// IsAutoIncrementExpression reports whether a PostgreSQL column default
// expression is a nextval(...) sequence reference, the serial-pseudo-type
// auto-increment signal per §4.1.
func IsAutoIncrementExpression(defaultExpr string) bool {
	return strings.Contains(strings.ToLower(defaultExpr), "nextval(")
}
