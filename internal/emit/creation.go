// Package emit implements the Creation-Script Emitter (§4.4) and the
// Class-Stub Emitter (§4.5). Both produce deterministic ordered
// (filename, body) pairs in the source project's own output format — a
// Laravel-style migration class for creation scripts, an Eloquent model
// class for stubs — so a generated file drops directly into the target
// PHP application the live database backs. Generating text in another
// language is the emitter's whole job: nothing here executes PHP, it is
// produced and handed back to the caller as a string.
package emit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dbscribe/internal/core"
	"dbscribe/internal/migration"
	"dbscribe/internal/typemap"
)

// File is one generated (filename, body) pair; the host persists it.
type File struct {
	Filename string
	Body     string
}

// Options controls the Creation-Script Emitter.
type Options struct {
	SeparateForeignKeys bool
	// StartTimestamp is a unix-seconds value; it increments by one per
	// emitted file so lexical filename order equals emission order.
	StartTimestamp int64
	// Extension defaults to "php" when empty.
	Extension string
}

func (o Options) ext() string {
	if o.Extension == "" {
		return "php"
	}
	return o.Extension
}

// GenerateCreationScripts builds one migration file per table, in the
// given order (the caller supplies a topologically sorted list from the
// Dependency Engine), then — when opts.SeparateForeignKeys is true — one
// additional foreign-key-only file per table with at least one FK,
// placed after every table-creation file. Output is deterministic given
// identical tables and the same starting timestamp.
func GenerateCreationScripts(tables []*core.Table, opts Options) []File {
	ts := opts.StartTimestamp
	files := make([]File, 0, len(tables))
	for _, t := range tables {
		m := buildCreateMigration(t, opts.SeparateForeignKeys)
		files = append(files, File{
			Filename: scriptFilename(ts, "create_"+t.Name+"_table", opts.ext()),
			Body:     renderCreateBody(t.Name, m),
		})
		ts++
	}
	if opts.SeparateForeignKeys {
		for _, t := range tables {
			if len(t.ForeignKeys) == 0 {
				continue
			}
			m := buildForeignKeyMigration(t)
			files = append(files, File{
				Filename: scriptFilename(ts, "add_foreign_keys_to_"+t.Name+"_table", opts.ext()),
				Body:     renderAlterBody(t.Name, m),
			})
			ts++
		}
	}
	return files
}

func scriptFilename(ts int64, snake, ext string) string {
	return fmt.Sprintf("%s_%s.%s", formatTimestamp(ts), snake, ext)
}

func formatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006_01_02_150405")
}

func buildCreateMigration(t *core.Table, separateFK bool) *migration.Migration {
	m := &migration.Migration{}

	pk := t.PrimaryKeyColumns()
	pkCoveredByIdentity := len(pk) == 1 && isIdentityColumn(t.FindColumn(pk[0]))
	hasTimestamps := hasTemporalColumn(t, "created_at") && hasTemporalColumn(t, "updated_at")
	hasSoftDeletes := hasTemporalColumn(t, "deleted_at")

	for _, c := range t.Columns {
		if hasTimestamps && (c.Name == "created_at" || c.Name == "updated_at") {
			continue
		}
		if hasSoftDeletes && c.Name == "deleted_at" {
			continue
		}
		m.AddStatement(columnDefinition(c))
	}
	if hasTimestamps {
		m.AddStatement("$table->timestamps();")
	}
	if hasSoftDeletes {
		m.AddStatement("$table->softDeletes();")
	}
	if len(pk) > 0 && !pkCoveredByIdentity {
		m.AddStatement(fmt.Sprintf("$table->primary([%s]);", quotedList(pk)))
	}
	for _, idx := range t.Indexes {
		if idx.Kind == core.IndexPrimary {
			continue
		}
		m.AddStatement(indexDefinition(idx))
	}
	if !separateFK {
		for _, fk := range t.ForeignKeys {
			m.AddStatement(foreignKeyDefinition(fk))
		}
	}
	m.AddStatementWithRollback("", fmt.Sprintf("Schema::dropIfExists(%s);", quote(t.Name)))
	return m
}

func buildForeignKeyMigration(t *core.Table) *migration.Migration {
	m := &migration.Migration{}
	for _, fk := range t.ForeignKeys {
		m.AddStatement(foreignKeyDefinition(fk))
	}
	for i := len(t.ForeignKeys) - 1; i >= 0; i-- {
		m.AddStatementWithRollback("", dropForeignKeyDefinition(t.ForeignKeys[i]))
	}
	return m
}

func isIdentityColumn(c *core.Column) bool {
	return c != nil && c.AutoIncrement && c.Type.IsIntegerFamily()
}

func hasTemporalColumn(t *core.Table, name string) bool {
	c := t.FindColumn(name)
	return c != nil && c.Type.IsTemporal()
}

// columnDefinition renders the single Blueprint statement for one column,
// per the policy in §4.4: the method token comes from the Type Map,
// composed with the unsigned prefix or collapsed into an auto-increment
// short-form, followed by modifiers in fixed order.
func columnDefinition(c *core.Column) string {
	if isIdentityColumn(c) {
		return identityDirective(c) + ";"
	}

	method := typemap.EmitToken(c.Type)
	if c.Unsigned && (c.Type.IsIntegerFamily() || c.Type == core.TypeDecimal) {
		method = "unsigned" + strings.ToUpper(method[:1]) + method[1:]
	}

	args := []string{quote(c.Name)}
	switch c.Type {
	case core.TypeDecimal:
		p, s := 8, 2
		if c.Precision != nil {
			p = *c.Precision
		}
		if c.Scale != nil {
			s = *c.Scale
		}
		args = append(args, strconv.Itoa(p), strconv.Itoa(s))
	case core.TypeChar, core.TypeVarchar:
		if c.Length != nil {
			args = append(args, strconv.Itoa(*c.Length))
		}
	case core.TypeEnum, core.TypeSet:
		args = append(args, "["+quotedList(c.EnumValues())+"]")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "$table->%s(%s)", method, strings.Join(args, ", "))
	if c.Nullable {
		b.WriteString("->nullable()")
	}
	if c.Default != nil {
		fmt.Fprintf(&b, "->default(%s)", defaultLiteral(c.Default))
	}
	if c.Comment != "" {
		fmt.Fprintf(&b, "->comment(%s)", quote(c.Comment))
	}
	if c.Charset != "" {
		fmt.Fprintf(&b, "->charset(%s)", quote(c.Charset))
	}
	if c.Collation != "" {
		fmt.Fprintf(&b, "->collation(%s)", quote(c.Collation))
	}
	b.WriteString(";")
	return b.String()
}

// identityDirective collapses an auto-increment integer-family column
// into the matching Blueprint short-form, per §4.4 (`bigint unsigned +
// auto_increment → id`, `int unsigned + auto_increment → increments`).
func identityDirective(c *core.Column) string {
	switch c.Type {
	case core.TypeBigInt:
		if c.Name == "id" {
			return "$table->id()"
		}
		return fmt.Sprintf("$table->id(%s)", quote(c.Name))
	case core.TypeInt:
		return fmt.Sprintf("$table->increments(%s)", quote(c.Name))
	case core.TypeMediumInt:
		return fmt.Sprintf("$table->mediumIncrements(%s)", quote(c.Name))
	case core.TypeSmallInt:
		return fmt.Sprintf("$table->smallIncrements(%s)", quote(c.Name))
	case core.TypeTinyInt:
		return fmt.Sprintf("$table->tinyIncrements(%s)", quote(c.Name))
	default:
		return fmt.Sprintf("$table->bigIncrements(%s)", quote(c.Name))
	}
}

func defaultLiteral(d *core.DefaultValue) string {
	switch d.Kind {
	case core.DefaultNull:
		return "null"
	case core.DefaultString:
		s, _ := d.Value.(string)
		return quote(s)
	case core.DefaultInt, core.DefaultFloat:
		return fmt.Sprintf("%v", d.Value)
	case core.DefaultBool:
		b, _ := d.Value.(bool)
		if b {
			return "true"
		}
		return "false"
	case core.DefaultExpression:
		return fmt.Sprintf("DB::raw(%s)", quote(d.Raw))
	default:
		return "null"
	}
}

func indexDefinition(idx *core.Index) string {
	method := "index"
	switch idx.Kind {
	case core.IndexUnique:
		method = "unique"
	case core.IndexFulltext:
		method = "fullText"
	case core.IndexSpatial:
		method = "spatialIndex"
	}
	return fmt.Sprintf("$table->%s([%s], %s);", method, quotedList(idx.Columns), quote(idx.Name))
}

// foreignKeyDefinition renders the forward FK-add statement.
// onDelete/onUpdate are only emitted when they deviate from the default
// {Restrict, NoAction}, per §4.4.
func foreignKeyDefinition(fk *core.ForeignKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "$table->foreign(%s, %s)->references(%s)->on(%s)",
		columnArg(fk.Columns), quote(fk.Name), columnArg(fk.ReferencedColumns), quote(fk.ReferencedTable))
	if isExplicitAction(fk.OnDelete) {
		fmt.Fprintf(&b, "->onDelete(%s)", quote(actionToken(fk.OnDelete)))
	}
	if isExplicitAction(fk.OnUpdate) {
		fmt.Fprintf(&b, "->onUpdate(%s)", quote(actionToken(fk.OnUpdate)))
	}
	b.WriteString(";")
	return b.String()
}

func dropForeignKeyDefinition(fk *core.ForeignKey) string {
	return fmt.Sprintf("$table->dropForeign([%s]);", quotedList(fk.Columns))
}

func isExplicitAction(a core.ReferentialAction) bool {
	return a != "" && a != core.ActionRestrict && a != core.ActionNoAction
}

func actionToken(a core.ReferentialAction) string {
	switch a {
	case core.ActionCascade:
		return "cascade"
	case core.ActionSetNull:
		return "set null"
	case core.ActionSetDefault:
		return "set default"
	case core.ActionRestrict:
		return "restrict"
	default:
		return "no action"
	}
}

func columnArg(cols []string) string {
	if len(cols) == 1 {
		return quote(cols[0])
	}
	return "[" + quotedList(cols) + "]"
}

func quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	return "'" + s + "'"
}

func quotedList(items []string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = quote(it)
	}
	return strings.Join(out, ", ")
}

const migrationImports = "use Illuminate\\Database\\Migrations\\Migration;\n" +
	"use Illuminate\\Database\\Schema\\Blueprint;\n" +
	"use Illuminate\\Support\\Facades\\Schema;\n\n"

func renderCreateBody(tableName string, m *migration.Migration) string {
	var b strings.Builder
	b.WriteString("<?php\n\n")
	b.WriteString(migrationImports)
	b.WriteString("return new class extends Migration\n{\n")
	b.WriteString("    public function up(): void\n    {\n")
	fmt.Fprintf(&b, "        Schema::create(%s, function (Blueprint $table) {\n", quote(tableName))
	for _, stmt := range m.SQLStatements() {
		fmt.Fprintf(&b, "            %s\n", stmt)
	}
	b.WriteString("        });\n")
	b.WriteString("    }\n\n")
	b.WriteString("    public function down(): void\n    {\n")
	for _, stmt := range m.RollbackStatements() {
		fmt.Fprintf(&b, "        %s\n", stmt)
	}
	b.WriteString("    }\n")
	b.WriteString("};\n")
	return b.String()
}

func renderAlterBody(tableName string, m *migration.Migration) string {
	var b strings.Builder
	b.WriteString("<?php\n\n")
	b.WriteString(migrationImports)
	b.WriteString("return new class extends Migration\n{\n")
	b.WriteString("    public function up(): void\n    {\n")
	fmt.Fprintf(&b, "        Schema::table(%s, function (Blueprint $table) {\n", quote(tableName))
	for _, stmt := range m.SQLStatements() {
		fmt.Fprintf(&b, "            %s\n", stmt)
	}
	b.WriteString("        });\n")
	b.WriteString("    }\n\n")
	b.WriteString("    public function down(): void\n    {\n")
	fmt.Fprintf(&b, "        Schema::table(%s, function (Blueprint $table) {\n", quote(tableName))
	for _, stmt := range m.RollbackStatements() {
		fmt.Fprintf(&b, "            %s\n", stmt)
	}
	b.WriteString("        });\n")
	b.WriteString("    }\n")
	b.WriteString("};\n")
	return b.String()
}
