package emit

import (
	"fmt"
	"sort"
	"strings"

	"dbscribe/internal/core"
	"dbscribe/internal/inflect"
	"dbscribe/internal/relation"
	"dbscribe/internal/typemap"
)

// StubOptions controls the Class-Stub Emitter, sourced from the
// `models.*` configuration keys in §6.
type StubOptions struct {
	Namespace             string
	BaseClass             string
	GenerateRelationships bool
	GenerateScopes        bool
	UseFillable           bool
	GuardedColumns        []string
	Extension             string
	DocBlock              bool
}

func (o StubOptions) namespace() string {
	if o.Namespace == "" {
		return "App\\Models"
	}
	return o.Namespace
}

func (o StubOptions) baseClass() string {
	if o.BaseClass == "" {
		return "Model"
	}
	return o.BaseClass
}

func (o StubOptions) ext() string {
	if o.Extension == "" {
		return "php"
	}
	return o.Extension
}

// GenerateClassStub builds the (filename, body) pair for one table, per
// §4.5. all is the full table set, needed by the Relationship Detector.
func GenerateClassStub(t *core.Table, all []*core.Table, opts StubOptions) File {
	model := inflect.TableToModel(t.Name)
	filename := fmt.Sprintf("%s.%s", model, opts.ext())

	var rels []relation.Relationship
	if opts.GenerateRelationships {
		rels = relation.NewDetector().Detect(t, all)
	}

	body := renderStubBody(t, model, rels, opts)
	return File{Filename: filename, Body: body}
}

func renderStubBody(t *core.Table, model string, rels []relation.Relationship, opts StubOptions) string {
	var b strings.Builder
	b.WriteString("<?php\n\n")
	fmt.Fprintf(&b, "namespace %s;\n\n", opts.namespace())

	imports := relationImports(rels)
	b.WriteString("use Illuminate\\Database\\Eloquent\\Model;\n")
	hasSoftDeletes := hasTemporalColumn(t, "deleted_at") && opts.GenerateScopes
	if hasSoftDeletes {
		b.WriteString("use Illuminate\\Database\\Eloquent\\SoftDeletes;\n")
	}
	for _, imp := range imports {
		fmt.Fprintf(&b, "use Illuminate\\Database\\Eloquent\\Relations\\%s;\n", imp)
	}
	b.WriteString("\n")

	if opts.DocBlock {
		b.WriteString(docBlock(t))
	}
	fmt.Fprintf(&b, "class %s extends %s\n{\n", model, opts.baseClass())
	if hasSoftDeletes {
		b.WriteString("    use SoftDeletes;\n\n")
	}

	var body []string

	pk := t.PrimaryKeyColumns()
	if len(pk) == 1 && pk[0] != "id" {
		body = append(body, fmt.Sprintf("protected $primaryKey = %s;", quote(pk[0])))
	}
	if expected := inflect.ModelToTable(model); expected != t.Name {
		body = append(body, fmt.Sprintf("protected $table = %s;", quote(t.Name)))
	}
	if len(pk) == 1 {
		if pkCol := t.FindColumn(pk[0]); pkCol != nil {
			if !pkCol.AutoIncrement {
				body = append(body, "public $incrementing = false;")
			}
			if pkCol.Type == core.TypeUUID || pkCol.Type == core.TypeULID || pkCol.Type == core.TypeVarchar {
				body = append(body, "protected $keyType = 'string';")
			}
		}
	}
	if !(hasTemporalColumn(t, "created_at") && hasTemporalColumn(t, "updated_at")) {
		body = append(body, "public $timestamps = false;")
	}

	guard := make(map[string]bool, len(opts.GuardedColumns))
	for _, g := range opts.GuardedColumns {
		guard[g] = true
	}
	if opts.UseFillable {
		body = append(body, renderColumnList("fillable", fillableColumns(t, guard)))
	} else {
		body = append(body, renderColumnList("guarded", opts.GuardedColumns))
	}

	if casts := castsMap(t); len(casts) > 0 {
		body = append(body, renderCastsMap(casts))
	}

	for _, stmt := range body {
		writeIndented(&b, stmt)
		b.WriteString("\n")
	}

	for _, r := range rels {
		b.WriteString("\n")
		b.WriteString(relationshipMethod(r))
	}

	b.WriteString("}\n")
	return b.String()
}

func writeIndented(b *strings.Builder, stmt string) {
	for _, line := range strings.Split(stmt, "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func renderColumnList(field string, cols []string) string {
	if len(cols) == 0 {
		return fmt.Sprintf("protected $%s = [];", field)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "protected $%s = [\n", field)
	for _, c := range cols {
		fmt.Fprintf(&b, "    %s,\n", quote(c))
	}
	b.WriteString("];")
	return b.String()
}

func fillableColumns(t *core.Table, guard map[string]bool) []string {
	var out []string
	for _, c := range t.Columns {
		if c.AutoIncrement || guard[c.Name] {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

// castsMap applies the cast rules from §4.5: boolean/json columns and the
// Type Map's decimal/datetime defaults, with name-based overrides for
// `*_at` and `*_date` columns.
func castsMap(t *core.Table) [][2]string {
	var out [][2]string
	for _, c := range t.Columns {
		cast := castFor(c)
		if cast == "" {
			continue
		}
		out = append(out, [2]string{c.Name, cast})
	}
	return out
}

func castFor(c *core.Column) string {
	switch {
	case strings.HasSuffix(c.Name, "_date") && c.Type == core.TypeDate:
		return "date"
	case strings.HasSuffix(c.Name, "_at") && c.Type.IsTemporal():
		return "datetime"
	default:
		return typemap.GoCastType(c.Type, c.Scale)
	}
}

func renderCastsMap(casts [][2]string) string {
	var b strings.Builder
	b.WriteString("protected $casts = [\n")
	for _, kv := range casts {
		fmt.Fprintf(&b, "    %s => %s,\n", quote(kv[0]), quote(kv[1]))
	}
	b.WriteString("];")
	return b.String()
}

func relationImports(rels []relation.Relationship) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, r := range rels {
		switch r.Kind {
		case relation.KindOwnsOne:
			add("BelongsTo")
		case relation.KindHasOne:
			add("HasOne")
		case relation.KindHasMany:
			add("HasMany")
		case relation.KindManyToMany:
			add("BelongsToMany")
		case relation.KindPolymorphicTo:
			add("MorphTo")
		}
	}
	sort.Strings(out)
	return out
}

func relationshipMethod(r relation.Relationship) string {
	switch r.Kind {
	case relation.KindOwnsOne:
		return method(r.Method, "BelongsTo", fmt.Sprintf("$this->belongsTo(%s::class, %s)", inflect.TableToModel(r.Target), quote(r.ForeignKey)))
	case relation.KindHasOne:
		return method(r.Method, "HasOne", fmt.Sprintf("$this->hasOne(%s::class, %s)", inflect.TableToModel(r.Target), quote(r.ForeignKey)))
	case relation.KindHasMany:
		return method(r.Method, "HasMany", fmt.Sprintf("$this->hasMany(%s::class, %s)", inflect.TableToModel(r.Target), quote(r.ForeignKey)))
	case relation.KindManyToMany:
		return method(r.Method, "BelongsToMany", fmt.Sprintf("$this->belongsToMany(%s::class, %s)", inflect.TableToModel(r.Target), quote(r.Via)))
	case relation.KindPolymorphicTo:
		return method(r.Method, "MorphTo", "$this->morphTo()")
	default:
		return ""
	}
}

func method(name, returnType, body string) string {
	return fmt.Sprintf("    public function %s(): %s\n    {\n        return %s;\n    }\n", name, returnType, body)
}

func docBlock(t *core.Table) string {
	var b strings.Builder
	b.WriteString("/**\n")
	for _, c := range t.Columns {
		scalar := scalarDocType(c.Type)
		if c.Nullable {
			scalar += "|null"
		}
		fmt.Fprintf(&b, " * @property %s $%s\n", scalar, c.Name)
	}
	b.WriteString(" */\n")
	return b.String()
}

func scalarDocType(dt core.DataType) string {
	switch {
	case dt.IsIntegerFamily():
		return "int"
	case dt == core.TypeFloat || dt == core.TypeDouble || dt == core.TypeDecimal:
		return "float"
	case dt.IsTemporal():
		return "\\Carbon\\Carbon"
	case dt == core.TypeBoolean:
		return "bool"
	case dt == core.TypeJSON || dt == core.TypeJSONB:
		return "array"
	default:
		return "string"
	}
}
