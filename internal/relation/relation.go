// Package relation implements the Relationship Detector (§4.3): for a
// Table against the full Table set, it infers ActiveRecord-style
// relationships (owns-one, has-one/has-many, many-to-many via a pivot,
// and polymorphic-to) from the foreign-key graph and naming convention,
// without ever consulting a config file or annotation — everything is
// read back out of the Schema Model the Parsers already built.
package relation

import (
	"strings"

	"dbscribe/internal/core"
	"dbscribe/internal/dependency"
	"dbscribe/internal/inflect"
)

// Kind identifies which relationship shape was inferred.
type Kind string

const (
	KindOwnsOne       Kind = "owns-one"
	KindHasOne        Kind = "has-one"
	KindHasMany       Kind = "has-many"
	KindManyToMany    Kind = "many-to-many"
	KindPolymorphicTo Kind = "polymorphic-to"
)

// Relationship describes one inferred association from the owning
// Table's perspective.
type Relationship struct {
	Kind          Kind
	Owner         string
	Target        string
	Method        string
	ForeignKey    string   // local FK column, for owns-one/has-one/has-many
	Via           string   // pivot table name, for many-to-many
	TypeColumn    string   // X_type column, for polymorphic-to
	IDColumn      string   // X_id column, for polymorphic-to
	PivotColumns  []string // pivot's extra columns, for many-to-many
	SelfReference bool
}

// Detector infers relationships for a Table against the full Table set.
type Detector struct{}

// NewDetector returns a Detector. It carries no state; the full Table
// set is supplied per call to Detect.
func NewDetector() *Detector { return &Detector{} }

// Detect returns every relationship inferred for t, in the deterministic
// order owns-one, referred-to (has-one/has-many), many-to-many, then
// polymorphic-to, per §4.3.
func (d *Detector) Detect(t *core.Table, all []*core.Table) []Relationship {
	byName := make(map[string]*core.Table, len(all))
	for _, tbl := range all {
		byName[tbl.Name] = tbl
	}

	var rels []Relationship
	rels = append(rels, ownsOne(t, byName)...)
	rels = append(rels, referredTo(t, all)...)
	rels = append(rels, manyToMany(t, all)...)
	rels = append(rels, polymorphicTo(t)...)
	return rels
}

func ownsOne(t *core.Table, byName map[string]*core.Table) []Relationship {
	var rels []Relationship
	for _, fk := range t.ForeignKeys {
		if _, ok := byName[fk.ReferencedTable]; !ok {
			continue
		}
		col := fk.Columns[0]
		rels = append(rels, Relationship{
			Kind:          KindOwnsOne,
			Owner:         t.Name,
			Target:        fk.ReferencedTable,
			Method:        inflect.RelationMethodName(col),
			ForeignKey:    col,
			SelfReference: fk.ReferencedTable == t.Name,
		})
	}
	return rels
}

func referredTo(t *core.Table, all []*core.Table) []Relationship {
	inSet := make(map[string]bool, len(all))
	for _, tbl := range all {
		inSet[tbl.Name] = true
	}

	var rels []Relationship
	for _, s := range all {
		if s.Name == t.Name {
			continue
		}
		if dependency.IsPivot(s, inSet) {
			continue
		}
		for _, fk := range s.ForeignKeys {
			if fk.ReferencedTable != t.Name {
				continue
			}
			col := fk.Columns[0]
			if hasSingleColumnUniqueIndex(s, col) {
				rels = append(rels, Relationship{
					Kind:       KindHasOne,
					Owner:      t.Name,
					Target:     s.Name,
					Method:     inflect.ToCamel(inflect.Singularize(s.Name)),
					ForeignKey: col,
				})
				continue
			}
			rels = append(rels, Relationship{
				Kind:       KindHasMany,
				Owner:      t.Name,
				Target:     s.Name,
				Method:     inflect.ToCamel(s.Name),
				ForeignKey: col,
			})
		}
	}
	return rels
}

func hasSingleColumnUniqueIndex(t *core.Table, column string) bool {
	for _, idx := range t.Indexes {
		if idx.Kind == core.IndexUnique && len(idx.Columns) == 1 && idx.Columns[0] == column {
			return true
		}
	}
	return false
}

func manyToMany(t *core.Table, all []*core.Table) []Relationship {
	inSet := make(map[string]bool, len(all))
	for _, tbl := range all {
		inSet[tbl.Name] = true
	}

	var rels []Relationship
	for _, p := range all {
		if !dependency.IsPivot(p, inSet) {
			continue
		}
		var targetsInOrder []string
		fkColumns := map[string]string{}
		for _, fk := range p.ForeignKeys {
			if !inSet[fk.ReferencedTable] {
				continue
			}
			targetsInOrder = append(targetsInOrder, fk.ReferencedTable)
			fkColumns[fk.ReferencedTable] = fk.Columns[0]
		}
		if len(targetsInOrder) != 2 {
			continue
		}
		var other string
		matched := false
		for _, target := range targetsInOrder {
			if target == t.Name {
				matched = true
			} else {
				other = target
			}
		}
		if !matched || other == "" {
			continue
		}

		rels = append(rels, Relationship{
			Kind:         KindManyToMany,
			Owner:        t.Name,
			Target:       other,
			Method:       inflect.ToCamel(other),
			Via:          p.Name,
			PivotColumns: pivotExtraColumns(p, fkColumns),
		})
	}
	return rels
}

func pivotExtraColumns(p *core.Table, fkColumns map[string]string) []string {
	exclude := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, col := range fkColumns {
		exclude[col] = true
	}
	var extra []string
	for _, c := range p.Columns {
		if !exclude[c.Name] {
			extra = append(extra, c.Name)
		}
	}
	return extra
}

func polymorphicTo(t *core.Table) []Relationship {
	names := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		names[c.Name] = true
	}

	var bases []string
	for _, c := range t.Columns {
		if !strings.HasSuffix(c.Name, "_type") {
			continue
		}
		base := strings.TrimSuffix(c.Name, "_type")
		if names[base+"_id"] {
			bases = append(bases, base)
		}
	}

	var rels []Relationship
	for _, base := range bases {
		rels = append(rels, Relationship{
			Kind:       KindPolymorphicTo,
			Owner:      t.Name,
			Method:     inflect.ToCamel(base),
			TypeColumn: base + "_type",
			IDColumn:   base + "_id",
		})
	}
	return rels
}
