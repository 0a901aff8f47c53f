// Package render formats the Schema Comparator's direct-mode Diff and the
// two emitters' generated files (the latter for the CLI's `preview`
// subcommand and `--preview` flags), in the teacher's human/JSON/summary
// formatter style.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"dbscribe/internal/compare"
	"dbscribe/internal/emit"
)

// Format selects the rendering style.
type Format string

const (
	FormatHuman   Format = "human"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// ParseFormat resolves a CLI-supplied format name, defaulting to human.
func ParseFormat(name string, json bool) Format {
	if json {
		return FormatJSON
	}
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatJSON:
		return FormatJSON
	case FormatSummary:
		return FormatSummary
	default:
		return FormatHuman
	}
}

// Diff renders a Schema Comparator Diff.
func Diff(d compare.Diff, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return diffJSON(d)
	case FormatSummary:
		return diffSummary(d), nil
	default:
		return diffHuman(d), nil
	}
}

func diffHuman(d compare.Diff) string {
	if d.IsInSync() {
		return "Schema is in sync.\n"
	}
	var b strings.Builder
	b.WriteString("Schema drift detected\n\n")
	writeNamedList(&b, "Created tables", d.Created, "+")
	writeNamedList(&b, "Dropped tables", d.Dropped, "-")
	for _, td := range d.Modified {
		fmt.Fprintf(&b, "Modified table %s:\n", td.Name)
		writeIndentedList(&b, td.AddedColumns, "  + column ")
		writeIndentedList(&b, td.DroppedColumns, "  - column ")
		for _, cd := range td.ModifiedColumns {
			for _, ch := range cd.Changes {
				fmt.Fprintf(&b, "  ~ column %s.%s: %v -> %v\n", cd.Name, ch.Field, ch.Before, ch.After)
			}
		}
		writeIndentedList(&b, td.AddedIndexes, "  + index ")
		writeIndentedList(&b, td.DroppedIndexes, "  - index ")
		writeIndentedList(&b, td.AddedForeignKeys, "  + foreign key ")
		writeIndentedList(&b, td.DroppedForeignKeys, "  - foreign key ")
	}
	return b.String()
}

func writeNamedList(b *strings.Builder, label string, names []string, marker string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", label, len(names))
	for _, n := range names {
		fmt.Fprintf(b, "  %s %s\n", marker, n)
	}
	b.WriteString("\n")
}

func writeIndentedList(b *strings.Builder, names []string, prefix string) {
	for _, n := range names {
		fmt.Fprintf(b, "%s%s\n", prefix, n)
	}
}

func diffSummary(d compare.Diff) string {
	var modifiedColumns, modifiedIndexes, modifiedFKs int
	for _, td := range d.Modified {
		modifiedColumns += len(td.AddedColumns) + len(td.DroppedColumns) + len(td.ModifiedColumns)
		modifiedIndexes += len(td.AddedIndexes) + len(td.DroppedIndexes)
		modifiedFKs += len(td.AddedForeignKeys) + len(td.DroppedForeignKeys)
	}
	return fmt.Sprintf(
		"Tables: %s created, %s dropped, %s modified\nColumn/index/FK changes across modified tables: %s\n",
		humanize.Comma(int64(len(d.Created))),
		humanize.Comma(int64(len(d.Dropped))),
		humanize.Comma(int64(len(d.Modified))),
		humanize.Comma(int64(modifiedColumns+modifiedIndexes+modifiedFKs)),
	)
}

type diffColumnChangePayload struct {
	Field  string `json:"field"`
	Before any    `json:"before"`
	After  any    `json:"after"`
}

type diffColumnPayload struct {
	Name    string                    `json:"name"`
	Changes []diffColumnChangePayload `json:"changes"`
}

type diffTablePayload struct {
	Name               string              `json:"name"`
	AddedColumns       []string            `json:"addedColumns,omitempty"`
	DroppedColumns     []string            `json:"droppedColumns,omitempty"`
	ModifiedColumns    []diffColumnPayload `json:"modifiedColumns,omitempty"`
	AddedIndexes       []string            `json:"addedIndexes,omitempty"`
	DroppedIndexes     []string            `json:"droppedIndexes,omitempty"`
	AddedForeignKeys   []string            `json:"addedForeignKeys,omitempty"`
	DroppedForeignKeys []string            `json:"droppedForeignKeys,omitempty"`
}

type diffPayload struct {
	InSync   bool               `json:"inSync"`
	Created  []string           `json:"created,omitempty"`
	Dropped  []string           `json:"dropped,omitempty"`
	Modified []diffTablePayload `json:"modified,omitempty"`
}

func diffJSON(d compare.Diff) (string, error) {
	payload := diffPayload{InSync: d.IsInSync(), Created: d.Created, Dropped: d.Dropped}
	for _, td := range d.Modified {
		tp := diffTablePayload{
			Name:               td.Name,
			AddedColumns:       td.AddedColumns,
			DroppedColumns:     td.DroppedColumns,
			AddedIndexes:       td.AddedIndexes,
			DroppedIndexes:     td.DroppedIndexes,
			AddedForeignKeys:   td.AddedForeignKeys,
			DroppedForeignKeys: td.DroppedForeignKeys,
		}
		for _, cd := range td.ModifiedColumns {
			cp := diffColumnPayload{Name: cd.Name}
			for _, ch := range cd.Changes {
				cp.Changes = append(cp.Changes, diffColumnChangePayload{Field: ch.Field, Before: ch.Before, After: ch.After})
			}
			tp.ModifiedColumns = append(tp.ModifiedColumns, cp)
		}
		payload.Modified = append(payload.Modified, tp)
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// Preview renders a set of generated files (from either emitter) for the
// `preview` subcommand.
func Preview(files []emit.File, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return previewJSON(files)
	case FormatSummary:
		return fmt.Sprintf("%s file(s) would be written\n", humanize.Comma(int64(len(files)))), nil
	default:
		return previewHuman(files), nil
	}
}

func previewHuman(files []emit.File) string {
	var b strings.Builder
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "// %s\n", f.Filename)
		b.WriteString(f.Body)
	}
	return b.String()
}

type filePayload struct {
	Filename string `json:"filename"`
	Body     string `json:"body"`
}

func previewJSON(files []emit.File) (string, error) {
	payload := make([]filePayload, len(files))
	for i, f := range files {
		payload[i] = filePayload{Filename: f.Filename, Body: f.Body}
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
