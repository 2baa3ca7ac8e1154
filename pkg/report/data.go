package report

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/pathindex"
	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/transform"
	"github.com/goliatone/go-formfill/pkg/writer"
)

// Field is one discovered field, also used for the JSON field mapping.
type Field struct {
	Path       string   `json:"full_path"`
	Name       string   `json:"name"`
	RawName    string   `json:"raw_name,omitempty"`
	Type       string   `json:"field_type"`
	Tag        string   `json:"tag,omitempty"`
	ButtonKind string   `json:"button_kind,omitempty"`
	Flags      int      `json:"flags,omitempty"`
	MaxLength  int      `json:"max_length,omitempty"`
	Level      int      `json:"level"`
	Children   int      `json:"child_count"`
	Options    []string `json:"options,omitempty"`
	Value      string   `json:"current_value,omitempty"`
	State      string   `json:"state,omitempty"`
}

// Fields lists every indexed node in tree order.
func Fields(tree *fieldtree.Tree, idx *pathindex.Index) []Field {
	var out []Field
	tree.Walk(func(node fieldtree.Node) bool {
		out = append(out, Field{
			Path:       idx.Path(node.ID),
			Name:       node.Name,
			RawName:    node.RawName,
			Type:       string(node.Type),
			Tag:        node.Tag,
			ButtonKind: string(node.ButtonKind),
			Flags:      node.Flags,
			MaxLength:  node.MaxLength,
			Level:      node.Depth,
			Children:   len(node.Children),
			Options:    node.Options,
			Value:      node.Value,
			State:      node.State,
		})
		return true
	})
	return out
}

// Level groups discovered fields by depth.
type Level struct {
	Depth  int
	Fields []Field
}

// Discovery feeds the discover template.
type Discovery struct {
	Source    string
	Summary   fieldtree.Summary
	Levels    []Level
	Email     []Field
	Buttons   []Field
	Text      []Field
	Warnings  []fieldtree.Warning
	Conflicts []pathindex.Conflict
}

// NewDiscovery summarises a freshly built tree.
func NewDiscovery(source string, tree *fieldtree.Tree, idx *pathindex.Index, diags fieldtree.Diagnostics) Discovery {
	d := Discovery{
		Source:    source,
		Summary:   tree.Summary(),
		Warnings:  diags.Warnings,
		Conflicts: idx.Conflicts(),
	}
	byDepth := make(map[int][]Field)
	for _, field := range Fields(tree, idx) {
		byDepth[field.Level] = append(byDepth[field.Level], field)
		if strings.Contains(strings.ToLower(field.Path), "email") {
			d.Email = append(d.Email, field)
		}
		switch fieldtree.FieldType(field.Type) {
		case fieldtree.TypeButton:
			d.Buttons = append(d.Buttons, field)
		case fieldtree.TypeText:
			d.Text = append(d.Text, field)
		}
	}
	depths := make([]int, 0, len(byDepth))
	for depth := range byDepth {
		depths = append(depths, depth)
	}
	sort.Ints(depths)
	for _, depth := range depths {
		d.Levels = append(d.Levels, Level{Depth: depth, Fields: byDepth[depth]})
	}
	return d
}

// Fill feeds the fill template.
type Fill struct {
	Output    string
	Profile   string
	Counts    writer.Counts
	Total     int
	NotFound  []writer.Entry
	Failed    []writer.Entry
	Warnings  []transform.Warning
	Selected  []string
	Prompted  []string
	Conflicts []pathindex.Conflict
	Dropped   int
}

// NewFill summarises a write pass.
func NewFill(output, profile string, rep writer.Report, warnings []transform.Warning, selected []string) Fill {
	return Fill{
		Output:   output,
		Profile:  profile,
		Counts:   rep.Counts(),
		Total:    len(rep.Entries),
		NotFound: rep.With(writer.NotFound),
		Failed:   rep.With(writer.Failed),
		Warnings: warnings,
		Selected: selected,
	}
}

// Inspect feeds the inspect template.
type Inspect struct {
	Source  string
	Total   int
	Filled  []Field
	Empty   int
	Email   []Field
	Buttons []Field
	Record  record.Record
}

// NewInspect lists the fields of a filled tree that carry a value.
func NewInspect(source string, tree *fieldtree.Tree, idx *pathindex.Index, rec record.Record) Inspect {
	in := Inspect{Source: source, Record: rec}
	for _, field := range Fields(tree, idx) {
		in.Total++
		filled := field.Value != ""
		if fieldtree.FieldType(field.Type) == fieldtree.TypeButton {
			filled = field.State != "" && field.State != "Off"
		}
		if !filled {
			in.Empty++
			continue
		}
		in.Filled = append(in.Filled, field)
		if strings.Contains(strings.ToLower(field.Path), "email") {
			in.Email = append(in.Email, field)
		}
		if fieldtree.FieldType(field.Type) == fieldtree.TypeButton {
			in.Buttons = append(in.Buttons, field)
		}
	}
	return in
}
