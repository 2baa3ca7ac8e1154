// Package writer applies a path → value map onto a field tree. Every entry is
// attempted and its outcome recorded; a missing path or a rejected value
// never stops the pass and nothing is rolled back.
package writer

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/pathindex"
	"github.com/goliatone/go-formfill/pkg/valuemap"
)

// Outcome classifies what happened to one entry.
type Outcome string

const (
	Applied  Outcome = "applied"
	NotFound Outcome = "not_found"
	Failed   Outcome = "failed"
	// Skipped marks empty values, which are never written.
	Skipped Outcome = "skipped"
)

const offState = "Off"

// Entry is the outcome for one path.
type Entry struct {
	Path    string  `json:"path"`
	Value   string  `json:"value"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Report lists entry outcomes in the order the values were supplied.
type Report struct {
	Entries []Entry `json:"entries"`
}

// Counts totals a report by outcome.
type Counts struct {
	Applied  int `json:"applied"`
	NotFound int `json:"notFound"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// Counts returns the per-outcome totals.
func (r Report) Counts() Counts {
	var c Counts
	for _, entry := range r.Entries {
		switch entry.Outcome {
		case Applied:
			c.Applied++
		case NotFound:
			c.NotFound++
		case Failed:
			c.Failed++
		case Skipped:
			c.Skipped++
		}
	}
	return c
}

// With returns the entries carrying outcome.
func (r Report) With(outcome Outcome) []Entry {
	var out []Entry
	for _, entry := range r.Entries {
		if entry.Outcome == outcome {
			out = append(out, entry)
		}
	}
	return out
}

// Complete reports whether no entry ended NotFound or Failed.
func (r Report) Complete() bool {
	c := r.Counts()
	return c.NotFound == 0 && c.Failed == 0
}

// Option customises a Writer.
type Option func(*Writer)

// WithStrict rejects values the target field cannot hold: text longer than
// its max length, choices outside the option list, and group tokens that
// name no option.
func WithStrict() Option {
	return func(w *Writer) {
		w.strict = true
	}
}

// Writer applies value maps.
type Writer struct {
	strict bool
}

// New constructs a Writer.
func New(options ...Option) *Writer {
	w := &Writer{}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Apply writes values with the default, non-strict Writer.
func Apply(tree *fieldtree.Tree, idx *pathindex.Index, values *valuemap.Map) Report {
	return New().Apply(tree, idx, values)
}

// Apply writes every non-empty value onto the node its path resolves to.
// Buttons receive the token without its leading marker as both value and
// visible state; other fields receive the value verbatim.
func (w *Writer) Apply(tree *fieldtree.Tree, idx *pathindex.Index, values *valuemap.Map) Report {
	report := Report{Entries: make([]Entry, 0, values.Len())}
	values.Each(func(path, value string) bool {
		report.Entries = append(report.Entries, w.applyOne(tree, idx, path, value))
		return true
	})
	return report
}

func (w *Writer) applyOne(tree *fieldtree.Tree, idx *pathindex.Index, path, value string) Entry {
	entry := Entry{Path: path, Value: value}
	if value == "" {
		entry.Outcome = Skipped
		return entry
	}

	id, ok := idx.Lookup(path)
	if !ok {
		entry.Outcome = NotFound
		return entry
	}
	node, ok := tree.Node(id)
	if !ok {
		return failed(entry, "node %d is not part of the tree", id)
	}

	if node.IsButton() {
		state := fieldtree.StripMarker(value)
		if w.strict && node.ButtonKind == fieldtree.ButtonGroup && state != offState && !slices.Contains(node.Options, state) {
			return failed(entry, "state %q is not one of %v", state, node.Options)
		}
		tree.SetValue(id, state)
		tree.SetState(id, state)
		entry.Outcome = Applied
		return entry
	}

	if w.strict {
		if n := utf8.RuneCountInString(value); node.MaxLength > 0 && n > node.MaxLength {
			return failed(entry, "value has %d characters, field allows %d", n, node.MaxLength)
		}
		if node.Type == fieldtree.TypeChoice && len(node.Options) > 0 && !slices.Contains(node.Options, value) {
			return failed(entry, "value %q is not one of %v", value, node.Options)
		}
	}
	tree.SetValue(id, value)
	entry.Outcome = Applied
	return entry
}

func failed(entry Entry, format string, args ...any) Entry {
	entry.Outcome = Failed
	entry.Reason = fmt.Sprintf(format, args...)
	return entry
}

// Values collects every indexed node holding a non-empty value, in tree
// order. Buttons report their visible state with the leading marker, so the
// result can be fed back to Apply.
func Values(tree *fieldtree.Tree, idx *pathindex.Index) *valuemap.Map {
	out := valuemap.New()
	for _, path := range idx.Paths() {
		id, _ := idx.Lookup(path)
		node, ok := tree.Node(id)
		if !ok {
			continue
		}
		if node.IsButton() {
			if node.State != "" && node.State != offState {
				out.Set(path, "/"+node.State)
			}
			continue
		}
		if node.Value != "" {
			out.Set(path, node.Value)
		}
	}
	return out
}
