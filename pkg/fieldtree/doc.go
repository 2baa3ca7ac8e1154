// Package fieldtree holds the in-memory field hierarchy of a form template.
// Trees are built once from a field dump (the attribute view an external
// document extractor produces), stored as an arena of nodes linked by
// integer handles, mutated in place by the writer, and exported back to dump
// form for serialisation.
package fieldtree
