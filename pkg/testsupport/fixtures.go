// Package testsupport bundles fixtures and golden helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/pathindex"
	"github.com/goliatone/go-formfill/pkg/record"
)

//go:embed testdata/*
var fixtures embed.FS

const (
	// BlankDumpFile is the blank VA Form 21-0966 field dump.
	BlankDumpFile = "testdata/va_21_0966_blank.yaml"
	// CompleteRecordFile is a record with every field populated.
	CompleteRecordFile = "testdata/complete_record.json"

	// BlankNodeCount is the number of nodes in the blank dump.
	BlankNodeCount = 38
)

// Fixtures exposes the embedded testdata directory.
func Fixtures() embed.FS {
	return fixtures
}

// MustReadFixture returns the raw bytes of an embedded fixture.
func MustReadFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := fixtures.ReadFile(name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// BlankDump parses the blank field dump.
func BlankDump(t *testing.T) []fieldtree.SourceNode {
	t.Helper()

	nodes, err := fieldtree.ParseDump(MustReadFixture(t, BlankDumpFile), BlankDumpFile)
	if err != nil {
		t.Fatalf("parse blank dump: %v", err)
	}
	return nodes
}

// BlankTree builds the blank dump and its path index, failing the test on
// any build warning.
func BlankTree(t *testing.T) (*fieldtree.Tree, *pathindex.Index) {
	t.Helper()

	tree, diags := fieldtree.Build(BlankDump(t))
	if diags.HasWarnings() {
		t.Fatalf("unexpected build warnings: %+v", diags.Warnings)
	}
	return tree, pathindex.Build(tree)
}

// CompleteRecord parses the fully populated record fixture.
func CompleteRecord(t *testing.T) record.Record {
	t.Helper()

	rec, err := record.Parse(MustReadFixture(t, CompleteRecordFile))
	if err != nil {
		t.Fatalf("parse record fixture: %v", err)
	}
	return rec
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ. Byte slices are
// compared as text with trailing newlines ignored.
func CompareGolden(want, got any) string {
	if w, ok := want.([]byte); ok {
		if g, ok := got.([]byte); ok {
			return cmp.Diff(string(bytes.TrimRight(w, "\n")), string(bytes.TrimRight(g, "\n")))
		}
	}
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
