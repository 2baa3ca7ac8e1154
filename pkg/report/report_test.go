package report_test

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/layout"
	"github.com/goliatone/go-formfill/pkg/mapper"
	"github.com/goliatone/go-formfill/pkg/report"
	"github.com/goliatone/go-formfill/pkg/testsupport"
	"github.com/goliatone/go-formfill/pkg/transform"
	"github.com/goliatone/go-formfill/pkg/valuemap"
	"github.com/goliatone/go-formfill/pkg/writer"
)

func assertGolden(t *testing.T, name, output string) {
	t.Helper()
	golden := filepath.Join("testdata", name)
	if testsupport.WriteMaybeGolden(t, golden, []byte(output)) {
		return
	}
	if diff := testsupport.CompareGolden(testsupport.MustReadGolden(t, golden), []byte(output)); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, fragment := range want {
		if !strings.Contains(output, fragment) {
			t.Fatalf("output missing %q:\n%s", fragment, output)
		}
	}
}

func TestFieldsListsEveryNode(t *testing.T) {
	tree, idx := testsupport.BlankTree(t)
	fields := report.Fields(tree, idx)
	if len(fields) != testsupport.BlankNodeCount {
		t.Fatalf("expected %d fields, got %d", testsupport.BlankNodeCount, len(fields))
	}
	if fields[0].Path != "F[0]" || fields[0].Children != 2 || fields[0].Level != 0 {
		t.Fatalf("unexpected root %+v", fields[0])
	}
}

func TestRenderDiscover(t *testing.T) {
	engine, err := report.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	tree, diags := fieldtree.Build(testsupport.BlankDump(t))
	_, idx := testsupport.BlankTree(t)

	out, err := engine.RenderString(report.TemplateDiscover, report.NewDiscovery("blank.yaml", tree, idx, diags))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, out,
		"FIELD DISCOVERY SUMMARY (blank.yaml)",
		"Total fields discovered: 38",
		"Hierarchy levels: 4",
		"  - F[0].Page_1[0].EMAIL_ADDRESS[1] (max 20)",
		"  - F[0].#subform[1].COMPENSATION[0] (checkbox)",
		"Email fields (2):",
	)
	if strings.Contains(out, "Dropped nodes") {
		t.Fatalf("clean dump should not list dropped nodes:\n%s", out)
	}
}

func TestRenderFill(t *testing.T) {
	engine, err := report.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	rep := writer.Report{Entries: []writer.Entry{
		{Path: "a", Value: "1", Outcome: writer.Applied},
		{Path: "b", Value: "", Outcome: writer.Skipped},
		{Path: "c", Value: "x", Outcome: writer.NotFound},
	}}
	warnings := []transform.Warning{{Code: transform.CodeSSNLength, Field: "veteran_info.ssn", Message: "SSN should be 9 digits, got 5"}}
	data := report.NewFill("output/VA_Form_21-0966_JohnDoe.json", layout.DefaultProfileID, rep, warnings, []string{"compensation"})

	out, err := engine.RenderString(report.TemplateFill, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertGolden(t, "fill.golden", out)
}

func TestRenderInspect(t *testing.T) {
	engine, err := report.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	tree, idx := testsupport.BlankTree(t)
	writer.Apply(tree, idx, valuemap.New(
		valuemap.Entry{Path: "F[0].Page_1[0].EMAIL_ADDRESS[1]", Value: "a@b.co"},
		valuemap.Entry{Path: "F[0].#subform[1].PENSION[0]", Value: "/1"},
	))
	profile, err := layout.Default()
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	data := report.NewInspect("filled.json", tree, idx, mapper.ReadBack(tree, idx, profile))
	if len(data.Filled) != 2 || data.Empty != testsupport.BlankNodeCount-2 {
		t.Fatalf("unexpected counts: filled %d empty %d", len(data.Filled), data.Empty)
	}

	out, err := engine.RenderString(report.TemplateInspect, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertGolden(t, "inspect.golden", out)
}

func TestWithFSOverridesTemplates(t *testing.T) {
	engine, err := report.New(report.WithFS(fstest.MapFS{
		"fill.tpl": {Data: []byte("applied={{ d.Counts.Applied }}")},
	}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderString(report.TemplateFill, report.Fill{Counts: writer.Counts{Applied: 4}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "applied=4" {
		t.Fatalf("got %q", out)
	}
	if _, err := engine.RenderString(report.TemplateInspect, nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}
