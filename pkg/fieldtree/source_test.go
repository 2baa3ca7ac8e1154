package fieldtree_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
)

const jsonDump = `{
  "Fields": [
    {"T": "<FEFF0046005B0030005D>", "Kids": [
      {"T": "Name[0]", "FT": "/Tx", "MaxLen": 12, "Ff": 4096},
      {"T": "Agree[0]", "FT": "/Btn", "V": "/Off", "AS": "/Off"},
      {"T": "Kind[0]", "FT": "/Ch", "Opt": ["a", ["b", "B"]]}
    ]}
  ]
}`

const yamlDump = `
- T: "<FEFF0046005B0030005D>"
  Kids:
    - {T: "Name[0]", FT: /Tx, MaxLen: 12, Ff: 4096}
    - {T: "Agree[0]", FT: /Btn, V: /Off, AS: /Off}
    - T: "Kind[0]"
      FT: /Ch
      Opt: [a, [b, B]]
`

func TestParseDump_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := fieldtree.ParseDump([]byte(jsonDump), "dump.json")
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	fromYAML, err := fieldtree.ParseDump([]byte(yamlDump), "dump.yaml")
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}

	jsonTree, jsonDiags := fieldtree.Build(fromJSON)
	yamlTree, yamlDiags := fieldtree.Build(fromYAML)
	if jsonDiags.HasWarnings() || yamlDiags.HasWarnings() {
		t.Fatalf("unexpected warnings: %+v %+v", jsonDiags, yamlDiags)
	}

	var fromJSONNodes, fromYAMLNodes []fieldtree.Node
	jsonTree.Walk(func(n fieldtree.Node) bool { fromJSONNodes = append(fromJSONNodes, n); return true })
	yamlTree.Walk(func(n fieldtree.Node) bool { fromYAMLNodes = append(fromYAMLNodes, n); return true })

	if diff := cmp.Diff(fromJSONNodes, fromYAMLNodes, cmpopts.IgnoreUnexported(fieldtree.Node{})); diff != "" {
		t.Fatalf("json/yaml trees differ (-json +yaml):\n%s", diff)
	}
	if len(fromJSONNodes) != 4 || fromJSONNodes[1].MaxLength != 12 {
		t.Fatalf("unexpected nodes: %+v", fromJSONNodes)
	}
}

func TestParseDump_Errors(t *testing.T) {
	if _, err := fieldtree.ParseDump([]byte("   "), "empty.json"); err == nil {
		t.Fatalf("expected error for empty dump")
	}
	if _, err := fieldtree.ParseDump([]byte("just a string"), "scalar.yaml"); err == nil {
		t.Fatalf("expected error for scalar dump")
	}
}

func TestLoader_Sources(t *testing.T) {
	fsys := fstest.MapFS{"dumps/form.yaml": {Data: []byte(yamlDump)}}
	loader := fieldtree.NewLoader(fsys)
	ctx := context.Background()

	fromFS, err := loader.Load(ctx, fieldtree.SourceFromFS("dumps/form.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	fromBytes, err := loader.Load(ctx, fieldtree.SourceFromBytes("inline", []byte(yamlDump)))
	if err != nil {
		t.Fatalf("load bytes: %v", err)
	}
	if diff := cmp.Diff(fromFS, fromBytes); diff != "" {
		t.Fatalf("sources disagree (-fs +bytes):\n%s", diff)
	}

	if _, err := fieldtree.NewLoader(nil).Load(ctx, fieldtree.SourceFromFS("x.yaml")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
	if _, err := loader.Load(ctx, fieldtree.SourceFromFile("testdata/does-not-exist.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := loader.Load(cancelled, fieldtree.SourceFromFS("dumps/form.yaml")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestExport_RoundTripsMutations(t *testing.T) {
	roots, err := fieldtree.ParseDump([]byte(yamlDump), "dump.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree, _ := fieldtree.Build(roots)
	tree.SetValue(1, "Jane")
	tree.SetValue(2, "1")
	tree.SetState(2, "1")

	exported := tree.Export()
	for _, format := range []fieldtree.Format{fieldtree.FormatJSON, fieldtree.FormatYAML} {
		data, err := fieldtree.MarshalDump(exported, format)
		if err != nil {
			t.Fatalf("marshal %s: %v", format, err)
		}
		reparsed, err := fieldtree.ParseDump(data, string(format))
		if err != nil {
			t.Fatalf("reparse %s: %v", format, err)
		}
		rebuilt, diags := fieldtree.Build(reparsed)
		if diags.HasWarnings() {
			t.Fatalf("rebuild %s warnings: %+v", format, diags.Warnings)
		}

		name, _ := rebuilt.Node(1)
		agree, _ := rebuilt.Node(2)
		kind, _ := rebuilt.Node(3)
		if name.Value != "Jane" || name.MaxLength != 12 || name.Flags != 4096 {
			t.Fatalf("%s: text node not preserved: %+v", format, name)
		}
		if agree.Value != "1" || agree.State != "1" {
			t.Fatalf("%s: button state not preserved: %+v", format, agree)
		}
		if diff := cmp.Diff([]string{"a", "b"}, kind.Options); diff != "" {
			t.Fatalf("%s: options mismatch (-want +got):\n%s", format, diff)
		}
		root, _ := rebuilt.Node(0)
		if root.RawName != "<FEFF0046005B0030005D>" || root.Name != "F[0]" {
			t.Fatalf("%s: root name not preserved: %+v", format, root)
		}
	}

	if got := exported[0].Kids[1].V; got != "/1" {
		t.Fatalf("expected button value exported with marker, got %v", got)
	}
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]fieldtree.Format{
		"out/filled.yaml": fieldtree.FormatYAML,
		"out/filled.YML":  fieldtree.FormatYAML,
		"out/filled.json": fieldtree.FormatJSON,
		"out/filled":      fieldtree.FormatJSON,
	}
	for path, want := range cases {
		if got := fieldtree.FormatForPath(path); got != want {
			t.Fatalf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
