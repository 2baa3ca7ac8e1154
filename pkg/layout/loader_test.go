package layout_test

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/layout"
	"github.com/goliatone/go-formfill/pkg/testsupport"
)

func TestDefaultProfile(t *testing.T) {
	profile, err := layout.Default()
	if err != nil {
		t.Fatalf("default profile: %v", err)
	}
	if profile.ID != layout.DefaultProfileID || profile.OverflowChunk != 20 || profile.SelectedToken != "/1" {
		t.Fatalf("unexpected profile header: %+v", profile)
	}

	if got := profile.MustPath(layout.SlotEmailChunk); got != "F[0].Page_1[0].EMAIL_ADDRESS[1]" {
		t.Fatalf("email chunk path = %q", got)
	}
	if got := profile.MustPath(layout.SlotRepresentative); got != "F[0].#subform[1].Name_Of_Attorney_Agent_Or_Veterans_Service_Organization_VS[0]" {
		t.Fatalf("representative path = %q", got)
	}

	wantElections := []layout.Field{
		{Key: "compensation", Path: "F[0].#subform[1].COMPENSATION[0]"},
		{Key: "pension", Path: "F[0].#subform[1].PENSION[0]"},
		{Key: "survivors_pension_dic", Path: "F[0].#subform[1].SURVIVORS_PENSION_AND_OR_DEPENDENCY_AND_INDEMNITY_COMPENSATION_DIC[0]"},
	}
	if diff := cmp.Diff(wantElections, profile.Elections()); diff != "" {
		t.Fatalf("elections mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultProfileMatchesBlankTemplate(t *testing.T) {
	profile, err := layout.Default()
	if err != nil {
		t.Fatalf("default profile: %v", err)
	}
	_, idx := testsupport.BlankTree(t)
	for _, path := range profile.Paths() {
		if _, ok := idx.Lookup(path); !ok {
			t.Fatalf("profile path %q missing from blank template", path)
		}
	}
}

const minimalProfile = `{"forms": [{"id": "%s", "overflowChunk": 5, "groups": [{"base": "F[0]", "fields": [%s]}]}]}`

func fullFields(extra ...string) string {
	var parts []string
	for _, key := range layout.RequiredSlots {
		parts = append(parts, `{"key": "`+key+`", "name": "`+strings.ReplaceAll(key, ".", "_")+`[0]"}`)
	}
	parts = append(parts, extra...)
	return strings.Join(parts, ",")
}

func profileJSON(id string, extra ...string) string {
	return fmt.Sprintf(minimalProfile, id, fullFields(extra...))
}

func TestLoadFSDefaultsAndOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json":    {Data: []byte(profileJSON("custom"))},
		"notes.txt": {Data: []byte("ignored")},
	}
	store, err := layout.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	profile, ok := store.Profile("custom")
	if !ok {
		t.Fatalf("expected custom profile, have %v", store.IDs())
	}
	if profile.SelectedToken != "/1" {
		t.Fatalf("expected default selected token, got %q", profile.SelectedToken)
	}
	if profile.Fields[0].Key != layout.SlotFirstName || profile.Fields[0].Path != "F[0].first_name[0]" {
		t.Fatalf("unexpected first field %+v", profile.Fields[0])
	}
	if len(profile.Elections()) != 0 {
		t.Fatalf("expected no elections")
	}
}

func TestLoadFSRejectsInvalidProfiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"duplicate profile": {
			"a.json": {Data: []byte(profileJSON("dup"))},
			"b.json": {Data: []byte(profileJSON("dup"))},
		},
		"duplicate key": {
			"a.json": {Data: []byte(profileJSON("p", `{"key": "first_name", "name": "Other[0]"}`))},
		},
		"duplicate path": {
			"a.json": {Data: []byte(profileJSON("p", `{"key": "election.pension", "name": "first_name[0]"}`))},
		},
		"unknown election": {
			"a.json": {Data: []byte(profileJSON("p", `{"key": "election.lottery", "name": "Lottery[0]"}`))},
		},
		"missing slots": {
			"a.yaml": {Data: []byte("forms:\n  - id: thin\n    overflowChunk: 20\n    groups: []\n")},
		},
		"bad overflow": {
			"a.yaml": {Data: []byte("forms:\n  - id: thin\n    groups: []\n")},
		},
		"empty file": {
			"a.yaml": {Data: []byte("  ")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := layout.LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNilStore(t *testing.T) {
	store, err := layout.LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("expected empty store, got %v %v", store, err)
	}
	var nilStore *layout.Store
	if _, ok := nilStore.Profile("x"); ok || nilStore.IDs() != nil {
		t.Fatalf("nil store should be empty")
	}
}
