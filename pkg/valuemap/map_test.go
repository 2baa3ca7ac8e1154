package valuemap_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/valuemap"
)

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := valuemap.New(
		valuemap.Entry{Path: "b", Value: "2"},
		valuemap.Entry{Path: "a", Value: "1"},
		valuemap.Entry{Path: " ", Value: "ignored"},
	)
	m.Set("c", "")
	m.Set("b", "two")

	if diff := cmp.Diff([]string{"b", "a", "c"}, m.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if got, _ := m.Get("b"); got != "two" {
		t.Fatalf("expected replaced value, got %q", got)
	}
	if !m.Has("c") || m.NonEmpty() != 2 {
		t.Fatalf("empty values must stay present: has=%v nonEmpty=%d", m.Has("c"), m.NonEmpty())
	}
}

func TestMapJSONPreservesOrder(t *testing.T) {
	m := valuemap.New()
	m.Set("z.path", "last letter")
	m.Set("a.path", "first letter")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"z.path":"last letter","a.path":"first letter"}` {
		t.Fatalf("unexpected json %s", data)
	}

	var decoded valuemap.Map
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(m.Entries(), decoded.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`["x"]`), &decoded); err == nil {
		t.Fatalf("expected error for non-object input")
	}
}

func TestNilMap(t *testing.T) {
	var m *valuemap.Map
	if m.Len() != 0 || m.Keys() != nil || m.Has("x") {
		t.Fatalf("nil map should behave as empty")
	}
}
