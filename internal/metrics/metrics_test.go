package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func counterValues(t *testing.T, r *Recorder, name string) map[string]float64 {
	t.Helper()

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string]float64)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			label := ""
			if pairs := metric.GetLabel(); len(pairs) > 0 {
				label = pairs[0].GetValue()
			}
			out[label] = metric.GetCounter().GetValue()
		}
	}
	return out
}

func TestObserveCountsRuns(t *testing.T) {
	r := NewRecorder()
	r.Observe(Run{
		Outcome:      RunSucceeded,
		Fields:       map[string]int{"applied": 20, "skipped": 7},
		Warnings:     []string{"ssn-length", "date-format", "ssn-length"},
		DroppedNodes: 2,
		Started:      time.Unix(1700000000, 0),
		Duration:     15 * time.Millisecond,
	})
	r.Observe(Run{Outcome: RunValidationFailed})

	if diff := cmp.Diff(map[string]float64{RunSucceeded: 1, RunValidationFailed: 1}, counterValues(t, r, "formfill_runs_total")); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]float64{"applied": 20, "skipped": 7}, counterValues(t, r, "formfill_fields_total")); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]float64{"ssn-length": 2, "date-format": 1}, counterValues(t, r, "formfill_transform_warnings_total")); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
	if got := counterValues(t, r, "formfill_dropped_nodes_total")[""]; got != 2 {
		t.Fatalf("dropped nodes = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(Run{Outcome: RunFailed})

	path := filepath.Join(t.TempDir(), "formfill.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `formfill_runs_total{outcome="failed"} 1`) {
		t.Fatalf("textfile missing run counter:\n%s", data)
	}
}

func TestNilRecorderIgnoresRuns(t *testing.T) {
	var r *Recorder
	r.Observe(Run{Outcome: RunSucceeded})
}
