// Package metrics counts fill runs and their outcomes. Runs are short lived,
// so the counters are written as a node_exporter textfile rather than
// served.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "formfill"

// Run outcomes.
const (
	RunSucceeded        = "succeeded"
	RunValidationFailed = "validation_failed"
	RunFailed           = "failed"
)

// Recorder owns a private registry with the run counters.
type Recorder struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	fields        *prometheus.CounterVec
	warnings      *prometheus.CounterVec
	droppedNodes  prometheus.Counter
	pathConflicts prometheus.Counter
	duration      prometheus.Histogram
	lastRun       prometheus.Gauge
}

// NewRecorder registers the counters on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Fill runs by outcome.",
		}, []string{"outcome"}),
		fields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_total",
			Help:      "Value map entries by write outcome.",
		}, []string{"outcome"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_warnings_total",
			Help:      "Composite values that needed a fallback rule, by warning code.",
		}, []string{"code"}),
		droppedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_nodes_total",
			Help:      "Field dump nodes dropped as corrupt during tree construction.",
		}),
		pathConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_conflicts_total",
			Help:      "Duplicate dotted paths shadowed in the path index.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a fill run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last recorded run.",
		}),
	}
	r.registry.MustRegister(r.runs, r.fields, r.warnings, r.droppedNodes, r.pathConflicts, r.duration, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Run summarises one pipeline run.
type Run struct {
	Outcome       string
	Fields        map[string]int
	Warnings      []string
	DroppedNodes  int
	PathConflicts int
	Started       time.Time
	Duration      time.Duration
}

// Observe adds a run to the counters. A nil Recorder ignores the call.
func (r *Recorder) Observe(run Run) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(run.Outcome).Inc()
	for outcome, count := range run.Fields {
		r.fields.WithLabelValues(outcome).Add(float64(count))
	}
	for _, code := range run.Warnings {
		r.warnings.WithLabelValues(code).Inc()
	}
	r.droppedNodes.Add(float64(run.DroppedNodes))
	r.pathConflicts.Add(float64(run.PathConflicts))
	r.duration.Observe(run.Duration.Seconds())
	if !run.Started.IsZero() {
		r.lastRun.Set(float64(run.Started.Unix()))
	}
}

// WriteTextfile writes the registry in text exposition format. The file is
// replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
