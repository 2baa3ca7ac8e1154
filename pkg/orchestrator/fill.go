package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-formfill/internal/metrics"
	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/layout"
	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/report"
	"github.com/goliatone/go-formfill/pkg/transform"
	"github.com/goliatone/go-formfill/pkg/valuemap"
	"github.com/goliatone/go-formfill/pkg/writer"
)

// Request describes one fill run.
type Request struct {
	// Dump identifies the blank field dump.
	Dump fieldtree.Source

	// Record supplies the input record directly; Fill works on a copy. When
	// nil, RecordPath is loaded instead.
	Record *record.Record

	// RecordPath names a JSON or YAML input record file.
	RecordPath string

	// Profile selects the layout. Empty means the bundled default.
	Profile string

	// Interactive asks the configured Prompter for missing required fields
	// and, when none is selected, for the benefit elections.
	Interactive bool
}

// Result carries everything a fill run produced.
type Result struct {
	Document Document
	Profile  layout.Profile
	Record   record.Record
	Values   *valuemap.Map
	Warnings []transform.Warning
	Selected []string
	Prompted []string
	Report   writer.Report
	// Filename is the layout's output name for the record.
	Filename string
	// Dump is the filled tree in field dump shape.
	Dump []fieldtree.SourceNode
}

// MarshalDump encodes the filled dump.
func (r Result) MarshalDump(format fieldtree.Format) ([]byte, error) {
	return fieldtree.MarshalDump(r.Dump, format)
}

// DumpFilename swaps the output name's extension for the dump format's.
func (r Result) DumpFilename(format fieldtree.Format) string {
	base := strings.TrimSuffix(r.Filename, filepath.Ext(r.Filename))
	if base == "" {
		base = "filled"
	}
	return base + "." + string(format)
}

// Summary prepares the data for the fill report template.
func (r Result) Summary(output string) report.Fill {
	summary := report.NewFill(output, r.Profile.ID, r.Report, r.Warnings, r.Selected)
	summary.Prompted = r.Prompted
	summary.Conflicts = r.Document.Index.Conflicts()
	summary.Dropped = r.Document.Diagnostics.Dropped()
	return summary
}

// Fill runs the full pipeline: resolve the layout, load, optionally complete
// and validate the record, build the field tree, map the record and write
// the values onto the tree. The dump is only loaded for a valid record; a
// record missing required fields returns an error wrapping both
// ErrValidation and the *record.ValidationError.
func (o *Orchestrator) Fill(ctx context.Context, req Request) (res Result, err error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	started := o.now()
	defer func() {
		o.observe(started, res, err)
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	profile, err := o.Profile(req.Profile)
	if err != nil {
		return Result{}, err
	}
	res.Profile = profile

	rec, err := o.loadRecord(ctx, req)
	if err != nil {
		return res, err
	}

	if req.Interactive && o.prompter != nil {
		prompted, err := o.prompter.CompleteRecord(ctx, &rec)
		if err != nil {
			return res, fmt.Errorf("orchestrator: complete record: %w", err)
		}
		res.Prompted = prompted
		if _, err := o.prompter.AskElections(ctx, &rec); err != nil {
			return res, fmt.Errorf("orchestrator: elections: %w", err)
		}
	}
	res.Record = rec

	if err := rec.Validate(); err != nil {
		return res, o.validationFailed(err)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	doc, err := o.Discover(ctx, req.Dump)
	if err != nil {
		return res, err
	}
	res.Document = doc

	m := o.mapper(profile)
	mapped, err := m.BuildValueMap(rec)
	if err != nil {
		var verr *record.ValidationError
		if errors.As(err, &verr) {
			return res, o.validationFailed(err)
		}
		return res, fmt.Errorf("orchestrator: map record: %w", err)
	}
	res.Values = mapped.Values
	res.Warnings = mapped.Warnings
	res.Selected = mapped.Selected(profile)
	for _, w := range mapped.Warnings {
		o.logger.Warn("value needed a fallback", "field", w.Field, "code", w.Code, "input", w.Input, "reason", w.Message)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Report = o.writer().Apply(doc.Tree, doc.Index, mapped.Values)
	for _, entry := range res.Report.With(writer.NotFound) {
		o.logger.Warn("field path not found", "path", entry.Path)
	}
	for _, entry := range res.Report.With(writer.Failed) {
		o.logger.Warn("field write failed", "path", entry.Path, "reason", entry.Reason)
	}

	res.Filename, err = m.OutputFilename(rec)
	if err != nil {
		return res, err
	}
	res.Dump = doc.Tree.Export()

	counts := res.Report.Counts()
	o.logger.Info("form filled",
		"profile", profile.ID,
		"applied", counts.Applied,
		"skipped", counts.Skipped,
		"not_found", counts.NotFound,
		"failed", counts.Failed,
		"warnings", len(res.Warnings),
	)
	return res, nil
}

func (o *Orchestrator) validationFailed(err error) error {
	var verr *record.ValidationError
	if errors.As(err, &verr) {
		o.logger.Error("input record is missing required fields", "missing", verr.Missing)
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func (o *Orchestrator) loadRecord(ctx context.Context, req Request) (record.Record, error) {
	if req.Record != nil {
		rec := *req.Record
		if rec.VeteranInfo != nil {
			info := *rec.VeteranInfo
			rec.VeteranInfo = &info
		}
		return rec, nil
	}
	if strings.TrimSpace(req.RecordPath) == "" {
		return record.Record{}, errors.New("orchestrator: input record is required")
	}
	rec, err := record.Load(ctx, req.RecordPath)
	if err != nil {
		return record.Record{}, fmt.Errorf("orchestrator: load record: %w", err)
	}
	return rec, nil
}

func (o *Orchestrator) observe(started time.Time, res Result, err error) {
	if o.metrics == nil {
		return
	}
	run := metrics.Run{
		Outcome:  metrics.RunSucceeded,
		Started:  started,
		Duration: o.now().Sub(started),
	}
	switch {
	case errors.Is(err, ErrValidation):
		run.Outcome = metrics.RunValidationFailed
	case err != nil:
		run.Outcome = metrics.RunFailed
	}
	counts := res.Report.Counts()
	run.Fields = map[string]int{
		string(writer.Applied):  counts.Applied,
		string(writer.NotFound): counts.NotFound,
		string(writer.Failed):   counts.Failed,
		string(writer.Skipped):  counts.Skipped,
	}
	for _, w := range res.Warnings {
		run.Warnings = append(run.Warnings, w.Code)
	}
	run.DroppedNodes = res.Document.Diagnostics.Dropped()
	run.PathConflicts = len(res.Document.Index.Conflicts())
	o.metrics.Observe(run)
}
