// Package formfill fills the fields of VA Form 21-0966 field dumps from an
// input record. The root package re-exports the orchestrator entry points
// for callers that want a single import.
package formfill

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/layout"
	"github.com/goliatone/go-formfill/pkg/orchestrator"
	"github.com/goliatone/go-formfill/pkg/record"
)

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// Document aliases orchestrator.Document.
type Document = orchestrator.Document

// ErrValidation is returned (wrapped) when the input record lacks required
// fields.
var ErrValidation = orchestrator.ErrValidation

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// FillFiles fills the blank field dump at dumpPath with the record stored at
// recordPath using the bundled layout.
func FillFiles(ctx context.Context, dumpPath, recordPath string, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Fill(ctx, Request{
		Dump:       fieldtree.SourceFromFile(dumpPath),
		RecordPath: recordPath,
	})
}

// FillRecord fills an in-memory field dump with rec.
func FillRecord(ctx context.Context, dump []byte, rec record.Record, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Fill(ctx, Request{
		Dump:   fieldtree.SourceFromBytes("dump", dump),
		Record: &rec,
	})
}

// Discover builds the field tree and path index of the dump at dumpPath.
func Discover(ctx context.Context, dumpPath string, options ...orchestrator.Option) (Document, error) {
	return orchestrator.New(options...).Discover(ctx, fieldtree.SourceFromFile(dumpPath))
}

// EmbeddedProfiles exposes the bundled layout profiles so callers can copy
// and adjust them for a revised form.
func EmbeddedProfiles() fs.FS {
	return layout.EmbeddedFS()
}
