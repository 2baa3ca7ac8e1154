package orchestrator

import (
	"context"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/mapper"
	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/report"
	"github.com/goliatone/go-formfill/pkg/valuemap"
	"github.com/goliatone/go-formfill/pkg/writer"
)

// Inspection is a filled dump read back through a layout.
type Inspection struct {
	Document Document
	// Values lists every non-empty field in tree order.
	Values *valuemap.Map
	// Record is reassembled from the layout's fields.
	Record record.Record
}

// Summary prepares the data for the inspect report template.
func (i Inspection) Summary() report.Inspect {
	return report.NewInspect(i.Document.Source, i.Document.Tree, i.Document.Index, i.Record)
}

// Inspect loads a filled dump and reassembles the record it carries using
// the named layout profile.
func (o *Orchestrator) Inspect(ctx context.Context, src fieldtree.Source, profileID string) (Inspection, error) {
	profile, err := o.Profile(profileID)
	if err != nil {
		return Inspection{}, err
	}
	doc, err := o.Discover(ctx, src)
	if err != nil {
		return Inspection{}, err
	}
	return Inspection{
		Document: doc,
		Values:   writer.Values(doc.Tree, doc.Index),
		Record:   mapper.ReadBack(doc.Tree, doc.Index, profile),
	}, nil
}
