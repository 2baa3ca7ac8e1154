package mapper

import (
	"github.com/goliatone/go-formfill/pkg/fieldtree"
	"github.com/goliatone/go-formfill/pkg/layout"
	"github.com/goliatone/go-formfill/pkg/pathindex"
	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/transform"
)

// ReadBack reassembles a record from a filled tree. Split fields are joined
// again and the overflow field is read in its reversed order. Elections are
// FlagTrue when the checkbox holds the layout's selected token and FlagFalse
// otherwise; elections whose path is missing from the tree stay unset.
func ReadBack(tree *fieldtree.Tree, idx *pathindex.Index, profile layout.Profile) record.Record {
	r := reader{tree: tree, idx: idx, profile: profile}

	v := &record.VeteranInfo{
		FirstName:     r.value(layout.SlotFirstName),
		MiddleInitial: r.value(layout.SlotMiddleInitial),
		LastName:      r.value(layout.SlotLastName),
		DateOfBirth: transform.JoinDate(transform.Date{
			Month: r.value(layout.SlotDOBMonth),
			Day:   r.value(layout.SlotDOBDay),
			Year:  r.value(layout.SlotDOBYear),
		}),
		SSN: transform.JoinSSN(transform.SSN{
			Area:   r.value(layout.SlotSSNArea),
			Group:  r.value(layout.SlotSSNGroup),
			Serial: r.value(layout.SlotSSNSerial),
		}),
		Phone: transform.JoinPhone(transform.Phone{
			Area:     r.value(layout.SlotPhoneArea),
			Exchange: r.value(layout.SlotPhoneExchange),
			Line:     r.value(layout.SlotPhoneLine),
		}),
		Email: transform.JoinOverflow(transform.Overflow{
			Remainder: r.value(layout.SlotEmailRemainder),
			Chunk:     r.value(layout.SlotEmailChunk),
		}),
		VAFileNumber:  r.value(layout.SlotVAFileNumber),
		ServiceNumber: r.value(layout.SlotServiceNumber),
		Address: record.Address{
			Street:  r.value(layout.SlotStreet),
			AptUnit: r.value(layout.SlotAptUnit),
			City:    r.value(layout.SlotCity),
			State:   r.value(layout.SlotState),
			Country: r.value(layout.SlotCountry),
			ZipCode: transform.JoinZIP(transform.ZIP{
				Zip5: r.value(layout.SlotZip5),
				Zip4: r.value(layout.SlotZip4),
			}),
		},
	}

	rec := record.Record{
		VeteranInfo: v,
		SignatureInfo: record.SignatureInfo{
			DateSigned: transform.JoinDate(transform.Date{
				Month: r.value(layout.SlotSignedMonth),
				Day:   r.value(layout.SlotSignedDay),
				Year:  r.value(layout.SlotSignedYear),
			}),
			AttorneyAgentVSOName: r.value(layout.SlotRepresentative),
		},
	}

	selected := fieldtree.StripMarker(profile.SelectedToken)
	for _, election := range profile.Elections() {
		ref := rec.BenefitElection.Ref(election.Key)
		node, ok := r.node(election.Path)
		if ref == nil || !ok {
			continue
		}
		*ref = record.FlagOf(node.State == selected || node.Value == selected)
	}
	return rec
}

type reader struct {
	tree    *fieldtree.Tree
	idx     *pathindex.Index
	profile layout.Profile
}

func (r reader) node(path string) (fieldtree.Node, bool) {
	id, ok := r.idx.Lookup(path)
	if !ok {
		return fieldtree.Node{}, false
	}
	return r.tree.Node(id)
}

func (r reader) value(slot string) string {
	path, ok := r.profile.Path(slot)
	if !ok {
		return ""
	}
	node, ok := r.node(path)
	if !ok {
		return ""
	}
	return node.Value
}
