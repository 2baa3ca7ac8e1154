// Package layout describes where each logical record value lands on a
// target form: the dotted field path for every slot, the overflow chunk
// length of split text fields, and the token that selects a checkbox.
// Profiles are plain JSON or YAML files so a revised form edition only needs
// a new profile.
package layout

import (
	"fmt"
	"strings"
)

// DefaultProfileID names the bundled VA Form 21-0966 profile.
const DefaultProfileID = "va-21-0966"

// Slot keys understood by the mapper.
const (
	SlotFirstName      = "first_name"
	SlotMiddleInitial  = "middle_initial"
	SlotLastName       = "last_name"
	SlotSSNArea        = "ssn.area"
	SlotSSNGroup       = "ssn.group"
	SlotSSNSerial      = "ssn.serial"
	SlotDOBMonth       = "dob.month"
	SlotDOBDay         = "dob.day"
	SlotDOBYear        = "dob.year"
	SlotEmailRemainder = "email.remainder"
	SlotEmailChunk     = "email.chunk"
	SlotPhoneArea      = "phone.area"
	SlotPhoneExchange  = "phone.exchange"
	SlotPhoneLine      = "phone.line"
	SlotStreet         = "address.street"
	SlotAptUnit        = "address.apt_unit"
	SlotCity           = "address.city"
	SlotState          = "address.state"
	SlotCountry        = "address.country"
	SlotZip5           = "zip.zip5"
	SlotZip4           = "zip.zip4"
	SlotVAFileNumber   = "va_file_number"
	SlotServiceNumber  = "service_number"
	SlotSignedMonth    = "signed.month"
	SlotSignedDay      = "signed.day"
	SlotSignedYear     = "signed.year"
	SlotRepresentative = "representative"

	// ElectionPrefix precedes the record election key in election slots,
	// e.g. "election.compensation".
	ElectionPrefix = "election."
)

// RequiredSlots lists the slots every profile must define.
var RequiredSlots = []string{
	SlotFirstName, SlotMiddleInitial, SlotLastName,
	SlotSSNArea, SlotSSNGroup, SlotSSNSerial,
	SlotDOBMonth, SlotDOBDay, SlotDOBYear,
	SlotEmailRemainder, SlotEmailChunk,
	SlotPhoneArea, SlotPhoneExchange, SlotPhoneLine,
	SlotStreet, SlotAptUnit, SlotCity, SlotState, SlotCountry,
	SlotZip5, SlotZip4,
	SlotVAFileNumber, SlotServiceNumber,
	SlotSignedMonth, SlotSignedDay, SlotSignedYear,
	SlotRepresentative,
}

// ElectionSlot returns the slot key of a record election.
func ElectionSlot(election string) string {
	return ElectionPrefix + election
}

// Field binds a slot key to its full dotted path.
type Field struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

// Profile is a resolved form layout.
type Profile struct {
	ID            string  `json:"id"`
	Title         string  `json:"title,omitempty"`
	Source        string  `json:"source,omitempty"`
	OutputName    string  `json:"outputName,omitempty"`
	OverflowChunk int     `json:"overflowChunk"`
	SelectedToken string  `json:"selectedToken"`
	Fields        []Field `json:"fields"`

	byKey map[string]int
}

// Path returns the dotted path bound to key.
func (p Profile) Path(key string) (string, bool) {
	if pos, ok := p.byKey[key]; ok {
		return p.Fields[pos].Path, true
	}
	for _, field := range p.Fields {
		if field.Key == key {
			return field.Path, true
		}
	}
	return "", false
}

// MustPath is Path for slots the loader already guaranteed.
func (p Profile) MustPath(key string) string {
	path, ok := p.Path(key)
	if !ok {
		panic(fmt.Sprintf("layout: profile %q has no slot %q", p.ID, key))
	}
	return path
}

// Elections returns the election slots in profile order, keyed by record
// election name.
func (p Profile) Elections() []Field {
	var out []Field
	for _, field := range p.Fields {
		if election, ok := strings.CutPrefix(field.Key, ElectionPrefix); ok {
			out = append(out, Field{Key: election, Path: field.Path})
		}
	}
	return out
}

// Paths returns every bound path in profile order.
func (p Profile) Paths() []string {
	out := make([]string, len(p.Fields))
	for i, field := range p.Fields {
		out[i] = field.Path
	}
	return out
}

func errMissingProfile(id string) error {
	return fmt.Errorf("layout: profile %q not found", id)
}
