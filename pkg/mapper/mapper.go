// Package mapper turns an input record into the ordered path → value map
// written onto the form. Composite values go through the transform package,
// and election flags are emitted only when selected so the template's
// unselected state is left untouched.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formfill/pkg/layout"
	"github.com/goliatone/go-formfill/pkg/record"
	"github.com/goliatone/go-formfill/pkg/transform"
	"github.com/goliatone/go-formfill/pkg/valuemap"
)

// Option customises a Mapper.
type Option func(*Mapper)

// WithLayout overrides the bundled form layout.
func WithLayout(profile layout.Profile) Option {
	return func(m *Mapper) {
		m.profile = profile
		m.profileSet = true
	}
}

// WithClock injects the clock used for the default signature date.
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) {
		if now != nil {
			m.now = now
		}
	}
}

// WithSanitizer cleans free text and the email address before mapping. Any
// change beyond trimming is reported as a CodeSanitized warning. Without it,
// or with nil, text is written verbatim.
func WithSanitizer(s Sanitizer) Option {
	return func(m *Mapper) {
		m.sanitizer = s
	}
}

// Mapper builds value maps for one layout.
type Mapper struct {
	profile    layout.Profile
	profileSet bool
	now        func() time.Time
	sanitizer  Sanitizer
	err        error
}

// New constructs a Mapper. Without WithLayout the bundled default profile is
// used; a failure to load it surfaces from BuildValueMap.
func New(options ...Option) *Mapper {
	m := &Mapper{now: time.Now}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	if !m.profileSet {
		m.profile, m.err = layout.Default()
	}
	return m
}

// Profile returns the layout in use.
func (m *Mapper) Profile() layout.Profile {
	return m.profile
}

// Result is the outcome of BuildValueMap.
type Result struct {
	Values   *valuemap.Map
	Warnings []transform.Warning
	// Elections records the tri-state flag read for every election in the
	// layout, including the ones left out of Values.
	Elections map[string]record.Flag
}

// Selected returns the elections that produced a checkbox write, in layout
// order.
func (r Result) Selected(profile layout.Profile) []string {
	var out []string
	for _, election := range profile.Elections() {
		if r.Elections[election.Key].Selected() {
			out = append(out, election.Key)
		}
	}
	return out
}

// BuildValueMap validates rec and maps it onto the layout. A record missing
// required identity fields returns a *record.ValidationError and no map.
func (m *Mapper) BuildValueMap(rec record.Record) (Result, error) {
	if m.err != nil {
		return Result{}, fmt.Errorf("mapper: layout: %w", m.err)
	}
	if err := rec.Validate(); err != nil {
		return Result{}, err
	}

	b := &builder{
		slots:     make(map[string]string, len(m.profile.Fields)),
		sanitizer: m.sanitizer,
	}
	v := rec.VeteranInfo

	b.text(layout.SlotFirstName, record.FieldFirstName, v.FirstName)
	b.text(layout.SlotMiddleInitial, "veteran_info.middle_initial", v.MiddleInitial)
	b.text(layout.SlotLastName, record.FieldLastName, v.LastName)

	var ssn transform.SSN
	if v.SSN != "" {
		ssn = b.ssn(v.SSN)
	}
	b.set(layout.SlotSSNArea, ssn.Area)
	b.set(layout.SlotSSNGroup, ssn.Group)
	b.set(layout.SlotSSNSerial, ssn.Serial)

	var dob transform.Date
	if v.DateOfBirth != "" {
		dob = b.date(record.FieldDateOfBirth, v.DateOfBirth)
	}
	b.set(layout.SlotDOBMonth, dob.Month)
	b.set(layout.SlotDOBDay, dob.Day)
	b.set(layout.SlotDOBYear, dob.Year)

	email := transform.SplitOverflow(b.clean("veteran_info.email", v.Email), m.profile.OverflowChunk)
	b.set(layout.SlotEmailRemainder, email.Remainder)
	b.set(layout.SlotEmailChunk, email.Chunk)

	var phone transform.Phone
	if v.Phone != "" {
		phone = b.phone(v.Phone)
	}
	b.set(layout.SlotPhoneArea, phone.Area)
	b.set(layout.SlotPhoneExchange, phone.Exchange)
	b.set(layout.SlotPhoneLine, phone.Line)

	addr := v.Address
	b.text(layout.SlotStreet, "veteran_info.address.street", addr.Street)
	b.text(layout.SlotAptUnit, "veteran_info.address.apt_unit", addr.AptUnit)
	b.text(layout.SlotCity, "veteran_info.address.city", addr.City)
	b.text(layout.SlotState, "veteran_info.address.state", addr.State)
	b.text(layout.SlotCountry, "veteran_info.address.country", addr.Country)

	var zip transform.ZIP
	if addr.ZipCode != "" {
		zip = b.zip(addr.ZipCode)
	}
	b.set(layout.SlotZip5, zip.Zip5)
	b.set(layout.SlotZip4, zip.Zip4)

	b.text(layout.SlotVAFileNumber, "veteran_info.va_file_number", v.VAFileNumber)
	b.text(layout.SlotServiceNumber, "veteran_info.service_number", v.ServiceNumber)

	var signed transform.Date
	if rec.SignatureInfo.DateSigned != "" {
		signed = b.date("signature_info.date_signed", rec.SignatureInfo.DateSigned)
	} else {
		signed = dateOf(m.now())
	}
	b.set(layout.SlotSignedMonth, signed.Month)
	b.set(layout.SlotSignedDay, signed.Day)
	b.set(layout.SlotSignedYear, signed.Year)
	b.text(layout.SlotRepresentative, "signature_info.attorney_agent_vso_name", rec.SignatureInfo.AttorneyAgentVSOName)

	elections := make(map[string]record.Flag)
	for _, election := range m.profile.Elections() {
		flag, _ := rec.BenefitElection.Get(election.Key)
		elections[election.Key] = flag
		if flag.Selected() {
			b.set(layout.ElectionSlot(election.Key), m.profile.SelectedToken)
		}
	}

	values := valuemap.New()
	for _, field := range m.profile.Fields {
		if value, ok := b.slots[field.Key]; ok {
			values.Set(field.Path, value)
		}
	}

	return Result{Values: values, Warnings: b.warnings, Elections: elections}, nil
}

type builder struct {
	slots     map[string]string
	warnings  []transform.Warning
	sanitizer Sanitizer
}

func (b *builder) set(slot, value string) {
	b.slots[slot] = value
}

func (b *builder) clean(field, value string) string {
	if b.sanitizer == nil || value == "" {
		return value
	}
	cleaned := b.sanitizer.Sanitize(value)
	if cleaned != strings.TrimSpace(value) {
		b.warnings = append(b.warnings, transform.Warning{
			Code:    transform.CodeSanitized,
			Field:   field,
			Input:   value,
			Message: fmt.Sprintf("markup removed, wrote %q", cleaned),
		})
	}
	return cleaned
}

func (b *builder) text(slot, field, value string) {
	b.set(slot, b.clean(field, value))
}

func (b *builder) warn(field string, w *transform.Warning) {
	if w == nil {
		return
	}
	w.Field = field
	b.warnings = append(b.warnings, *w)
}

func (b *builder) ssn(raw string) transform.SSN {
	parts, w := transform.SplitSSN(raw)
	b.warn("veteran_info.ssn", w)
	return parts
}

func (b *builder) phone(raw string) transform.Phone {
	parts, w := transform.SplitPhone(raw)
	b.warn("veteran_info.phone", w)
	return parts
}

func (b *builder) date(field, raw string) transform.Date {
	parts, w := transform.SplitDate(raw)
	b.warn(field, w)
	return parts
}

func (b *builder) zip(raw string) transform.ZIP {
	parts, w := transform.SplitZIP(raw)
	b.warn("veteran_info.address.zip_code", w)
	return parts
}

func dateOf(t time.Time) transform.Date {
	return transform.Date{
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Day:   fmt.Sprintf("%02d", t.Day()),
		Year:  strconv.Itoa(t.Year()),
	}
}
