// Package record models the caller supplied data used to fill the form:
// veteran identity and contact details, benefit elections, and signature
// information. Records are read from JSON or YAML, checked against an
// embedded OpenAPI schema, and validated for the required identity fields
// before any mapping happens.
package record

import (
	"fmt"
	"strings"
)

// Record is the input record consumed by the mapper.
type Record struct {
	VeteranInfo     *VeteranInfo    `json:"veteran_info,omitempty" yaml:"veteran_info,omitempty"`
	BenefitElection BenefitElection `json:"benefit_election" yaml:"benefit_election"`
	SignatureInfo   SignatureInfo   `json:"signature_info" yaml:"signature_info"`
}

// VeteranInfo carries identity and contact fields.
type VeteranInfo struct {
	FirstName     string  `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName      string  `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	MiddleInitial string  `json:"middle_initial,omitempty" yaml:"middle_initial,omitempty"`
	DateOfBirth   string  `json:"date_of_birth,omitempty" yaml:"date_of_birth,omitempty"`
	SSN           string  `json:"ssn,omitempty" yaml:"ssn,omitempty"`
	Phone         string  `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email         string  `json:"email,omitempty" yaml:"email,omitempty"`
	VAFileNumber  string  `json:"va_file_number,omitempty" yaml:"va_file_number,omitempty"`
	ServiceNumber string  `json:"service_number,omitempty" yaml:"service_number,omitempty"`
	Address       Address `json:"address" yaml:"address"`
}

// Address is the veteran's mailing address.
type Address struct {
	Street  string `json:"street,omitempty" yaml:"street,omitempty"`
	AptUnit string `json:"apt_unit,omitempty" yaml:"apt_unit,omitempty"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	State   string `json:"state,omitempty" yaml:"state,omitempty"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
	ZipCode string `json:"zip_code,omitempty" yaml:"zip_code,omitempty"`
}

// BenefitElection holds the three intent-to-file checkboxes.
type BenefitElection struct {
	Compensation        Flag `json:"compensation,omitempty" yaml:"compensation,omitempty"`
	Pension             Flag `json:"pension,omitempty" yaml:"pension,omitempty"`
	SurvivorsPensionDIC Flag `json:"survivors_pension_dic,omitempty" yaml:"survivors_pension_dic,omitempty"`
}

// Election keys used by layouts and reports.
const (
	ElectionCompensation        = "compensation"
	ElectionPension             = "pension"
	ElectionSurvivorsPensionDIC = "survivors_pension_dic"
)

// ElectionKeys lists the elections in form order.
var ElectionKeys = []string{ElectionCompensation, ElectionPension, ElectionSurvivorsPensionDIC}

// Get returns the flag stored under an election key.
func (b BenefitElection) Get(key string) (Flag, bool) {
	switch key {
	case ElectionCompensation:
		return b.Compensation, true
	case ElectionPension:
		return b.Pension, true
	case ElectionSurvivorsPensionDIC:
		return b.SurvivorsPensionDIC, true
	default:
		return FlagUnset, false
	}
}

// Ref returns the flag stored under an election key, or nil for an unknown
// key.
func (b *BenefitElection) Ref(key string) *Flag {
	switch key {
	case ElectionCompensation:
		return &b.Compensation
	case ElectionPension:
		return &b.Pension
	case ElectionSurvivorsPensionDIC:
		return &b.SurvivorsPensionDIC
	default:
		return nil
	}
}

// Set stores a flag under an election key.
func (b *BenefitElection) Set(key string, flag Flag) error {
	ref := b.Ref(key)
	if ref == nil {
		return fmt.Errorf("record: unknown election %q", key)
	}
	*ref = flag
	return nil
}

// SignatureInfo carries the signing date and the representative name.
type SignatureInfo struct {
	DateSigned           string `json:"date_signed,omitempty" yaml:"date_signed,omitempty"`
	AttorneyAgentVSOName string `json:"attorney_agent_vso_name,omitempty" yaml:"attorney_agent_vso_name,omitempty"`
}

// Required identity fields, as dotted record paths.
const (
	FieldFirstName   = "veteran_info.first_name"
	FieldLastName    = "veteran_info.last_name"
	FieldDateOfBirth = "veteran_info.date_of_birth"
)

// RequiredFields lists the identity fields that must be non-blank.
var RequiredFields = []string{FieldFirstName, FieldLastName, FieldDateOfBirth}

// Missing returns the required fields that are absent or blank, in
// RequiredFields order. A missing veteran_info section reports the section
// itself.
func (r Record) Missing() []string {
	if r.VeteranInfo == nil {
		return []string{"veteran_info"}
	}
	var missing []string
	for _, field := range RequiredFields {
		value, _ := r.Field(field)
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Validate reports every missing required field as a *ValidationError.
func (r Record) Validate() error {
	if missing := r.Missing(); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Field returns a scalar record value by dotted path.
func (r Record) Field(path string) (string, bool) {
	ptr := r.fieldPtr(path)
	if ptr == nil {
		return "", false
	}
	return *ptr, true
}

// SetField assigns a scalar record value by dotted path, creating the
// veteran_info section when needed.
func (r *Record) SetField(path, value string) error {
	if strings.HasPrefix(path, "veteran_info.") && r.VeteranInfo == nil {
		r.VeteranInfo = &VeteranInfo{}
	}
	ptr := r.fieldPtr(path)
	if ptr == nil {
		return fmt.Errorf("record: unknown field %q", path)
	}
	*ptr = value
	return nil
}

func (r *Record) fieldPtr(path string) *string {
	switch path {
	case "signature_info.date_signed":
		return &r.SignatureInfo.DateSigned
	case "signature_info.attorney_agent_vso_name":
		return &r.SignatureInfo.AttorneyAgentVSOName
	}
	v := r.VeteranInfo
	if v == nil {
		return nil
	}
	switch path {
	case FieldFirstName:
		return &v.FirstName
	case FieldLastName:
		return &v.LastName
	case "veteran_info.middle_initial":
		return &v.MiddleInitial
	case FieldDateOfBirth:
		return &v.DateOfBirth
	case "veteran_info.ssn":
		return &v.SSN
	case "veteran_info.phone":
		return &v.Phone
	case "veteran_info.email":
		return &v.Email
	case "veteran_info.va_file_number":
		return &v.VAFileNumber
	case "veteran_info.service_number":
		return &v.ServiceNumber
	case "veteran_info.address.street":
		return &v.Address.Street
	case "veteran_info.address.apt_unit":
		return &v.Address.AptUnit
	case "veteran_info.address.city":
		return &v.Address.City
	case "veteran_info.address.state":
		return &v.Address.State
	case "veteran_info.address.country":
		return &v.Address.Country
	case "veteran_info.address.zip_code":
		return &v.Address.ZipCode
	}
	return nil
}
