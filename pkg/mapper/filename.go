package mapper

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formfill/pkg/record"
)

const (
	defaultOutputName = "VA_Form_21-0966_{{ first }}{{ last }}.pdf"
	defaultFirstName  = "Unknown"
	defaultLastName   = "Veteran"
)

// OutputFilename names the filled form after the veteran. Only letters and
// digits of each name are kept; a missing name falls back to
// "Unknown"/"Veteran". The layout's outputName template receives "first" and
// "last".
func (m *Mapper) OutputFilename(rec record.Record) (string, error) {
	pattern := m.profile.OutputName
	if pattern == "" {
		pattern = defaultOutputName
	}
	tpl, err := pongo2.FromString(pattern)
	if err != nil {
		return "", fmt.Errorf("mapper: output name template: %w", err)
	}

	first, last := defaultFirstName, defaultLastName
	if rec.VeteranInfo != nil {
		first = alnumOr(rec.VeteranInfo.FirstName, defaultFirstName)
		last = alnumOr(rec.VeteranInfo.LastName, defaultLastName)
	}

	out, err := tpl.Execute(pongo2.Context{"first": first, "last": last})
	if err != nil {
		return "", fmt.Errorf("mapper: render output name: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func alnumOr(value, fallback string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value)
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
