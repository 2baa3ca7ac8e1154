package mapper

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans free text before it is written to a field.
type Sanitizer interface {
	Sanitize(string) string
}

// SanitizerFunc adapts a function to Sanitizer.
type SanitizerFunc func(string) string

// Sanitize calls f.
func (f SanitizerFunc) Sanitize(value string) string { return f(value) }

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// StrictSanitizer strips every markup element and trims surrounding
// whitespace. Entities produced by the policy are decoded again so
// "Smith & Sons" stays readable in the form.
func StrictSanitizer() Sanitizer {
	return SanitizerFunc(func(value string) string {
		cleaned := strictSanitizer().Sanitize(strings.TrimSpace(value))
		return strings.TrimSpace(html.UnescapeString(cleaned))
	})
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}
