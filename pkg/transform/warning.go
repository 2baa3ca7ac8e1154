// Package transform splits composite human values (SSN, phone, date, ZIP,
// long text) into the sub-fields the target form lays out, and joins them
// back. Every function is pure and total: malformed input is repaired by a
// documented fallback and reported as a Warning instead of an error.
package transform

import "fmt"

const (
	CodeSSNLength   = "ssn-length"
	CodePhoneLength = "phone-length"
	CodeDateFormat  = "date-format"
	CodeZIPLength   = "zip-length"
	// CodeSanitized is raised by callers that strip markup from free text.
	CodeSanitized = "sanitized"
)

// Warning reports that an input needed a fallback rule.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Input   string `json:"input"`
	// Field names the record field the input came from, when known.
	Field string `json:"field,omitempty"`
}

func (w Warning) String() string {
	if w.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", w.Field, w.Message, w.Code)
	}
	return fmt.Sprintf("%s (%s)", w.Message, w.Code)
}

func warn(code, input, format string, args ...any) *Warning {
	return &Warning{Code: code, Input: input, Message: fmt.Sprintf(format, args...)}
}
