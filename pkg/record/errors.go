package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDocument is returned when a record payload is blank.
var ErrEmptyDocument = errors.New("record: document is empty")

// ValidationError lists the required fields a record is missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record: missing required fields: %s", strings.Join(e.Missing, ", "))
}

// SchemaIssue is a single schema violation.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (i SchemaIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// SchemaError wraps the issues found by ValidateSchema.
type SchemaError struct {
	Source string
	Issues []SchemaIssue
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	prefix := "record: schema violations"
	if e.Source != "" {
		prefix += " in " + e.Source
	}
	return prefix + ": " + strings.Join(parts, "; ")
}
