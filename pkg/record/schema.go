package record

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schema/input_record.yaml
var schemaDocument []byte

const schemaName = "InputRecord"

var (
	schemaOnce sync.Once
	schemaRoot *openapi3.Schema
	schemaErr  error
)

// ValidateSchema checks a decoded record (as produced by encoding/json into
// an any) against the embedded schema and returns every violation found.
// A nil slice means the value conforms.
func ValidateSchema(value any) ([]SchemaIssue, error) {
	schema, err := inputSchema()
	if err != nil {
		return nil, err
	}
	err = schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil, nil
	}
	issues := collectIssues(err, nil)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues, nil
}

func inputSchema() (*openapi3.Schema, error) {
	schemaOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(schemaDocument)
		if err != nil {
			schemaErr = fmt.Errorf("record: load schema: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			schemaErr = fmt.Errorf("record: validate schema: %w", err)
			return
		}
		if doc.Components == nil || doc.Components.Schemas[schemaName] == nil {
			schemaErr = fmt.Errorf("record: schema %q not found", schemaName)
			return
		}
		schemaRoot = doc.Components.Schemas[schemaName].Value
	})
	return schemaRoot, schemaErr
}

func collectIssues(err error, out []SchemaIssue) []SchemaIssue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			out = collectIssues(item, out)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return append(out, SchemaIssue{
			Path:    strings.Join(schemaErr.JSONPointer(), "."),
			Message: strings.TrimSpace(schemaErr.Reason),
		})
	}
	return append(out, SchemaIssue{Message: strings.TrimSpace(err.Error())})
}
