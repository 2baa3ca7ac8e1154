package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads a record from disk. JSON is tried first, YAML second.
func Load(ctx context.Context, path string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("record: read %q: %w", path, err)
	}
	rec, err := parse(data, path)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// LoadFS reads a record from fsys.
func LoadFS(ctx context.Context, fsys fs.FS, path string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if fsys == nil {
		return Record{}, fmt.Errorf("record: fs is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Record{}, fmt.Errorf("record: read %q: %w", path, err)
	}
	return parse(data, path)
}

// Parse decodes a JSON or YAML record. The payload is checked against the
// embedded schema first; violations are returned as a *SchemaError.
// Required fields are not enforced here, see Record.Validate.
func Parse(data []byte) (Record, error) {
	return parse(data, "")
}

func parse(data []byte, source string) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Record{}, ErrEmptyDocument
	}

	isJSON := trimmed[0] == '{' || trimmed[0] == '['
	generic, err := decodeGeneric(trimmed, isJSON)
	if err != nil {
		return Record{}, withSource(err, source)
	}
	issues, err := ValidateSchema(generic)
	if err != nil {
		return Record{}, err
	}
	if len(issues) > 0 {
		return Record{}, &SchemaError{Source: source, Issues: issues}
	}

	var rec Record
	if isJSON {
		err = json.Unmarshal(trimmed, &rec)
	} else {
		err = yaml.Unmarshal(trimmed, &rec)
	}
	if err != nil {
		return Record{}, withSource(fmt.Errorf("record: decode: %w", err), source)
	}
	return rec, nil
}

func withSource(err error, source string) error {
	if source == "" {
		return err
	}
	return fmt.Errorf("%w (source %s)", err, source)
}

func decodeGeneric(data []byte, isJSON bool) (any, error) {
	if isJSON {
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("record: decode json: %w", err)
		}
		return out, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("record: decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	return yamlValue(node.Content[0]), nil
}

// yamlValue converts a YAML node to the shapes encoding/json produces so
// the schema sees the same value regardless of input format. Unquoted
// dates stay strings.
func yamlValue(node *yaml.Node) any {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out[node.Content[i].Value] = yamlValue(node.Content[i+1])
		}
		return out
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			out = append(out, yamlValue(child))
		}
		return out
	}
	switch node.Tag {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			return b
		}
	case "!!int", "!!float":
		if f, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return f
		}
		var f float64
		if err := node.Decode(&f); err == nil {
			return f
		}
	}
	return node.Value
}
