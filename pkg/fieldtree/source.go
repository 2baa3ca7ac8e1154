package fieldtree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceNode is one field as exposed by the external document extractor.
// Keys follow the names used in form dictionaries so dumps stay readable
// next to the document they came from. Loosely typed attributes are checked
// during Build.
type SourceNode struct {
	T      *string      `json:"T,omitempty" yaml:"T,omitempty"`
	FT     string       `json:"FT,omitempty" yaml:"FT,omitempty"`
	Ff     any          `json:"Ff,omitempty" yaml:"Ff,omitempty"`
	V      any          `json:"V,omitempty" yaml:"V,omitempty"`
	DV     any          `json:"DV,omitempty" yaml:"DV,omitempty"`
	MaxLen any          `json:"MaxLen,omitempty" yaml:"MaxLen,omitempty"`
	AS     string       `json:"AS,omitempty" yaml:"AS,omitempty"`
	Opt    []any        `json:"Opt,omitempty" yaml:"Opt,omitempty"`
	Kids   []SourceNode `json:"Kids,omitempty" yaml:"Kids,omitempty"`
}

func (s *SourceNode) rawName() string {
	if s == nil || s.T == nil {
		return ""
	}
	return *s.T
}

// Name is a convenience for building SourceNode literals.
func Name(raw string) *string {
	return &raw
}

// SourceKind enumerates the supported dump locations.
type SourceKind string

const (
	SourceKindFile  SourceKind = "file"
	SourceKindFS    SourceKind = "fs"
	SourceKindBytes SourceKind = "bytes"
)

// Source identifies where a field dump lives.
type Source interface {
	Location() string
	Kind() SourceKind
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside the loader's
// fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// BytesSource wraps an in-memory dump.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) Location() string { return s.Name }
func (s BytesSource) Kind() SourceKind { return SourceKindBytes }

// SourceFromBytes returns a Source over data; name is only used in errors.
func SourceFromBytes(name string, data []byte) Source {
	return BytesSource{Name: name, Data: data}
}

// Loader reads field dumps from files, an fs.FS, or memory.
type Loader struct {
	fs fs.FS
}

// NewLoader constructs a Loader. fsys may be nil when SourceFromFS is not
// used.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// Load fetches and parses the dump identified by src.
func (l *Loader) Load(ctx context.Context, src Source) ([]SourceNode, error) {
	if src == nil {
		return nil, errors.New("fieldtree loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l == nil || l.fs == nil {
			return nil, errors.New("fieldtree loader: filesystem is not configured")
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	case SourceKindBytes:
		bs, ok := src.(BytesSource)
		if !ok {
			return nil, errors.New("fieldtree loader: unsupported bytes source")
		}
		data = bs.Data
	default:
		err = errors.New("fieldtree loader: unsupported source kind")
	}
	if err != nil {
		return nil, fmt.Errorf("fieldtree loader: read %s: %w", src.Location(), err)
	}

	return ParseDump(data, src.Location())
}

// dumpDocument is the object form of a dump, mirroring a form dictionary
// that holds its fields under "Fields".
type dumpDocument struct {
	Fields []SourceNode `json:"Fields" yaml:"Fields"`
}

// ParseDump decodes a JSON or YAML dump. Both a bare list of root fields and
// an object with a "Fields" list are accepted.
func ParseDump(data []byte, source string) ([]SourceNode, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("fieldtree: dump %s is empty", source)
	}

	if trimmed[0] == '[' || trimmed[0] == '{' {
		var list []SourceNode
		if err := json.Unmarshal(trimmed, &list); err == nil {
			return list, nil
		}
		var doc dumpDocument
		if err := json.Unmarshal(trimmed, &doc); err == nil && doc.Fields != nil {
			return doc.Fields, nil
		}
	}

	var list []SourceNode
	if err := yaml.Unmarshal(trimmed, &list); err == nil {
		return list, nil
	}
	var doc dumpDocument
	if err := yaml.Unmarshal(trimmed, &doc); err == nil && doc.Fields != nil {
		return doc.Fields, nil
	}

	return nil, fmt.Errorf("fieldtree: parse %s: invalid JSON or YAML field dump", source)
}

// Format selects the dump encoding produced by MarshalDump.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// MarshalDump encodes nodes in the requested format.
func MarshalDump(nodes []SourceNode, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(nodes)
		if err != nil {
			return nil, fmt.Errorf("fieldtree: marshal yaml: %w", err)
		}
		return out, nil
	case FormatJSON, "":
		out, err := json.MarshalIndent(nodes, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("fieldtree: marshal json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("fieldtree: unsupported dump format %q", format)
	}
}
