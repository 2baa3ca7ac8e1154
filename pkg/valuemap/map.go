// Package valuemap holds the path to value mapping handed from the mapper to
// the writer. Unlike a Go map it remembers insertion order, which the writer
// honours when applying entries.
package valuemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is one path/value pair.
type Entry struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// Map is an insertion-ordered path → value map. The zero value is ready to
// use. Setting an existing path replaces its value in place.
type Map struct {
	index   map[string]int
	entries []Entry
}

// New returns a Map seeded with the provided entries. Blank paths are ignored;
// later entries win on collisions.
func New(entries ...Entry) *Map {
	m := &Map{}
	for _, entry := range entries {
		m.Set(entry.Path, entry.Value)
	}
	return m
}

// Set stores value under path. Blank paths are ignored.
func (m *Map) Set(path, value string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if pos, ok := m.index[path]; ok {
		m.entries[pos].Value = value
		return
	}
	m.index[path] = len(m.entries)
	m.entries = append(m.entries, Entry{Path: path, Value: value})
}

// Get returns the value stored under path.
func (m *Map) Get(path string) (string, bool) {
	if m == nil {
		return "", false
	}
	pos, ok := m.index[path]
	if !ok {
		return "", false
	}
	return m.entries[pos].Value, true
}

// Has reports whether path is present, including paths mapped to "".
func (m *Map) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// Len returns the number of distinct paths.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the paths in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, entry := range m.entries {
		keys[i] = entry.Path
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return append([]Entry(nil), m.entries...)
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map) Each(fn func(path, value string) bool) {
	if m == nil || fn == nil {
		return
	}
	for _, entry := range m.entries {
		if !fn(entry.Path, entry.Value) {
			return
		}
	}
}

// NonEmpty returns the number of entries whose value is not "".
func (m *Map) NonEmpty() int {
	count := 0
	m.Each(func(_, value string) bool {
		if value != "" {
			count++
		}
		return true
	})
	return count
}

// MarshalJSON encodes the map as a JSON object, keeping insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("valuemap: encode key: %w", err)
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("valuemap: encode value: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping the order in
// which keys appear in the document.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("valuemap: decode: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("valuemap: expected object, got %v", tok)
	}
	*m = Map{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("valuemap: decode key: %w", err)
		}
		key, _ := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("valuemap: decode value for %q: %w", key, err)
		}
		m.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("valuemap: decode: %w", err)
	}
	return nil
}
