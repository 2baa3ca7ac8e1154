package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Flag is a tri-state election: absent, explicitly false, or true. Only
// FlagTrue produces a checkbox write.
type Flag int8

const (
	FlagUnset Flag = iota
	FlagFalse
	FlagTrue
)

// FlagOf converts a bool into FlagTrue or FlagFalse.
func FlagOf(value bool) Flag {
	if value {
		return FlagTrue
	}
	return FlagFalse
}

// Selected reports whether the flag is FlagTrue.
func (f Flag) Selected() bool { return f == FlagTrue }

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unset"
	}
}

// MarshalJSON encodes FlagUnset as null.
func (f Flag) MarshalJSON() ([]byte, error) {
	switch f {
	case FlagTrue:
		return []byte("true"), nil
	case FlagFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false or null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = FlagUnset
		return nil
	}
	var value bool
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fmt.Errorf("record: election flag must be a boolean, got %s", trimmed)
	}
	*f = FlagOf(value)
	return nil
}

// MarshalYAML encodes FlagUnset as null.
func (f Flag) MarshalYAML() (any, error) {
	switch f {
	case FlagTrue:
		return true, nil
	case FlagFalse:
		return false, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML accepts a boolean scalar or null.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*f = FlagUnset
		return nil
	}
	var value bool
	if err := node.Decode(&value); err != nil {
		return fmt.Errorf("record: election flag must be a boolean, got %q", node.Value)
	}
	*f = FlagOf(value)
	return nil
}
