package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/davrd/autorel/internal/errors"
)

// PluginEntry is one element of the record's plugin sequence: either a bare
// identifier or an (identifier, options) pair. Entries keep their selection
// order and are never deduplicated.
type PluginEntry struct {
	Name    string
	Options map[string]any
}

// bare reports whether the entry serializes as a plain identifier.
func (e PluginEntry) bare() bool {
	return len(e.Options) == 0
}

// MarshalYAML encodes a bare entry as a scalar and an entry with options as
// a two-element sequence.
func (e PluginEntry) MarshalYAML() (any, error) {
	if e.bare() {
		return e.Name, nil
	}
	return []any{e.Name, e.Options}, nil
}

// UnmarshalYAML accepts either a scalar identifier or a two-element
// (identifier, options) sequence.
func (e *PluginEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Options = nil
		return node.Decode(&e.Name)
	case yaml.SequenceNode:
		var pair []yaml.Node
		if err := node.Decode(&pair); err != nil {
			return errors.Wrap(err, "decoding plugin entry")
		}
		if len(pair) != 2 {
			return errors.Newf("plugin entry must be a name or a [name, options] pair, got %d elements", len(pair))
		}
		if err := pair[0].Decode(&e.Name); err != nil {
			return errors.Wrap(err, "decoding plugin name")
		}
		if err := pair[1].Decode(&e.Options); err != nil {
			return errors.Wrap(err, "decoding plugin options")
		}
		return nil
	default:
		return errors.New("plugin entry must be a name or a [name, options] pair")
	}
}

// MarshalJSON mirrors the YAML encoding.
func (e PluginEntry) MarshalJSON() ([]byte, error) {
	if e.bare() {
		return json.Marshal(e.Name)
	}
	return json.Marshal([]any{e.Name, e.Options})
}

// UnmarshalJSON mirrors the YAML decoding.
func (e *PluginEntry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		e.Name = name
		e.Options = nil
		return nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "decoding plugin entry")
	}
	if len(pair) != 2 {
		return errors.Newf("plugin entry must be a name or a [name, options] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Name); err != nil {
		return errors.Wrap(err, "decoding plugin name")
	}
	if err := json.Unmarshal(pair[1], &e.Options); err != nil {
		return errors.Wrap(err, "decoding plugin options")
	}
	return nil
}

// generic returns the entry in the identifier-or-pair shape used by encoders
// without marshaler hooks (TOML).
func (e PluginEntry) generic() any {
	if e.bare() {
		return e.Name
	}
	return []any{e.Name, e.Options}
}

// decodePluginEntry converts an untyped loaded value (string or two-element
// sequence) into a PluginEntry.
func decodePluginEntry(v any) (PluginEntry, error) {
	switch val := v.(type) {
	case string:
		return PluginEntry{Name: val}, nil
	case []any:
		if len(val) != 2 {
			return PluginEntry{}, errors.Newf("plugin entry must be a name or a [name, options] pair, got %d elements", len(val))
		}
		name, ok := val[0].(string)
		if !ok {
			return PluginEntry{}, errors.New("plugin entry name must be a string")
		}
		opts, ok := val[1].(map[string]any)
		if !ok {
			return PluginEntry{}, errors.New("plugin entry options must be a table")
		}
		return PluginEntry{Name: name, Options: opts}, nil
	default:
		return PluginEntry{}, errors.Newf("plugin entry must be a name or a [name, options] pair, got %T", v)
	}
}
