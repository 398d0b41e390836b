// Package webpack reads the resolve section of a bundler configuration and
// derives the search state module resolution runs against.
package webpack

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is a parsed bundler configuration.
type File struct {
	// Path is the absolute path of the configuration file.
	Path    string         `json:"-" yaml:"-" toml:"-"`
	Resolve ResolveSection `json:"resolve" yaml:"resolve" toml:"resolve"`
}

type ResolveSection struct {
	Alias              map[string]string `json:"alias" yaml:"alias" toml:"alias"`
	Extensions         StringList        `json:"extensions" yaml:"extensions" toml:"extensions"`
	Root               StringList        `json:"root" yaml:"root" toml:"root"`
	ModulesDirectories StringList        `json:"modulesDirectories" yaml:"modulesDirectories" toml:"modulesDirectories"`
	Fallback           StringList        `json:"fallback" yaml:"fallback" toml:"fallback"`
}

// StringList accepts either a single string or a list of strings. A nil list
// means the key was absent; a configured empty list decodes to a non-nil,
// zero-length value so callers can tell the two apart.
type StringList []string

func (l StringList) IsSet() bool { return l != nil }

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = nonNil(many)
	return nil
}

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return nil
		}
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*l = StringList{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*l = nonNil(many)
		return nil
	}
	return fmt.Errorf("line %d: expected string or list of strings", value.Line)
}

func (l *StringList) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*l = StringList{v}
		return nil
	case []interface{}:
		out := make(StringList, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("element %d: expected string, got %T", i, item)
			}
			out = append(out, s)
		}
		*l = out
		return nil
	}
	return fmt.Errorf("expected string or list of strings, got %T", data)
}

func nonNil(values []string) StringList {
	if values == nil {
		return StringList{}
	}
	return StringList(values)
}
