package sequence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Value holds a step value that may be written as a number or a string,
// e.g. a wait of 3000 or a command "cg_fov 90".
type Value string

// String returns the raw text.
func (v Value) String() string { return string(v) }

// UnmarshalJSON accepts a JSON string or number.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value must be a string or number: %w", err)
	}
	*v = Value(n.String())
	return nil
}

// MarshalJSON writes numeric text as a number and anything else as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(v), 64); err == nil {
		return []byte(v), nil
	}
	return json.Marshal(string(v))
}

// UnmarshalYAML accepts any scalar.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("value must be a scalar, line %d", node.Line)
	}
	*v = Value(node.Value)
	return nil
}

// ParseJSON decodes a script from a JSON array of steps. A step that
// cannot be decoded is kept and reports ErrMalformedStep from Validate, so
// one bad step does not discard the script.
func ParseJSON(data []byte) (Script, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	script := make(Script, 0, len(raw))
	for i, msg := range raw {
		var step Step
		if err := json.Unmarshal(msg, &step); err != nil {
			step = Step{decodeErr: fmt.Errorf("%w: step %d: %w", ErrMalformedStep, i, err)}
		}
		script = append(script, step)
	}
	return script, nil
}

// ParseYAML decodes a script from a YAML sequence of steps, with the same
// per-step tolerance as ParseJSON.
func ParseYAML(data []byte) (Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	return script, nil
}

// UnmarshalJSON decodes a script with per-step tolerance.
func (s *Script) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML decodes a script with per-step tolerance.
func (s *Script) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: expected a sequence, line %d", ErrInvalidScript, node.Line)
	}
	script := make(Script, 0, len(node.Content))
	for i, n := range node.Content {
		var step Step
		if err := n.Decode(&step); err != nil {
			step = Step{decodeErr: fmt.Errorf("%w: step %d: %w", ErrMalformedStep, i, err)}
		}
		script = append(script, step)
	}
	*s = script
	return nil
}
