package timeline

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the timeline as an ordered list of
// {time, easing, values} records.
func (t Timeline) MarshalJSON() ([]byte, error) {
	if t.keyframes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.keyframes)
}

// UnmarshalJSON decodes a list of records. Records are sorted by time;
// use ValidateKeyframes on the raw records to reject unsorted input.
func (t *Timeline) UnmarshalJSON(data []byte) error {
	var kfs []Keyframe
	if err := json.Unmarshal(data, &kfs); err != nil {
		return fmt.Errorf("decoding timeline: %w", err)
	}
	if kfs == nil {
		kfs = []Keyframe{}
	}
	*t = fromOwned(kfs)
	return nil
}

// MarshalYAML encodes the same records as MarshalJSON.
func (t Timeline) MarshalYAML() (any, error) {
	if t.keyframes == nil {
		return []Keyframe{}, nil
	}
	return t.keyframes, nil
}

// UnmarshalYAML decodes a YAML sequence of records.
func (t *Timeline) UnmarshalYAML(node *yaml.Node) error {
	var kfs []Keyframe
	if err := node.Decode(&kfs); err != nil {
		return fmt.Errorf("decoding timeline: %w", err)
	}
	*t = fromOwned(kfs)
	return nil
}
