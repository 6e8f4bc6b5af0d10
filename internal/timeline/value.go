package timeline

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PropertyID identifies a tweakable property such as "sun_strength".
type PropertyID string

// Kind is the shape of a Value.
type Kind uint8

// Value kinds. The zero Kind marks an unset Value.
const (
	KindInvalid Kind = iota
	KindScalar
	KindVector3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector3:
		return "vector3"
	default:
		return "invalid"
	}
}

// Value is either a scalar or a 3-component vector. It is a small value
// type and safe to copy.
type Value struct {
	kind Kind
	v    [3]float64
}

// Scalar returns a scalar Value.
func Scalar(f float64) Value {
	return Value{kind: KindScalar, v: [3]float64{f}}
}

// Vector3 returns a vector Value.
func Vector3(x, y, z float64) Value {
	return Value{kind: KindVector3, v: [3]float64{x, y, z}}
}

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a scalar or a vector.
func (v Value) IsValid() bool { return v.kind == KindScalar || v.kind == KindVector3 }

// Float returns the scalar, or false if v is not a scalar.
func (v Value) Float() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	return v.v[0], true
}

// Vec returns the vector components, or false if v is not a vector.
func (v Value) Vec() ([3]float64, bool) {
	if v.kind != KindVector3 {
		return [3]float64{}, false
	}
	return v.v, true
}

// Equal reports exact equality of kind and components.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.v == o.v
}

// String formats v for logs.
func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return strconv.FormatFloat(v.v[0], 'g', -1, 64)
	case KindVector3:
		return fmt.Sprintf("[%g %g %g]", v.v[0], v.v[1], v.v[2])
	default:
		return "<invalid>"
	}
}

// Lerp blends a toward b by u. Values of the same kind blend linearly
// (componentwise for vectors). Values of different kinds do not blend:
// the result is b when u > 0.5 and a otherwise.
func Lerp(a, b Value, u float64) Value {
	if a.kind != b.kind {
		if u > 0.5 {
			return b
		}
		return a
	}
	out := Value{kind: a.kind}
	n := 1
	if a.kind == KindVector3 {
		n = 3
	}
	for i := 0; i < n; i++ {
		out.v[i] = a.v[i] + (b.v[i]-a.v[i])*u
	}
	return out
}

// MarshalJSON encodes a scalar as a number and a vector as [x,y,z].
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.v[0])
	case KindVector3:
		return json.Marshal(v.v)
	default:
		return nil, fmt.Errorf("%w: cannot encode unset value", ErrInvalidValue)
	}
}

// UnmarshalJSON accepts a number or a 3-element array.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Scalar(f)
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValue, string(data))
	}
	return v.fromSlice(arr)
}

// MarshalYAML encodes like MarshalJSON.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindScalar:
		return v.v[0], nil
	case KindVector3:
		return []float64{v.v[0], v.v[1], v.v[2]}, nil
	default:
		return nil, fmt.Errorf("%w: cannot encode unset value", ErrInvalidValue)
	}
}

// UnmarshalYAML accepts a scalar node or a 3-element sequence.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		*v = Scalar(f)
		return nil
	case yaml.SequenceNode:
		var arr []float64
		if err := node.Decode(&arr); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return v.fromSlice(arr)
	default:
		return fmt.Errorf("%w: unexpected yaml node at line %d", ErrInvalidValue, node.Line)
	}
}

func (v *Value) fromSlice(arr []float64) error {
	if len(arr) != 3 {
		return fmt.Errorf("%w: vector must have 3 components, got %d", ErrInvalidValue, len(arr))
	}
	for _, c := range arr {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: non-finite component", ErrInvalidValue)
		}
	}
	*v = Vector3(arr[0], arr[1], arr[2])
	return nil
}

// Snapshot maps properties to values at one instant. It is the unit
// exchanged with sinks and the UI.
type Snapshot map[PropertyID]Value

// Clone returns an independent copy. A nil Snapshot clones to an empty one.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a copy of s overlaid with o.
func (s Snapshot) Merge(o Snapshot) Snapshot {
	out := make(Snapshot, len(s)+len(o))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Keys returns the property IDs in sorted order.
func (s Snapshot) Keys() []PropertyID {
	keys := make([]PropertyID, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Equal reports whether both snapshots hold exactly the same entries.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s) != len(o) {
		return false
	}
	for k, v := range s {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
