package preset

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-motion/internal/animation"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Set holds one collection of each preset kind.
type Set struct {
	Environments []Environment `json:"environments" yaml:"environments"`
	Animations   []Animation   `json:"animations" yaml:"animations"`
	Sequences    []Sequence    `json:"sequences" yaml:"sequences"`
}

// Builtins decodes the builtin presets. Every preset is marked builtin and
// carries its BuiltinID.
func Builtins() (Set, error) {
	var set Set
	if err := yaml.Unmarshal(builtinYAML, &set); err != nil {
		return Set{}, fmt.Errorf("decoding builtin presets: %w", err)
	}

	for _, p := range animation.Builtins() {
		set.Animations = append(set.Animations, Animation{Preset: p})
	}

	for i := range set.Environments {
		markBuiltin(&set.Environments[i].Meta, KindEnvironment, set.Environments[i].Name)
	}
	for i := range set.Animations {
		markBuiltin(&set.Animations[i].Meta, KindAnimation, set.Animations[i].Name)
	}
	for i := range set.Sequences {
		markBuiltin(&set.Sequences[i].Meta, KindSequence, set.Sequences[i].Name)
	}
	return set, nil
}

func markBuiltin(m *Meta, kind Kind, name string) {
	m.ID = BuiltinID(kind, name)
	m.Builtin = true
}
