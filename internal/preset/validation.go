package preset

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-motion/internal/flicker"
)

// Validation constants.
const (
	maxNameLength = 100
	maxSteps      = 500
	maxValues     = 64
)

// ValidateName checks if a preset name is valid.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPreset)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPreset, maxNameLength)
	}
	return nil
}

// Validate checks an environment's name, values and effect references.
func (e *Environment) Validate() error {
	if e == nil {
		return ErrInvalidPreset
	}
	if err := ValidateName(e.Name); err != nil {
		return err
	}
	if len(e.Values) == 0 && e.Flicker == nil && e.Animation == nil {
		return fmt.Errorf("%w: environment %q sets nothing", ErrInvalidPreset, e.Name)
	}
	if len(e.Values) > maxValues {
		return fmt.Errorf("%w: exceeds %d values", ErrInvalidPreset, maxValues)
	}
	for id, v := range e.Values {
		if strings.TrimSpace(string(id)) == "" {
			return fmt.Errorf("%w: empty property name", ErrInvalidPreset)
		}
		if !v.IsValid() {
			return fmt.Errorf("%w: property %q has no value", ErrInvalidPreset, id)
		}
	}

	if f := e.Flicker; f != nil {
		if _, err := flicker.ParsePreset(f.Preset); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPreset, err)
		}
		if f.Speed < 0 || math.IsNaN(f.Speed) {
			return fmt.Errorf("%w: flicker speed must not be negative", ErrInvalidPreset)
		}
	}
	if a := e.Animation; a != nil {
		if strings.TrimSpace(a.Preset) == "" {
			return fmt.Errorf("%w: animation preset is required", ErrInvalidPreset)
		}
		if a.Speed < 0 || math.IsNaN(a.Speed) {
			return fmt.Errorf("%w: animation speed must not be negative", ErrInvalidPreset)
		}
	}
	return nil
}

// Validate checks the animation by building its mode.
func (a *Animation) Validate() error {
	if a == nil {
		return ErrInvalidPreset
	}
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	if err := a.Preset.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	return nil
}

// Validate checks every step of the sequence. References to other presets
// are resolved when the sequence runs, not here.
func (s *Sequence) Validate() error {
	if s == nil {
		return ErrInvalidPreset
	}
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: sequence %q has no steps", ErrInvalidPreset, s.Name)
	}
	if len(s.Steps) > maxSteps {
		return fmt.Errorf("%w: exceeds maximum of %d steps", ErrInvalidPreset, maxSteps)
	}
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("%w: step[%d]: %w", ErrInvalidPreset, i, err)
		}
	}
	return nil
}

// GenerateID creates a new UUID for a user preset.
func GenerateID() string {
	return uuid.New().String()
}

// builtinNamespace seeds the stable IDs of builtin presets.
var builtinNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/nerrad567/gray-logic-motion/presets"))

// BuiltinID returns the stable ID of the builtin preset of kind called name.
func BuiltinID(kind Kind, name string) string {
	return uuid.NewSHA1(builtinNamespace, []byte(string(kind)+"/"+strings.ToLower(name))).String()
}
