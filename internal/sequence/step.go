package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StepType identifies what a step does.
type StepType string

// Step types.
const (
	StepEnvironment StepType = "environment"
	StepAnimation   StepType = "animation"
	StepFlicker     StepType = "flicker"
	StepTransition  StepType = "transition"
	StepCommand     StepType = "command"
	StepWait        StepType = "wait"
	StepStopEffects StepType = "stop_effects"
)

// DefaultTransitionDuration applies to transition steps without a duration.
const DefaultTransitionDuration = 3000 * time.Millisecond

// Step is one instruction of a script. Which fields matter depends on Type.
type Step struct {
	Type StepType `json:"type" yaml:"type"`

	// Name is the environment preset of an environment step.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Preset is the animation, flicker or transition preset.
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	// To is the environment a transition step fades to.
	To string `json:"to,omitempty" yaml:"to,omitempty"`

	// Duration of a transition step, in milliseconds.
	Duration *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Value is the command line of a command step or the milliseconds of a
	// wait step.
	Value Value `json:"value,omitempty" yaml:"value,omitempty"`

	// WaitForCompletion blocks an animation step until the animation ends.
	WaitForCompletion bool `json:"wait_for_completion,omitempty" yaml:"wait_for_completion,omitempty"`

	// Speed in milliseconds and Smooth configure a flicker step.
	Speed  *float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Smooth bool     `json:"smooth,omitempty" yaml:"smooth,omitempty"`

	// decodeErr is set when the step could not be decoded.
	decodeErr error
}

// Script is an ordered list of steps.
type Script []Step

// Target returns the environment a step refers to.
func (s Step) Target() string {
	switch s.Type {
	case StepEnvironment:
		return firstNonEmpty(s.Name, s.Preset)
	case StepTransition:
		return firstNonEmpty(s.To, s.Preset, s.Name)
	default:
		return s.Preset
	}
}

// TransitionDuration returns the step's duration, or the default.
func (s Step) TransitionDuration() time.Duration {
	if s.Duration == nil {
		return DefaultTransitionDuration
	}
	return millis(*s.Duration)
}

// WaitDuration returns the duration of a wait step.
func (s Step) WaitDuration() (time.Duration, error) {
	ms, err := strconv.ParseFloat(strings.TrimSpace(s.Value.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid wait time %q", ErrMalformedStep, s.Value)
	}
	if ms < 0 {
		return 0, fmt.Errorf("%w: negative wait time %v", ErrMalformedStep, ms)
	}
	return millis(ms), nil
}

// FlickerSpeed returns the flicker speed, or zero for the default.
func (s Step) FlickerSpeed() time.Duration {
	if s.Speed == nil {
		return 0
	}
	return millis(*s.Speed)
}

// Validate reports whether the step has a known type and the fields that
// type needs. Errors wrap ErrMalformedStep.
func (s Step) Validate() error {
	if s.decodeErr != nil {
		return s.decodeErr
	}

	switch s.Type {
	case StepEnvironment, StepAnimation, StepFlicker, StepTransition:
		if s.Target() == "" {
			return fmt.Errorf("%w: %s step needs a preset", ErrMalformedStep, s.Type)
		}
		if s.Type == StepTransition && s.Duration != nil && *s.Duration < 0 {
			return fmt.Errorf("%w: negative transition duration", ErrMalformedStep)
		}
		if s.Type == StepFlicker && s.Speed != nil && *s.Speed < 0 {
			return fmt.Errorf("%w: negative flicker speed", ErrMalformedStep)
		}
	case StepCommand:
		if strings.TrimSpace(s.Value.String()) == "" {
			return fmt.Errorf("%w: command step needs a value", ErrMalformedStep)
		}
	case StepWait:
		if _, err := s.WaitDuration(); err != nil {
			return err
		}
	case StepStopEffects:
	case "":
		return fmt.Errorf("%w: missing type", ErrMalformedStep)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedStep, s.Type)
	}
	return nil
}

// String describes the step for logs.
func (s Step) String() string {
	switch s.Type {
	case StepCommand, StepWait:
		return fmt.Sprintf("%s %s", s.Type, s.Value)
	case StepStopEffects:
		return string(s.Type)
	default:
		return fmt.Sprintf("%s %s", s.Type, s.Target())
	}
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
