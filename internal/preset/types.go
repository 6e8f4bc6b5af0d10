package preset

import (
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/animation"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Kind identifies which collection a preset belongs to.
type Kind string

// Preset kinds, matching the kind column of the presets table.
const (
	KindEnvironment Kind = "environment"
	KindAnimation   Kind = "animation"
	KindSequence    Kind = "sequence"
)

// Meta holds the bookkeeping fields shared by every preset.
type Meta struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	Builtin   bool      `json:"builtin,omitempty" yaml:"-"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"-"`
}

// FlickerRef starts a flicker when its environment is applied.
type FlickerRef struct {
	Preset string `json:"preset" yaml:"preset"`

	// Speed is the flicker period in milliseconds; zero uses the default.
	Speed float64 `json:"speed,omitempty" yaml:"speed,omitempty"`

	Smooth bool `json:"easing,omitempty" yaml:"easing,omitempty"`
}

// SpeedDuration returns Speed as a duration.
func (f FlickerRef) SpeedDuration() time.Duration {
	return time.Duration(f.Speed * float64(time.Millisecond))
}

// AnimationRef starts an animation preset when its environment is applied.
type AnimationRef struct {
	Preset string `json:"preset" yaml:"preset"`

	// Speed divides the animation's durations; zero means 1.
	Speed float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
}

// Environment is a named set of property values, optionally with an
// effect started alongside.
type Environment struct {
	Meta      `yaml:",inline"`
	Name      string            `json:"name" yaml:"name"`
	Values    timeline.Snapshot `json:"values" yaml:"values"`
	Flicker   *FlickerRef       `json:"flicker,omitempty" yaml:"flicker,omitempty"`
	Animation *AnimationRef     `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// DeepCopy returns a copy sharing nothing with e.
func (e *Environment) DeepCopy() *Environment {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Values = e.Values.Clone()
	if e.Flicker != nil {
		f := *e.Flicker
		cp.Flicker = &f
	}
	if e.Animation != nil {
		a := *e.Animation
		cp.Animation = &a
	}
	return &cp
}

func (e *Environment) meta() *Meta        { return &e.Meta }
func (e *Environment) presetName() string { return e.Name }

// Animation is a stored animation preset.
type Animation struct {
	Meta             `yaml:",inline"`
	animation.Preset `yaml:",inline"`
}

// DeepCopy returns a copy of a. Timelines are immutable, so the keyframes
// are shared.
func (a *Animation) DeepCopy() *Animation {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

func (a *Animation) meta() *Meta        { return &a.Meta }
func (a *Animation) presetName() string { return a.Name }

// Sequence is a saved script.
type Sequence struct {
	Meta  `yaml:",inline"`
	Name  string          `json:"name" yaml:"name"`
	Steps sequence.Script `json:"steps" yaml:"steps"`
}

// DeepCopy returns a copy sharing nothing with s.
func (s *Sequence) DeepCopy() *Sequence {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Steps = make(sequence.Script, len(s.Steps))
	for i, step := range s.Steps {
		cp.Steps[i] = step
		if step.Duration != nil {
			d := *step.Duration
			cp.Steps[i].Duration = &d
		}
		if step.Speed != nil {
			v := *step.Speed
			cp.Steps[i].Speed = &v
		}
	}
	return &cp
}

func (s *Sequence) meta() *Meta        { return &s.Meta }
func (s *Sequence) presetName() string { return s.Name }

// Record is the stored form of a preset: its JSON document plus the
// columns used for lookups.
type Record struct {
	ID        string
	Kind      Kind
	Name      string
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
