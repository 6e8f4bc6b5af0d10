package animation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Preset kinds.
const (
	KindLinear   = "linear"
	KindOrbital  = "orbital"
	KindKeyframe = "keyframe"
)

// Preset is a named, serialisable animation. Sweep presets give only the
// end point; the start point is the current state when the preset starts.
type Preset struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"type" yaml:"type"`

	// Linear sweep.
	X        float64             `json:"x,omitempty" yaml:"x,omitempty"`
	Y        float64             `json:"y,omitempty" yaml:"y,omitempty"`
	Duration float64             `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
	Easing   timeline.EasingKind `json:"easing,omitempty" yaml:"easing,omitempty"`
	FPS      int                 `json:"fps,omitempty" yaml:"fps,omitempty"`
	Reset    bool                `json:"reset,omitempty" yaml:"reset,omitempty"`

	// Orbital sweep.
	CenterX     float64 `json:"center_x,omitempty" yaml:"center_x,omitempty"`
	CenterY     float64 `json:"center_y,omitempty" yaml:"center_y,omitempty"`
	RadiusX     float64 `json:"radius_x,omitempty" yaml:"radius_x,omitempty"`
	RadiusY     float64 `json:"radius_y,omitempty" yaml:"radius_y,omitempty"`
	RevDuration float64 `json:"rev_duration,omitempty" yaml:"rev_duration,omitempty"` // seconds
	Direction   string  `json:"direction,omitempty" yaml:"direction,omitempty"`

	// Keyframe playback.
	Timeline timeline.Timeline `json:"keyframes,omitempty" yaml:"keyframes,omitempty"`
}

// Start is the state a sweep preset begins from.
type Start struct {
	X, Y float64
}

// Mode builds the runnable mode. Durations are divided by speed; a speed
// of zero or less counts as 1.
func (p Preset) Mode(from Start, speed float64) (Mode, error) {
	if speed <= 0 {
		speed = 1
	}
	scale := func(sec float64) time.Duration { return seconds(sec / speed) }

	switch normalize(p.Kind) {
	case KindLinear:
		return LinearSweep{
			X0: from.X, X1: p.X,
			Y0: from.Y, Y1: p.Y,
			Duration:      scale(p.Duration),
			TickRateHz:    p.FPS,
			Easing:        p.Easing,
			ResetOnFinish: p.Reset,
		}, nil
	case KindOrbital:
		return OrbitalSweep{
			CenterX:    p.CenterX,
			CenterY:    p.CenterY,
			RadiusX:    p.RadiusX,
			RadiusY:    p.RadiusY,
			Revolution: scale(p.RevDuration),
			Direction:  ParseDirection(p.Direction),
		}, nil
	case KindKeyframe:
		length := p.Duration
		if length <= 0 {
			length = p.Timeline.Duration()
		}
		return KeyframePlayback{Timeline: p.Timeline, Duration: scale(length)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown preset type %q", ErrInvalidMode, p.Kind)
	}
}

// Validate checks the preset by building its mode from the origin.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: preset name is required", ErrInvalidMode)
	}
	m, err := p.Mode(Start{}, 1)
	if err != nil {
		return err
	}
	return m.Validate()
}

var builtins = []Preset{
	{Name: "Sunrise", Kind: KindLinear, X: 90, Y: 45, Duration: 5, Easing: timeline.EaseOut, FPS: 60},
	{Name: "Sunset", Kind: KindLinear, X: -90, Y: -10, Duration: 5, Easing: timeline.EaseIn, FPS: 60},
	{Name: "Sweep", Kind: KindLinear, X: 120, Y: 45, Duration: 3, Easing: timeline.Smooth, FPS: 60, Reset: true},
	{Name: "Noon", Kind: KindLinear, X: -90, Y: 60, Duration: 4, Easing: timeline.Smooth, FPS: 60},
	{Name: "Searchlight", Kind: KindLinear, X: 90, Y: 10, Duration: 1.5, Easing: timeline.Smooth, FPS: 60, Reset: true},
	{
		Name: "DayCycle", Kind: KindOrbital,
		CenterY: -20, RadiusX: 180, RadiusY: 90,
		RevDuration: 20, Direction: CounterClockwise.String(),
	},
}

// Builtins returns the builtin presets in display order.
func Builtins() []Preset {
	out := make([]Preset, len(builtins))
	copy(out, builtins)
	return out
}

// Builtin returns the builtin preset called name, ignoring case.
func Builtin(name string) (Preset, error) {
	for _, p := range builtins {
		if normalize(p.Name) == normalize(name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
}

// BuiltinNames returns the builtin preset names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for _, p := range builtins {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// normalize folds case and drops separators so "Day Cycle", "day-cycle"
// and "DayCycle" match.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
