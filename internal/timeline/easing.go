package timeline

import (
	"fmt"
	"strings"
)

// EasingKind names a shaping function applied to segment-local progress.
type EasingKind uint8

// Supported easings.
const (
	Linear EasingKind = iota
	Smooth
	EaseIn
	EaseOut
)

var easingNames = map[EasingKind]string{
	Linear:  "Linear",
	Smooth:  "Smooth",
	EaseIn:  "Ease-In",
	EaseOut: "Ease-Out",
}

// String returns the display name, e.g. "Ease-Out".
func (k EasingKind) String() string {
	if name, ok := easingNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EasingKind(%d)", uint8(k))
}

// ParseEasing resolves a name case-insensitively. "ease_in", "easein" and
// "Ease-In" are equivalent. Unknown names return Linear and false.
func ParseEasing(s string) (EasingKind, bool) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch norm {
	case "linear":
		return Linear, true
	case "smooth", "smoothstep":
		return Smooth, true
	case "easein":
		return EaseIn, true
	case "easeout":
		return EaseOut, true
	default:
		return Linear, false
	}
}

// MarshalText encodes the display name.
func (k EasingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a name. Unknown or empty names decode as Linear.
func (k *EasingKind) UnmarshalText(text []byte) error {
	*k, _ = ParseEasing(string(text))
	return nil
}

// Func maps progress in [0,1] to shaped progress in [0,1].
type Func func(u float64) float64

// Easings is a registry from kind to shaping function.
type Easings map[EasingKind]Func

// DefaultEasings returns the standard registry.
func DefaultEasings() Easings {
	return Easings{
		Linear:  func(u float64) float64 { return u },
		Smooth:  SmoothStep,
		EaseIn:  func(u float64) float64 { return u * u },
		EaseOut: func(u float64) float64 { return 1 - (1-u)*(1-u) },
	}
}

// SmoothStep is the cubic Hermite curve 3u²-2u³.
func SmoothStep(u float64) float64 {
	return u * u * (3 - 2*u)
}

// Ease clamps u to [0,1] and applies the function registered for kind.
// A kind missing from the registry, or a nil registry, behaves as Linear.
func (e Easings) Ease(kind EasingKind, u float64) float64 {
	u = clamp01(u)
	if fn, ok := e[kind]; ok && fn != nil {
		return fn(u)
	}
	return u
}

func clamp01(u float64) float64 {
	switch {
	case u < 0:
		return 0
	case u > 1:
		return 1
	default:
		return u
	}
}
