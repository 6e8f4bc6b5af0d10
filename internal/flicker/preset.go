package flicker

import (
	"fmt"
	"strings"
)

// Preset names a flicker waveform.
type Preset string

// Builtin waveforms.
const (
	Pulse     Preset = "Pulse"
	Strobe    Preset = "Strobe"
	Faulty    Preset = "Faulty"
	Storm     Preset = "Storm"
	Heartbeat Preset = "Heartbeat"
	Candle    Preset = "Candle"
)

var presets = []Preset{Pulse, Faulty, Strobe, Storm, Heartbeat, Candle}

// Presets returns every waveform in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// ParsePreset resolves a waveform name, ignoring case and surrounding space.
func ParsePreset(name string) (Preset, error) {
	name = strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// UnmarshalText decodes a waveform name.
func (p *Preset) UnmarshalText(text []byte) error {
	parsed, err := ParsePreset(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
