package animation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

func TestBuiltins_Valid(t *testing.T) {
	for _, p := range Builtins() {
		assert.NoError(t, p.Validate(), p.Name)
	}
}

func TestBuiltin_Lookup(t *testing.T) {
	p, err := Builtin("day cycle")
	require.NoError(t, err)
	assert.Equal(t, "DayCycle", p.Name)

	_, err = Builtin("Moonrise")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestPreset_ModeDividesBySpeed(t *testing.T) {
	p, err := Builtin("Sunrise")
	require.NoError(t, err)

	m, err := p.Mode(Start{X: 3, Y: 4}, 2)
	require.NoError(t, err)

	sweep, ok := m.(LinearSweep)
	require.True(t, ok)
	assert.Equal(t, 2500*time.Millisecond, sweep.Duration)
	assert.Equal(t, 3.0, sweep.X0)
	assert.Equal(t, 4.0, sweep.Y0)
	assert.Equal(t, 90.0, sweep.X1)
	assert.Equal(t, timeline.EaseOut, sweep.Easing)

	m, err = p.Mode(Start{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, m.(LinearSweep).Duration, "non-positive speed counts as 1")
}

func TestPreset_KeyframeModeDividesBySpeed(t *testing.T) {
	tl := timeline.New(
		timeline.Keyframe{Time: 0, Values: timeline.Snapshot{"fov": timeline.Scalar(0)}},
		timeline.Keyframe{Time: 0.4, Values: timeline.Snapshot{"fov": timeline.Scalar(100)}},
	)

	tests := []struct {
		name     string
		duration float64
		speed    float64
		want     time.Duration
	}{
		{"explicit duration", 0.4, 2, 200 * time.Millisecond},
		{"timeline length", 0, 2, 200 * time.Millisecond},
		{"slowed down", 0, 0.5, 800 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Preset{Name: "Zoom", Kind: KindKeyframe, Duration: tt.duration, Timeline: tl}
			m, err := p.Mode(Start{}, tt.speed)
			require.NoError(t, err)

			kp, ok := m.(KeyframePlayback)
			require.True(t, ok)
			assert.Equal(t, tt.want, kp.Duration)

			snap, last := kp.frame(tt.want, Properties{})
			assert.True(t, last)
			assert.True(t, snap["fov"].Equal(timeline.Scalar(100)), "speed-scaled playback reaches the last keyframe")
		})
	}
}

func TestPreset_OrbitalMode(t *testing.T) {
	p, err := Builtin("DayCycle")
	require.NoError(t, err)

	m, err := p.Mode(Start{}, 4)
	require.NoError(t, err)

	orbit, ok := m.(OrbitalSweep)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, orbit.Revolution)
	assert.Equal(t, CounterClockwise, orbit.Direction)
	assert.Equal(t, -20.0, orbit.CenterY)
}

func TestPreset_JSON(t *testing.T) {
	raw := `{"name":"Pan","type":"linear","x":10,"y":20,"duration":2,"easing":"ease-in","reset":true}`

	var p Preset
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, timeline.EaseIn, p.Easing)
	assert.True(t, p.Reset)
	assert.NoError(t, p.Validate())

	p.Kind = "spiral"
	assert.ErrorIs(t, p.Validate(), ErrInvalidMode)
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Clockwise, ParseDirection("Clockwise"))
	assert.Equal(t, CounterClockwise, ParseDirection("Counter-Clockwise"))
	assert.Equal(t, CounterClockwise, ParseDirection(""))
}
