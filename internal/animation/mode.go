package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Mode is one kind of primary motion: keyframe playback, a linear sweep or
// an orbital sweep.
type Mode interface {
	// Name identifies the mode in logs and status, e.g. "keyframe".
	Name() string

	// Validate reports whether the mode can run.
	Validate() error

	// frame returns the snapshot at elapsed, and whether it is the last.
	frame(elapsed time.Duration, props Properties) (timeline.Snapshot, bool)

	// tickInterval overrides the scheduler tick; zero keeps the default.
	tickInterval() time.Duration
}

var defaultEasings = timeline.DefaultEasings()

// Properties names the properties driven by the sweep modes.
type Properties struct {
	X timeline.PropertyID
	Y timeline.PropertyID
}

// KeyframePlayback samples a Timeline against wall-clock elapsed time.
type KeyframePlayback struct {
	Timeline timeline.Timeline

	// Duration is the wall-clock length of playback. The timeline is
	// stretched or compressed to fit it; zero plays at its own length.
	Duration time.Duration

	// Easings defaults to timeline.DefaultEasings().
	Easings timeline.Easings
}

// Name implements Mode.
func (KeyframePlayback) Name() string { return "keyframe" }

// Validate checks the timeline and duration.
func (m KeyframePlayback) Validate() error {
	if err := timeline.Validate(m.Timeline); err != nil {
		return err
	}
	if m.Duration < 0 {
		return fmt.Errorf("%w: negative duration %s", ErrInvalidMode, m.Duration)
	}
	return nil
}

func (m KeyframePlayback) total() time.Duration {
	if m.Duration > 0 {
		return m.Duration
	}
	return seconds(m.Timeline.Duration())
}

func (m KeyframePlayback) frame(elapsed time.Duration, _ Properties) (timeline.Snapshot, bool) {
	easings := m.Easings
	if easings == nil {
		easings = defaultEasings
	}
	end := m.Timeline.Duration()
	total := m.total()
	if elapsed >= total || total <= 0 {
		return timeline.Sample(end, m.Timeline, easings), true
	}
	at := elapsed.Seconds() * end / total.Seconds()
	return timeline.Sample(at, m.Timeline, easings), false
}

func (KeyframePlayback) tickInterval() time.Duration { return 0 }

// LinearSweep moves the two sweep properties from (X0, Y0) to (X1, Y1).
type LinearSweep struct {
	X0, X1   float64
	Y0, Y1   float64
	Duration time.Duration

	// TickRateHz overrides the scheduler tick rate when positive.
	TickRateHz int

	Easing timeline.EasingKind

	// ResetOnFinish emits both properties at zero shortly after a natural
	// finish.
	ResetOnFinish bool
}

// Name implements Mode.
func (LinearSweep) Name() string { return "linear" }

// Validate checks the duration and coordinates.
func (m LinearSweep) Validate() error {
	if m.Duration <= 0 {
		return fmt.Errorf("%w: linear sweep needs a positive duration", ErrInvalidMode)
	}
	if !finite(m.X0, m.X1, m.Y0, m.Y1) {
		return fmt.Errorf("%w: linear sweep coordinates must be finite", ErrInvalidMode)
	}
	return nil
}

func (m LinearSweep) frame(elapsed time.Duration, props Properties) (timeline.Snapshot, bool) {
	if elapsed >= m.Duration {
		return sweepSnapshot(props, m.X1, m.Y1), true
	}
	u := defaultEasings.Ease(m.Easing, elapsed.Seconds()/m.Duration.Seconds())
	return sweepSnapshot(props, lerp(m.X0, m.X1, u), lerp(m.Y0, m.Y1, u)), false
}

func (m LinearSweep) tickInterval() time.Duration {
	if m.TickRateHz <= 0 {
		return 0
	}
	return time.Second / time.Duration(m.TickRateHz)
}

// Direction of an orbital sweep.
type Direction int

const (
	// CounterClockwise advances the angle positively.
	CounterClockwise Direction = 1

	// Clockwise advances the angle negatively.
	Clockwise Direction = -1
)

// ParseDirection accepts "clockwise" and "counter-clockwise" in any case.
// Anything else is counter-clockwise.
func ParseDirection(s string) Direction {
	if normalize(s) == "clockwise" {
		return Clockwise
	}
	return CounterClockwise
}

// String returns the display name.
func (d Direction) String() string {
	if d == Clockwise {
		return "Clockwise"
	}
	return "Counter-Clockwise"
}

// OrbitalSweep moves the sweep properties around an ellipse until
// cancelled.
type OrbitalSweep struct {
	CenterX, CenterY float64
	RadiusX, RadiusY float64
	Revolution       time.Duration
	Direction        Direction
}

// Name implements Mode.
func (OrbitalSweep) Name() string { return "orbital" }

// Validate checks the revolution time and geometry.
func (m OrbitalSweep) Validate() error {
	if m.Revolution <= 0 {
		return fmt.Errorf("%w: orbital sweep needs a positive revolution duration", ErrInvalidMode)
	}
	if !finite(m.CenterX, m.CenterY, m.RadiusX, m.RadiusY) {
		return fmt.Errorf("%w: orbital sweep geometry must be finite", ErrInvalidMode)
	}
	return nil
}

func (m OrbitalSweep) frame(elapsed time.Duration, props Properties) (timeline.Snapshot, bool) {
	dir := float64(m.Direction)
	if dir == 0 {
		dir = float64(CounterClockwise)
	}
	angle := elapsed.Seconds() / m.Revolution.Seconds() * 2 * math.Pi * dir
	x := m.CenterX + m.RadiusX*math.Cos(angle)
	y := m.CenterY + m.RadiusY*math.Sin(angle)
	return sweepSnapshot(props, x, y), false
}

func (OrbitalSweep) tickInterval() time.Duration { return 0 }

func sweepSnapshot(props Properties, x, y float64) timeline.Snapshot {
	return timeline.Snapshot{
		props.X: timeline.Scalar(x),
		props.Y: timeline.Scalar(y),
	}
}

func lerp(a, b, u float64) float64 { return a + (b-a)*u }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
