package flicker

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-motion/internal/runner"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

const prop timeline.PropertyID = "sun_strength"

// stateEmitter records emitted strengths and doubles as the tracker.
type stateEmitter struct {
	mu     sync.Mutex
	values []float64
	state  timeline.Snapshot
}

func newStateEmitter(initial timeline.Snapshot) *stateEmitter {
	return &stateEmitter{state: initial.Clone()}
}

func (e *stateEmitter) Emit(ctx context.Context, _ string, snap timeline.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, v := range snap {
		e.state[id] = v
		if id == prop {
			f, _ := v.Float()
			e.values = append(e.values, f)
		}
	}
	return nil
}

func (e *stateEmitter) Get(id timeline.PropertyID) (timeline.Value, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.state[id]
	return v, ok
}

func (e *stateEmitter) emitted() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]float64, len(e.values))
	copy(out, e.values)
	return out
}

func newTestController(em *stateEmitter, fadeSteps int) *Controller {
	return NewController(em, em, Config{FadeSteps: fadeSteps, GracePeriod: 300 * time.Millisecond},
		WithRand(rand.New(rand.NewPCG(1, 2))))
}

func TestController_StrobeTogglesAndRestores(t *testing.T) {
	em := newStateEmitter(timeline.Snapshot{prop: timeline.Scalar(1.5)})
	c := newTestController(em, 0)

	task, err := c.Start(context.Background(), Params{Preset: Strobe, Speed: 10 * time.Millisecond}, nil)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	assert.True(t, c.Active())
	assert.True(t, c.Stop())
	assert.Equal(t, runner.StateCancelled, task.State())

	values := em.emitted()
	require.GreaterOrEqual(t, len(values), 3)
	for _, v := range values {
		assert.True(t, v == 0 || v == 1.5, "hard toggles only, got %v", v)
	}
	assert.Contains(t, values, 0.0)
	assert.Equal(t, 1.5, values[len(values)-1], "baseline restored")

	time.Sleep(30 * time.Millisecond)
	assert.Len(t, em.emitted(), len(values), "nothing after the restore")
}

func TestController_DefaultBaseline(t *testing.T) {
	tests := []struct {
		name    string
		initial timeline.Snapshot
	}{
		{"missing", timeline.Snapshot{}},
		{"zero", timeline.Snapshot{prop: timeline.Scalar(0)}},
		{"vector", timeline.Snapshot{prop: timeline.Vector3(1, 1, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := newStateEmitter(tt.initial)
			c := newTestController(em, 0)

			_, err := c.Start(context.Background(), Params{Preset: Pulse, Speed: 10 * time.Millisecond}, nil)
			require.NoError(t, err)
			time.Sleep(40 * time.Millisecond)
			c.Stop()

			values := em.emitted()
			require.NotEmpty(t, values)
			assert.Equal(t, DefaultBaseline, values[len(values)-1])
		})
	}
}

func TestController_SmoothPulseFades(t *testing.T) {
	em := newStateEmitter(timeline.Snapshot{prop: timeline.Scalar(2)})
	c := newTestController(em, 4)

	_, err := c.Start(context.Background(), Params{Preset: Pulse, Speed: 40 * time.Millisecond, Smooth: true}, nil)
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	c.Stop()

	values := em.emitted()
	require.GreaterOrEqual(t, len(values), 5)
	// The first fade goes 2 -> 0 in four steps.
	assert.Equal(t, []float64{2, 1.5, 1, 0.5, 0}, values[:5])
}

func TestController_CandleDrifts(t *testing.T) {
	em := newStateEmitter(timeline.Snapshot{prop: timeline.Scalar(1)})
	c := newTestController(em, 2)

	_, err := c.Start(context.Background(), Params{Preset: Candle, Speed: 10 * time.Millisecond}, nil)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	c.Stop()

	values := em.emitted()
	require.Greater(t, len(values), 4)

	body := values[:len(values)-1]
	for i := 1; i < len(body); i++ {
		assert.LessOrEqual(t, body[i], body[i-1]+1e-12, "candle only dims")
		assert.Greater(t, body[i], 0.0)
	}
	assert.Less(t, body[len(body)-1], 0.95, "drift compounds")
	assert.Equal(t, 1.0, values[len(values)-1], "original baseline restored")
}

func TestController_StormStopsDuringPause(t *testing.T) {
	em := newStateEmitter(timeline.Snapshot{prop: timeline.Scalar(1)})
	c := newTestController(em, 0)

	task, err := c.Start(context.Background(), Params{Preset: Storm}, nil)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	assert.True(t, c.Stop())
	assert.Less(t, time.Since(start), 300*time.Millisecond)
	assert.Equal(t, runner.StateCancelled, task.State())
}

func TestController_SupersedeRestoresBeforeNextBaseline(t *testing.T) {
	em := newStateEmitter(timeline.Snapshot{prop: timeline.Scalar(0.8)})
	c := newTestController(em, 0)

	first, err := c.Start(context.Background(), Params{Preset: Strobe, Speed: 10 * time.Millisecond}, nil)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	second, err := c.Start(context.Background(), Params{Preset: Pulse, Speed: 10 * time.Millisecond}, nil)
	require.NoError(t, err)

	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("first flicker did not stop")
	}
	assert.Equal(t, runner.StateCancelled, first.State())

	time.Sleep(30 * time.Millisecond)
	c.Stop()
	assert.Equal(t, runner.StateCancelled, second.State())

	for _, v := range em.emitted() {
		assert.True(t, v == 0 || v == 0.8, "second flicker used the restored baseline, got %v", v)
	}
}

func TestController_UnknownPreset(t *testing.T) {
	em := newStateEmitter(nil)
	c := newTestController(em, 0)

	var got runner.State
	task, err := c.Start(context.Background(), Params{Preset: "Disco"}, func(s runner.State) { got = s })
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, runner.StateCancelled, task.State())
	assert.Equal(t, runner.StateCancelled, got)
	assert.False(t, c.Active())
	assert.Empty(t, em.emitted())
}

func TestController_PresetNameIgnoresCase(t *testing.T) {
	em := newStateEmitter(timeline.Snapshot{prop: timeline.Scalar(0.8)})
	c := newTestController(em, 0)

	task, err := c.Start(context.Background(), Params{Preset: "strobe", Speed: 10 * time.Millisecond}, nil)
	require.NoError(t, err)
	assert.Equal(t, string(Strobe), task.Name())

	time.Sleep(60 * time.Millisecond)
	require.True(t, c.Active(), "flicker still running")
	assert.True(t, c.Stop())
	assert.NotErrorIs(t, task.Err(), ErrUnknownPreset)

	values := em.emitted()
	assert.Contains(t, values, 0.0, "strobe waveform ran")
	assert.Equal(t, 0.8, values[len(values)-1], "baseline restored")
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset(" heartbeat ")
	require.NoError(t, err)
	assert.Equal(t, Heartbeat, p)

	_, err = ParsePreset("Custom")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	var decoded Preset
	require.NoError(t, decoded.UnmarshalText([]byte("CANDLE")))
	assert.Equal(t, Candle, decoded)
}

func TestDelayFor(t *testing.T) {
	assert.Equal(t, DefaultSpeed, delayFor(0))
	assert.Equal(t, MinDelay, delayFor(time.Millisecond))
	assert.Equal(t, 300*time.Millisecond, delayFor(300*time.Millisecond))
}
