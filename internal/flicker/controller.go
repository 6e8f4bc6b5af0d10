package flicker

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/runner"
	"github.com/nerrad567/gray-logic-motion/internal/sink"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Origin tags snapshots emitted by the controller.
const Origin = "flicker"

const (
	// DefaultSpeed is used when Params.Speed is zero.
	DefaultSpeed = 500 * time.Millisecond

	// MinDelay is the shortest delay any waveform uses.
	MinDelay = 10 * time.Millisecond

	// DefaultFadeSteps is the number of sub-steps in a smoothed toggle.
	DefaultFadeSteps = 20

	// DefaultBaseline is used when the property has no positive value yet.
	DefaultBaseline = 1.0
)

// Fixed waveform timings.
const (
	strobeOn      = 20 * time.Millisecond
	heartbeatBeat = 100 * time.Millisecond
)

// Emitter is the output path of the controller.
type Emitter interface {
	Emit(ctx context.Context, origin string, snap timeline.Snapshot) error
}

// Tracker provides the current value of the flickered property.
type Tracker interface {
	Get(id timeline.PropertyID) (timeline.Value, bool)
}

// Logger defines the logging interface used by the Controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Params selects a waveform.
type Params struct {
	Preset Preset

	// Speed is the waveform's base period.
	Speed time.Duration

	// Smooth replaces hard toggles with sub-stepped fades.
	Smooth bool

	// Property overrides the configured property.
	Property timeline.PropertyID
}

// Config holds configuration for a Controller.
type Config struct {
	Property    timeline.PropertyID
	FadeSteps   int
	GracePeriod time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source, e.g. a seeded one in tests.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = r
	}
}

// Controller runs at most one flicker at a time, independently of the
// animation scheduler.
type Controller struct {
	cfg     Config
	emitter Emitter
	tracker Tracker
	slot    *runner.Slot
	logger  Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewController creates a Controller. The baseline strength of each
// flicker is read from tracker when it starts.
func NewController(em Emitter, tracker Tracker, cfg Config, opts ...Option) *Controller {
	if cfg.Property == "" {
		cfg.Property = sink.PropSunStrength
	}
	if cfg.FadeSteps <= 0 {
		cfg.FadeSteps = DefaultFadeSteps
	}
	c := &Controller{
		cfg:     cfg,
		emitter: em,
		tracker: tracker,
		slot:    runner.NewSlot(runner.Config{Name: Origin, GracePeriod: cfg.GracePeriod}),
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// SetLogger sets the logger for the controller and its task slot.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
	c.slot.SetLogger(logger)
}

// Start supersedes the running flicker, if any. The previous flicker
// restores its baseline before the new one reads it.
func (c *Controller) Start(ctx context.Context, p Params, onComplete runner.CompleteFunc) (*runner.Task, error) {
	preset, err := ParsePreset(string(p.Preset))
	if err != nil {
		return runner.Finished(Origin, runner.StateCancelled, err, onComplete), err
	}
	p.Preset = preset
	if p.Property == "" {
		p.Property = c.cfg.Property
	}

	c.logger.Info("flicker starting", "preset", p.Preset, "speed", p.Speed, "smooth", p.Smooth)
	t := c.slot.Start(ctx, string(p.Preset), func(ctx context.Context) error {
		return c.run(ctx, p)
	}, onComplete)
	return t, nil
}

// Stop cancels the flicker and waits up to the grace period for the
// baseline to be restored.
func (c *Controller) Stop() bool { return c.slot.Stop() }

// Active reports whether a flicker is pending or running.
func (c *Controller) Active() bool { return c.slot.Active() }

// Done is closed when the current flicker ends.
func (c *Controller) Done() <-chan struct{} { return c.slot.Done() }

// Stats reports the slot state.
func (c *Controller) Stats() runner.Stats { return c.slot.Stats() }

func (c *Controller) baseline(id timeline.PropertyID) float64 {
	if c.tracker == nil {
		return DefaultBaseline
	}
	v, ok := c.tracker.Get(id)
	if !ok {
		return DefaultBaseline
	}
	f, ok := v.Float()
	if !ok || f <= 0 {
		return DefaultBaseline
	}
	return f
}

// run drives one flicker until ctx is cancelled, then restores the
// baseline exactly once.
func (c *Controller) run(ctx context.Context, p Params) error {
	w := &wave{
		ctrl:     c,
		property: p.Property,
		smooth:   p.Smooth,
		delay:    delayFor(p.Speed),
		strength: c.baseline(p.Property),
	}
	initial := w.strength

	var err error
	for err == nil {
		err = w.cycle(ctx, p.Preset)
	}

	restore := timeline.Snapshot{p.Property: timeline.Scalar(initial)}
	if emitErr := c.emitter.Emit(context.WithoutCancel(ctx), Origin, restore); emitErr != nil {
		c.logger.Warn("flicker baseline restore failed", "error", emitErr)
	}
	return err
}

func delayFor(speed time.Duration) time.Duration {
	if speed == 0 {
		speed = DefaultSpeed
	}
	return max(MinDelay, speed)
}

func (c *Controller) uniform(lo, hi float64) float64 {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return lo + c.rng.Float64()*(hi-lo)
}

func (c *Controller) intRange(lo, hi int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return lo + c.rng.IntN(hi-lo+1)
}

func (c *Controller) uniformDuration(lo, hi time.Duration) time.Duration {
	return time.Duration(c.uniform(float64(lo), float64(hi)))
}

// wave is the state of one running flicker.
type wave struct {
	ctrl     *Controller
	property timeline.PropertyID
	smooth   bool
	delay    time.Duration
	strength float64
}

// cycle runs one period of preset. It returns ctx.Err() once cancelled.
func (w *wave) cycle(ctx context.Context, preset Preset) error {
	c := w.ctrl

	// A smoothed toggle already lasts delay, so fixed holds drop to zero.
	hold := func(d time.Duration) time.Duration {
		if w.smooth {
			return 0
		}
		return d
	}

	switch preset {
	case Pulse:
		return w.steps(ctx,
			w.off, w.sleep(hold(w.delay)),
			w.on, w.sleep(hold(w.delay)),
		)
	case Faulty:
		return w.steps(ctx,
			w.on, w.sleep(c.uniformDuration(20*time.Millisecond, 200*time.Millisecond)),
			w.off, w.sleep(c.uniformDuration(w.delay/2, w.delay*3/2)),
		)
	case Strobe:
		return w.steps(ctx,
			w.on, w.sleep(hold(strobeOn)),
			w.off, w.sleep(w.delay),
		)
	case Storm:
		for range c.intRange(2, 4) {
			err := w.steps(ctx,
				w.on, w.sleep(c.uniformDuration(20*time.Millisecond, 50*time.Millisecond)),
				w.off, w.sleep(c.uniformDuration(20*time.Millisecond, 80*time.Millisecond)),
			)
			if err != nil {
				return err
			}
		}
		return runner.Sleep(ctx, c.uniformDuration(3*time.Second, 8*time.Second))
	case Heartbeat:
		return w.steps(ctx,
			w.on, w.sleep(hold(heartbeatBeat)),
			w.off, w.sleep(hold(heartbeatBeat)),
			w.on, w.sleep(hold(heartbeatBeat)),
			w.off, w.sleep(w.delay),
		)
	case Candle:
		next := w.strength * c.uniform(0.70, 0.95)
		d := time.Duration(c.uniform(0.8, 1.2) * float64(w.delay))
		if err := w.fade(ctx, w.strength, next, d); err != nil {
			return err
		}
		w.strength = next
		return nil
	default:
		return ErrUnknownPreset
	}
}

type step func(ctx context.Context) error

func (w *wave) steps(ctx context.Context, steps ...step) error {
	for _, s := range steps {
		if err := s(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (w *wave) sleep(d time.Duration) step {
	return func(ctx context.Context) error { return runner.Sleep(ctx, d) }
}

func (w *wave) on(ctx context.Context) error {
	if w.smooth {
		return w.fade(ctx, 0, w.strength, w.delay)
	}
	return w.set(ctx, w.strength)
}

func (w *wave) off(ctx context.Context) error {
	if w.smooth {
		return w.fade(ctx, w.strength, 0, w.delay)
	}
	return w.set(ctx, 0)
}

// fade moves from one strength to another in FadeSteps equal steps over d.
func (w *wave) fade(ctx context.Context, from, to float64, d time.Duration) error {
	n := w.ctrl.cfg.FadeSteps
	stepDelay := d / time.Duration(n)
	for i := 0; i <= n; i++ {
		u := float64(i) / float64(n)
		if err := w.set(ctx, from+(to-from)*u); err != nil {
			return err
		}
		if err := runner.Sleep(ctx, stepDelay); err != nil {
			return err
		}
	}
	return nil
}

func (w *wave) set(ctx context.Context, strength float64) error {
	err := w.ctrl.emitter.Emit(ctx, Origin, timeline.Snapshot{w.property: timeline.Scalar(strength)})
	if err == nil || errors.Is(err, sink.ErrSink) {
		return ctx.Err()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	w.ctrl.logger.Warn("flicker emit failed", "error", err)
	return nil
}
