package transition

import (
	"context"
	"errors"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/runner"
	"github.com/nerrad567/gray-logic-motion/internal/sink"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Origin tags snapshots emitted by the engine.
const Origin = "transition"

// DefaultTickRateHz is the tick rate used when Config leaves it unset.
const DefaultTickRateHz = 60

var easings = timeline.DefaultEasings()

// ErrEmptyTarget is returned when a transition has nothing to change.
var ErrEmptyTarget = errors.New("transition: empty target")

// Emitter is the output path of the engine.
type Emitter interface {
	Emit(ctx context.Context, origin string, snap timeline.Snapshot) error
}

// Tracker provides the state a transition starts from.
type Tracker interface {
	Get(id timeline.PropertyID) (timeline.Value, bool)
}

// Logger defines the logging interface used by the Engine.
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

// Config holds configuration for an Engine.
type Config struct {
	TickRateHz  int
	GracePeriod time.Duration
}

// Engine crossfades the current state to a target snapshot. At most one
// transition runs at a time.
type Engine struct {
	cfg     Config
	emitter Emitter
	tracker Tracker
	slot    *runner.Slot
	logger  Logger
}

// NewEngine creates an Engine.
func NewEngine(em Emitter, tracker Tracker, cfg Config) *Engine {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = DefaultTickRateHz
	}
	return &Engine{
		cfg:     cfg,
		emitter: em,
		tracker: tracker,
		slot:    runner.NewSlot(runner.Config{Name: Origin, GracePeriod: cfg.GracePeriod}),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the engine and its task slot.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
	e.slot.SetLogger(logger)
}

// TransitionTo fades every property in target from its current value over
// duration with a smoothstep curve. Properties not in target are left
// alone. A natural finish emits target exactly; cancellation stops without
// a final snapshot. A duration of zero or less snaps on the first tick.
func (e *Engine) TransitionTo(ctx context.Context, target timeline.Snapshot, duration time.Duration, onComplete runner.CompleteFunc) (*runner.Task, error) {
	if len(target) == 0 {
		return runner.Finished(Origin, runner.StateCancelled, ErrEmptyTarget, onComplete), ErrEmptyTarget
	}
	target = target.Clone()

	e.logger.Info("transition starting", "properties", len(target), "duration", duration)
	t := e.slot.Start(ctx, Origin, func(ctx context.Context) error {
		return e.run(ctx, target, duration)
	}, onComplete)
	return t, nil
}

// Stop cancels the running transition and waits up to the grace period.
func (e *Engine) Stop() bool { return e.slot.Stop() }

// Active reports whether a transition is pending or running.
func (e *Engine) Active() bool { return e.slot.Active() }

// Done is closed when the current transition ends.
func (e *Engine) Done() <-chan struct{} { return e.slot.Done() }

// Stats reports the slot state.
func (e *Engine) Stats() runner.Stats { return e.slot.Stats() }

func (e *Engine) run(ctx context.Context, target timeline.Snapshot, duration time.Duration) error {
	start := e.capture(target)

	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.TickRateHz))
	defer ticker.Stop()

	began := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		elapsed := time.Since(began)
		if elapsed >= duration {
			return e.emit(ctx, target)
		}
		if err := e.emit(ctx, Blend(start, target, elapsed.Seconds()/duration.Seconds())); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// capture reads the current value of every target property. Properties
// with no current value start at the target.
func (e *Engine) capture(target timeline.Snapshot) timeline.Snapshot {
	start := make(timeline.Snapshot, len(target))
	for id, to := range target {
		if e.tracker != nil {
			if v, ok := e.tracker.Get(id); ok {
				start[id] = v
				continue
			}
		}
		start[id] = to
	}
	return start
}

// Blend returns, for every property in target, the value progress of the
// way from start to target along a smoothstep curve.
func Blend(start, target timeline.Snapshot, progress float64) timeline.Snapshot {
	u := easings.Ease(timeline.Smooth, progress)

	out := make(timeline.Snapshot, len(target))
	for id, to := range target {
		from, ok := start[id]
		if !ok {
			out[id] = to
			continue
		}
		out[id] = timeline.Lerp(from, to, u)
	}
	return out
}

func (e *Engine) emit(ctx context.Context, snap timeline.Snapshot) error {
	err := e.emitter.Emit(ctx, Origin, snap)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if !errors.Is(err, sink.ErrSink) {
		e.logger.Warn("transition emit failed", "error", err)
	}
	return nil
}
