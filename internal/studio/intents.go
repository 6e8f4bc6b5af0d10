package studio

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/animation"
	"github.com/nerrad567/gray-logic-motion/internal/flicker"
	"github.com/nerrad567/gray-logic-motion/internal/preset"
	"github.com/nerrad567/gray-logic-motion/internal/runner"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Play plays the current timeline. A duration of zero plays it at its own
// length. A running transition is stopped first.
func (s *Studio) Play(ctx context.Context, duration time.Duration, onComplete runner.CompleteFunc) (*runner.Task, error) {
	s.transition.Stop()
	mode := animation.KeyframePlayback{
		Timeline: s.Timeline(),
		Duration: duration,
		Easings:  s.easings,
	}
	return s.scheduler.Start(ctx, mode, onComplete)
}

// PlayPreset starts the animation preset called name. Sweeps begin at the
// current sweep position. Durations are divided by speed.
func (s *Studio) PlayPreset(ctx context.Context, name string, speed float64, onComplete runner.CompleteFunc) (*runner.Task, error) {
	a, err := s.presets.Animation(ctx, name)
	if err != nil {
		return runner.Finished(name, runner.StateCancelled, err, onComplete), err
	}
	mode, err := a.Mode(s.sweepPosition(), speed)
	if err != nil {
		return runner.Finished(name, runner.StateCancelled, err, onComplete), err
	}
	return s.scheduler.Start(ctx, mode, onComplete)
}

func (s *Studio) sweepPosition() animation.Start {
	tracker := s.emitter.Tracker()
	var from animation.Start
	if v, ok := tracker.Get(s.cfg.Sweep.X); ok {
		from.X, _ = v.Float()
	}
	if v, ok := tracker.Get(s.cfg.Sweep.Y); ok {
		from.Y, _ = v.Float()
	}
	return from
}

// Flicker starts the flicker preset called name. A speed of zero uses the
// controller's default.
func (s *Studio) Flicker(ctx context.Context, name string, speed time.Duration, smooth bool, onComplete runner.CompleteFunc) (*runner.Task, error) {
	p, err := flicker.ParsePreset(name)
	if err != nil {
		return runner.Finished(name, runner.StateCancelled, err, onComplete), err
	}
	return s.flicker.Start(ctx, flicker.Params{Preset: p, Speed: speed, Smooth: smooth}, onComplete)
}

// TransitionTo fades to the environment called name over d. The animation
// and flicker are stopped first; the environment's own effects start when
// the fade completes, not when it is cancelled.
func (s *Studio) TransitionTo(ctx context.Context, name string, d time.Duration, onComplete runner.CompleteFunc) (*runner.Task, error) {
	env, err := s.presets.Environment(ctx, name)
	if err != nil {
		return runner.Finished(name, runner.StateCancelled, err, onComplete), err
	}

	s.scheduler.Stop()
	s.flicker.Stop()

	effectsCtx := context.WithoutCancel(ctx)
	if len(env.Values) == 0 {
		s.startEffects(effectsCtx, env)
		return runner.Finished(env.Name, runner.StateCompleted, nil, onComplete), nil
	}

	s.logger.Info("transition starting", "environment", env.Name, "duration", d)
	return s.transition.TransitionTo(ctx, env.Values, d, func(state runner.State) {
		if state == runner.StateCompleted {
			s.startEffects(effectsCtx, env)
		}
		if onComplete != nil {
			onComplete(state)
		}
	})
}

// ApplyEnvironment sets the environment called name at once: effects are
// stopped, its values emitted, then its own effects started.
func (s *Studio) ApplyEnvironment(ctx context.Context, name string) error {
	env, err := s.presets.Environment(ctx, name)
	if err != nil {
		return err
	}

	s.StopEffects()
	if err := s.emitter.Emit(ctx, OriginEnvironment, env.Values); err != nil {
		return fmt.Errorf("applying environment %q: %w", env.Name, err)
	}
	s.logger.Info("environment applied", "environment", env.Name)

	s.startEffects(ctx, env)
	return nil
}

// startEffects starts the flicker and animation an environment names.
// Failures are logged; the environment itself has already been applied.
func (s *Studio) startEffects(ctx context.Context, env *preset.Environment) {
	if f := env.Flicker; f != nil {
		if _, err := s.Flicker(ctx, f.Preset, f.SpeedDuration(), f.Smooth, nil); err != nil {
			s.logger.Warn("environment flicker not started", "environment", env.Name, "flicker", f.Preset, "error", err)
		}
	}
	if a := env.Animation; a != nil {
		if _, err := s.PlayPreset(ctx, a.Preset, a.Speed, nil); err != nil {
			s.logger.Warn("environment animation not started", "environment", env.Name, "animation", a.Preset, "error", err)
		}
	}
}

// Scrub samples the current timeline at t seconds and emits the result.
func (s *Studio) Scrub(ctx context.Context, t float64) (timeline.Snapshot, error) {
	tl := s.Timeline()
	if tl.IsEmpty() {
		return nil, ErrEmptyTimeline
	}
	snap := timeline.Sample(t, tl, s.easings)
	if err := s.emitter.Emit(ctx, OriginScrub, snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// SetValues emits values as a manual edit. Running effects are left
// alone and may overwrite the values on their next tick. Values that only
// repeat the tick being shown to the sample callback are dropped, so a
// display that writes back what it was given does not loop.
func (s *Studio) SetValues(ctx context.Context, values timeline.Snapshot) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no values", timeline.ErrInvalidValue)
	}
	for id, v := range values {
		if !v.IsValid() {
			return fmt.Errorf("%w: %s", timeline.ErrInvalidValue, id)
		}
	}
	values = s.emitter.DropEcho(values)
	if len(values) == 0 {
		s.logger.Debug("manual edit dropped as echo")
		return nil
	}
	return s.emitter.Emit(ctx, OriginManual, values)
}

// RunSequence runs the stored sequence with the given ID or name,
// superseding any running sequence. Durations are divided by speed.
func (s *Studio) RunSequence(ctx context.Context, key string, speed float64, onComplete runner.CompleteFunc) (*runner.Task, error) {
	seq, err := s.presets.Sequence(ctx, key)
	if err != nil {
		return runner.Finished(key, runner.StateCancelled, err, onComplete), err
	}
	return s.RunScript(ctx, seq.Name, seq.Steps, speed, onComplete), nil
}

// RunScript runs script under name, superseding any running sequence.
// Malformed steps are logged and skipped.
func (s *Studio) RunScript(ctx context.Context, name string, script sequence.Script, speed float64, onComplete runner.CompleteFunc) *runner.Task {
	opts := sequence.Options{
		Name:               name,
		DurationMultiplier: speed,
		OnStep: func(index int, step sequence.Step) {
			if fn := s.onStep.Load(); fn != nil {
				(*fn)(name, index, step)
			}
		},
		OnSkip: func(index int, step sequence.Step, err error) {
			s.logger.Warn("sequence step skipped", "sequence", name, "step", index, "action", step.String(), "error", err)
		},
	}
	return s.orchestrator.Run(ctx, script, opts, onComplete)
}

// controllers adapts the studio to what a sequence drives.
type controllers struct {
	s *Studio
}

func (c controllers) ApplyEnvironment(ctx context.Context, name string) error {
	return c.s.ApplyEnvironment(ctx, name)
}

func (c controllers) StartAnimation(ctx context.Context, name string, speed float64) (sequence.Waiter, error) {
	return c.s.PlayPreset(ctx, name, speed, nil)
}

func (c controllers) StartFlicker(ctx context.Context, req sequence.FlickerRequest) error {
	_, err := c.s.Flicker(ctx, req.Preset, req.Speed, req.Smooth, nil)
	return err
}

func (c controllers) StartTransition(ctx context.Context, to string, d time.Duration) (sequence.Waiter, error) {
	return c.s.TransitionTo(ctx, to, d, nil)
}

func (c controllers) Command(ctx context.Context, line string) error {
	return c.s.emitter.Command(ctx, line)
}

func (c controllers) StopEffects() {
	c.s.StopEffects()
}
