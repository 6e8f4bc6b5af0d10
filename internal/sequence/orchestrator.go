package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/runner"
)

// Origin names the orchestrator's task slot.
const Origin = "sequence"

const (
	// DefaultPollInterval bounds how long a blocking step can miss its
	// delegate's completion. It must never be loosened past 100ms.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultFirstEnvironmentDuration is the transition a leading
	// environment step becomes.
	DefaultFirstEnvironmentDuration = 4000 * time.Millisecond
)

// Waiter is a delegated task the orchestrator can block on.
type Waiter interface {
	Done() <-chan struct{}
	Active() bool
	Cancel()
}

// FlickerRequest carries the fields of a flicker step.
type FlickerRequest struct {
	Preset string
	Speed  time.Duration
	Smooth bool
}

// Controllers is what a script drives.
type Controllers interface {
	// ApplyEnvironment sets an environment preset outright.
	ApplyEnvironment(ctx context.Context, name string) error

	// StartAnimation starts an animation preset with durations divided by
	// speed.
	StartAnimation(ctx context.Context, preset string, speed float64) (Waiter, error)

	// StartFlicker starts a flicker preset.
	StartFlicker(ctx context.Context, req FlickerRequest) error

	// StartTransition fades to an environment preset over d.
	StartTransition(ctx context.Context, to string, d time.Duration) (Waiter, error)

	// Command passes a raw line to the property sink.
	Command(ctx context.Context, line string) error

	// StopEffects stops animation, flicker and transition.
	StopEffects()
}

// StepFunc is called before each step runs.
type StepFunc func(index int, step Step)

// SkipFunc is called for each step that is skipped or fails.
type SkipFunc func(index int, step Step, err error)

// Logger defines the logging interface used by the Orchestrator.
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

// Config holds configuration for an Orchestrator.
type Config struct {
	// PollInterval is the fallback check of a delegate's Active flag while
	// a step blocks on it.
	PollInterval time.Duration

	// GracePeriod bounds how long a new run waits for the previous one.
	GracePeriod time.Duration

	// FirstEnvironmentAsTransition turns a leading environment step into a
	// transition of FirstEnvironmentDuration.
	FirstEnvironmentAsTransition bool
	FirstEnvironmentDuration     time.Duration
}

// Options configure one run.
type Options struct {
	// Name labels the run in logs.
	Name string

	// DurationMultiplier speeds the script up: wait and delegated
	// durations are divided by it. Zero or less counts as 1.
	DurationMultiplier float64

	OnStep StepFunc
	OnSkip SkipFunc
}

func (o Options) speed() float64 {
	if o.DurationMultiplier <= 0 {
		return 1
	}
	return o.DurationMultiplier
}

// Orchestrator runs one script at a time on its own task slot.
type Orchestrator struct {
	cfg    Config
	ctrl   Controllers
	slot   *runner.Slot
	logger Logger
}

// NewOrchestrator creates an Orchestrator driving ctrl.
func NewOrchestrator(ctrl Controllers, cfg Config) *Orchestrator {
	if cfg.PollInterval <= 0 || cfg.PollInterval > DefaultPollInterval {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.FirstEnvironmentDuration <= 0 {
		cfg.FirstEnvironmentDuration = DefaultFirstEnvironmentDuration
	}
	return &Orchestrator{
		cfg:    cfg,
		ctrl:   ctrl,
		slot:   runner.NewSlot(runner.Config{Name: Origin, GracePeriod: cfg.GracePeriod}),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the orchestrator and its task slot.
func (o *Orchestrator) SetLogger(logger Logger) {
	o.logger = logger
	o.slot.SetLogger(logger)
}

// Run starts script, superseding any script already running. Steps run
// strictly in order; malformed steps are reported and skipped.
func (o *Orchestrator) Run(ctx context.Context, script Script, opts Options, onComplete runner.CompleteFunc) *runner.Task {
	steps := make(Script, len(script))
	copy(steps, script)

	name := opts.Name
	if name == "" {
		name = Origin
	}
	return o.slot.Start(ctx, name, func(ctx context.Context) error {
		return o.run(ctx, name, steps, opts)
	}, onComplete)
}

// Stop cancels the running script and waits up to the grace period.
func (o *Orchestrator) Stop() bool { return o.slot.Stop() }

// Active reports whether a script is pending or running.
func (o *Orchestrator) Active() bool { return o.slot.Active() }

// Done is closed when the current script ends.
func (o *Orchestrator) Done() <-chan struct{} { return o.slot.Done() }

// Stats reports the slot state.
func (o *Orchestrator) Stats() runner.Stats { return o.slot.Stats() }

func (o *Orchestrator) run(ctx context.Context, name string, script Script, opts Options) error {
	speed := opts.speed()
	o.logger.Info("sequence started", "sequence", name, "steps", len(script), "speed", speed)

	for i, step := range script {
		if err := ctx.Err(); err != nil {
			o.logger.Info("sequence stopped", "sequence", name, "step", i)
			return err
		}

		if i == 0 && step.Type == StepEnvironment && o.cfg.FirstEnvironmentAsTransition {
			ms := float64(o.cfg.FirstEnvironmentDuration) / float64(time.Millisecond)
			step = Step{Type: StepTransition, To: step.Target(), Duration: &ms}
		}

		if err := step.Validate(); err != nil {
			o.skip(opts, i, step, err)
			continue
		}

		if opts.OnStep != nil {
			opts.OnStep(i, step)
		}
		o.logger.Debug("sequence step", "sequence", name, "step", i, "action", step.String())

		if err := o.exec(ctx, step, speed); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				o.logger.Info("sequence stopped", "sequence", name, "step", i)
				return ctxErr
			}
			o.skip(opts, i, step, err)
		}
	}

	o.logger.Info("sequence completed", "sequence", name)
	return nil
}

func (o *Orchestrator) skip(opts Options, i int, step Step, err error) {
	o.logger.Warn("sequence step skipped", "step", i, "type", step.Type, "error", err)
	if opts.OnSkip != nil {
		opts.OnSkip(i, step, err)
	}
}

func (o *Orchestrator) exec(ctx context.Context, step Step, speed float64) error {
	switch step.Type {
	case StepEnvironment:
		return o.ctrl.ApplyEnvironment(ctx, step.Target())

	case StepAnimation:
		w, err := o.ctrl.StartAnimation(ctx, step.Target(), speed)
		if err != nil {
			return err
		}
		if step.WaitForCompletion {
			return o.await(ctx, w)
		}
		return nil

	case StepFlicker:
		return o.ctrl.StartFlicker(ctx, FlickerRequest{
			Preset: step.Target(),
			Speed:  step.FlickerSpeed(),
			Smooth: step.Smooth,
		})

	case StepTransition:
		d := time.Duration(float64(step.TransitionDuration()) / speed)
		w, err := o.ctrl.StartTransition(ctx, step.Target(), d)
		if err != nil {
			return err
		}
		if err := o.await(ctx, w); err != nil {
			w.Cancel()
			return err
		}
		return nil

	case StepCommand:
		return o.ctrl.Command(ctx, step.Value.String())

	case StepWait:
		d, err := step.WaitDuration()
		if err != nil {
			return err
		}
		return runner.Sleep(ctx, time.Duration(float64(d)/speed))

	case StepStopEffects:
		o.ctrl.StopEffects()
		return nil
	}
	return fmt.Errorf("%w: unknown type %q", ErrMalformedStep, step.Type)
}

// await blocks until w finishes or ctx is cancelled. The Done channel
// normally ends the wait; the poll of Active bounds it if a delegate
// finishes without closing Done.
func (o *Orchestrator) await(ctx context.Context, w Waiter) error {
	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.Done():
			return nil
		case <-ticker.C:
			if !w.Active() {
				return nil
			}
		}
	}
}
