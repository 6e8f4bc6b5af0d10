package animation

import (
	"context"
	"errors"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/runner"
	"github.com/nerrad567/gray-logic-motion/internal/sink"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Origin tags snapshots emitted by the scheduler.
const Origin = "animation"

const (
	// DefaultTickRateHz is the tick rate used when Config leaves it unset.
	DefaultTickRateHz = 60

	// DefaultResetDelay separates a sweep's final snapshot from its reset.
	DefaultResetDelay = 100 * time.Millisecond
)

// Emitter is the output path of the scheduler.
type Emitter interface {
	Emit(ctx context.Context, origin string, snap timeline.Snapshot) error
}

// Logger defines the logging interface used by the Scheduler.
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

// Config holds configuration for a Scheduler.
type Config struct {
	// TickRateHz is the default sampling rate.
	TickRateHz int

	// GracePeriod bounds how long a new task waits for its predecessor.
	GracePeriod time.Duration

	// ResetDelay is the pause before a sweep's reset snapshot.
	ResetDelay time.Duration

	// Sweep names the properties driven by linear and orbital sweeps.
	Sweep Properties
}

// Scheduler runs at most one primary motion task at a time.
type Scheduler struct {
	cfg     Config
	emitter Emitter
	slot    *runner.Slot
	logger  Logger
}

// NewScheduler creates a Scheduler emitting through em.
func NewScheduler(em Emitter, cfg Config) *Scheduler {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = DefaultTickRateHz
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = DefaultResetDelay
	}
	if cfg.Sweep.X == "" {
		cfg.Sweep.X = sink.PropSunDirectionX
	}
	if cfg.Sweep.Y == "" {
		cfg.Sweep.Y = sink.PropSunDirectionY
	}
	return &Scheduler{
		cfg:     cfg,
		emitter: em,
		slot:    runner.NewSlot(runner.Config{Name: Origin, GracePeriod: cfg.GracePeriod}),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the scheduler and its task slot.
func (s *Scheduler) SetLogger(logger Logger) {
	s.logger = logger
	s.slot.SetLogger(logger)
}

// Start supersedes the running task, if any, with mode.
//
// An invalid mode is rejected before anything runs: Start returns the
// validation error, onComplete receives runner.StateCancelled, and the
// current task is left alone. The returned task is always non-nil.
func (s *Scheduler) Start(ctx context.Context, mode Mode, onComplete runner.CompleteFunc) (*runner.Task, error) {
	if mode == nil {
		return runner.Finished(Origin, runner.StateCancelled, ErrInvalidMode, onComplete), ErrInvalidMode
	}
	if err := mode.Validate(); err != nil {
		s.logger.Warn("animation rejected", "mode", mode.Name(), "error", err)
		return runner.Finished(mode.Name(), runner.StateCancelled, err, onComplete), err
	}

	s.logger.Info("animation starting", "mode", mode.Name())
	t := s.slot.Start(ctx, mode.Name(), func(ctx context.Context) error {
		return s.play(ctx, mode)
	}, onComplete)
	return t, nil
}

// Stop cancels the running task and waits up to the grace period.
func (s *Scheduler) Stop() bool { return s.slot.Stop() }

// Active reports whether a task is pending or running.
func (s *Scheduler) Active() bool { return s.slot.Active() }

// Done is closed when the current task ends.
func (s *Scheduler) Done() <-chan struct{} { return s.slot.Done() }

// Stats reports the slot state.
func (s *Scheduler) Stats() runner.Stats { return s.slot.Stats() }

func (s *Scheduler) play(ctx context.Context, mode Mode) error {
	interval := mode.tickInterval()
	if interval <= 0 {
		interval = time.Second / time.Duration(s.cfg.TickRateHz)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap, last := mode.frame(time.Since(start), s.cfg.Sweep)
		if err := s.emit(ctx, snap); err != nil {
			return err
		}
		if last {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if sweep, ok := mode.(LinearSweep); ok && sweep.ResetOnFinish {
		return s.reset(ctx)
	}
	return nil
}

func (s *Scheduler) reset(ctx context.Context) error {
	if err := runner.Sleep(ctx, s.cfg.ResetDelay); err != nil {
		return err
	}
	return s.emit(ctx, sweepSnapshot(s.cfg.Sweep, 0, 0))
}

// emit forwards snap. Sink failures are logged by the emitter and do not
// stop the task; only cancellation does.
func (s *Scheduler) emit(ctx context.Context, snap timeline.Snapshot) error {
	err := s.emitter.Emit(ctx, Origin, snap)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if !errors.Is(err, sink.ErrSink) {
		s.logger.Warn("emit failed", "error", err)
	}
	return nil
}
