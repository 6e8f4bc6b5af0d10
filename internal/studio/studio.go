package studio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/animation"
	"github.com/nerrad567/gray-logic-motion/internal/flicker"
	"github.com/nerrad567/gray-logic-motion/internal/history"
	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-motion/internal/preset"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
	"github.com/nerrad567/gray-logic-motion/internal/sink"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
	"github.com/nerrad567/gray-logic-motion/internal/transition"
)

// Origins of snapshots emitted by the studio itself.
const (
	OriginEnvironment = "environment"
	OriginScrub       = "scrub"
	OriginManual      = "manual"
)

// DefaultHistoryLimit caps the undo stack when Config.HistoryLimit is zero.
const DefaultHistoryLimit = 100

// Logger defines the logging interface used by the Studio. It is passed
// on to every controller.
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

// Config holds the motion settings shared by the controllers.
type Config struct {
	TickRateHz   int
	GracePeriod  time.Duration
	PollInterval time.Duration

	FirstEnvironmentAsTransition bool
	FirstEnvironmentDuration     time.Duration

	FlickerFadeSteps int
	FlickerProperty  timeline.PropertyID
	Sweep            animation.Properties

	HistoryLimit int
}

// FromConfig maps the motion section of config.yaml.
func FromConfig(cfg config.MotionConfig) Config {
	return Config{
		TickRateHz:                   cfg.TickRateHz,
		GracePeriod:                  time.Duration(cfg.GracePeriodMS) * time.Millisecond,
		PollInterval:                 time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		FirstEnvironmentAsTransition: cfg.FirstEnvironmentAsTransition,
		FirstEnvironmentDuration:     time.Duration(cfg.DefaultTransitionMS) * time.Millisecond,
		FlickerFadeSteps:             cfg.FlickerFadeSteps,
		FlickerProperty:              timeline.PropertyID(cfg.FlickerProperty),
		Sweep: animation.Properties{
			X: timeline.PropertyID(cfg.SweepXProperty),
			Y: timeline.PropertyID(cfg.SweepYProperty),
		},
		HistoryLimit: cfg.HistoryLimit,
	}
}

// Studio ties the editable timeline, its history, the presets and the
// four controllers to one emitter. It is the single entry point for the
// API and the CLI.
//
// All methods are safe for concurrent use.
type Studio struct {
	cfg     Config
	emitter *sink.Emitter
	presets *preset.Registry
	store   TimelineStore
	easings timeline.Easings
	logger  Logger

	current atomic.Pointer[timeline.Timeline]
	history *history.Manager
	editMu  sync.Mutex

	scheduler    *animation.Scheduler
	flicker      *flicker.Controller
	transition   *transition.Engine
	orchestrator *sequence.Orchestrator

	onStep atomic.Pointer[StepFunc]
}

// StepFunc observes sequence progress: the running script's name and the
// step about to execute.
type StepFunc func(script string, index int, step sequence.Step)

// Option configures a Studio.
type Option func(*Studio)

// WithTimelineStore enables saving and loading named timelines.
func WithTimelineStore(store TimelineStore) Option {
	return func(s *Studio) { s.store = store }
}

// WithFlickerOptions passes options to the flicker controller, e.g. a
// seeded random source.
func WithFlickerOptions(opts ...flicker.Option) Option {
	return func(s *Studio) {
		s.flicker = flicker.NewController(s.emitter, s.emitter.Tracker(), s.flickerConfig(), opts...)
	}
}

// New creates a Studio emitting through em. The initial timeline is empty.
func New(em *sink.Emitter, presets *preset.Registry, cfg Config, opts ...Option) *Studio {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.FlickerProperty == "" {
		cfg.FlickerProperty = sink.PropSunStrength
	}
	if cfg.Sweep.X == "" {
		cfg.Sweep.X = sink.PropSunDirectionX
	}
	if cfg.Sweep.Y == "" {
		cfg.Sweep.Y = sink.PropSunDirectionY
	}

	s := &Studio{
		cfg:     cfg,
		emitter: em,
		presets: presets,
		easings: timeline.DefaultEasings(),
		logger:  noopLogger{},
	}
	empty := timeline.New()
	s.current.Store(&empty)
	s.history = history.NewManager(func(tl timeline.Timeline) {
		s.current.Store(&tl)
	}, cfg.HistoryLimit)

	s.scheduler = animation.NewScheduler(em, animation.Config{
		TickRateHz:  cfg.TickRateHz,
		GracePeriod: cfg.GracePeriod,
		Sweep:       cfg.Sweep,
	})
	s.flicker = flicker.NewController(em, em.Tracker(), s.flickerConfig())
	s.transition = transition.NewEngine(em, em.Tracker(), transition.Config{
		TickRateHz:  cfg.TickRateHz,
		GracePeriod: cfg.GracePeriod,
	})
	s.orchestrator = sequence.NewOrchestrator(controllers{s}, sequence.Config{
		PollInterval:                 cfg.PollInterval,
		GracePeriod:                  cfg.GracePeriod,
		FirstEnvironmentAsTransition: cfg.FirstEnvironmentAsTransition,
		FirstEnvironmentDuration:     cfg.FirstEnvironmentDuration,
	})

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Studio) flickerConfig() flicker.Config {
	return flicker.Config{
		Property:    s.cfg.FlickerProperty,
		FadeSteps:   s.cfg.FlickerFadeSteps,
		GracePeriod: s.cfg.GracePeriod,
	}
}

// SetLogger sets the logger for the studio and everything it owns.
func (s *Studio) SetLogger(logger Logger) {
	s.logger = logger
	s.history.SetLogger(logger)
	s.scheduler.SetLogger(logger)
	s.flicker.SetLogger(logger)
	s.transition.SetLogger(logger)
	s.orchestrator.SetLogger(logger)
}

// SetStepFunc registers fn to observe sequence progress. Pass nil to
// remove it.
func (s *Studio) SetStepFunc(fn StepFunc) {
	if fn == nil {
		s.onStep.Store(nil)
		return
	}
	s.onStep.Store(&fn)
}

// Presets returns the preset registry.
func (s *Studio) Presets() *preset.Registry { return s.presets }

// State returns the last emitted value of every property.
func (s *Studio) State() timeline.Snapshot { return s.emitter.Tracker().Snapshot() }

// Status reports what is running and the shape of the timeline.
type Status struct {
	Animation  bool `json:"animation"`
	Flicker    bool `json:"flicker"`
	Transition bool `json:"transition"`
	Sequence   bool `json:"sequence"`

	Keyframes int     `json:"keyframes"`
	Duration  float64 `json:"duration"`
	CanUndo   bool    `json:"can_undo"`
	CanRedo   bool    `json:"can_redo"`

	SinkFailures uint64 `json:"sink_failures"`
}

// Status returns a point-in-time view of the studio.
func (s *Studio) Status() Status {
	tl := s.Timeline()
	return Status{
		Animation:    s.scheduler.Active(),
		Flicker:      s.flicker.Active(),
		Transition:   s.transition.Active(),
		Sequence:     s.orchestrator.Active(),
		Keyframes:    tl.Len(),
		Duration:     tl.Duration(),
		CanUndo:      s.history.CanUndo(),
		CanRedo:      s.history.CanRedo(),
		SinkFailures: s.emitter.Failures(),
	}
}

// StopEffects stops the animation, the flicker and any transition. A
// running sequence carries on.
func (s *Studio) StopEffects() {
	s.transition.Stop()
	s.scheduler.Stop()
	s.flicker.Stop()
}

// StopAll stops the sequence first, so it cannot start anything new, then
// every effect.
func (s *Studio) StopAll() {
	s.orchestrator.Stop()
	s.StopEffects()
	s.logger.Info("all motion stopped")
}

// StopAnimation stops the animation only.
func (s *Studio) StopAnimation() bool { return s.scheduler.Stop() }

// StopFlicker stops the flicker only; it restores its property.
func (s *Studio) StopFlicker() bool { return s.flicker.Stop() }

// StopSequence stops the running sequence. Effects it started keep
// running.
func (s *Studio) StopSequence() bool { return s.orchestrator.Stop() }
