package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State represents the lifecycle state of a task.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether s is an end state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// DefaultGracePeriod bounds how long Start waits for a superseded task.
const DefaultGracePeriod = 200 * time.Millisecond

// ErrPanicked wraps a panic recovered from a task body.
var ErrPanicked = errors.New("runner: task panicked")

// Func is a task body. It returns nil when the work finished naturally
// and ctx.Err() (or any other error) when it stopped early.
type Func func(ctx context.Context) error

// CompleteFunc is invoked exactly once with the terminal state of a task.
type CompleteFunc func(State)

// Logger defines the logging interface for the runner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Task is one run of a Func on its own goroutine.
type Task struct {
	id         uint64
	name       string
	cancel     context.CancelFunc
	done       chan struct{}
	onComplete CompleteFunc
	once       sync.Once

	mu      sync.RWMutex
	state   State
	err     error
	started time.Time
	ended   time.Time
}

func newTask(id uint64, name string, cancel context.CancelFunc, onComplete CompleteFunc) *Task {
	return &Task{
		id:         id,
		name:       name,
		cancel:     cancel,
		done:       make(chan struct{}),
		onComplete: onComplete,
		state:      StateIdle,
	}
}

// ID returns the slot-local sequence number of the task.
func (t *Task) ID() uint64 { return t.id }

// Name returns the task name given to Start.
func (t *Task) Name() string { return t.name }

// Done is closed once the task reaches a terminal state and its
// completion callback has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel requests cooperative cancellation. It does not wait.
func (t *Task) Cancel() { t.cancel() }

// State returns the current state.
func (t *Task) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Err returns why the task stopped early, or nil.
func (t *Task) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Active reports whether the task has not yet reached a terminal state.
func (t *Task) Active() bool {
	return !t.State().Terminal()
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) setRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateIdle {
		return false
	}
	t.state = StateRunning
	t.started = time.Now()
	return true
}

// finish moves the task to its terminal state, runs the callback and
// closes Done. Only the first call has any effect.
func (t *Task) finish(state State, err error) {
	t.once.Do(func() {
		t.mu.Lock()
		t.state = state
		t.err = err
		t.ended = time.Now()
		t.mu.Unlock()

		t.cancel()
		if t.onComplete != nil {
			t.onComplete(state)
		}
		close(t.done)
	})
}

// Finished returns a task that is already terminal in state. onComplete is
// invoked before Finished returns. Controllers use it to report rejected
// input through the same completion path as a real run.
func Finished(name string, state State, err error, onComplete CompleteFunc) *Task {
	t := newTask(0, name, func() {}, onComplete)
	t.finish(state, err)
	return t
}

// Config holds configuration for a Slot.
type Config struct {
	// Name is a human-readable identifier for logging, e.g. "animation".
	Name string

	// GracePeriod is how long Start waits for the previous task to stop
	// before starting the new one regardless.
	GracePeriod time.Duration
}

// Slot runs at most one task at a time. Starting a task supersedes the
// current one.
//
// No lock is held while waiting for a task or while a task body runs.
type Slot struct {
	config Config
	logger Logger

	mu      sync.Mutex
	current *Task
	seq     uint64
	runs    int
}

// NewSlot creates a Slot. A zero GracePeriod becomes DefaultGracePeriod.
func NewSlot(cfg Config) *Slot {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	return &Slot{
		config: cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the slot.
func (s *Slot) SetLogger(logger Logger) {
	s.logger = logger
}

// Start supersedes the current task with a new one running fn.
//
// The previous task is cancelled and given up to the grace period to stop;
// after that the new task starts regardless. The new task's context keeps
// the values of ctx but not its cancellation, so a request-scoped ctx does
// not end the task. Use Task.Cancel or Stop to end it.
//
// onComplete is invoked exactly once, from the task goroutine, with the
// terminal state.
func (s *Slot) Start(ctx context.Context, name string, fn Func, onComplete CompleteFunc) *Task {
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s.mu.Lock()
	prev := s.current
	s.seq++
	t := newTask(s.seq, name, cancel, onComplete)
	s.current = t
	s.runs++
	s.mu.Unlock()

	go s.launch(taskCtx, t, prev, fn)
	return t
}

// launch waits out the predecessor, then runs fn unless t was itself
// superseded in the meantime.
func (s *Slot) launch(ctx context.Context, t, prev *Task, fn Func) {
	if prev != nil {
		prev.Cancel()
		s.awaitStop(prev)
	}

	if ctx.Err() != nil || !t.setRunning() {
		t.finish(StateCancelled, context.Canceled)
		return
	}

	s.logger.Debug("task started", "slot", s.config.Name, "task", t.name, "id", t.id)

	err := s.run(ctx, fn)

	state := StateCompleted
	if err != nil {
		state = StateCancelled
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("task stopped with error", "slot", s.config.Name, "task", t.name, "error", err)
		}
	}
	t.finish(state, err)

	s.logger.Debug("task finished", "slot", s.config.Name, "task", t.name, "id", t.id, "state", state)
}

func (s *Slot) run(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	return fn(ctx)
}

// awaitStop waits for prev to stop, bounded by the grace period.
func (s *Slot) awaitStop(prev *Task) bool {
	timer := time.NewTimer(s.config.GracePeriod)
	defer timer.Stop()

	select {
	case <-prev.Done():
		return true
	case <-timer.C:
		s.logger.Warn("previous task did not stop within grace period",
			"slot", s.config.Name,
			"task", prev.name,
			"grace", s.config.GracePeriod,
		)
		return false
	}
}

// Stop cancels the current task and waits for it up to the grace period.
// It reports whether the task had stopped when Stop returned.
func (s *Slot) Stop() bool {
	s.mu.Lock()
	t := s.current
	s.mu.Unlock()

	if t == nil || !t.Active() {
		return true
	}
	t.Cancel()
	return s.awaitStop(t)
}

// Current returns the most recently started task, or nil.
func (s *Slot) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Active reports whether the most recent task has not finished.
func (s *Slot) Active() bool {
	t := s.Current()
	return t != nil && t.Active()
}

// Done returns the Done channel of the current task. With no task it
// returns a closed channel.
func (s *Slot) Done() <-chan struct{} {
	if t := s.Current(); t != nil {
		return t.Done()
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Stats describes a slot for status reporting.
type Stats struct {
	Name   string        `json:"name"`
	State  State         `json:"state"`
	Task   string        `json:"task,omitempty"`
	Uptime time.Duration `json:"uptime,omitempty"`
	Runs   int           `json:"runs"`
}

// Stats returns current statistics for the slot.
func (s *Slot) Stats() Stats {
	s.mu.Lock()
	t := s.current
	runs := s.runs
	s.mu.Unlock()

	stats := Stats{Name: s.config.Name, State: StateIdle, Runs: runs}
	if t == nil {
		return stats
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	stats.Task = t.name
	stats.State = t.state
	if t.state == StateRunning {
		stats.Uptime = time.Since(t.started)
	}
	return stats
}

// Sleep pauses for d or until ctx is done, whichever comes first. It
// returns ctx.Err() when interrupted.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
