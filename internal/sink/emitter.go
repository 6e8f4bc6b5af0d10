package sink

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// SampleFunc receives every emitted snapshot for display. The scope is
// released when the function returns. It must be cheap: it runs on the
// emitting worker's goroutine once per tick.
type SampleFunc func(snap timeline.Snapshot, scope *Scope)

// Logger defines the logging interface used by the Emitter.
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

// Emitter is the single output path shared by all workers: it records
// the state, calls the sink and notifies the UI, one batched snapshot at a
// time.
//
// Emitter holds no lock while calling the sink or the sample callback, so
// a slow sink only delays the worker that called Emit.
type Emitter struct {
	sink    Sink
	tracker *StateTracker
	logger  Logger

	onSample atomic.Pointer[SampleFunc]
	current  atomic.Pointer[Scope]
	seq      atomic.Uint64
	failures atomic.Uint64
}

// NewEmitter creates an Emitter writing to s and recording into tracker.
// A nil tracker gets a fresh empty one.
func NewEmitter(s Sink, tracker *StateTracker) *Emitter {
	if s == nil {
		s = Discard{}
	}
	if tracker == nil {
		tracker = NewStateTracker(nil)
	}
	return &Emitter{
		sink:    s,
		tracker: tracker,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the emitter.
func (e *Emitter) SetLogger(logger Logger) {
	e.logger = logger
}

// SetSampleFunc installs the UI callback. nil removes it.
func (e *Emitter) SetSampleFunc(fn SampleFunc) {
	if fn == nil {
		e.onSample.Store(nil)
		return
	}
	e.onSample.Store(&fn)
}

// Tracker returns the state tracker.
func (e *Emitter) Tracker() *StateTracker { return e.tracker }

// Failures returns how many Apply calls have failed.
func (e *Emitter) Failures() uint64 { return e.failures.Load() }

// Emit delivers snap on behalf of origin.
//
// If ctx is already cancelled nothing is delivered and ctx.Err() is
// returned, so a superseded worker cannot emit after observing its
// cancellation. A sink failure is logged and returned wrapped in ErrSink;
// the UI is still notified and the tracked state still updated.
func (e *Emitter) Emit(ctx context.Context, origin string, snap timeline.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(snap) == 0 {
		return nil
	}

	snap = snap.Clone()
	seq := e.seq.Add(1)
	e.tracker.Apply(snap)

	var sinkErr error
	if err := e.sink.Apply(WithOrigin(ctx, origin), snap); err != nil {
		e.failures.Add(1)
		sinkErr = fmt.Errorf("%w: %w", ErrSink, err)
		e.logger.Warn("sink apply failed", "origin", origin, "seq", seq, "error", err)
	}

	if fn := e.onSample.Load(); fn != nil {
		scope := newScope(origin, seq, snap)
		e.current.Store(scope)
		(*fn)(snap, scope)
		scope.release()
		e.current.CompareAndSwap(scope, nil)
	}

	return sinkErr
}

// DropEcho returns the entries of values that are not an echo of the tick
// currently being delivered to the sample callback. Outside a delivery it
// returns values unchanged.
func (e *Emitter) DropEcho(values timeline.Snapshot) timeline.Snapshot {
	scope := e.current.Load()
	if scope == nil || !scope.Active() {
		return values
	}
	out := make(timeline.Snapshot, len(values))
	for id, v := range values {
		if !scope.IsEcho(id, v) {
			out[id] = v
		}
	}
	return out
}

// Command passes a raw console command to the sink.
func (e *Emitter) Command(ctx context.Context, line string) error {
	c, ok := e.sink.(Commander)
	if !ok {
		return ErrCommandUnsupported
	}
	if err := c.Command(ctx, line); err != nil {
		e.logger.Warn("sink command failed", "command", line, "error", err)
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	return nil
}
