package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Domain-specific errors for sink operations.
var (
	// ErrSink is returned when a sink failed to apply a snapshot. The
	// snapshot counts as delivered; callers log and move on.
	ErrSink = errors.New("sink: apply failed")

	// ErrCommandUnsupported is returned by Emitter.Command when the sink
	// cannot execute raw commands.
	ErrCommandUnsupported = errors.New("sink: commands not supported")

	// ErrInvalidReport is returned for a state report that cannot be
	// decoded.
	ErrInvalidReport = errors.New("sink: invalid state report")
)

// Sink applies snapshots to the controlled system.
//
// Apply is called synchronously from animation workers and may be slow.
// Several workers can call Apply concurrently, so implementations must be
// safe for concurrent use. Calls from one worker arrive in order.
type Sink interface {
	Apply(ctx context.Context, snap timeline.Snapshot) error
}

// Commander is implemented by sinks that accept raw console commands.
type Commander interface {
	Command(ctx context.Context, line string) error
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, snap timeline.Snapshot) error

// Apply calls f.
func (f Func) Apply(ctx context.Context, snap timeline.Snapshot) error {
	return f(ctx, snap)
}

// Discard is a Sink that accepts and drops everything.
type Discard struct{}

// Apply does nothing.
func (Discard) Apply(context.Context, timeline.Snapshot) error { return nil }

// Command does nothing.
func (Discard) Command(context.Context, string) error { return nil }

// Multi fans a snapshot out to several sinks in order. Every sink is
// called even if an earlier one fails; the errors are joined.
type Multi []Sink

// Apply calls every sink.
func (m Multi) Apply(ctx context.Context, snap timeline.Snapshot) error {
	var errs []error
	for _, s := range m {
		if err := s.Apply(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Command forwards line to every member that is a Commander.
func (m Multi) Command(ctx context.Context, line string) error {
	var errs []error
	handled := false
	for _, s := range m {
		c, ok := s.(Commander)
		if !ok {
			continue
		}
		handled = true
		if err := c.Command(ctx, line); err != nil {
			errs = append(errs, err)
		}
	}
	if !handled {
		return ErrCommandUnsupported
	}
	return errors.Join(errs...)
}

type originKey struct{}

// WithOrigin tags ctx with the name of the worker emitting a snapshot.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// Origin returns the worker name set by WithOrigin, or "".
func Origin(ctx context.Context) string {
	s, _ := ctx.Value(originKey{}).(string)
	return s
}

// Fields flattens a snapshot into scalar fields: vectors become
// <id>_x, <id>_y and <id>_z.
func Fields(snap timeline.Snapshot) map[string]any {
	fields := make(map[string]any, len(snap))
	for id, v := range snap {
		if f, ok := v.Float(); ok {
			fields[string(id)] = f
			continue
		}
		if vec, ok := v.Vec(); ok {
			for i, axis := range [3]string{"x", "y", "z"} {
				fields[fmt.Sprintf("%s_%s", id, axis)] = vec[i]
			}
		}
	}
	return fields
}
