package sink

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// SampleWriter stores flattened samples. The InfluxDB client implements it.
type SampleWriter interface {
	WriteSample(origin string, fields map[string]any, ts time.Time)
}

// Recorder decorates a Sink and writes every applied snapshot to a
// SampleWriter. Writes are fire-and-forget; the writer batches them.
type Recorder struct {
	next   Sink
	writer SampleWriter
	now    func() time.Time
}

// NewRecorder wraps next. A nil next records without forwarding.
func NewRecorder(next Sink, writer SampleWriter) *Recorder {
	if next == nil {
		next = Discard{}
	}
	return &Recorder{next: next, writer: writer, now: time.Now}
}

// Apply records snap, then forwards it. The sample is recorded even if
// the wrapped sink fails, since the snapshot counts as delivered.
func (r *Recorder) Apply(ctx context.Context, snap timeline.Snapshot) error {
	if fields := Fields(snap); len(fields) > 0 {
		origin := Origin(ctx)
		if origin == "" {
			origin = "unknown"
		}
		r.writer.WriteSample(origin, fields, r.now())
	}
	return r.next.Apply(ctx, snap)
}

// Command forwards to the wrapped sink if it accepts commands.
func (r *Recorder) Command(ctx context.Context, line string) error {
	if c, ok := r.next.(Commander); ok {
		return c.Command(ctx, line)
	}
	return ErrCommandUnsupported
}
