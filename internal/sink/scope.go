package sink

import (
	"sync/atomic"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// Scope marks one tick's delivery to the UI.
//
// While a Scope is active, a property change that equals the value the
// scope delivered is an echo of playback, not operator input, and must not
// be fed back into the sink or history. The Emitter releases the scope as
// soon as the sample callback returns, so echo suppression never outlives
// the tick that caused it.
type Scope struct {
	origin string
	seq    uint64
	snap   timeline.Snapshot
	active atomic.Bool
}

func newScope(origin string, seq uint64, snap timeline.Snapshot) *Scope {
	s := &Scope{origin: origin, seq: seq, snap: snap}
	s.active.Store(true)
	return s
}

// Origin names the worker that produced the tick, e.g. "animation".
func (s *Scope) Origin() string { return s.origin }

// Seq is the emitter-wide sequence number of the tick.
func (s *Scope) Seq() uint64 { return s.seq }

// Active reports whether the tick is still being delivered.
func (s *Scope) Active() bool { return s.active.Load() }

// IsEcho reports whether setting id to v would merely repeat what this
// scope delivered. It is always false once the scope is released.
func (s *Scope) IsEcho(id timeline.PropertyID, v timeline.Value) bool {
	if !s.Active() {
		return false
	}
	delivered, ok := s.snap[id]
	return ok && delivered.Equal(v)
}

func (s *Scope) release() { s.active.Store(false) }
