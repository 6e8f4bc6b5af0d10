package sink

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// StateTracker remembers the last value emitted for every property. It is
// the "current state" captured by transitions and flicker baselines.
//
// All methods are safe for concurrent use.
type StateTracker struct {
	mu     sync.RWMutex
	values timeline.Snapshot
}

// NewStateTracker creates a tracker seeded with initial.
func NewStateTracker(initial timeline.Snapshot) *StateTracker {
	return &StateTracker{values: initial.Clone()}
}

// Apply overlays snap onto the tracked state.
func (t *StateTracker) Apply(snap timeline.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, v := range snap {
		t.values[id] = v
	}
}

// Get returns the last value of id.
func (t *StateTracker) Get(id timeline.PropertyID) (timeline.Value, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[id]
	return v, ok
}

// Snapshot returns a copy of the tracked state.
func (t *StateTracker) Snapshot() timeline.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values.Clone()
}

// ReportMessage is what the game bridge publishes on the state report
// topic: the property values the game currently holds.
type ReportMessage struct {
	Values timeline.Snapshot `json:"values"`
}

// HandleReport overlays a bridge report onto the tracked state without
// emitting it, so the next transition or flicker starts from what the
// game actually shows. It has the signature of an MQTT message handler.
func (t *StateTracker) HandleReport(_ string, payload []byte) error {
	var msg ReportMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	if len(msg.Values) == 0 {
		return fmt.Errorf("%w: no values", ErrInvalidReport)
	}
	t.Apply(msg.Values)
	return nil
}
