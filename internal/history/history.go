package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// ErrEmptyHistory is returned by Undo and Redo when the relevant stack is
// empty. It is a notice, not a failure.
var ErrEmptyHistory = errors.New("history: empty")

// Action replaces the whole timeline. It is immutable once created.
type Action struct {
	Before timeline.Timeline
	After  timeline.Timeline
	Label  string
}

// Applier installs a timeline as the current one. It is called with the
// manager's lock held so that applies happen in history order; it must
// return quickly and must not call back into the Manager.
type Applier func(timeline.Timeline)

// Logger defines the logging interface used by the Manager.
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

// Manager is a linear undo/redo history over whole-timeline replacements.
//
// All methods are safe for concurrent use.
type Manager struct {
	apply  Applier
	limit  int
	logger Logger

	mu   sync.Mutex
	undo []Action
	redo []Action
}

// NewManager creates a Manager. limit caps the undo stack; 0 means
// unlimited.
func NewManager(apply Applier, limit int) *Manager {
	if apply == nil {
		apply = func(timeline.Timeline) {}
	}
	if limit < 0 {
		limit = 0
	}
	return &Manager{
		apply:  apply,
		limit:  limit,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// Execute applies a.After, records a on the undo stack and clears the redo
// stack.
func (m *Manager) Execute(a Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apply(a.After)
	m.undo = append(m.undo, a)
	if m.limit > 0 && len(m.undo) > m.limit {
		// Drop the oldest entries; copy so the dropped actions can be collected.
		m.undo = append([]Action(nil), m.undo[len(m.undo)-m.limit:]...)
	}
	m.redo = nil

	m.logger.Debug("history action executed", "label", a.Label, "undo_depth", len(m.undo))
}

// Undo reverts the most recent action by applying its Before timeline.
// With nothing to undo it returns ErrEmptyHistory and changes nothing.
func (m *Manager) Undo() (Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.undo) == 0 {
		m.logger.Info("nothing to undo")
		return Action{}, fmt.Errorf("%w: nothing to undo", ErrEmptyHistory)
	}

	a := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.apply(a.Before)
	m.redo = append(m.redo, a)

	m.logger.Info("undo", "label", a.Label)
	return a, nil
}

// Redo re-applies the most recently undone action.
// With nothing to redo it returns ErrEmptyHistory and changes nothing.
func (m *Manager) Redo() (Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.redo) == 0 {
		m.logger.Info("nothing to redo")
		return Action{}, fmt.Errorf("%w: nothing to redo", ErrEmptyHistory)
	}

	a := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.apply(a.After)
	m.undo = append(m.undo, a)

	m.logger.Info("redo", "label", a.Label)
	return a, nil
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Labels returns the undo and redo labels, most recent last.
func (m *Manager) Labels() (undo, redo []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	undo = make([]string, len(m.undo))
	for i, a := range m.undo {
		undo[i] = a.Label
	}
	redo = make([]string, len(m.redo))
	for i, a := range m.redo {
		redo[i] = a.Label
	}
	return undo, redo
}

// Clear drops both stacks without applying anything.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
}
