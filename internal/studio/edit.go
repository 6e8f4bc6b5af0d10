package studio

import (
	"fmt"

	"github.com/nerrad567/gray-logic-motion/internal/history"
	"github.com/nerrad567/gray-logic-motion/internal/timeline"
)

// EditFunc derives a new timeline from the current one.
type EditFunc func(timeline.Timeline) (timeline.Timeline, error)

// Timeline returns the current timeline.
func (s *Studio) Timeline() timeline.Timeline {
	return *s.current.Load()
}

// Edit applies fn to the current timeline and records the change under
// label so it can be undone. An error from fn leaves everything as it
// was; a change that produces an equal timeline is not recorded.
//
// Edits are serialised; a playing animation keeps the timeline it started
// with.
func (s *Studio) Edit(label string, fn EditFunc) (timeline.Timeline, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	before := s.Timeline()
	after, err := fn(before)
	if err != nil {
		return before, err
	}
	if after.Equal(before) {
		return before, nil
	}

	s.history.Execute(history.Action{Before: before, After: after, Label: label})
	s.logger.Debug("timeline edited", "action", label, "keyframes", after.Len())
	return after, nil
}

// SetTimeline replaces the whole timeline.
func (s *Studio) SetTimeline(label string, tl timeline.Timeline) (timeline.Timeline, error) {
	return s.Edit(label, func(timeline.Timeline) (timeline.Timeline, error) {
		return tl, nil
	})
}

// AddKeyframe inserts kf, replacing a keyframe within the snap window.
func (s *Studio) AddKeyframe(kf timeline.Keyframe) (timeline.Timeline, error) {
	return s.Edit(fmt.Sprintf("Add keyframe at %.2fs", kf.Time), func(tl timeline.Timeline) (timeline.Timeline, error) {
		return tl.WithKeyframe(kf), nil
	})
}

// DeleteKeyframes removes the keyframes at indices.
func (s *Studio) DeleteKeyframes(indices ...int) (timeline.Timeline, error) {
	return s.Edit(fmt.Sprintf("Delete %d keyframe(s)", len(indices)), func(tl timeline.Timeline) (timeline.Timeline, error) {
		for _, i := range indices {
			if i < 0 || i >= tl.Len() {
				return tl, fmt.Errorf("%w: %d", timeline.ErrIndexOutOfRange, i)
			}
		}
		return tl.Without(indices...), nil
	})
}

// UpdateKeyframe overlays values on the keyframe at index and, when at is
// not nil, moves it there.
func (s *Studio) UpdateKeyframe(index int, at *float64, values timeline.Snapshot) (timeline.Timeline, error) {
	return s.Edit(fmt.Sprintf("Update keyframe %d", index), func(tl timeline.Timeline) (timeline.Timeline, error) {
		if index < 0 || index >= tl.Len() {
			return tl, fmt.Errorf("%w: %d", timeline.ErrIndexOutOfRange, index)
		}
		out, err := tl.WithValues(index, values)
		if err != nil {
			return tl, err
		}
		if at != nil {
			return out.WithTime(index, *at)
		}
		return out, nil
	})
}

// SetEasing sets the easing of the keyframes at indices.
func (s *Studio) SetEasing(easing timeline.EasingKind, indices ...int) (timeline.Timeline, error) {
	return s.Edit(fmt.Sprintf("Set easing %s", easing), func(tl timeline.Timeline) (timeline.Timeline, error) {
		return tl.WithEasing(easing, indices...), nil
	})
}

// Distribute spaces the selected keyframes evenly between the outermost
// two.
func (s *Studio) Distribute(indices ...int) (timeline.Timeline, error) {
	return s.Edit("Distribute keyframes", func(tl timeline.Timeline) (timeline.Timeline, error) {
		return tl.Distribute(indices...)
	})
}

// Reverse mirrors the selected keyframes in time.
func (s *Studio) Reverse(indices ...int) (timeline.Timeline, error) {
	return s.Edit("Reverse keyframes", func(tl timeline.Timeline) (timeline.Timeline, error) {
		return tl.Reverse(indices...)
	})
}

// Paste copies the keyframes at indices so the first lands at at.
func (s *Studio) Paste(at float64, indices ...int) (timeline.Timeline, error) {
	return s.Edit(fmt.Sprintf("Paste at %.2fs", at), func(tl timeline.Timeline) (timeline.Timeline, error) {
		clip := tl.Select(indices...)
		if len(clip) == 0 {
			return tl, fmt.Errorf("%w: nothing to paste", timeline.ErrSelectionTooSmall)
		}
		return tl.Paste(at, clip...), nil
	})
}

// ApplyTemplate replaces the timeline with a builtin template.
func (s *Studio) ApplyTemplate(name string) (timeline.Timeline, error) {
	tpl, err := timeline.Template(name)
	if err != nil {
		return s.Timeline(), err
	}
	return s.SetTimeline("Template "+name, tpl)
}

// Undo reverts the last edit and returns its label.
func (s *Studio) Undo() (string, error) {
	a, err := s.history.Undo()
	if err != nil {
		return "", err
	}
	return a.Label, nil
}

// Redo re-applies the last undone edit and returns its label.
func (s *Studio) Redo() (string, error) {
	a, err := s.history.Redo()
	if err != nil {
		return "", err
	}
	return a.Label, nil
}

// History returns the undo and redo labels, most recent last.
func (s *Studio) History() (undo, redo []string) {
	return s.history.Labels()
}
