package timeline

import "errors"

// Domain-specific errors for timeline operations.
var (
	// ErrInvalidTimeline is returned when a timeline cannot be played:
	// fewer than two keyframes, unsorted or duplicate times, negative
	// times, or a keyframe without values.
	ErrInvalidTimeline = errors.New("timeline: invalid timeline")

	// ErrInvalidValue is returned when a property value is neither a
	// scalar nor a 3-component vector.
	ErrInvalidValue = errors.New("timeline: invalid value")

	// ErrIndexOutOfRange is returned when an edit refers to a keyframe
	// that does not exist.
	ErrIndexOutOfRange = errors.New("timeline: keyframe index out of range")

	// ErrSelectionTooSmall is returned when an edit needs more selected
	// keyframes than were given.
	ErrSelectionTooSmall = errors.New("timeline: not enough keyframes selected")

	// ErrTemplateNotFound is returned for an unknown template name.
	ErrTemplateNotFound = errors.New("timeline: template not found")
)
