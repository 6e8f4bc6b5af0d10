package animation

import "errors"

// Domain-specific errors for animation operations.
var (
	// ErrInvalidMode is returned when a sweep's parameters cannot run.
	// Invalid keyframe playback reports timeline.ErrInvalidTimeline instead.
	ErrInvalidMode = errors.New("animation: invalid mode")

	// ErrPresetNotFound is returned when no builtin preset has the name.
	ErrPresetNotFound = errors.New("animation: preset not found")
)
