package studio

import "errors"

// Domain errors for the studio package.
var (
	// ErrEmptyTimeline is returned when the current timeline has no
	// keyframes to sample.
	ErrEmptyTimeline = errors.New("studio: timeline is empty")

	// ErrNoTimelineStore is returned by save and load when the studio was
	// built without a TimelineStore.
	ErrNoTimelineStore = errors.New("studio: no timeline store configured")

	// ErrTimelineNotFound is returned when no saved timeline has the name.
	ErrTimelineNotFound = errors.New("studio: saved timeline not found")
)
