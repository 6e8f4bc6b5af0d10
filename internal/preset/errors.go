package preset

import "errors"

// Domain errors for the preset package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, preset.ErrPresetNotFound) {
//	    // handle not found case
//	}
var (
	// ErrPresetNotFound is returned when no preset matches an ID or name.
	ErrPresetNotFound = errors.New("preset: not found")

	// ErrPresetExists is returned when a preset of the same kind already
	// has the name or ID.
	ErrPresetExists = errors.New("preset: already exists")

	// ErrInvalidPreset is returned when preset validation fails.
	ErrInvalidPreset = errors.New("preset: invalid")

	// ErrReadOnly is returned when updating or deleting a builtin preset.
	ErrReadOnly = errors.New("preset: builtin presets are read-only")
)
