package flicker

import "errors"

// Domain-specific errors for flicker operations.
var (
	// ErrUnknownPreset is returned for a waveform name that is not builtin.
	ErrUnknownPreset = errors.New("flicker: unknown preset")
)
