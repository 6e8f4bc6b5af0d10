package sequence

import "errors"

// Domain-specific errors for sequence operations.
var (
	// ErrMalformedStep marks a step with an unknown type or a missing
	// field. The orchestrator skips such steps and carries on.
	ErrMalformedStep = errors.New("sequence: malformed step")

	// ErrInvalidScript is returned when a script is not a list of steps.
	ErrInvalidScript = errors.New("sequence: invalid script")
)
