package timeline

import (
	"fmt"
	"math"
)

// timeEpsilon is the tolerance under which two keyframe times are equal.
const timeEpsilon = 1e-9

// minPlayableKeyframes is the smallest timeline that describes motion.
const minPlayableKeyframes = 2

// Validate checks that tl can be played.
//
// All problems are wrapped in ErrInvalidTimeline; the first one found is
// reported.
func Validate(tl Timeline) error {
	return ValidateKeyframes(tl.keyframes)
}

// ValidateKeyframes applies the checks of Validate to keyframes in the
// order given, so unsorted input is reported instead of silently sorted.
func ValidateKeyframes(kfs []Keyframe) error {
	if len(kfs) < minPlayableKeyframes {
		return fmt.Errorf("%w: need at least %d keyframes, got %d", ErrInvalidTimeline, minPlayableKeyframes, len(kfs))
	}

	for i, kf := range kfs {
		if math.IsNaN(kf.Time) || math.IsInf(kf.Time, 0) {
			return fmt.Errorf("%w: keyframe %d has non-finite time", ErrInvalidTimeline, i)
		}
		if kf.Time < 0 {
			return fmt.Errorf("%w: keyframe %d has negative time %.3f", ErrInvalidTimeline, i, kf.Time)
		}
		if len(kf.Values) == 0 {
			return fmt.Errorf("%w: keyframe %d at %.3fs has no values", ErrInvalidTimeline, i, kf.Time)
		}
		for id, v := range kf.Values {
			if !v.IsValid() {
				return fmt.Errorf("%w: keyframe %d property %q has no value", ErrInvalidTimeline, i, id)
			}
		}
		if i == 0 {
			continue
		}
		prev := kfs[i-1].Time
		if math.Abs(kf.Time-prev) <= timeEpsilon {
			return fmt.Errorf("%w: keyframes %d and %d share time %.3fs", ErrInvalidTimeline, i-1, i, kf.Time)
		}
		if kf.Time < prev {
			return fmt.Errorf("%w: keyframe %d at %.3fs is before keyframe %d at %.3fs", ErrInvalidTimeline, i, kf.Time, i-1, prev)
		}
	}
	return nil
}
