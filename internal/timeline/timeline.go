package timeline

import (
	"math"
	"sort"
)

// Keyframe constrains a subset of properties at a point in time. Easing
// shapes the segment that starts at this keyframe.
type Keyframe struct {
	Time   float64    `json:"time" yaml:"time"`
	Easing EasingKind `json:"easing" yaml:"easing"`
	Values Snapshot   `json:"values" yaml:"values"`
}

// Clone returns a Keyframe with its own Values map.
func (k Keyframe) Clone() Keyframe {
	k.Values = k.Values.Clone()
	return k
}

// Timeline is an immutable sequence of keyframes sorted ascending by time.
//
// Every edit returns a new Timeline. Keyframe value maps are never mutated
// after construction, so consecutive Timelines share them freely and a
// Timeline may be handed to a running worker without synchronisation.
// The zero Timeline is empty.
type Timeline struct {
	keyframes []Keyframe
}

// New builds a Timeline from keyframes, copying their values and sorting
// by time. Equal times keep their input order.
func New(keyframes ...Keyframe) Timeline {
	kfs := make([]Keyframe, len(keyframes))
	for i, kf := range keyframes {
		kfs[i] = kf.Clone()
	}
	return fromOwned(kfs)
}

// fromOwned sorts and wraps a slice the caller no longer references.
func fromOwned(kfs []Keyframe) Timeline {
	sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].Time < kfs[j].Time })
	return Timeline{keyframes: kfs}
}

// Len returns the number of keyframes.
func (t Timeline) Len() int { return len(t.keyframes) }

// IsEmpty reports whether the timeline has no keyframes.
func (t Timeline) IsEmpty() bool { return len(t.keyframes) == 0 }

// At returns a copy of the keyframe at index i. It panics if i is out of range,
// like a slice index.
func (t Timeline) At(i int) Keyframe {
	return t.keyframes[i].Clone()
}

// Keyframes returns copies of all keyframes in order.
func (t Timeline) Keyframes() []Keyframe {
	out := make([]Keyframe, len(t.keyframes))
	for i, kf := range t.keyframes {
		out[i] = kf.Clone()
	}
	return out
}

// Start returns the time of the first keyframe, or 0 when empty.
func (t Timeline) Start() float64 {
	if len(t.keyframes) == 0 {
		return 0
	}
	return t.keyframes[0].Time
}

// Duration returns the time of the last keyframe, or 0 when empty.
func (t Timeline) Duration() float64 {
	if len(t.keyframes) == 0 {
		return 0
	}
	return t.keyframes[len(t.keyframes)-1].Time
}

// Equal reports whether both timelines hold the same keyframes.
func (t Timeline) Equal(o Timeline) bool {
	if len(t.keyframes) != len(o.keyframes) {
		return false
	}
	for i := range t.keyframes {
		a, b := t.keyframes[i], o.keyframes[i]
		if a.Time != b.Time || a.Easing != b.Easing || !a.Values.Equal(b.Values) {
			return false
		}
	}
	return true
}

// Sample evaluates tl at time t.
//
// Before the first keyframe and after the last, the boundary keyframe's
// values are returned unchanged. NaN samples the first keyframe. Inside a segment each property is blended
// with Lerp using the eased progress of the segment's leading keyframe. A
// property present on only one side of the segment is held for the whole
// segment.
//
// Sample does not modify tl and is safe for concurrent use.
func Sample(t float64, tl Timeline, easings Easings) Snapshot {
	kfs := tl.keyframes
	if len(kfs) == 0 {
		return Snapshot{}
	}
	if t <= kfs[0].Time || math.IsNaN(t) {
		return kfs[0].Values.Clone()
	}
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		return last.Values.Clone()
	}

	// First keyframe strictly after t; the one before it starts the segment.
	n := sort.Search(len(kfs), func(i int) bool { return kfs[i].Time > t })
	prev, next := kfs[n-1], kfs[n]

	span := next.Time - prev.Time
	if span <= 0 {
		return prev.Values.Clone()
	}
	u := easings.Ease(prev.Easing, (t-prev.Time)/span)

	out := make(Snapshot, len(prev.Values)+len(next.Values))
	for id, pv := range prev.Values {
		if nv, ok := next.Values[id]; ok {
			out[id] = Lerp(pv, nv, u)
		} else {
			out[id] = pv
		}
	}
	for id, nv := range next.Values {
		if _, ok := prev.Values[id]; !ok {
			out[id] = nv
		}
	}
	return out
}
