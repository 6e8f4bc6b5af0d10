package timeline

import (
	"fmt"
	"math"
	"sort"
)

// SnapWindow is the distance within which an inserted keyframe replaces an
// existing one instead of sitting beside it.
const SnapWindow = 0.01

// WithKeyframe returns a timeline with kf inserted. Existing keyframes
// within SnapWindow of kf.Time are dropped.
func (t Timeline) WithKeyframe(kf Keyframe) Timeline {
	kfs := make([]Keyframe, 0, len(t.keyframes)+1)
	for _, existing := range t.keyframes {
		if math.Abs(existing.Time-kf.Time) > SnapWindow {
			kfs = append(kfs, existing)
		}
	}
	kfs = append(kfs, kf.Clone())
	return fromOwned(kfs)
}

// Without returns a timeline with the keyframes at indices removed.
// Out-of-range indices are ignored.
func (t Timeline) Without(indices ...int) Timeline {
	drop := indexSet(indices, len(t.keyframes))
	kfs := make([]Keyframe, 0, len(t.keyframes))
	for i, kf := range t.keyframes {
		if !drop[i] {
			kfs = append(kfs, kf)
		}
	}
	return Timeline{keyframes: kfs}
}

// WithValues returns a timeline where the keyframe at index has values
// overlaid on its own.
func (t Timeline) WithValues(index int, values Snapshot) (Timeline, error) {
	if index < 0 || index >= len(t.keyframes) {
		return t, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	kfs := t.copyFrames()
	kfs[index].Values = kfs[index].Values.Merge(values)
	return Timeline{keyframes: kfs}, nil
}

// WithTime returns a timeline where the keyframe at index is moved to time,
// re-sorted.
func (t Timeline) WithTime(index int, time float64) (Timeline, error) {
	if index < 0 || index >= len(t.keyframes) {
		return t, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	kfs := t.copyFrames()
	kfs[index].Time = time
	return fromOwned(kfs), nil
}

// WithEasing returns a timeline where the keyframes at indices use easing.
func (t Timeline) WithEasing(easing EasingKind, indices ...int) Timeline {
	sel := indexSet(indices, len(t.keyframes))
	kfs := t.copyFrames()
	for i := range kfs {
		if sel[i] {
			kfs[i].Easing = easing
		}
	}
	return Timeline{keyframes: kfs}
}

// Paste inserts copies of clip shifted so the earliest clipped keyframe
// lands at at. Each pasted keyframe replaces neighbours within SnapWindow.
func (t Timeline) Paste(at float64, clip ...Keyframe) Timeline {
	if len(clip) == 0 {
		return t
	}
	first := clip[0].Time
	for _, kf := range clip[1:] {
		first = math.Min(first, kf.Time)
	}

	out := t
	for _, kf := range clip {
		kf.Time += at - first
		out = out.WithKeyframe(kf)
	}
	return out
}

// Distribute spaces the selected keyframes evenly between the earliest and
// latest of them. At least three must be selected.
func (t Timeline) Distribute(indices ...int) (Timeline, error) {
	sel := sortedSelection(indices, len(t.keyframes))
	if len(sel) < 3 {
		return t, fmt.Errorf("%w: distribute needs 3, got %d", ErrSelectionTooSmall, len(sel))
	}

	kfs := t.copyFrames()
	minT, maxT := kfs[sel[0]].Time, kfs[sel[len(sel)-1]].Time
	step := (maxT - minT) / float64(len(sel)-1)
	for n, i := range sel[1 : len(sel)-1] {
		kfs[i].Time = minT + step*float64(n+1)
	}
	return fromOwned(kfs), nil
}

// Reverse mirrors the selected keyframes in time within their own span:
// t' = max - (t - min). At least two must be selected.
func (t Timeline) Reverse(indices ...int) (Timeline, error) {
	sel := sortedSelection(indices, len(t.keyframes))
	if len(sel) < 2 {
		return t, fmt.Errorf("%w: reverse needs 2, got %d", ErrSelectionTooSmall, len(sel))
	}

	kfs := t.copyFrames()
	minT, maxT := kfs[sel[0]].Time, kfs[sel[len(sel)-1]].Time
	for _, i := range sel {
		kfs[i].Time = maxT - (kfs[i].Time - minT)
	}
	return fromOwned(kfs), nil
}

// Select returns copies of the keyframes at indices in time order, ready
// to be pasted.
func (t Timeline) Select(indices ...int) []Keyframe {
	sel := sortedSelection(indices, len(t.keyframes))
	out := make([]Keyframe, len(sel))
	for n, i := range sel {
		out[n] = t.keyframes[i].Clone()
	}
	return out
}

// copyFrames copies the keyframe structs. Value maps stay shared, so
// callers must replace a map rather than write into it.
func (t Timeline) copyFrames() []Keyframe {
	kfs := make([]Keyframe, len(t.keyframes))
	copy(kfs, t.keyframes)
	return kfs
}

func indexSet(indices []int, n int) map[int]bool {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < n {
			set[i] = true
		}
	}
	return set
}

// sortedSelection returns the distinct in-range indices ascending. Since
// keyframes are time-sorted, this is also time order.
func sortedSelection(indices []int, n int) []int {
	set := indexSet(indices, n)
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
