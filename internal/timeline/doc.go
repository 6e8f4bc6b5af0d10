// Package timeline holds the keyframe data model and the interpolation
// engine.
//
// A Timeline is an immutable, time-sorted list of Keyframes. Every edit
// (WithKeyframe, Without, Distribute, Reverse, ...) returns a new Timeline
// that shares unchanged keyframes with its predecessor, so history entries
// are cheap and a playback worker can keep sampling an old Timeline while
// the operator edits.
//
// Sample is a pure function of (time, Timeline, Easings):
//
//	tl := timeline.New(
//	    timeline.Keyframe{Time: 0, Values: timeline.Snapshot{"x": timeline.Scalar(0)}},
//	    timeline.Keyframe{Time: 10, Values: timeline.Snapshot{"x": timeline.Scalar(10)}},
//	)
//	snap := timeline.Sample(5, tl, timeline.DefaultEasings()) // x = 5
//
// Values are either scalars or 3-component vectors. When the two sides of
// a segment disagree on shape, Sample switches from one to the other at
// the eased midpoint instead of blending.
package timeline
