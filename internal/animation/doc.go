// Package animation runs the primary motion task.
//
// A Scheduler owns one task slot. Starting keyframe playback, a linear
// sweep or an orbital sweep supersedes whatever was running: the old task
// is cancelled and given a grace period to stop before the new one starts,
// so two primary tasks never emit at the same time.
//
// Each tick the task computes a snapshot from wall-clock elapsed time and
// hands it to the Emitter as one batch. Playback and linear sweeps finish
// with an exact end snapshot; orbital sweeps run until stopped.
package animation
