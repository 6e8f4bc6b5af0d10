// Package studio is the composition root of the motion core.
//
// A Studio owns the editable timeline and its undo history, the preset
// registry, and the animation scheduler, flicker controller, transition
// engine and sequence orchestrator, all emitting through one sink.Emitter.
// The HTTP API and the CLI drive everything through it.
//
// Timeline edits are whole-timeline replacements recorded in the history,
// so every edit can be undone. Playback takes the timeline as it was when
// playback started.
package studio
