// Package sequence runs scripts: ordered lists of steps that apply
// environments, start animations, flicker and transitions, send raw
// commands and wait.
//
// An Orchestrator owns one task slot. Running a script supersedes the one
// before it. Steps execute strictly in order; a malformed or failing step
// is reported through Options.OnSkip and the script carries on. Waits and
// blocking steps return promptly when the script is stopped, bounded by
// Config.PollInterval.
//
// Scripts decode from JSON or YAML with per-step tolerance: a step that
// cannot be decoded stays in the script and fails validation.
package sequence
