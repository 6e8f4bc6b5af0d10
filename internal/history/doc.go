// Package history provides linear undo/redo over timeline replacements.
//
// Editing operations never mutate a timeline: they produce a new one and
// record an Action holding both sides. Because timelines are immutable and
// share structure, an Action costs two slice headers.
package history
