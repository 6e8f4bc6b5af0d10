// Package preset stores named environments, animations and sequences.
//
// A Registry serves the builtin presets alongside the user's own, which
// persist through a Repository as JSON documents in the presets table.
// Builtin presets have stable IDs and cannot be changed or deleted; user
// presets cannot take a name already in use within their kind.
package preset
