// Package api implements the HTTP REST API and WebSocket server of the
// motion studio.
//
// This package provides:
//   - REST endpoints for timeline editing, undo and redo
//   - intent endpoints that start playback, flicker, transitions and sequences
//   - preset CRUD over the preset registry
//   - a WebSocket hub streaming every emitted sample (motion.sample),
//     sequence progress (sequence.step) and task ends (task.finished)
//   - middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// The API is a thin layer over studio.Studio. Intents answer 202 Accepted
// as soon as the task is started; what the task does arrives on the
// WebSocket. There is no authentication: the server binds to localhost
// and serves a single operator.
//
// # Graceful Degradation
//
// The server runs without MQTT or InfluxDB. Samples still stream over the
// WebSocket and /health reports the missing dependency as degraded.
package api
