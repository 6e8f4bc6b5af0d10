// Package sink is the output boundary of the animation workers.
//
// Workers never talk to a Sink directly: they call Emitter.Emit, which
// records the snapshot in the StateTracker, calls the Sink once per tick
// with the whole batch, then hands the snapshot to the UI callback inside
// an echo-suppression Scope.
//
// Sinks provided here:
//   - MQTTSink publishes JSON snapshots or console command batches
//   - Recorder writes each snapshot to a time-series store and forwards it
//   - Multi, Func and Discard compose and adapt
//
// Failures are best effort: Emit logs them, wraps them in ErrSink and the
// worker carries on with its next tick.
package sink
