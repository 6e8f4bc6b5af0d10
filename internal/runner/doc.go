// Package runner runs exclusive, cancellable background tasks.
//
// A Slot holds at most one task. Each task moves through
//
//	idle -> running -> completed | cancelled
//
// and exposes a Done channel that closes after its completion callback has
// run. Starting a new task on a Slot cancels the current one and waits for
// it for at most the grace period, so a slow predecessor delays its
// successor by a bounded amount and never blocks it.
//
// Cancellation is cooperative: task bodies check their context at tick or
// step boundaries and return ctx.Err().
package runner
