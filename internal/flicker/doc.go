// Package flicker modulates one scalar property, normally sun strength,
// with a repeating waveform.
//
// The Controller has its own task slot, so a flicker runs alongside the
// primary animation. Starting a flicker supersedes the previous one. Every
// flicker reads its baseline from the tracked state when it starts and
// writes that baseline back exactly once when it stops.
//
// Waveforms: Pulse, Strobe, Faulty, Storm, Heartbeat and Candle. With
// Smooth set, on and off toggles become linear fades of FadeSteps steps.
package flicker
