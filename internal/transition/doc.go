// Package transition crossfades the current property state to a target
// snapshot.
//
// The start state is read from the tracker once, when the transition
// begins. Each tick blends every target property with a smoothstep curve;
// properties outside the target are not touched. A natural finish emits
// the exact target, a cancelled one stops where it is.
package transition
