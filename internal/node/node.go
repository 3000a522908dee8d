// Package node defines the capability set every graph node implements.
// The concrete node family (PolyBLEPOscillator, WavetableOscillator,
// GainProcessor) is closed; Node lives in its own package so those
// packages can satisfy it without importing internal/graph.
package node

import "synthcore/internal/sampleclock"

// Node is the polymorphic capability set every graph node implements.
// Produce is called from the audio thread and must not allocate or block.
// The remaining methods are control-thread only.
type Node interface {
	// Produce returns one sample for the given absolute sample index.
	Produce(clock *sampleclock.Clock, sample uint64) float32

	// SetParameter sets a named scalar parameter (e.g. "frequency", "gain")
	// to value, clamped to that parameter's range.
	SetParameter(name string, value float32)

	// AttachInput attaches node under the given input name, replacing any
	// existing input with that name. Nodes without named inputs ignore it.
	AttachInput(name string, child Node)

	// DetachInput removes the named input, if present.
	DetachInput(name string)

	// Duplicate returns a deep-parameter-wise copy: parameter state (value
	// and event list) and DSP state are copied; shared immutable resources
	// (e.g. a wavetable bank) are retained by reference.
	Duplicate() Node
}
