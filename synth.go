// Package synth is the public control surface of the bandlimited audio
// synthesis core: a directed graph of Nodes driven by a shared sample
// clock, with sample-accurate parameter automation.
//
// A typical graph wires one or more oscillators into a gain stage and
// sets the gain as the graph's output:
//
//	g, err := synth.NewGraph(44100)
//	osc := synth.NewPolyBLEPOscillator(synth.Square)
//	amp := synth.NewGainProcessor()
//	g.Add("osc", osc)
//	g.Add("amp", amp)
//	g.Connect("osc", "amp", "in")
//	g.SetOutput("amp")
//	g.Start()
//
// The graph is then driven either by internal/audiodriver against a
// live output device, or offline via (*Graph).Render.
package synth

import (
	"synthcore/internal/gainproc"
	"synthcore/internal/graph"
	"synthcore/internal/node"
	"synthcore/internal/parameter"
	"synthcore/internal/polyblep"
	"synthcore/internal/sampleclock"
	"synthcore/internal/waveform"
	"synthcore/internal/wavetablebank"
	"synthcore/internal/wavetableosc"
)

// Waveform kinds shared by both oscillator implementations.
const (
	Sine     = waveform.Sine
	Square   = waveform.Square
	Sawtooth = waveform.Sawtooth
	Triangle = waveform.Triangle
)

// WaveformKind selects the waveform family an oscillator renders.
type WaveformKind = waveform.Kind

// SampleFormat selects how Fill encodes its output buffer.
type SampleFormat = graph.SampleFormat

const (
	FormatF32 = graph.FormatF32
	FormatI16 = graph.FormatI16
	FormatU16 = graph.FormatU16
)

// Sentinel errors. ErrDeviceUnavailable and ErrUnsupportedFormat are
// wrapped by internal/audiodriver when opening an output stream;
// ErrInvalidSampleRate is returned by NewGraph. ErrBankConstruction is
// declared but not returned: bank construction failures from
// NewWavetableOscillator and InitializeBanks come back as the
// wavetablebank package's own errors. Missing nodes or inputs and
// out-of-range parameters are handled by logging or clamping rather than
// by returning an error.
var (
	ErrDeviceUnavailable = graph.ErrDeviceUnavailable
	ErrUnsupportedFormat = graph.ErrUnsupportedFormat
	ErrBankConstruction  = graph.ErrBankConstruction
	ErrInvalidSampleRate = graph.ErrInvalidSampleRate
)

// Node is the capability set every graph member satisfies: it can
// produce a sample, accept named parameter and input wiring, and
// duplicate itself so Connect can publish an immutable snapshot of its
// upstream without sharing mutable state across graph edits.
type Node = node.Node

// SampleClock is the monotonic per-graph sample counter shared by every
// Node reachable from a graph's output.
type SampleClock = sampleclock.Clock

// Parameter is a sample-accurate automatable control value with linear
// and exponential ramp scheduling.
type Parameter = parameter.Parameter

// Graph is a directed graph of Nodes evaluated once per output sample.
type Graph = graph.Graph

// GraphOption configures a Graph at Start.
type GraphOption = graph.GraphOption

// PolyBLEPOscillator is a time-domain bandlimited oscillator using
// polynomial band-limited step correction at discontinuities.
type PolyBLEPOscillator = polyblep.Oscillator

// WavetableOscillator is a frequency-domain bandlimited oscillator that
// selects among a mipmapped ladder of precomputed wavetables by
// frequency, built once per waveform kind and sample rate.
type WavetableOscillator = wavetableosc.Oscillator

// GainProcessor sums its attached inputs and scales the result by a
// single automatable gain parameter.
type GainProcessor = gainproc.Processor

// NewGraph creates an empty graph clocked at sampleRate samples per
// second. sampleRate must be positive.
func NewGraph(sampleRate float64) (*Graph, error) {
	return graph.New(sampleRate, nil)
}

// WithBufferSize passes a callback block size to Start. Start does not
// retain it, so it does not change the block size a driver uses.
func WithBufferSize(frames int) GraphOption {
	return graph.WithBufferSize(frames)
}

// NewPolyBLEPOscillator creates a PolyBLEP oscillator rendering kind,
// with frequency defaulting to 440Hz and gain to unity.
func NewPolyBLEPOscillator(kind WaveformKind) *PolyBLEPOscillator {
	return polyblep.New(kind)
}

// NewWavetableOscillator creates a wavetable oscillator rendering kind
// at clock's sample rate, building (or reusing) that kind's mipmapped
// wavetable bank on demand.
func NewWavetableOscillator(kind WaveformKind, clock *SampleClock) (*WavetableOscillator, error) {
	return wavetableosc.New(kind, clock)
}

// NewGainProcessor creates a gain processor with no inputs and unity
// gain.
func NewGainProcessor() *GainProcessor {
	return gainproc.New()
}

// NewParameter creates a Parameter with the given default and clamp
// range.
func NewParameter(def, min, max float32) *Parameter {
	return parameter.New(def, min, max)
}

// InitializeBanks pre-builds the wavetable bank for every waveform kind
// at clock's sample rate, so the first NewWavetableOscillator call for
// each kind does not pay FFT construction cost.
func InitializeBanks(clock *SampleClock) error {
	return wavetablebank.Global().InitializeAll(clock.SampleRate())
}
