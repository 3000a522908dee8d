// Package polyblep implements the time-domain bandlimited oscillator:
// phase accumulation plus a PolyBLEP correction at waveform discontinuities,
// as an alternative to the wavetable oscillator's table lookup approach.
package polyblep

import (
	"math"

	"synthcore/internal/node"
	"synthcore/internal/parameter"
	"synthcore/internal/sampleclock"
	"synthcore/internal/waveform"
)

const twoPi = math.Pi * 2

// Oscillator is a PolyBLEP-corrected oscillator over one of the four
// waveform kinds.
type Oscillator struct {
	kind          waveform.Kind
	frequency     *parameter.Parameter
	gain          *parameter.Parameter
	phase         float32 // [0, 1)
	triangleState float32
}

// New creates a PolyBLEP oscillator of the given kind, with frequency
// defaulting to 440 Hz (range [0.01, 22050], the Nyquist bound at
// 44.1 kHz; the range does not follow the clock's sample rate) and gain
// defaulting to 1 (range [0,1]).
func New(kind waveform.Kind) *Oscillator {
	return &Oscillator{
		kind:      kind,
		frequency: parameter.New(440, 0.01, 22050),
		gain:      parameter.New(1, 0, 1),
	}
}

// Frequency returns the oscillator's frequency parameter.
func (o *Oscillator) Frequency() *parameter.Parameter { return o.frequency }

// Gain returns the oscillator's gain parameter.
func (o *Oscillator) Gain() *parameter.Parameter { return o.gain }

// Produce implements node.Node.
func (o *Oscillator) Produce(clk *sampleclock.Clock, sample uint64) float32 {
	sampleRate := clk.SampleRate()
	f := o.frequency.ValueAt(sample)
	dt := float32(float64(f) / sampleRate)

	raw := o.renderRaw(dt)

	o.phase += dt
	o.phase = float32(math.Mod(float64(o.phase), 1.0))
	if o.phase < 0 {
		o.phase++
	}

	return raw * o.gain.ValueAt(sample)
}

func (o *Oscillator) renderRaw(dt float32) float32 {
	switch o.kind {
	case waveform.Sine:
		return float32(math.Sin(twoPi * float64(o.phase)))
	case waveform.Square:
		out := float32(1)
		if o.phase >= 0.5 {
			out = -1
		}
		out += polyBLEP(o.phase, dt)
		out -= polyBLEP(wrap(o.phase-0.5), dt)
		return out
	case waveform.Sawtooth:
		out := 2*o.phase - 1
		out -= polyBLEP(o.phase, dt)
		return out
	case waveform.Triangle:
		sq := float32(1)
		if o.phase >= 0.5 {
			sq = -1
		}
		sq += polyBLEP(o.phase, dt)
		sq -= polyBLEP(wrap(o.phase-0.5), dt)
		o.triangleState = 0.999*o.triangleState + sq*(2*dt)
		return o.triangleState
	default:
		return 0
	}
}

func wrap(t float32) float32 {
	if t < 0 {
		return t + 1
	}
	return t
}

// polyBLEP returns the polynomial correction for a step discontinuity at
// phase offset t, given step width dt. Callers add it at each positive
// step and subtract it at each negative step.
func polyBLEP(t, dt float32) float32 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		tp := t / dt
		return 2*tp - tp*tp - 1
	}
	if t > 1-dt {
		tp := (t - 1) / dt
		return tp*tp + 2*tp + 1
	}
	return 0
}

// SetParameter implements node.Node.
func (o *Oscillator) SetParameter(name string, value float32) {
	switch name {
	case "frequency":
		o.frequency.SetValue(value)
	case "gain":
		o.gain.SetValue(value)
	}
}

// AttachInput implements node.Node; PolyBLEPOscillator has no inputs.
func (o *Oscillator) AttachInput(string, node.Node) {}

// DetachInput implements node.Node; PolyBLEPOscillator has no inputs.
func (o *Oscillator) DetachInput(string) {}

// Duplicate returns a copy with its own parameter and phase state.
func (o *Oscillator) Duplicate() node.Node {
	return &Oscillator{
		kind:          o.kind,
		frequency:     o.frequency.Clone(),
		gain:          o.gain.Clone(),
		phase:         o.phase,
		triangleState: o.triangleState,
	}
}
