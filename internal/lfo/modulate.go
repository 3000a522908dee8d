package lfo

import "synthcore/internal/parameter"

// ParameterSource pairs an LFO with the base value it modulates around and
// the Parameter it drives. Advance advances the LFO by frames samples and
// writes base+modulation into the parameter via SetValue, leaving any
// scheduled ramp events on the parameter untouched until they start.
type ParameterSource struct {
	LFO    LFO
	Base   float32
	Target *parameter.Parameter
}

// NewParameterSource creates a modulation source for target, oscillating
// around base with the given depth, rate, and waveform.
func NewParameterSource(target *parameter.Parameter, base float32, depth, rateHz float64, waveform int) *ParameterSource {
	s := &ParameterSource{Base: base, Target: target}
	s.LFO.Set(depth, rateHz, waveform)
	return s
}

// Advance samples the LFO frames times at sampleRate and pushes the final
// base+modulation value to the target parameter. Intended to be called
// once per audio callback block, not once per sample.
func (s *ParameterSource) Advance(frames int, sampleRate float64) {
	if s.Target == nil || !s.LFO.Active() {
		return
	}
	var mod float64
	for i := 0; i < frames; i++ {
		mod = s.LFO.Sample(sampleRate)
	}
	s.Target.SetValue(s.Base + float32(mod))
}
