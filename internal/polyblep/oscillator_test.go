package polyblep

import (
	"math"
	"testing"

	"synthcore/internal/sampleclock"
	"synthcore/internal/waveform"
)

func TestPolyBLEPZeroOutsideTransitionWindow(t *testing.T) {
	dt := float32(0.01)
	if got := polyBLEP(0.5, dt); got != 0 {
		t.Errorf("polyBLEP(0.5, %f) = %f, want 0 (outside both transition windows)", dt, got)
	}
}

func TestPolyBLEPZeroDtIsNoOp(t *testing.T) {
	if got := polyBLEP(0.0, 0); got != 0 {
		t.Errorf("polyBLEP(0, 0) = %f, want 0", got)
	}
}

func TestProduceStaysWithinUnitRange(t *testing.T) {
	clk := sampleclock.New(44100)
	for _, kind := range waveform.All {
		osc := New(kind)
		osc.Frequency().SetValue(220)
		for i := uint64(0); i < 1000; i++ {
			v := osc.Produce(clk, i)
			if math.Abs(float64(v)) > 1.01 {
				t.Errorf("%v: Produce(%d) = %f, exceeds unit range", kind, i, v)
			}
		}
	}
}

func TestSineMatchesPhaseAccumulator(t *testing.T) {
	clk := sampleclock.New(44100)
	osc := New(waveform.Sine)
	osc.Frequency().SetValue(100)
	osc.Gain().SetValue(1)

	v0 := osc.Produce(clk, 0)
	if math.Abs(float64(v0)) > 0.0001 {
		t.Errorf("sine at phase 0 should be ~0, got %f", v0)
	}
}

func TestDuplicateIsIndependent(t *testing.T) {
	clk := sampleclock.New(44100)
	osc := New(waveform.Square)
	osc.Frequency().SetValue(440)

	dup := osc.Duplicate()
	osc.SetParameter("frequency", 880)

	if got := dup.(*Oscillator).Frequency().ValueAt(0); got != 440 {
		t.Errorf("duplicate frequency = %f, want 440 (unaffected by original mutation)", got)
	}

	// both still produce valid samples independently
	_ = osc.Produce(clk, 0)
	_ = dup.Produce(clk, 0)
}

func TestSetParameterUnknownNameIsNoOp(t *testing.T) {
	osc := New(waveform.Sine)
	before := osc.Frequency().ValueAt(0)
	osc.SetParameter("bogus", 12345)
	if got := osc.Frequency().ValueAt(0); got != before {
		t.Errorf("unknown parameter name mutated frequency: got %f, want %f", got, before)
	}
}
