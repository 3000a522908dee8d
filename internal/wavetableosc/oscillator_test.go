package wavetableosc

import (
	"math"
	"testing"

	"synthcore/internal/sampleclock"
	"synthcore/internal/waveform"
)

func TestNewSelectsInitialTableOnFirstProduce(t *testing.T) {
	clk := sampleclock.New(44100)
	osc, err := New(waveform.Sawtooth, clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	osc.Frequency().SetValue(220)

	if osc.lastFreq != -1 {
		t.Fatalf("lastFreq should start at -1 before the first Produce")
	}
	_ = osc.Produce(clk, 0)
	if osc.lastFreq != 220 {
		t.Errorf("lastFreq after Produce = %f, want 220", osc.lastFreq)
	}
}

func TestProduceStaysWithinNormalizedRange(t *testing.T) {
	clk := sampleclock.New(44100)
	for _, kind := range waveform.All {
		osc, err := New(kind, clk)
		if err != nil {
			t.Fatalf("New(%v): %v", kind, err)
		}
		osc.Frequency().SetValue(440)
		for i := uint64(0); i < 2000; i++ {
			v := osc.Produce(clk, i)
			if math.Abs(float64(v)) > 1.01 {
				t.Errorf("%v: Produce(%d) = %f, exceeds normalized range", kind, i, v)
			}
		}
	}
}

func TestInterpolationKernelsAgreeAtSampleBoundaries(t *testing.T) {
	clk := sampleclock.New(44100)
	osc, err := New(waveform.Sine, clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	osc.Frequency().SetValue(100)

	osc.SetInterpolation(Linear)
	vLinear := osc.Produce(clk, 0)

	osc2, _ := New(waveform.Sine, clk)
	osc2.Frequency().SetValue(100)
	osc2.SetInterpolation(Cubic)
	vCubic := osc2.Produce(clk, 0)

	if math.Abs(float64(vLinear-vCubic)) > 0.05 {
		t.Errorf("Linear and Cubic disagree too much at phase 0: %f vs %f", vLinear, vCubic)
	}
}

func TestDuplicateSharesBankButIndependentState(t *testing.T) {
	clk := sampleclock.New(44100)
	osc, err := New(waveform.Square, clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	osc.Frequency().SetValue(330)

	dup := osc.Duplicate().(*Oscillator)
	if dup.bank != osc.bank {
		t.Error("duplicate should share the same bank pointer")
	}

	osc.SetParameter("frequency", 660)
	if got := dup.Frequency().ValueAt(0); got != 330 {
		t.Errorf("duplicate frequency = %f, want 330 (unaffected by original mutation)", got)
	}
}

func TestFrequencyRangeBoundedByNyquist(t *testing.T) {
	clk := sampleclock.New(8000)
	osc, err := New(waveform.Sine, clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	osc.Frequency().SetValue(100000) // far above Nyquist, should clamp
	if got := osc.Frequency().ValueAt(0); got > 4000 {
		t.Errorf("frequency %f exceeds Nyquist bound for 8000Hz clock", got)
	}
}
