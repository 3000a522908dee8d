package wavetablebank

import (
	"math"
	"testing"

	"synthcore/internal/waveform"
)

func TestBuildInvalidSampleRate(t *testing.T) {
	if _, err := Build(waveform.Sine, 0); err == nil {
		t.Error("Build with sampleRate 0 should return an error")
	}
	if _, err := Build(waveform.Sine, -100); err == nil {
		t.Error("Build with negative sampleRate should return an error")
	}
}

func TestBuildProducesMultipleOctaveBands(t *testing.T) {
	b, err := Build(waveform.Sawtooth, 44100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(b.Tables()) < 6 {
		t.Errorf("got %d tables at 44100Hz, want at least 6 octave bands", len(b.Tables()))
	}
}

func TestBoundsAreMonotonicallyIncreasing(t *testing.T) {
	b, err := Build(waveform.Square, 44100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 1; i < len(b.bounds); i++ {
		if b.bounds[i] <= b.bounds[i-1] {
			t.Errorf("bounds[%d]=%f not > bounds[%d]=%f", i, b.bounds[i], i-1, b.bounds[i-1])
		}
	}
}

func TestNormalizationKeepsAmplitudeAtOrBelowOne(t *testing.T) {
	for _, kind := range waveform.All {
		b, err := Build(kind, 44100)
		if err != nil {
			t.Fatalf("Build(%v): %v", kind, err)
		}
		for _, table := range b.Tables() {
			for _, s := range table.Samples {
				if math.Abs(float64(s)) > 1.0001 {
					t.Errorf("%v: sample %f exceeds normalized range", kind, s)
				}
			}
		}
	}
}

func TestGuardSampleMatchesFirstSample(t *testing.T) {
	b, err := Build(waveform.Triangle, 44100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, table := range b.Tables() {
		n := table.Len()
		if table.Samples[n] != table.Samples[0] {
			t.Errorf("guard sample %f != first sample %f", table.Samples[n], table.Samples[0])
		}
	}
}

func TestSelectClampsToLastTable(t *testing.T) {
	b, err := Build(waveform.Sawtooth, 44100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	last := len(b.Tables()) - 1
	if got := b.Select(1e9); got != last {
		t.Errorf("Select(huge freq) = %d, want last table index %d", got, last)
	}
	if got := b.Select(0); got != 0 {
		t.Errorf("Select(0) = %d, want 0 (lowest band)", got)
	}
}

func TestFillSpectrumSineOnlyFirstHarmonic(t *testing.T) {
	spectrum := make([]complex128, 64)
	fillSpectrum(spectrum, 8, waveform.Sine)
	for k, c := range spectrum {
		if k == 1 || k == 63 {
			if real(c) == 0 {
				t.Errorf("sine spectrum bin %d should be non-zero", k)
			}
			continue
		}
		if c != 0 {
			t.Errorf("sine spectrum bin %d should be zero, got %v", k, c)
		}
	}
}

func TestRegistryCachesBanks(t *testing.T) {
	r := &Registry{entries: make(map[key]*Bank)}
	b1, err := r.Get(waveform.Sine, 22050)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b2, err := r.Get(waveform.Sine, 22050)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b1 != b2 {
		t.Error("second Get for the same key should return the cached bank")
	}
}

func TestRegistryInitializeAllCoversEveryKind(t *testing.T) {
	r := &Registry{entries: make(map[key]*Bank)}
	if err := r.InitializeAll(48000); err != nil {
		t.Fatalf("InitializeAll: %v", err)
	}
	if len(r.entries) != len(waveform.All) {
		t.Errorf("got %d cached banks, want %d", len(r.entries), len(waveform.All))
	}
}
