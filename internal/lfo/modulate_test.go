package lfo

import (
	"testing"

	"synthcore/internal/parameter"
)

func TestParameterSourceAdvanceWritesBasePlusModulation(t *testing.T) {
	p := parameter.New(440, 0, 22050)
	src := NewParameterSource(p, 440, 10, 1.0, WaveSquare)

	src.Advance(1, 100) // first sample, phase 0, square = +1 * depth 10

	got := p.ValueAt(0)
	want := float32(450)
	if diff := got - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("ValueAt(0) = %f, want %f", got, want)
	}
}

func TestParameterSourceInactiveLeavesTargetUnchanged(t *testing.T) {
	p := parameter.New(440, 0, 22050)
	src := NewParameterSource(p, 440, 0, 1.0, WaveTriangle) // zero depth -> inactive

	src.Advance(5, 100)

	if got := p.ValueAt(0); got != 440 {
		t.Errorf("ValueAt(0) = %f, want 440 (unchanged)", got)
	}
}
