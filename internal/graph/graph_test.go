package graph

import (
	"bytes"
	"log"
	"testing"

	"synthcore/internal/node"
	"synthcore/internal/sampleclock"
)

type constNode struct{ value float32 }

func (c *constNode) Produce(*sampleclock.Clock, uint64) float32 { return c.value }
func (c *constNode) SetParameter(string, float32)               {}
func (c *constNode) AttachInput(string, node.Node)              {}
func (c *constNode) DetachInput(string)                         {}
func (c *constNode) Duplicate() node.Node                       { return &constNode{value: c.value} }

func newTestGraph(t *testing.T) (*Graph, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	g, err := New(44100, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, &buf
}

func TestNewRejectsNonPositiveSampleRate(t *testing.T) {
	if _, err := New(0, nil); err != ErrInvalidSampleRate {
		t.Errorf("New(0, nil) error = %v, want ErrInvalidSampleRate", err)
	}
	if _, err := New(-1, nil); err != ErrInvalidSampleRate {
		t.Errorf("New(-1, nil) error = %v, want ErrInvalidSampleRate", err)
	}
}

func TestFillWritesSilenceWhenStoppedAndDoesNotAdvanceClock(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 0.7})
	g.SetOutput("c")
	// never Start()

	dst := make([]float32, 8)
	for i := range dst {
		dst[i] = 99 // poison value to confirm Fill actually writes
	}
	g.Fill(dst, 1, FormatF32)

	for i, v := range dst {
		if v != 0 {
			t.Errorf("dst[%d] = %f, want 0 while stopped", i, v)
		}
	}
	if g.Clock().CurrentSample() != 0 {
		t.Errorf("clock advanced to %d while stopped, want 0", g.Clock().CurrentSample())
	}
}

func TestFillProducesFromOutputAndAdvancesClock(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 0.5})
	g.SetOutput("c")
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dst := make([]float32, 4*2) // 4 frames, 2 channels
	g.Fill(dst, 2, FormatF32)

	for i, v := range dst {
		if v != 0.5 {
			t.Errorf("dst[%d] = %f, want 0.5", i, v)
		}
	}
	if g.Clock().CurrentSample() != 4 {
		t.Errorf("CurrentSample() = %d, want 4", g.Clock().CurrentSample())
	}
}

func TestFillSaturatesOutOfRangeSamples(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 5.0})
	g.SetOutput("c")
	g.Start()

	dst := make([]float32, 2)
	g.Fill(dst, 1, FormatF32)

	if dst[0] != 1 {
		t.Errorf("dst[0] = %f, want 1 (saturated)", dst[0])
	}
}

func TestFillConvertsToI16Range(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 0.5})
	g.SetOutput("c")
	g.Start()

	dst := make([]float32, 2)
	g.Fill(dst, 1, FormatI16)

	want := float32(0.5 * 32767)
	if dst[0] != want {
		t.Errorf("dst[0] = %f, want %f", dst[0], want)
	}
}

func TestFillSaturatesI16Range(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 5.0})
	g.SetOutput("c")
	g.Start()

	dst := make([]float32, 2)
	g.Fill(dst, 1, FormatI16)

	if dst[0] != 32767 {
		t.Errorf("dst[0] = %f, want 32767 (saturated)", dst[0])
	}
}

func TestFillConvertsToU16RangeAroundMidpoint(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 0})
	g.SetOutput("c")
	g.Start()

	dst := make([]float32, 2)
	g.Fill(dst, 1, FormatU16)

	if dst[0] != 32768 {
		t.Errorf("dst[0] = %f, want 32768 (unsigned midpoint)", dst[0])
	}
}

func TestFillSaturatesU16Range(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: -5.0})
	g.SetOutput("c")
	g.Start()

	dst := make([]float32, 2)
	g.Fill(dst, 1, FormatU16)

	if dst[0] != 0 {
		t.Errorf("dst[0] = %f, want 0 (saturated low)", dst[0])
	}
}

func TestFillEquilibriumIsZeroForSignedFormatsWhileStopped(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 1})
	g.SetOutput("c")

	dst := make([]float32, 2)
	g.Fill(dst, 1, FormatI16)

	if dst[0] != 0 {
		t.Errorf("dst[0] = %f, want 0 equilibrium for FormatI16 while stopped", dst[0])
	}
}

func TestFillEquilibriumIsMidpointForU16WhileStopped(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 1})
	g.SetOutput("c")

	dst := make([]float32, 2)
	g.Fill(dst, 1, FormatU16)

	if dst[0] != 32768 {
		t.Errorf("dst[0] = %f, want 32768 equilibrium for FormatU16 while stopped", dst[0])
	}
}

func TestConnectMissingNodeIsLoggedNoOp(t *testing.T) {
	g, buf := newTestGraph(t)
	g.Add("only", &constNode{value: 1})

	g.Connect("missing", "only", "in")
	if buf.Len() == 0 {
		t.Error("Connect with a missing node should log")
	}
}

func TestDisconnectMissingNodeIsLoggedNoOp(t *testing.T) {
	g, buf := newTestGraph(t)
	g.Disconnect("missing", "in")
	if buf.Len() == 0 {
		t.Error("Disconnect with a missing node should log")
	}
}

func TestSetOutputMissingNodeIsLoggedNoOp(t *testing.T) {
	g, buf := newTestGraph(t)
	g.SetOutput("missing")
	if buf.Len() == 0 {
		t.Error("SetOutput with a missing node should log")
	}

	// output remains nil; Fill should produce silence even while playing
	g.Start()
	dst := make([]float32, 4)
	g.Fill(dst, 1, FormatF32)
	for i, v := range dst {
		if v != 0 {
			t.Errorf("dst[%d] = %f, want 0 (no output set)", i, v)
		}
	}
}

func TestRenderAlwaysAdvancesClockRegardlessOfPlaying(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Add("c", &constNode{value: 0.25})
	g.SetOutput("c")
	// never Start()

	out := g.Render(10, 1)
	if len(out) != 10 {
		t.Fatalf("Render returned %d samples, want 10", len(out))
	}
	for _, v := range out {
		if v != 0.25 {
			t.Errorf("Render sample = %f, want 0.25", v)
		}
	}
	if g.Clock().CurrentSample() != 10 {
		t.Errorf("CurrentSample() = %d, want 10 (Render advances regardless of Playing)", g.Clock().CurrentSample())
	}
}
