// Package graph implements the named-node registry and buffer-fill loop
// that composes nodes under a shared sample clock. Topology edits
// (Add/Connect/Disconnect/SetOutput) run on the control thread; Fill runs
// on the audio driver's callback thread.
package graph

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"synthcore/internal/node"
	"synthcore/internal/sampleclock"
)

// Sentinel errors for the fatal conditions control-thread operations can
// report. The render path never surfaces errors; see package docs.
var (
	ErrDeviceUnavailable = errors.New("graph: no output device available")
	ErrUnsupportedFormat = errors.New("graph: unsupported sample format")
	ErrBankConstruction  = errors.New("graph: wavetable bank construction failed")
	ErrInvalidSampleRate = errors.New("graph: sample rate must be positive")
)

// SampleFormat names a driver output format the Fill routine converts to.
// Fill's destination slice is always []float32, but the values it writes
// are scaled and offset to the numeric range of the named format; a driver
// that wants FormatI16 or FormatU16 on the wire truncates each written
// value to an integer and packs it, rather than reading it as [-1,1].
type SampleFormat int

const (
	FormatF32 SampleFormat = iota
	FormatI16
	FormatU16
)

// GraphOption configures Start.
type GraphOption func(*startConfig)

type startConfig struct {
	bufferSize int
}

// WithBufferSize sets a callback buffer size in Start's configuration.
// Start does not retain the value and no driver reads it, so the driver's
// own buffer size is not overridden.
func WithBufferSize(frames int) GraphOption {
	return func(c *startConfig) { c.bufferSize = frames }
}

// Graph owns named nodes, the current output node, and the shared sample
// clock, and drives the audio-callback buffer-fill routine.
type Graph struct {
	mu     sync.Mutex // guards nodes and output against concurrent control-thread edits
	nodes  map[string]node.Node
	output atomic.Pointer[node.Node] // published atomically so Fill never sees a torn node

	clock   *sampleclock.Clock
	playing atomic.Bool

	logger *log.Logger
}

// New creates a Graph with no nodes and no output, driven by a SampleClock
// at sampleRate.
func New(sampleRate float64, logger *log.Logger) (*Graph, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Graph{
		nodes:  make(map[string]node.Node),
		clock:  sampleclock.New(sampleRate),
		logger: logger,
	}, nil
}

// Clock returns the graph's shared sample clock.
func (g *Graph) Clock() *sampleclock.Clock { return g.clock }

// Add inserts or overwrites the named node.
func (g *Graph) Add(name string, n node.Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[name] = n
}

// Connect duplicates the node at fromName and attaches that duplicate to
// toName under inputName. A missing endpoint is a logged no-op. Because
// the child is a snapshot rather than a back-reference, this precludes
// cyclic evaluation by construction.
func (g *Graph) Connect(fromName, toName, inputName string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, ok := g.nodes[fromName]
	if !ok {
		g.logger.Printf("graph: connect: no such node %q", fromName)
		return
	}
	to, ok := g.nodes[toName]
	if !ok {
		g.logger.Printf("graph: connect: no such node %q", toName)
		return
	}
	to.AttachInput(inputName, from.Duplicate())
}

// Disconnect detaches inputName on toName.
func (g *Graph) Disconnect(toName, inputName string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	to, ok := g.nodes[toName]
	if !ok {
		g.logger.Printf("graph: disconnect: no such node %q", toName)
		return
	}
	to.DetachInput(inputName)
}

// SetOutput replaces the output with a duplicate of the named node. A
// missing name is a logged no-op. The swap is published atomically: the
// audio thread observes either the old or the new output in full, never a
// torn view.
func (g *Graph) SetOutput(name string) {
	g.mu.Lock()
	n, ok := g.nodes[name]
	g.mu.Unlock()

	if !ok {
		g.logger.Printf("graph: set_output: no such node %q", name)
		return
	}
	dup := n.Duplicate()
	g.output.Store(&dup)
}

// Start flips the playing flag so Fill begins producing audio. opts are
// applied to a local configuration that is then discarded: a buffer size
// given through them is neither stored nor enforced, and Fill accepts any
// buffer length.
func (g *Graph) Start(opts ...GraphOption) error {
	cfg := startConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	g.playing.Store(true)
	return nil
}

// Stop flips the playing flag off; subsequent Fill calls return
// equilibrium without advancing the clock.
func (g *Graph) Stop() {
	g.playing.Store(false)
}

// Playing reports whether the graph is currently producing audio.
func (g *Graph) Playing() bool { return g.playing.Load() }

// Fill is the driver-callback entry point: given a buffer sized for
// frames*channels samples in format T, it writes equilibrium (and leaves
// the clock untouched) while stopped, or otherwise reads base from the
// clock, produces one sample per frame from the output node, converts to
// T by saturating conversion, replicates it across channels, and advances
// the clock by frames. It never allocates, blocks, or returns an error.
func (g *Graph) Fill(dst []float32, channels int, format SampleFormat) {
	frames := len(dst) / channels
	if frames == 0 {
		return
	}

	if !g.playing.Load() {
		equilibrium := equilibriumValue(format)
		for i := range dst[:frames*channels] {
			dst[i] = equilibrium
		}
		return
	}

	outPtr := g.output.Load()
	base := g.clock.CurrentSample()

	for i := 0; i < frames; i++ {
		var v float32
		if outPtr != nil {
			v = (*outPtr).Produce(g.clock, base+uint64(i))
		}
		v = saturate(v, format)
		for c := 0; c < channels; c++ {
			dst[i*channels+c] = v
		}
	}

	g.clock.Advance(uint64(frames))
}

// Render is the non-real-time counterpart to Fill: it may allocate and is
// meant for offline rendering (e.g. to a WAV capture), not the audio
// callback path. It always advances the clock, regardless of Playing.
func (g *Graph) Render(frames, channels int) []float32 {
	out := make([]float32, frames*channels)
	outPtr := g.output.Load()
	base := g.clock.CurrentSample()

	for i := 0; i < frames; i++ {
		var v float32
		if outPtr != nil {
			v = (*outPtr).Produce(g.clock, base+uint64(i))
		}
		for c := 0; c < channels; c++ {
			out[i*channels+c] = v
		}
	}
	g.clock.Advance(uint64(frames))
	return out
}

// int16 and uint16 full-scale magnitude; matches the range produced by
// saturate for FormatI16/FormatU16.
const pcm16FullScale = 32767

func equilibriumValue(format SampleFormat) float32 {
	switch format {
	case FormatU16:
		return pcm16FullScale + 1 // midpoint of the unsigned range
	default:
		return 0 // signed and float formats are silent at zero
	}
}

// saturate converts a sample from the core's native [-1,1] float32 range to
// the numeric range of format, clamping out-of-range input. The actual byte
// encoding to i16/u16 (e.g. little-endian packing) is a driver concern (see
// internal/audiodriver); this only produces the converted numeric value,
// still carried in a float32.
func saturate(v float32, format SampleFormat) float32 {
	switch format {
	case FormatF32:
		if v > 1 {
			return 1
		}
		if v < -1 {
			return -1
		}
		return v
	case FormatI16:
		scaled := v * pcm16FullScale
		if scaled > pcm16FullScale {
			return pcm16FullScale
		}
		if scaled < -(pcm16FullScale + 1) {
			return -(pcm16FullScale + 1)
		}
		return scaled
	case FormatU16:
		scaled := v*pcm16FullScale + (pcm16FullScale + 1)
		if scaled > 2*pcm16FullScale+1 {
			return 2*pcm16FullScale + 1
		}
		if scaled < 0 {
			return 0
		}
		return scaled
	default:
		return v
	}
}
