// Package audiodriver adapts a Graph's Fill routine to a real audio output
// stream via github.com/hajimehoshi/ebiten/v2/audio (backed by
// ebitengine/oto). This is the reference driver implementation of the
// core's external driver contract; embedding layers are free to supply
// their own instead.
package audiodriver

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"synthcore/internal/effectschain"
	"synthcore/internal/graph"
)

// reader turns repeated Graph.Fill calls into the byte stream
// ebiten/v2/audio expects: interleaved little-endian float32 stereo. If
// chain is non-nil, every stereo frame is run through it after Fill and
// before encoding.
type reader struct {
	mu    sync.Mutex
	g     *graph.Graph
	chain *effectschain.Chain
	buf   []float32
}

func newReader(g *graph.Graph, chain *effectschain.Chain) *reader {
	return &reader{g: g, chain: chain}
}

const channels = 2

func (r *reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / (4 * channels)
	if frames == 0 {
		return 0, nil
	}
	need := frames * channels
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]

	r.g.Fill(r.buf, channels, graph.FormatF32)

	if r.chain != nil {
		for i := 0; i < frames; i++ {
			l, rr := r.chain.Process(r.buf[i*channels], r.buf[i*channels+1])
			r.buf[i*channels], r.buf[i*channels+1] = l, rr
		}
	}

	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	return need * 4, nil
}

func (r *reader) Close() error { return nil }

// Player wraps an ebiten/v2/audio.Player driving a Graph.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if context == nil {
		return nil, graph.ErrDeviceUnavailable
	}
	if contextRate != sampleRate {
		return nil, fmt.Errorf("%w: context already opened at %d Hz (requested %d Hz)", graph.ErrDeviceUnavailable, contextRate, sampleRate)
	}
	return context, nil
}

// New opens a stereo float32 output stream at sampleRate and returns a
// Player that pulls samples from g via Fill. chain may be nil; if given, it
// post-processes every stereo frame before playback.
func New(sampleRate int, g *graph.Graph, chain *effectschain.Chain) (*Player, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	rd := newReader(g, chain)
	pl, err := ctx.NewPlayerF32(rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrUnsupportedFormat, err)
	}
	return &Player{player: pl, reader: rd}, nil
}

// Play starts audio output; Play has no effect until the underlying graph
// is also started with Graph.Start.
func (p *Player) Play() { p.player.Play() }

// Pause pauses audio output without closing the stream.
func (p *Player) Pause() { p.player.Pause() }

// IsPlaying reports whether the output stream is actively pulling samples.
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Stop pauses and releases the underlying player and reader.
func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
