// Package wavcapture offline-renders a graph to a 32-bit float WAV file,
// for bouncing a graph's output outside of the realtime audio driver.
package wavcapture

import (
	"encoding/binary"
	"math"

	"synthcore/internal/effectschain"
	"synthcore/internal/graph"
)

// RenderWAV renders seconds of audio from g at channels channel count and
// encodes it as an IEEE-float WAV file. If chain is non-nil and channels
// is 2, every stereo frame is run through it before encoding.
func RenderWAV(g *graph.Graph, seconds float64, channels int, chain *effectschain.Chain) []byte {
	frames := int(g.Clock().SampleRate() * seconds)
	samples := g.Render(frames, channels)
	if chain != nil && channels == 2 {
		for i := 0; i < frames; i++ {
			l, r := chain.Process(samples[i*2], samples[i*2+1])
			samples[i*2], samples[i*2+1] = l, r
		}
	}
	return EncodeWAVFloat32LE(samples, int(g.Clock().SampleRate()), channels)
}

// EncodeWAVFloat32LE wraps interleaved float32 samples in a minimal
// IEEE-float WAV container.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3) // WAVE_FORMAT_IEEE_FLOAT
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
