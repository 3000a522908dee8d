package effectschain

import "math"

// EQ3 is a simple 3-band equalizer stage, split by two one-pole
// crossovers.
type EQ3 struct {
	lowGain  float32
	midGain  float32
	highGain float32
	lpAlpha  float32
	hpAlpha  float32
	lpL, lpR float32
	hpL, hpR float32
}

// NewEQ3 creates a 3-band EQ. lowGain/midGain/highGain are linear gains
// (1.0 = unity); lowFreq/highFreq are the crossover frequencies.
func NewEQ3(sampleRate int, lowGain, midGain, highGain, lowFreq, highFreq float32) *EQ3 {
	lpRC := 1.0 / (2.0 * math.Pi * float64(lowFreq))
	hpRC := 1.0 / (2.0 * math.Pi * float64(highFreq))
	dt := 1.0 / float64(sampleRate)
	return &EQ3{
		lowGain:  lowGain,
		midGain:  midGain,
		highGain: highGain,
		lpAlpha:  float32(dt / (lpRC + dt)),
		hpAlpha:  float32(dt / (hpRC + dt)),
	}
}

func (eq *EQ3) Process(l, r float32) (float32, float32) {
	eq.lpL += eq.lpAlpha * (l - eq.lpL)
	eq.lpR += eq.lpAlpha * (r - eq.lpR)
	lowL, lowR := eq.lpL, eq.lpR

	eq.hpL += eq.hpAlpha * (l - eq.hpL)
	eq.hpR += eq.hpAlpha * (r - eq.hpR)
	highL := l - eq.hpL
	highR := r - eq.hpR

	midL := l - lowL - highL
	midR := r - lowR - highR

	return lowL*eq.lowGain + midL*eq.midGain + highL*eq.highGain,
		lowR*eq.lowGain + midR*eq.midGain + highR*eq.highGain
}

func (eq *EQ3) Reset() {
	eq.lpL, eq.lpR = 0, 0
	eq.hpL, eq.hpR = 0, 0
}

// EQ5 is a 5-band equalizer with runtime-adjustable gains, split at 200Hz,
// 800Hz, 2.5kHz, and 8kHz. Gains are stored as bit-cast float32 atomics so
// a control thread can retune bands while a driver pulls samples.
type EQ5 struct {
	gains  [5]atomicF32
	alphas [4]float32
	lpL    [4]float32
	lpR    [4]float32
}

var eq5Crossovers = [4]float64{200, 800, 2500, 8000}

// NewEQ5 creates a 5-band EQ with all gains at unity.
func NewEQ5(sampleRate int) *EQ5 {
	eq := &EQ5{}
	dt := 1.0 / float64(sampleRate)
	for i, freq := range eq5Crossovers {
		rc := 1.0 / (2.0 * math.Pi * freq)
		eq.alphas[i] = float32(dt / (rc + dt))
	}
	for i := range eq.gains {
		eq.gains[i].store(1.0)
	}
	return eq
}

// SetGain sets the gain for band (0-4); 1.0 = unity, 2.0 = +6dB.
func (eq *EQ5) SetGain(band int, gain float32) {
	if band >= 0 && band < len(eq.gains) {
		eq.gains[band].store(gain)
	}
}

// Gain returns the current gain for band (0-4).
func (eq *EQ5) Gain(band int) float32 {
	if band >= 0 && band < len(eq.gains) {
		return eq.gains[band].load()
	}
	return 1.0
}

func (eq *EQ5) Process(l, r float32) (float32, float32) {
	var bandL, bandR [5]float32
	remL, remR := l, r
	for i := 0; i < 4; i++ {
		eq.lpL[i] += eq.alphas[i] * (remL - eq.lpL[i])
		eq.lpR[i] += eq.alphas[i] * (remR - eq.lpR[i])
		bandL[i] = eq.lpL[i]
		bandR[i] = eq.lpR[i]
		remL -= bandL[i]
		remR -= bandR[i]
	}
	bandL[4] = remL
	bandR[4] = remR

	var outL, outR float32
	for i := 0; i < 5; i++ {
		g := eq.gains[i].load()
		outL += bandL[i] * g
		outR += bandR[i] * g
	}
	return outL, outR
}

func (eq *EQ5) Reset() {
	for i := range eq.lpL {
		eq.lpL[i] = 0
		eq.lpR[i] = 0
	}
}
