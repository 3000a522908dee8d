// Package wavetablebank builds and caches the per-waveform, per-sample-rate
// mipmapped wavetable banks used by the bandlimited wavetable oscillator.
// Each bank is a ladder of single-cycle tables, one per octave band, built
// once by inverse-FFT synthesis from a harmonic spectrum and never mutated
// afterward.
package wavetablebank

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"synthcore/internal/waveform"
)

const (
	baseFreq     = 20.0 // Hz
	oversample   = 2
	minTableSize = 64
	nyquistShare = 3.0 // harmonics must stay below sampleRate / (nyquistShare * baseFreq)
)

// Table is one octave band's single-cycle waveform, with one guard sample
// appended (samples[len-1] == samples[0]) so interpolation can read one
// past the last real sample without a wrap branch.
type Table struct {
	Samples           []float32 // length N+1, guard sample at the end
	Mask              int       // N-1, N is the power-of-two table length
	TopFreqNormalised float32   // highest playback ratio (cycles/sample) safe for this table
}

// Len returns the number of real (non-guard) samples in the table.
func (t Table) Len() int { return t.Mask + 1 }

// Bank is an immutable, shared ladder of tables for one (waveform, sample
// rate) pair, ordered by ascending TopFreqNormalised, with a parallel
// vector of absolute-Hz upper bounds for binary search.
type Bank struct {
	tables []Table
	bounds []float64 // absolute Hz, monotonically increasing
}

// Tables returns the bank's ladder of octave-band tables.
func (b *Bank) Tables() []Table { return b.tables }

// Select returns the smallest table index i with bounds[i] >= freq, clamped
// to the last table. O(log tables).
func (b *Bank) Select(freq float64) int {
	i := sort.SearchFloat64s(b.bounds, freq)
	if i >= len(b.tables) {
		return len(b.tables) - 1
	}
	return i
}

// Build constructs a new Bank for kind at sampleRate by inverse-FFT
// synthesis: for each octave band, fill a real, odd-symmetric spectrum
// with harmonics 1..harmonics per kind, run a forward FFT over it, and
// take the imaginary part of the result as the time-domain table. Tables
// are then normalized so the bank-wide maximum absolute sample is 1.
func Build(kind waveform.Kind, sampleRate float64) (*Bank, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavetablebank: invalid sample rate %v", sampleRate)
	}

	maxHarmonics := int(math.Floor(sampleRate / (nyquistShare * baseFreq)))
	if maxHarmonics < 1 {
		maxHarmonics = 1
	}
	tableLen := nextPow2(maxHarmonics * 2 * oversample)
	if tableLen < minTableSize {
		tableLen = minTableSize
	}

	fft := fourier.NewCmplxFFT(tableLen)

	var tables []Table
	harmonics := maxHarmonics
	topFreq := baseFreq * 2.0 / sampleRate
	for harmonics >= 1 {
		table, err := buildTable(fft, tableLen, harmonics, kind, float32(topFreq))
		if err != nil {
			return nil, fmt.Errorf("wavetablebank: %w", err)
		}
		tables = append(tables, table)
		harmonics >>= 1
		topFreq *= 2.0
	}

	normalize(tables)

	bounds := make([]float64, len(tables))
	for i, t := range tables {
		bounds[i] = float64(t.TopFreqNormalised) * sampleRate
	}

	return &Bank{tables: tables, bounds: bounds}, nil
}

func buildTable(fft *fourier.CmplxFFT, n, harmonics int, kind waveform.Kind, topFreq float32) (Table, error) {
	spectrum := make([]complex128, n)
	fillSpectrum(spectrum, harmonics, kind)

	coeffs := fft.Coefficients(nil, spectrum)

	samples := make([]float32, n+1)
	for i, c := range coeffs {
		samples[i] = float32(imag(c))
	}
	samples[n] = samples[0] // guard sample

	return Table{
		Samples:           samples,
		Mask:              n - 1,
		TopFreqNormalised: topFreq,
	}, nil
}

// fillSpectrum fills the real part of bins 1..harmonics and their mirror
// at n-k with the per-kind harmonic amplitude; everything else stays zero.
// This Hermitian-odd layout is what turns a forward complex FFT's
// imaginary output into the desired time-domain waveform.
func fillSpectrum(spectrum []complex128, harmonics int, kind waveform.Kind) {
	n := len(spectrum)
	switch kind {
	case waveform.Sawtooth:
		for k := 1; k <= harmonics; k++ {
			amp := 1.0 / float64(k)
			spectrum[k] = complex(amp, 0)
			spectrum[n-k] = complex(-amp, 0)
		}
	case waveform.Square:
		for k := 1; k <= harmonics; k += 2 {
			amp := 1.0 / float64(k)
			spectrum[k] = complex(amp, 0)
			spectrum[n-k] = complex(-amp, 0)
		}
	case waveform.Triangle:
		sign := 1.0
		for k := 1; k <= harmonics; k += 2 {
			amp := sign / float64(k*k)
			spectrum[k] = complex(amp, 0)
			spectrum[n-k] = complex(-amp, 0)
			sign = -sign
		}
	case waveform.Sine:
		if harmonics >= 1 {
			spectrum[1] = complex(1, 0)
			spectrum[n-1] = complex(-1, 0)
		}
	}
}

// normalize divides every sample in every table by the bank-wide maximum
// absolute value, so the whole bank's output range is <= 1 while inter-band
// amplitude relations are preserved.
func normalize(tables []Table) {
	var globalMax float32
	for _, t := range tables {
		for _, s := range t.Samples {
			a := s
			if a < 0 {
				a = -a
			}
			if a > globalMax {
				globalMax = a
			}
		}
	}
	if globalMax == 0 {
		return
	}
	for i := range tables {
		for j, s := range tables[i].Samples {
			tables[i].Samples[j] = s / globalMax
		}
	}
}

func nextPow2(v int) int {
	if v < 1 {
		return 1
	}
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// key identifies a registry entry: waveform kind plus sample rate rounded
// to the nearest integer Hz.
type key struct {
	kind       waveform.Kind
	sampleRate int
}

// Registry is a process-wide cache mapping (waveform kind, sample rate) to
// a shared, immutable Bank. Entries are created on demand and never
// evicted; lookups are safe for concurrent use and construction of a
// missing entry is serialised.
type Registry struct {
	mu      sync.Mutex
	entries map[key]*Bank
}

// global is the process-wide bank registry used by oscillator construction.
var global = &Registry{entries: make(map[key]*Bank)}

// Global returns the process-wide bank registry.
func Global() *Registry { return global }

// Get returns the cached bank for (kind, sampleRate), building it if this
// is the first request for that key.
func (r *Registry) Get(kind waveform.Kind, sampleRate float64) (*Bank, error) {
	k := key{kind: kind, sampleRate: int(math.Round(sampleRate))}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.entries[k]; ok {
		return b, nil
	}
	b, err := Build(kind, sampleRate)
	if err != nil {
		return nil, err
	}
	r.entries[k] = b
	return b, nil
}

// InitializeAll pre-warms banks for every waveform kind at sampleRate.
func (r *Registry) InitializeAll(sampleRate float64) error {
	for _, k := range waveform.All {
		if _, err := r.Get(k, sampleRate); err != nil {
			return err
		}
	}
	return nil
}
