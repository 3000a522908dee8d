// Package sampleclock provides the shared sample counter that drives the
// audio graph. A Clock is read from both the control thread and the audio
// thread; only the rendering loop advances it.
package sampleclock

import "sync/atomic"

// Clock is an atomic sample counter paired with a fixed sample rate.
type Clock struct {
	sampleRate float64
	current    atomic.Uint64
}

// New creates a Clock at the given sample rate, starting at sample 0.
// sampleRate must be positive; the zero Clock is not usable.
func New(sampleRate float64) *Clock {
	return &Clock{sampleRate: sampleRate}
}

// SampleRate returns the clock's fixed sample rate in Hz.
func (c *Clock) SampleRate() float64 {
	return c.sampleRate
}

// CurrentSample returns the absolute sample index the clock has reached.
// Safe to call from any thread.
func (c *Clock) CurrentSample() uint64 {
	return c.current.Load()
}

// Advance moves the clock forward by n samples. Only the rendering loop
// should call this. Wraps silently at 2^64, which is tolerated.
func (c *Clock) Advance(n uint64) {
	c.current.Add(n)
}

// Reset sets the clock back to sample 0. Intended for offline rendering
// and test setup, not for use while a graph is playing.
func (c *Clock) Reset() {
	c.current.Store(0)
}
