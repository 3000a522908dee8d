// Package parameter implements a sample-accurate automated scalar: a
// current value plus an ordered schedule of ramp events, sampled by
// absolute sample index on the audio thread while the control thread
// appends or clears events.
package parameter

import (
	"math"
	"sync"
	"sync/atomic"
)

const epsilon = 1e-5

// RampKind selects the interpolation shape of a scheduled ramp.
type RampKind int

const (
	Linear RampKind = iota
	Exponential
)

// RampEvent describes a scheduled transition from startValue to endValue,
// beginning at startSample and lasting durationSamples.
type RampEvent struct {
	StartValue      float32
	EndValue        float32
	StartSample     uint64
	DurationSamples uint64
	Kind            RampKind
}

// Parameter is the single source of truth for an automated scalar. current
// is stored as float64 bits behind an atomic for lock-free reads between
// schedule calls; events is protected by a sync.RWMutex since appends from
// the control thread are rare relative to per-sample reads from the audio
// thread. ValueAt holds the read lock only to copy the slice header; a
// reader can still block while a writer holds or waits for the lock.
type Parameter struct {
	current atomic.Uint64 // math.Float64bits(float32 value widened to float64)

	def, min, max float32

	mu     sync.RWMutex
	events []RampEvent
}

// New creates a Parameter with the given default and clamps the default
// into [min, max] before storing it as both current and default.
func New(def, min, max float32) *Parameter {
	d := clamp(def, min, max)
	p := &Parameter{def: d, min: min, max: max}
	p.storeCurrent(d)
	return p
}

func (p *Parameter) storeCurrent(v float32) {
	p.current.Store(math.Float64bits(float64(v)))
}

func (p *Parameter) loadCurrent() float32 {
	return float32(math.Float64frombits(p.current.Load()))
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetValue clamps v to [min,max] and atomically replaces current. Any
// pending scheduled events are left in place and continue to override
// once the renderer reaches their start sample.
func (p *Parameter) SetValue(v float32) {
	p.storeCurrent(clamp(v, p.min, p.max))
}

// ScheduleLinear appends a linear ramp from the parameter's current value
// to target, starting at anchorSample and lasting durationS seconds at
// sampleRate samples/sec.
func (p *Parameter) ScheduleLinear(target float32, durationS float64, anchorSample uint64, sampleRate float64) {
	p.schedule(target, durationS, anchorSample, sampleRate, Linear)
}

// ScheduleExponential appends an exponential ramp. Both the start value
// (the parameter's current value at scheduling time) and target are
// lifted to at least epsilon so the ratio end/start stays finite.
func (p *Parameter) ScheduleExponential(target float32, durationS float64, anchorSample uint64, sampleRate float64) {
	p.schedule(target, durationS, anchorSample, sampleRate, Exponential)
}

func (p *Parameter) schedule(target float32, durationS float64, anchorSample uint64, sampleRate float64, kind RampKind) {
	target = clamp(target, p.min, p.max)
	start := p.loadCurrent()
	if kind == Exponential {
		if start < epsilon {
			start = epsilon
		}
		if target < epsilon {
			target = epsilon
		}
	}
	durationSamples := uint64(math.Round(durationS * sampleRate))
	if durationSamples < 1 {
		durationSamples = 1
	}
	ev := RampEvent{
		StartValue:      start,
		EndValue:        target,
		StartSample:     anchorSample,
		DurationSamples: durationSamples,
		Kind:            kind,
	}
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

// CancelScheduled empties the event list. current is left unchanged.
func (p *Parameter) CancelScheduled() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}

// Reset restores current to the default and clears all scheduled events.
func (p *Parameter) Reset() {
	p.CancelScheduled()
	p.storeCurrent(p.def)
}

// Clone returns an independent copy of the parameter: current value and a
// snapshot of the pending event list. Used by node Duplicate to give a
// connected/output node its own parameter state.
func (p *Parameter) Clone() *Parameter {
	p.mu.RLock()
	events := make([]RampEvent, len(p.events))
	copy(events, p.events)
	p.mu.RUnlock()

	dup := &Parameter{def: p.def, min: p.min, max: p.max, events: events}
	dup.storeCurrent(p.loadCurrent())
	return dup
}

// Default, Min and Max expose the parameter's fixed range.
func (p *Parameter) Default() float32 { return p.def }
func (p *Parameter) Min() float32     { return p.min }
func (p *Parameter) Max() float32     { return p.max }

// ValueAt is the on-render evaluator. It visits events in insertion order
// and returns the value determined by the last event satisfying
// sample >= event.StartSample: in-progress events are interpolated,
// completed events resolve to EndValue, and if no event has started yet
// the parameter's plain current value is returned.
func (p *Parameter) ValueAt(sample uint64) float32 {
	p.mu.RLock()
	events := p.events
	p.mu.RUnlock()

	var active *RampEvent
	for i := range events {
		if sample >= events[i].StartSample {
			active = &events[i]
		}
	}
	if active == nil {
		return p.loadCurrent()
	}

	elapsed := sample - active.StartSample
	if elapsed >= active.DurationSamples {
		return active.EndValue
	}

	t := float64(elapsed) / float64(active.DurationSamples)
	switch active.Kind {
	case Exponential:
		start := float64(active.StartValue)
		end := float64(active.EndValue)
		if start < epsilon {
			start = epsilon
		}
		if end < epsilon {
			end = epsilon
		}
		return float32(start * math.Pow(end/start, t))
	default: // Linear
		return active.StartValue + (active.EndValue-active.StartValue)*float32(t)
	}
}
