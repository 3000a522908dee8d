package effectschain

import (
	"math"
	"sync/atomic"
)

// atomicF32 is a float32 stored as bit-cast atomic.Uint32, for lock-free
// control-thread writes read by the audio thread.
type atomicF32 struct {
	bits atomic.Uint32
}

func (a *atomicF32) store(v float32) { a.bits.Store(math.Float32bits(v)) }
func (a *atomicF32) load() float32   { return math.Float32frombits(a.bits.Load()) }
