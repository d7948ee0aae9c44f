package pcm

import (
	"math"
	"sync/atomic"
)

// AtomicFloat32 is a float32 that may be read and written concurrently. The
// zero value holds 0.
type AtomicFloat32 struct {
	bits atomic.Uint32
}

// Load atomically loads and returns the float32 value.
func (af *AtomicFloat32) Load() float32 {
	return math.Float32frombits(af.bits.Load())
}

// Store atomically stores the given float32 value.
func (af *AtomicFloat32) Store(val float32) {
	af.bits.Store(math.Float32bits(val))
}
