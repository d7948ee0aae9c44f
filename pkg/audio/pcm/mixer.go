package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/haivivi/clacker/pkg/buffer"
)

// MaxGain is the largest gain accepted by Spawn and SetGain.
const MaxGain = 16

const (
	defaultQueueSize = 256
	defaultMaxVoices = 64
)

var (
	// ErrInvalidAsset is returned by Spawn for a nil asset, or one whose
	// format differs from the mixer output format.
	ErrInvalidAsset = errors.New("pcm/mixer: invalid asset")
	// ErrInvalidGain is returned for a gain that is NaN, infinite, negative
	// or greater than MaxGain.
	ErrInvalidGain = errors.New("pcm/mixer: invalid gain")
	// ErrQueueFull is returned by Spawn when the spawn queue has no room. The
	// caller decides whether to drop the sound or retry.
	ErrQueueFull = errors.New("pcm/mixer: spawn queue full")
	// ErrClosed is returned by Spawn after Close.
	ErrClosed = errors.New("pcm/mixer: closed")
)

// MixerOption is an option for configuring a Mixer.
type MixerOption interface {
	apply(*Mixer)
}

type maxVoicesOption struct {
	n int
}

func (o maxVoicesOption) apply(mx *Mixer) {
	mx.maxVoices = max(o.n, 0)
}

// WithMaxVoices limits the number of simultaneously playing voices. When the
// limit is reached the oldest voice is retired to make room for a new one.
// Zero disables the limit, in which case the live list may grow during a
// Produce call. Defaults to 64.
func WithMaxVoices(n int) MixerOption {
	return maxVoicesOption{n: n}
}

type queueSizeOption struct {
	n int
}

func (o queueSizeOption) apply(mx *Mixer) {
	if o.n > 0 {
		mx.queueSize = o.n
	}
}

// WithQueueSize sets the capacity of the spawn queue, which bounds how many
// Spawn calls may land between two Produce calls. Defaults to 256.
func WithQueueSize(n int) MixerOption {
	return queueSizeOption{n: n}
}

type bufferFramesOption struct {
	n int
}

func (o bufferFramesOption) apply(mx *Mixer) {
	mx.bufferFrames = max(o.n, 0)
}

// WithBufferFrames preallocates scratch space for Produce calls of up to n
// frames so the first calls do not allocate.
func WithBufferFrames(n int) MixerOption {
	return bufferFramesOption{n: n}
}

type gainOption struct {
	gain float32
}

func (o gainOption) apply(mx *Mixer) {
	if validGain(o.gain) {
		mx.gain.Store(o.gain)
	}
}

// WithGain sets the initial master gain. Out-of-range values are ignored.
func WithGain(gain float32) MixerOption {
	return gainOption{gain: gain}
}

// Mixer sums any number of overlapping one-shot voices into a single
// interleaved 16-bit stream.
//
// Two roles share a Mixer. Any goroutine may call Spawn; it only pushes onto
// a lock-free bounded queue and never waits. One goroutine at a time, usually
// the audio device callback, calls Produce, ProduceInto or Read. That
// goroutine alone owns the live voices: it drains the queue at the start of
// each call, advances cursors and removes finished voices. No lock is shared
// between the two roles.
type Mixer struct {
	format       Format
	maxVoices    int
	queueSize    int
	bufferFrames int

	gain   AtomicFloat32
	closed atomic.Bool
	busy   atomic.Bool

	// Spawn calls between their closed check and their push.
	spawning atomic.Int64

	pending *buffer.Queue[Voice]

	// Owned by the producing goroutine.
	live []Voice
	acc  []int64
	out  []int16

	stats mixerStats
}

// NewMixer creates a Mixer producing the given format. It panics if the
// format is invalid.
func NewMixer(format Format, opts ...MixerOption) *Mixer {
	if !format.Valid() {
		panic("pcm: invalid audio format")
	}
	mx := &Mixer{
		format:    format,
		maxVoices: defaultMaxVoices,
		queueSize: defaultQueueSize,
	}
	mx.gain.Store(1)
	for _, opt := range opts {
		opt.apply(mx)
	}
	mx.pending = buffer.NewQueue[Voice](mx.queueSize)

	liveCap := mx.maxVoices
	if liveCap == 0 {
		liveCap = defaultMaxVoices
	}
	mx.live = make([]Voice, 0, liveCap)
	if n := mx.bufferFrames * format.Channels(); n > 0 {
		mx.acc = make([]int64, n)
		mx.out = make([]int16, n)
	}
	return mx
}

// Output returns the output format of the mixer.
func (mx *Mixer) Output() Format {
	return mx.format
}

// Spawn schedules asset to play from its start at the given gain. The voice
// is picked up by the next Produce call. Spawn never blocks and is safe to
// call from any goroutine, concurrently with Produce.
func (mx *Mixer) Spawn(asset *Asset, gain float32) error {
	mx.spawning.Add(1)
	defer mx.spawning.Add(-1)
	if mx.closed.Load() {
		return ErrClosed
	}
	if asset == nil {
		mx.stats.rejected.Add(1)
		return fmt.Errorf("%w: nil", ErrInvalidAsset)
	}
	if asset.format != mx.format {
		mx.stats.rejected.Add(1)
		return fmt.Errorf("%w: %q is %s, mixer is %s", ErrInvalidAsset, asset.name, asset.format, mx.format)
	}
	if !validGain(gain) {
		mx.stats.rejected.Add(1)
		return fmt.Errorf("%w: %v", ErrInvalidGain, gain)
	}
	if !mx.pending.TryPush(Voice{asset: asset, gain: gain}) {
		mx.stats.dropped.Add(1)
		return ErrQueueFull
	}
	mx.stats.spawned.Add(1)
	return nil
}

// SpawnDefault is Spawn at unity gain.
func (mx *Mixer) SpawnDefault(asset *Asset) error {
	return mx.Spawn(asset, 1)
}

// SetGain sets the master gain applied on top of every voice gain. It takes
// effect from the next Produce call.
func (mx *Mixer) SetGain(gain float32) error {
	if !validGain(gain) {
		return fmt.Errorf("%w: %v", ErrInvalidGain, gain)
	}
	mx.gain.Store(gain)
	return nil
}

// Gain returns the master gain.
func (mx *Mixer) Gain() float32 {
	return mx.gain.Load()
}

// Close stops accepting new voices. Voices already spawned keep playing on
// later Produce calls, and Read reports io.EOF once they have all finished.
// A Spawn that returned nil is always played before that EOF, even if it
// raced with Close. The playback driver must be stopped before the assets are
// released.
func (mx *Mixer) Close() error {
	mx.closed.Store(true)
	return nil
}

// Produce mixes the next frames frames and returns them in a newly allocated
// buffer of frames*channels samples owned by the caller. Produce(0) returns
// an empty buffer and leaves every voice untouched.
func (mx *Mixer) Produce(frames int) []int16 {
	if frames <= 0 {
		return []int16{}
	}
	out := make([]int16, frames*mx.format.Channels())
	mx.ProduceInto(out)
	return out
}

// ProduceInto mixes as many whole frames as fit in dst and returns the number
// of frames written. Trailing samples that do not form a whole frame are left
// untouched. It does not allocate once the scratch buffers have grown to the
// largest request seen.
//
// ProduceInto, Produce and Read must not be called concurrently with each
// other; doing so panics.
func (mx *Mixer) ProduceInto(dst []int16) int {
	ch := mx.format.Channels()
	n := len(dst) - len(dst)%ch
	if n == 0 {
		return 0
	}
	mx.acquire()
	defer mx.busy.Store(false)
	mx.produce(dst[:n])
	return n / ch
}

// Read implements io.Reader for playback drivers that pull little-endian
// bytes. It fills as many whole frames as fit in p. After Close, Read
// returns io.EOF once no voices remain.
func (mx *Mixer) Read(p []byte) (int, error) {
	fb := mx.format.FrameBytes()
	frames := len(p) / fb
	if frames == 0 {
		return 0, nil
	}
	if mx.closed.Load() && mx.spawning.Load() == 0 && mx.stats.live.Load() == 0 && mx.pending.Len() == 0 {
		return 0, io.EOF
	}

	mx.acquire()
	defer mx.busy.Store(false)

	n := frames * mx.format.Channels()
	if len(mx.out) < n {
		mx.out = make([]int16, n)
		mx.stats.growths.Add(1)
	}
	out := mx.out[:n]
	mx.produce(out)
	for i, s := range out {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(s))
	}
	return frames * fb, nil
}

func (mx *Mixer) acquire() {
	if !mx.busy.CompareAndSwap(false, true) {
		panic("pcm/mixer: concurrent Produce")
	}
}

// produce runs one mixing pass over len(dst) interleaved samples.
func (mx *Mixer) produce(dst []int16) {
	mx.drain()
	mx.stats.calls.Add(1)
	mx.stats.frames.Add(uint64(len(dst) / mx.format.Channels()))

	if len(mx.live) == 0 {
		clear(dst)
		return
	}

	acc := mx.accumulator(len(dst))
	clear(acc)
	master := mx.gain.Load()
	for i := range mx.live {
		mx.live[i].mixInto(acc, master)
	}
	mx.prune()

	if c := clip(dst, acc); c > 0 {
		mx.stats.clipped.Add(uint64(c))
	}
}

// drain moves spawned voices into the live list. It takes at most one queue
// capacity worth of voices per call so a spawn storm cannot stretch a
// Produce call without bound.
func (mx *Mixer) drain() {
	for range mx.pending.Cap() {
		v, ok := mx.pending.TryPop()
		if !ok {
			break
		}
		mx.admit(v)
	}
	mx.stats.live.Store(int64(len(mx.live)))
}

func (mx *Mixer) admit(v Voice) {
	if mx.maxVoices > 0 && len(mx.live) >= mx.maxVoices {
		// The live list is kept in spawn order, so the oldest voice is first.
		copy(mx.live, mx.live[1:])
		mx.live[len(mx.live)-1] = Voice{}
		mx.live = mx.live[:len(mx.live)-1]
		mx.stats.stolen.Add(1)
	}
	mx.live = append(mx.live, v)
}

// prune removes finished voices, keeping the rest in spawn order.
func (mx *Mixer) prune() {
	kept := mx.live[:0]
	for _, v := range mx.live {
		if v.done() {
			mx.stats.finished.Add(1)
			continue
		}
		kept = append(kept, v)
	}
	clear(mx.live[len(kept):])
	mx.live = kept
	mx.stats.live.Store(int64(len(kept)))
}

func (mx *Mixer) accumulator(n int) []int64 {
	if len(mx.acc) < n {
		mx.acc = make([]int64, n)
		mx.stats.growths.Add(1)
	}
	return mx.acc[:n]
}

func validGain(g float32) bool {
	f := float64(g)
	return !math.IsNaN(f) && f >= 0 && f <= MaxGain
}
