package playback

import (
	"sync"
	"time"

	"github.com/haivivi/clacker/pkg/audio/pcm"
)

// Headless pulls one period of frames from a Producer every period of wall
// clock time without any audio device. Frames are passed to a sink, if any,
// and discarded.
type Headless struct {
	producer Producer
	period   time.Duration
	buf      []int16
	sink     func([]int16)

	mu      sync.Mutex
	started bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// HeadlessOption configures a Headless driver.
type HeadlessOption func(*Headless)

// WithSink passes every produced period to fn on the driver goroutine. fn
// must not retain the slice.
func WithSink(fn func([]int16)) HeadlessOption {
	return func(h *Headless) {
		h.sink = fn
	}
}

// NewHeadless returns a driver producing f-formatted periods of the given
// length from p.
func NewHeadless(p Producer, f pcm.Format, period time.Duration, opts ...HeadlessOption) *Headless {
	frames := max(f.FramesInDuration(period), 1)
	h := &Headless{
		producer: p,
		period:   period,
		buf:      make([]int16, frames*f.Channels()),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start starts the driver goroutine.
func (h *Headless) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.started {
		return ErrStarted
	}
	h.started = true
	go h.loop()
	return nil
}

func (h *Headless) loop() {
	defer close(h.done)
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()
	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.producer.ProduceInto(h.buf)
			if h.sink != nil {
				h.sink(h.buf)
			}
		}
	}
}

// Close stops the driver and waits for the goroutine to exit.
func (h *Headless) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	started := h.started
	close(h.stop)
	h.mu.Unlock()
	if started {
		<-h.done
	}
	return nil
}
