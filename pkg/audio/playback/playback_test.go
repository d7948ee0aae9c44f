package playback

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haivivi/clacker/pkg/audio/pcm"
)

type countingProducer struct {
	calls  atomic.Int64
	active atomic.Bool
}

func (p *countingProducer) ProduceInto(dst []int16) int {
	if !p.active.CompareAndSwap(false, true) {
		panic("concurrent ProduceInto")
	}
	defer p.active.Store(false)
	p.calls.Add(1)
	for i := range dst {
		dst[i] = 1
	}
	return len(dst)
}

func TestHeadlessProducesPeriods(t *testing.T) {
	p := &countingProducer{}
	var mu sync.Mutex
	var lens []int
	h := NewHeadless(p, pcm.L16Stereo48K, 5*time.Millisecond, WithSink(func(buf []int16) {
		mu.Lock()
		lens = append(lens, len(buf))
		mu.Unlock()
	}))
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	if err := h.Start(); !errors.Is(err, ErrStarted) {
		t.Fatalf("second Start = %v, want ErrStarted", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}

	calls := p.calls.Load()
	if calls < 3 {
		t.Fatalf("calls = %d, want at least 3", calls)
	}
	time.Sleep(20 * time.Millisecond)
	if p.calls.Load() != calls {
		t.Fatal("producer called after Close returned")
	}
	mu.Lock()
	defer mu.Unlock()
	for _, n := range lens {
		if n != 480 {
			t.Fatalf("period of %d samples, want 480", n)
		}
	}
}

func TestHeadlessCloseWithoutStart(t *testing.T) {
	h := NewHeadless(&countingProducer{}, pcm.L16Mono16K, time.Millisecond)
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Start(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Start after Close = %v, want ErrClosed", err)
	}
}

func TestHeadlessDrivesMixer(t *testing.T) {
	mx := pcm.NewMixer(pcm.L16Stereo48K)
	a, err := pcm.NewAsset("tick", pcm.L16Stereo48K, make([]int16, 2*480))
	if err != nil {
		t.Fatal(err)
	}
	if err := mx.Spawn(a, 1); err != nil {
		t.Fatal(err)
	}
	h := NewHeadless(mx, pcm.L16Stereo48K, 2*time.Millisecond)
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for mx.Stats().Finished == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Close()
	if mx.Stats().Finished != 1 {
		t.Fatalf("stats = %+v", mx.Stats())
	}
}

func TestGate(t *testing.T) {
	g := &gate{src: bytes.NewReader([]byte{1, 2, 3, 4})}
	p := make([]byte, 2)
	if n, err := g.Read(p); n != 2 || err != nil {
		t.Fatalf("Read = (%d, %v)", n, err)
	}
	g.close()
	if _, err := g.Read(p); err != io.EOF {
		t.Fatalf("Read after close = %v, want io.EOF", err)
	}
}
