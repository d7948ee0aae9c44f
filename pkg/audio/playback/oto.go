package playback

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/haivivi/clacker/pkg/audio/pcm"
)

// Oto is only allowed one context per process.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoFormat pcm.Format
	otoErr    error
)

func otoContext(f pcm.Format, buffer time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   f.SampleRate(),
			ChannelCount: f.Channels(),
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   buffer,
		})
		if err != nil {
			otoErr = fmt.Errorf("playback: open audio device: %w", err)
			return
		}
		<-ready
		otoCtx, otoFormat = ctx, f
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoFormat != f {
		return nil, fmt.Errorf("playback: audio device already opened as %s", otoFormat)
	}
	return otoCtx, nil
}

// Oto plays a little-endian 16-bit stream, usually a *pcm.Mixer, on the
// default output device.
type Oto struct {
	gate   *gate
	player *oto.Player

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewOto opens the default output device in format f with roughly buffer of
// device latency and prepares a player reading src.
func NewOto(src io.Reader, f pcm.Format, buffer time.Duration) (*Oto, error) {
	ctx, err := otoContext(f, buffer)
	if err != nil {
		return nil, err
	}
	g := &gate{src: src}
	player := ctx.NewPlayer(g)
	player.SetBufferSize(int(f.BytesInDuration(buffer)))
	slog.Debug("audio device opened", "format", f.String(), "buffer", buffer)
	return &Oto{gate: g, player: player}, nil
}

// Start begins playback.
func (o *Oto) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	if o.started {
		return ErrStarted
	}
	o.player.Play()
	o.started = true
	return nil
}

// Close stops playback. After Close returns src is never read again.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.gate.close()
	o.player.Pause()
	return o.player.Close()
}

// gate forwards reads to src until closed. close waits for a read in
// progress to finish.
type gate struct {
	mu     sync.Mutex
	src    io.Reader
	closed bool
}

func (g *gate) Read(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, io.EOF
	}
	return g.src.Read(p)
}

func (g *gate) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}
