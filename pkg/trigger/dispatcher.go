package trigger

import (
	"log/slog"
	"sync/atomic"

	"github.com/haivivi/clacker/pkg/audio/pcm"
)

// Picker resolves a category to an asset and gain.
type Picker interface {
	Pick(category string) (asset *pcm.Asset, gain float32, ok bool)
}

// Spawner starts playback of an asset.
type Spawner interface {
	Spawn(asset *pcm.Asset, gain float32) error
}

// Dispatcher plays the sound for each Event it handles.
type Dispatcher struct {
	picker  Picker
	spawner Spawner

	handled atomic.Uint64
	dropped atomic.Uint64
}

// NewDispatcher returns a Dispatcher picking from p and spawning on s.
func NewDispatcher(p Picker, s Spawner) *Dispatcher {
	return &Dispatcher{picker: p, spawner: s}
}

// Handle spawns a sound for ev. Events with no sound and spawns the mixer
// refuses are counted as dropped; neither stops the caller.
func (d *Dispatcher) Handle(ev Event) {
	d.handled.Add(1)
	asset, gain, ok := d.picker.Pick(ev.Category)
	if !ok {
		d.dropped.Add(1)
		slog.Debug("no sound for category", "category", ev.Category)
		return
	}
	if err := d.spawner.Spawn(asset, gain); err != nil {
		d.dropped.Add(1)
		slog.Debug("sound dropped", "category", ev.Category, "asset", asset.Name(), "error", err)
	}
}

// Handled returns the number of events seen.
func (d *Dispatcher) Handled() uint64 {
	return d.handled.Load()
}

// Dropped returns the number of events that produced no sound.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}
