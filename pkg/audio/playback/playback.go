// Package playback drives a mixer from an audio clock.
//
// A Driver pulls frames from the mixer on its own goroutine, either from a
// real output device (Oto) or from a wall-clock ticker (Headless). Closing a
// Driver quiesces it: once Close returns the mixer is never read again, so
// the assets it references may be released.
package playback

import (
	"errors"

	"github.com/haivivi/clacker/pkg/audio/pcm"
)

// ErrStarted is returned by Start on a driver that is already running.
var ErrStarted = errors.New("playback: already started")

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("playback: closed")

// Driver is an audio clock pulling frames from a mixer.
type Driver interface {
	// Start begins pulling frames.
	Start() error
	// Close stops pulling frames and waits until any pull in progress has
	// returned.
	Close() error
}

// Producer produces interleaved frames into dst and returns the number of
// frames written. *pcm.Mixer implements Producer.
type Producer interface {
	ProduceInto(dst []int16) int
}

var _ Producer = (*pcm.Mixer)(nil)
