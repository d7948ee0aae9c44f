// Package trigger turns keyboard activity into sound categories and hands
// them to the mixer.
//
// A Source produces Events; a Dispatcher resolves each Event's category to an
// asset and spawns it. Sources run on their own goroutine and never touch the
// audio goroutine.
package trigger

import (
	"context"
	"time"

	"github.com/haivivi/clacker/pkg/soundpack"
)

// Event is one key transition.
type Event struct {
	Category string    // e.g. "enter-down"
	Code     uint16    // Linux key code, 0 when unknown
	Time     time.Time // when the transition happened
}

// Keyboard is an input device that can type.
type Keyboard struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
}

// Source produces key events until ctx is done or the input ends. emit is
// called from the source goroutine and must not block for long.
type Source interface {
	Run(ctx context.Context, emit func(Event)) error
}

// Linux input key codes that have their own category.
const (
	KeyBackspace = 14
	KeyEnter     = 28
	KeySpace     = 57
	KeyKPEnter   = 96
)

// Key event values.
const (
	valueUp     = 0
	valueDown   = 1
	valueRepeat = 2
)

// Categorize maps a key code and its transition value (1 down, 0 up) to a
// sound category. Auto-repeat and unknown values report false.
func Categorize(code uint16, value int32) (string, bool) {
	var down bool
	switch value {
	case valueDown:
		down = true
	case valueUp:
	default:
		return "", false
	}
	switch code {
	case KeyEnter, KeyKPEnter:
		return pick(down, soundpack.EnterDown, soundpack.EnterUp), true
	case KeyBackspace:
		return pick(down, soundpack.BackspaceDown, soundpack.BackspaceUp), true
	case KeySpace:
		return pick(down, soundpack.SpaceDown, soundpack.SpaceUp), true
	}
	return pick(down, soundpack.GenericDown, soundpack.GenericUp), true
}

func pick(down bool, d, u string) string {
	if down {
		return d
	}
	return u
}
