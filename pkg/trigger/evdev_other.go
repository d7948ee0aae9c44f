//go:build !linux

package trigger

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoEvdev is returned by Evdev sources on systems without Linux input
// devices.
var ErrNoEvdev = errors.New("trigger: evdev input requires Linux")

// Evdev reads key events from a Linux input event device. On this system it
// always fails; use the Terminal source instead.
type Evdev struct {
	path  string
	keyUp bool
}

// NewEvdev returns a source reading the device at path.
func NewEvdev(path string, keyUp bool) *Evdev {
	return &Evdev{path: path, keyUp: keyUp}
}

// Run returns ErrNoEvdev.
func (e *Evdev) Run(ctx context.Context, emit func(Event)) error {
	return fmt.Errorf("%w: %s", ErrNoEvdev, e.path)
}

// FindKeyboards finds nothing on this system.
func FindKeyboards() ([]Keyboard, error) {
	return nil, nil
}
