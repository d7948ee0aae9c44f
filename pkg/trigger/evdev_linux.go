//go:build linux

package trigger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/holoplot/go-evdev"
)

// Evdev reads key events from a Linux input event device such as
// /dev/input/event3. The device is not grabbed, so other programs keep
// receiving the keys. Reading usually requires membership of the input group.
type Evdev struct {
	path  string
	keyUp bool
}

// NewEvdev returns a source reading the device at path. Key releases are
// reported only if keyUp is set.
func NewEvdev(path string, keyUp bool) *Evdev {
	return &Evdev{path: path, keyUp: keyUp}
}

// Run reads the device until ctx is done or the device goes away.
func (e *Evdev) Run(ctx context.Context, emit func(Event)) error {
	dev, err := evdev.Open(e.path)
	if err != nil {
		return fmt.Errorf("trigger: open %s: %w", e.path, err)
	}
	name, _ := dev.Name()
	slog.Info("reading key events", "device", e.path, "name", name)

	stop := context.AfterFunc(ctx, func() { dev.Close() })
	defer func() {
		if stop() {
			dev.Close()
		}
	}()

	err = e.read(dev, emit)
	if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return fmt.Errorf("trigger: read %s: %w", e.path, err)
}

type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
}

// read forwards key events from r until it fails.
func (e *Evdev) read(r eventReader, emit func(Event)) error {
	for {
		ev, err := r.ReadOne()
		if err != nil {
			return err
		}
		if out, ok := e.convert(ev); ok {
			emit(out)
		}
	}
}

func (e *Evdev) convert(ev *evdev.InputEvent) (Event, bool) {
	if ev.Type != evdev.EV_KEY {
		return Event{}, false
	}
	if ev.Value == valueUp && !e.keyUp {
		return Event{}, false
	}
	category, ok := Categorize(uint16(ev.Code), ev.Value)
	if !ok {
		return Event{}, false
	}
	return Event{
		Category: category,
		Code:     uint16(ev.Code),
		Time:     time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000),
	}, true
}

// FindKeyboards lists the input devices that can type, in event number
// order. Devices the caller may not open are skipped.
func FindKeyboards() ([]Keyboard, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("trigger: list input devices: %w", err)
	}
	return findKeyboards(paths, openCapabilities), nil
}

type capabilities interface {
	CapableTypes() []evdev.EvType
	CapableEvents(t evdev.EvType) []evdev.EvCode
	Close() error
}

func openCapabilities(path string) (capabilities, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func findKeyboards(paths []evdev.InputPath, open func(string) (capabilities, error)) []Keyboard {
	var found []Keyboard
	for _, p := range paths {
		dev, err := open(p.Path)
		if err != nil {
			slog.Debug("skip input device", "path", p.Path, "error", err)
			continue
		}
		ok := isKeyboard(dev)
		dev.Close()
		if ok {
			found = append(found, Keyboard{Path: p.Path, Name: p.Name})
		}
	}
	slices.SortStableFunc(found, func(a, b Keyboard) int {
		return cmp.Or(cmp.Compare(len(a.Path), len(b.Path)), strings.Compare(a.Path, b.Path))
	})
	return found
}

// isKeyboard reports whether dev emits EV_KEY events for letters, Enter and
// Space. Power buttons, lid switches and mice also emit EV_KEY, but only for
// their own few codes.
func isKeyboard(dev capabilities) bool {
	if !slices.Contains(dev.CapableTypes(), evdev.EV_KEY) {
		return false
	}
	keys := dev.CapableEvents(evdev.EV_KEY)
	for _, k := range []evdev.EvCode{evdev.KEY_A, evdev.KEY_ENTER, evdev.KEY_SPACE} {
		if !slices.Contains(keys, k) {
			return false
		}
	}
	return true
}
