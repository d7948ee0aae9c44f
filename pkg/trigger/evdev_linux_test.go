//go:build linux

package trigger

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/holoplot/go-evdev"

	"github.com/haivivi/clacker/pkg/soundpack"
)

// scriptedDevice replays events, then fails with err.
type scriptedDevice struct {
	events []evdev.InputEvent
	err    error
}

func (d *scriptedDevice) ReadOne() (*evdev.InputEvent, error) {
	if len(d.events) == 0 {
		return nil, d.err
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return &ev, nil
}

func keyEvent(typ evdev.EvType, code evdev.EvCode, value int32, sec, usec int64) evdev.InputEvent {
	return evdev.InputEvent{
		Time:  syscall.NsecToTimeval(sec*int64(time.Second) + usec*int64(time.Microsecond)),
		Type:  typ,
		Code:  code,
		Value: value,
	}
}

func keyScript() []evdev.InputEvent {
	return []evdev.InputEvent{
		keyEvent(evdev.EV_MSC, evdev.MSC_SCAN, 458756, 1, 0),
		keyEvent(evdev.EV_KEY, evdev.KEY_A, 1, 1, 500),
		keyEvent(evdev.EV_SYN, evdev.SYN_REPORT, 0, 1, 500),
		keyEvent(evdev.EV_KEY, evdev.KEY_A, 2, 1, 900),
		keyEvent(evdev.EV_KEY, evdev.KEY_A, 0, 2, 0),
		keyEvent(evdev.EV_KEY, evdev.KEY_ENTER, 1, 3, 0),
		keyEvent(evdev.EV_KEY, evdev.KEY_ENTER, 0, 3, 250000),
	}
}

func TestEvdevRead(t *testing.T) {
	tests := []struct {
		name  string
		keyUp bool
		want  []string
	}{
		{"with key up", true, []string{soundpack.GenericDown, soundpack.GenericUp, soundpack.EnterDown, soundpack.EnterUp}},
		{"down only", false, []string{soundpack.GenericDown, soundpack.EnterDown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Event
			e := NewEvdev("", tt.keyUp)
			err := e.read(&scriptedDevice{events: keyScript(), err: io.EOF}, func(ev Event) { got = append(got, ev) })
			if !errors.Is(err, io.EOF) {
				t.Fatalf("read = %v, want io.EOF", err)
			}
			if !slices.Equal(categories(got), tt.want) {
				t.Fatalf("categories = %v, want %v", categories(got), tt.want)
			}
			if got[0].Code != uint16(evdev.KEY_A) || !got[0].Time.Equal(time.Unix(1, 500000)) {
				t.Fatalf("first event = %+v", got[0])
			}
		})
	}
}

func TestEvdevKeyCodesMatchKernel(t *testing.T) {
	for _, c := range []struct {
		ours   uint16
		kernel evdev.EvCode
	}{
		{KeyBackspace, evdev.KEY_BACKSPACE},
		{KeyEnter, evdev.KEY_ENTER},
		{KeySpace, evdev.KEY_SPACE},
		{KeyKPEnter, evdev.KEY_KPENTER},
	} {
		if c.ours != uint16(c.kernel) {
			t.Errorf("key code %d, kernel has %d", c.ours, c.kernel)
		}
	}
}

func TestEvdevRunMissingDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event99")
	err := NewEvdev(path, true).Run(context.Background(), func(Event) {})
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("err = %v, want an error naming %s", err, path)
	}
}

type fakeInput struct {
	types  []evdev.EvType
	keys   []evdev.EvCode
	closed *int
}

func (d fakeInput) CapableTypes() []evdev.EvType { return d.types }

func (d fakeInput) CapableEvents(t evdev.EvType) []evdev.EvCode {
	if t == evdev.EV_KEY {
		return d.keys
	}
	return nil
}

func (d fakeInput) Close() error {
	*d.closed++
	return nil
}

func TestFindKeyboards(t *testing.T) {
	var closed int
	keyboard := []evdev.EvCode{evdev.KEY_ESC, evdev.KEY_A, evdev.KEY_ENTER, evdev.KEY_SPACE, evdev.KEY_Z}
	devices := map[string]fakeInput{
		"/dev/input/event0":  {types: []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY}, keys: []evdev.EvCode{evdev.KEY_POWER}},
		"/dev/input/event2":  {types: []evdev.EvType{evdev.EV_SYN, evdev.EV_REL, evdev.EV_KEY}, keys: []evdev.EvCode{evdev.BTN_LEFT, evdev.BTN_RIGHT}},
		"/dev/input/event3":  {types: []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY, evdev.EV_MSC, evdev.EV_LED}, keys: keyboard},
		"/dev/input/event10": {types: []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY}, keys: keyboard},
		"/dev/input/event11": {types: []evdev.EvType{evdev.EV_SYN, evdev.EV_ABS}},
	}
	paths := []evdev.InputPath{
		{Name: "keyd virtual keyboard", Path: "/dev/input/event10"},
		{Name: "Power Button", Path: "/dev/input/event0"},
		{Name: "Logitech Mouse", Path: "/dev/input/event2"},
		{Name: "AT Translated Set 2 keyboard", Path: "/dev/input/event3"},
		{Name: "Touchpad", Path: "/dev/input/event11"},
		{Name: "gone", Path: "/dev/input/event12"},
	}
	open := func(path string) (capabilities, error) {
		d, ok := devices[path]
		if !ok {
			return nil, syscall.ENOENT
		}
		d.closed = &closed
		return d, nil
	}

	got := findKeyboards(paths, open)
	want := []Keyboard{
		{Path: "/dev/input/event3", Name: "AT Translated Set 2 keyboard"},
		{Path: "/dev/input/event10", Name: "keyd virtual keyboard"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("findKeyboards = %+v, want %+v", got, want)
	}
	if closed != len(devices) {
		t.Fatalf("closed %d devices, opened %d", closed, len(devices))
	}
}
