package trigger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/haivivi/clacker/pkg/soundpack"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04
	esc   = 0x1b
)

// Terminal reads keystrokes from a terminal. It needs no device permissions
// but only sees keys typed into its own terminal, and terminals report no
// releases, so key-up categories are synthesised right after each press when
// keyUp is set. Ctrl-C or Ctrl-D end the source.
type Terminal struct {
	in    io.Reader
	keyUp bool
}

// NewTerminal returns a source reading from in. If in is a terminal it is put
// into raw mode for the duration of Run.
func NewTerminal(in io.Reader, keyUp bool) *Terminal {
	return &Terminal{in: in, keyUp: keyUp}
}

// Run reads keystrokes until ctx is done, the input ends or Ctrl-C / Ctrl-D is
// typed. When the input is an *os.File that supports deadlines, a pending
// read is interrupted before Run returns and the deadline is cleared again.
// Other readers are abandoned mid-read.
func (t *Terminal) Run(ctx context.Context, emit func(Event)) error {
	f, _ := t.in.(*os.File)
	if fd, ok := terminalFd(f); ok {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("trigger: raw mode: %w", err)
		}
		defer term.Restore(fd, state)
		slog.Info("reading keys from terminal; press Ctrl-C to quit")
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	chunks := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		defer close(exited)
		for {
			buf := make([]byte, 64)
			n, err := t.in.Read(buf)
			if n > 0 {
				select {
				case chunks <- buf[:n]:
				case <-done:
					return
				}
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()
	defer func() {
		close(done)
		if f != nil && f.SetReadDeadline(time.Now()) == nil {
			<-exited
			f.SetReadDeadline(time.Time{})
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("trigger: read terminal: %w", err)
		case chunk := <-chunks:
			if !t.handle(chunk, emit) {
				return nil
			}
		}
	}
}

// terminalFd returns the descriptor of f if it is a terminal. It avoids
// f.Fd, which would switch f to blocking mode and disable read deadlines.
func terminalFd(f *os.File) (fd int, ok bool) {
	if f == nil {
		return 0, false
	}
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, false
	}
	rc.Control(func(u uintptr) {
		fd = int(u)
		ok = term.IsTerminal(fd)
	})
	return fd, ok
}

// handle emits events for one chunk of input. It reports false when the user
// asked to quit.
func (t *Terminal) handle(chunk []byte, emit func(Event)) bool {
	now := time.Now()
	// Escape sequences (arrows, function keys) arrive as one chunk and count
	// as a single key.
	if chunk[0] == esc {
		t.press(soundpack.GenericDown, soundpack.GenericUp, now, emit)
		return true
	}
	for _, b := range chunk {
		switch b {
		case ctrlC, ctrlD:
			return false
		case '\r', '\n':
			t.press(soundpack.EnterDown, soundpack.EnterUp, now, emit)
		case 0x7f, '\b':
			t.press(soundpack.BackspaceDown, soundpack.BackspaceUp, now, emit)
		case ' ':
			t.press(soundpack.SpaceDown, soundpack.SpaceUp, now, emit)
		default:
			t.press(soundpack.GenericDown, soundpack.GenericUp, now, emit)
		}
	}
	return true
}

func (t *Terminal) press(down, up string, now time.Time, emit func(Event)) {
	emit(Event{Category: down, Time: now})
	if t.keyUp {
		emit(Event{Category: up, Time: now})
	}
}
