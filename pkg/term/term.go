// Package term implements a terminal frontend for the VM based on termbox.
//
// Terminals report key presses but no key releases, a pressed key is
// therefore considered held for a short time after its last press event.
package term

import (
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/mnafees/chopper8/internal"
	"github.com/nsf/termbox-go"
)

// KeyHoldTime is how long a key counts as held after its last press event.
// Terminal key repeat keeps refreshing it while the key stays down.
const KeyHoldTime = 150 * time.Millisecond

const (
	cellsPerPixel = 2 // terminal cells are about twice as high as wide
	soundMarker   = "BEEP"
)

// same QWERTY layout as the SDL frontend
var keymap = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminal is the termbox frontend for the VM
type Terminal struct {
	events    chan termbox.Event
	done      chan struct{}
	stopped   chan struct{} // closed when the event pump returned
	started   bool
	closeOnce sync.Once

	heldUntil [internal.KeyCount]time.Time
	now       func() time.Time

	soundOn bool
	pixels  [internal.DisplaySize]bool
}

// New returns a terminal frontend. Setup has to be called before use.
func New() *Terminal {
	return &Terminal{
		events:  make(chan termbox.Event, 64),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		now:     time.Now,
	}
}

// Setup initialises termbox and starts reading terminal events.
func (t *Terminal) Setup() error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initialising terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	t.started = true
	go t.pumpEvents()
	return nil
}

// Close stops the event pump and restores the terminal. It is safe to call
// more than once.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
		if !t.started {
			return
		}
		// Interrupt blocks until the pump is back in PollEvent, which it
		// always reaches once done is closed
		termbox.Interrupt()
		<-t.stopped
		termbox.Close()
	})
}

// pumpEvents forwards terminal events until Close interrupts it. After done
// is closed events are dropped, the pump only waits for the interrupt.
func (t *Terminal) pumpEvents() {
	defer close(t.stopped)
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}
		select {
		case <-t.done:
		case t.events <- ev:
		}
	}
}

// Poll processes pending terminal events and returns the held keypad keys.
func (t *Terminal) Poll() ([]uint8, bool) {
	quit := false
	now := t.now()
	for {
		select {
		case ev := <-t.events:
			if t.handleEvent(ev, now) {
				quit = true
			}
		default:
			return t.heldKeys(now), quit
		}
	}
}

// handleEvent records a key press and returns true if the user asked to quit.
func (t *Terminal) handleEvent(ev termbox.Event, now time.Time) bool {
	switch ev.Type {
	case termbox.EventKey:
		if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC {
			return true
		}
		code, ok := keymap[unicode.ToLower(ev.Ch)]
		if ok {
			t.heldUntil[code] = now.Add(KeyHoldTime)
		}
	case termbox.EventResize:
		t.draw()
	case termbox.EventError:
		return true
	}
	return false
}

func (t *Terminal) heldKeys(now time.Time) []uint8 {
	var keys []uint8
	for code, until := range t.heldUntil {
		if now.Before(until) {
			keys = append(keys, uint8(code))
		}
	}
	return keys
}

// Present draws the display content into the terminal
func (t *Terminal) Present(pixels [internal.DisplaySize]bool) {
	t.pixels = pixels
	t.draw()
}

// Sound shows a marker below the display while the tone is playing
func (t *Terminal) Sound(on bool) {
	t.soundOn = on
	t.draw()
}

func (t *Terminal) draw() {
	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			if !t.pixels[x+y*internal.ScreenWidth] {
				continue
			}
			for i := 0; i < cellsPerPixel; i++ {
				termbox.SetCell(x*cellsPerPixel+i, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
			}
		}
	}
	if t.soundOn {
		for i, ch := range soundMarker {
			termbox.SetCell(i, internal.ScreenHeight, ch, termbox.ColorYellow, termbox.ColorDefault)
		}
	}
	_ = termbox.Flush()
}
