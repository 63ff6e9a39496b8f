package term

import (
	"testing"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/assert"
)

func TestKeymapCoversKeypad(t *testing.T) {
	seen := map[uint8]bool{}
	for _, code := range keymap {
		seen[code] = true
	}
	assert.Equal(t, 16, len(seen))
}

func TestHandleEventHoldsKey(t *testing.T) {
	term := New()
	start := time.Unix(1000, 0)

	quit := term.handleEvent(termbox.Event{Type: termbox.EventKey, Ch: 'w'}, start)
	assert.False(t, quit)
	quit = term.handleEvent(termbox.Event{Type: termbox.EventKey, Ch: 'V'}, start)
	assert.False(t, quit)

	keys := term.heldKeys(start.Add(KeyHoldTime / 2))
	assert.Equal(t, 2, len(keys))
	assert.Equal(t, uint8(0x5), keys[0])
	assert.Equal(t, uint8(0xF), keys[1])

	assert.Equal(t, 0, len(term.heldKeys(start.Add(KeyHoldTime))))
}

func TestHandleEventIgnoresUnmappedKeys(t *testing.T) {
	term := New()
	now := time.Unix(1000, 0)

	assert.False(t, term.handleEvent(termbox.Event{Type: termbox.EventKey, Ch: 'p'}, now))
	assert.Equal(t, 0, len(term.heldKeys(now)))
}

func TestHandleEventQuit(t *testing.T) {
	term := New()
	now := time.Unix(1000, 0)

	assert.True(t, term.handleEvent(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}, now))
	assert.True(t, term.handleEvent(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyCtrlC}, now))
	assert.True(t, term.handleEvent(termbox.Event{Type: termbox.EventError}, now))
}

func TestPollDrainsEvents(t *testing.T) {
	term := New()
	now := time.Unix(1000, 0)
	term.now = func() time.Time { return now }

	term.events <- termbox.Event{Type: termbox.EventKey, Ch: '1'}
	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'x'}

	keys, quit := term.Poll()
	assert.False(t, quit)
	assert.Equal(t, 2, len(keys))
	assert.Equal(t, uint8(0x0), keys[0])
	assert.Equal(t, uint8(0x1), keys[1])
	assert.Equal(t, 0, len(term.events))
}

func TestCloseTwice(t *testing.T) {
	term := New()
	term.Close()
	term.Close()

	select {
	case <-term.done:
	default:
		t.Fatal("done channel not closed")
	}
}
