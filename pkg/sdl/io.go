package sdl

import (
	"fmt"

	"github.com/mnafees/chopper8/internal"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA

	soundTitleSuffix = " [beep]"
)

// IO is the SDL window frontend for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface
	title   string

	pixelSize int32

	held [internal.KeyCount]bool
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(pixelSize int) *IO {
	return &IO{
		pixelSize: int32(pixelSize),
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.title = title
	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		io.Destroy()
		return fmt.Errorf("clearing window surface: %w", err)
	}
	return io.window.UpdateSurface()
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// Poll processes pending SDL events and returns the held keypad keys.
func (io *IO) Poll() ([]uint8, bool) {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			keycode := t.Keysym.Scancode
			switch t.GetType() {
			case sdl.KEYDOWN:
				if keycode == sdl.SCANCODE_ESCAPE {
					quit = true
				}
				io.setKeymask(keycode)
			case sdl.KEYUP:
				io.unsetKeymask(keycode)
			}
		case *sdl.QuitEvent:
			quit = true
		}
	}
	return io.heldKeys(), quit
}

// Present draws the current display content on screen
func (io *IO) Present(pixels [internal.DisplaySize]bool) {
	_ = io.surface.FillRect(nil, screenColor)
	for y := int32(0); y < internal.ScreenHeight; y++ {
		for x := int32(0); x < internal.ScreenWidth; x++ {
			if !pixels[x+y*internal.ScreenWidth] {
				continue
			}
			rect := &sdl.Rect{X: x * io.pixelSize, Y: y * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
			_ = io.surface.FillRect(rect, spriteColor)
		}
	}
	_ = io.window.UpdateSurface()
}

// Sound marks the window title while the tone is playing
func (io *IO) Sound(on bool) {
	if on {
		io.window.SetTitle(io.title + soundTitleSuffix)
	} else {
		io.window.SetTitle(io.title)
	}
}

// keypad layout on a QWERTY keyboard:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keymap = map[sdl.Scancode]uint8{
	sdl.SCANCODE_1: 0x1, sdl.SCANCODE_2: 0x2, sdl.SCANCODE_3: 0x3, sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_Q: 0x4, sdl.SCANCODE_W: 0x5, sdl.SCANCODE_E: 0x6, sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_A: 0x7, sdl.SCANCODE_S: 0x8, sdl.SCANCODE_D: 0x9, sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_Z: 0xA, sdl.SCANCODE_X: 0x0, sdl.SCANCODE_C: 0xB, sdl.SCANCODE_V: 0xF,
}

func (io *IO) setKey(scancode sdl.Scancode, down bool) {
	if code, ok := keymap[scancode]; ok {
		io.held[code] = down
	}
}

func (io *IO) heldKeys() []uint8 {
	var keys []uint8
	for code, down := range io.held {
		if down {
			keys = append(keys, uint8(code))
		}
	}
	return keys
}
