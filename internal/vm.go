package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// CHIP-8 VM constants
const (
	MemorySize     = 0x1000
	ProgramStart   = 0x200
	maxProgramSize = MemorySize - ProgramStart

	TimerFrequency = 60
	ScreenWidth    = 64
	ScreenHeight   = 32
	DisplaySize    = ScreenWidth * ScreenHeight

	RegisterCount = 16
	KeyCount      = 16
	StackSize     = 16

	flagRegister = 0xF
)

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	regV       [RegisterCount]uint8 // 16 general purpose 8-bit registers, VF doubles as the flag register
	regI       uint16               // 16-bit address register, ADD I saturates at 0xFFFF
	delayTimer uint8                // Delay timer
	soundTimer uint8                // Sound timer
	pc         uint16               // Program counter
	sp         uint8                // Stack pointer
	stack      [StackSize]uint16    // A stack of 16 16-bit return addresses
	memory     [MemorySize]uint8    // 4 KB global memory

	// 64 px x 32 px display, row-major
	pixels [DisplaySize]bool

	// set by clear and draw, reset by the host after presenting
	displayChanged bool

	keys set.Set[uint8] // currently pressed keys

	quirks Quirks
	random ByteSource
	logger *log.Logger
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) (*C8VM, error) {
	vm := &C8VM{
		pc:     ProgramStart,
		keys:   set.New[uint8](),
		random: defaultRandomSource{},
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.random == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidOption)
	}
	if copy(vm.memory[fontStartAddr:], fontset) != len(fontset) {
		return nil, fmt.Errorf("copying fontset data to memory: %w", ErrOutOfBounds)
	}

	if vm.logger != nil {
		vm.logger.Debug("VM created",
			log.String("shift_uses_vy", fmt.Sprint(vm.quirks.ShiftUsesVy)),
			log.String("jump_uses_vx", fmt.Sprint(vm.quirks.JumpUsesVx)))
	}
	return vm, nil
}

// Load copies a CHIP-8 program into the VM's memory at the program start address.
func (vm *C8VM) Load(data []byte) error {
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrLoadTooLarge, size, maxProgramSize)
	}
	copy(vm.memory[ProgramStart:], data)

	if vm.logger != nil {
		vm.logger.Debug("Program loaded", log.Int("size", size))
	}
	return nil
}

// Step fetches, decodes and executes exactly one instruction.
// On failure the program counter points at the faulting instruction.
func (vm *C8VM) Step() error {
	addr := vm.pc
	ins, err := vm.fetch()
	if err != nil {
		return &InstructionError{Address: addr, Err: err}
	}
	if err := vm.execute(ins); err != nil {
		vm.pc = addr
		return &InstructionError{Opcode: ins.Word, Address: addr, Err: err}
	}
	return nil
}

// TickTimers decrements the delay and sound timers, flooring both at zero.
// The host calls it at TimerFrequency, independent of the instruction rate.
func (vm *C8VM) TickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// SetPressedKeys replaces the set of pressed keys. Ids above 0xF are ignored.
func (vm *C8VM) SetPressedKeys(keys ...uint8) {
	vm.keys = set.New[uint8]()
	for _, k := range keys {
		if k < KeyCount {
			vm.keys.Add(k)
		}
	}
}

func (vm *C8VM) isKeyPressed(code uint8) bool {
	return vm.keys.Contains(code)
}

// Display returns a copy of the framebuffer, indexed by x + y*ScreenWidth.
func (vm *C8VM) Display() [DisplaySize]bool {
	return vm.pixels
}

// DisplayChanged returns whether a clear or draw happened since the last ClearDisplayChanged.
func (vm *C8VM) DisplayChanged() bool {
	return vm.displayChanged
}

// ClearDisplayChanged resets the display changed flag
func (vm *C8VM) ClearDisplayChanged() {
	vm.displayChanged = false
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// Index returns the value of the I register
func (vm *C8VM) Index() uint16 {
	return vm.regI
}

// Register returns the value of register Vi. Only the low nibble of i is used.
func (vm *C8VM) Register(i uint8) uint8 {
	return vm.regV[i&0xF]
}

// Registers returns a copy of all V registers
func (vm *C8VM) Registers() [RegisterCount]uint8 {
	return vm.regV
}

// StackDepth returns the number of return addresses on the call stack
func (vm *C8VM) StackDepth() int {
	return int(vm.sp)
}

// Quirks returns the quirk configuration the VM was created with
func (vm *C8VM) Quirks() Quirks {
	return vm.quirks
}

// ReadMemory returns the byte at the given address.
func (vm *C8VM) ReadMemory(addr uint16) (byte, error) {
	if err := checkRange(addr, 1); err != nil {
		return 0, err
	}
	return vm.memory[addr], nil
}

// checkRange verifies that count bytes starting at addr lie inside memory.
func checkRange(addr uint16, count int) error {
	if int(addr)+count > MemorySize {
		return fmt.Errorf("%w: address %03X length %d", ErrOutOfBounds, addr, count)
	}
	return nil
}
