package internal

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestVM creates a VM with the given instruction words loaded at the program start.
func newTestVM(t *testing.T, words []uint16, opts ...Option) *C8VM {
	t.Helper()

	vm, err := NewC8VM(opts...)
	assert.NoError(t, err)
	assert.NoError(t, vm.Load(program(words...)))
	return vm
}

func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

func steps(t *testing.T, vm *C8VM, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		assert.NoError(t, vm.Step())
	}
}

func TestNewC8VM(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)

	assert.Equal(t, uint16(ProgramStart), vm.PC())
	assert.Equal(t, uint16(0), vm.Index())
	assert.Equal(t, 0, vm.StackDepth())
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.Equal(t, Quirks{}, vm.Quirks())

	for i, b := range fontset {
		value, err := vm.ReadMemory(uint16(fontStartAddr + i))
		assert.NoError(t, err)
		assert.Equal(t, b, value)
	}
	value, err := vm.ReadMemory(fontStartAddr - 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), value)
}

func TestNewC8VMNilRandomSource(t *testing.T) {
	_, err := NewC8VM(WithRandomSource(nil))
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestNewC8VMWithLogger(t *testing.T) {
	logger := log.NewTestLogger(t)
	vm, err := NewC8VM(WithLogger(logger), WithQuirks(Quirks{ShiftUsesVy: true}))
	assert.NoError(t, err)
	assert.True(t, vm.Quirks().ShiftUsesVy)
	assert.False(t, vm.Quirks().JumpUsesVx)
}

func TestLoad(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)

	assert.NoError(t, vm.Load([]byte{0x12, 0x34}))
	hi, err := vm.ReadMemory(ProgramStart)
	assert.NoError(t, err)
	lo, err := vm.ReadMemory(ProgramStart + 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x12), hi)
	assert.Equal(t, uint8(0x34), lo)
}

func TestLoadMaximumSize(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)

	data := make([]byte, maxProgramSize)
	data[len(data)-1] = 0xAB
	assert.NoError(t, vm.Load(data))

	value, err := vm.ReadMemory(MemorySize - 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xAB), value)
}

func TestLoadTooLarge(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)

	err = vm.Load(make([]byte, maxProgramSize+1))
	assert.True(t, errors.Is(err, ErrLoadTooLarge))
}

func TestReadMemoryOutOfBounds(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)

	_, err = vm.ReadMemory(MemorySize)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestTickTimers(t *testing.T) {
	vm := newTestVM(t, []uint16{
		0x6005, // LD V0, 5
		0xF015, // LD DT, V0
		0x6101, // LD V1, 1
		0xF118, // LD ST, V1
	})
	vm.TickTimers()
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())

	steps(t, vm, 4)
	assert.Equal(t, uint8(5), vm.DelayTimer())
	assert.Equal(t, uint8(1), vm.SoundTimer())

	vm.TickTimers()
	assert.Equal(t, uint8(4), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())

	vm.TickTimers()
	assert.Equal(t, uint8(3), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
}

func TestSetPressedKeys(t *testing.T) {
	vm, err := NewC8VM()
	assert.NoError(t, err)

	vm.SetPressedKeys(0x1, 0xF, 0x10)
	assert.True(t, vm.isKeyPressed(0x1))
	assert.True(t, vm.isKeyPressed(0xF))
	assert.False(t, vm.isKeyPressed(0x10))

	vm.SetPressedKeys(0x2)
	assert.False(t, vm.isKeyPressed(0x1))
	assert.True(t, vm.isKeyPressed(0x2))

	vm.SetPressedKeys()
	assert.False(t, vm.isKeyPressed(0x2))
}

func TestStepAddProgram(t *testing.T) {
	vm := newTestVM(t, []uint16{
		0x6005, // LD V0, 5
		0x6103, // LD V1, 3
		0x8014, // ADD V0, V1
	})
	steps(t, vm, 3)

	assert.Equal(t, uint8(8), vm.Register(0))
	assert.Equal(t, uint8(0), vm.Register(0xF))
	assert.Equal(t, uint16(ProgramStart+6), vm.PC())

	regs := vm.Registers()
	assert.Equal(t, uint8(8), regs[0])
	assert.Equal(t, uint8(3), regs[1])
}

func TestStepClearScreenProgram(t *testing.T) {
	vm := newTestVM(t, []uint16{0x00E0})
	for i := range vm.pixels {
		vm.pixels[i] = true
	}

	steps(t, vm, 1)
	assert.Equal(t, [DisplaySize]bool{}, vm.Display())
	assert.True(t, vm.DisplayChanged())

	vm.ClearDisplayChanged()
	assert.False(t, vm.DisplayChanged())
}

func TestStepErrorRestoresPC(t *testing.T) {
	vm := newTestVM(t, []uint16{
		0x6001, // LD V0, 1
		0x5011, // illegal
	})
	steps(t, vm, 1)

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrIllegalInstruction))

	var insErr *InstructionError
	assert.True(t, errors.As(err, &insErr))
	assert.Equal(t, uint16(0x5011), insErr.Opcode)
	assert.Equal(t, uint16(ProgramStart+2), insErr.Address)
	assert.Equal(t, uint16(ProgramStart+2), vm.PC())
	assert.ErrorContains(t, err, "instruction 5011 at 202")
}
