package internal

// Instruction is a decoded 16-bit instruction word.
type Instruction struct {
	Word   uint16
	Opcode uint8  // the highest 4 bits of the instruction
	X      uint8  // the lower 4 bits of the high byte of the instruction
	Y      uint8  // the upper 4 bits of the low byte of the instruction
	N      uint8  // the lowest 4 bits of the instruction
	NN     uint8  // the lowest 8 bits of the instruction
	NNN    uint16 // the lowest 12 bits of the instruction
}

// Decode splits an instruction word into its fields. It does not validate the opcode.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:   word,
		Opcode: uint8(word >> 12),
		X:      uint8((word >> 8) & 0x000F),
		Y:      uint8((word >> 4) & 0x000F),
		N:      uint8(word & 0x000F),
		NN:     uint8(word & 0x00FF),
		NNN:    word & 0x0FFF,
	}
}

// fetch reads the big-endian instruction word at pc and advances pc by 2.
func (vm *C8VM) fetch() (Instruction, error) {
	if err := checkRange(vm.pc, 2); err != nil {
		return Instruction{}, err
	}
	word := uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1])
	vm.pc += 2
	return Decode(word), nil
}
