package internal

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// execute runs a decoded instruction. The program counter already points past it.
func (vm *C8VM) execute(ins Instruction) error {
	x, y, nn, nnn := ins.X, ins.Y, ins.NN, ins.NNN

	switch ins.Opcode {
	case 0x0:
		switch ins.Word {
		case 0x00E0: // CLS
			vm.clearScreen()
		case 0x00EE: // RET
			return vm.ret()
		default: // SYS nnn is not supported
			return illegal(ins)
		}
	case 0x1: // JP nnn
		vm.pc = nnn
	case 0x2: // CALL nnn
		return vm.call(nnn)
	case 0x3, 0x4, 0x5, 0x9:
		return vm.skipCompare(ins)
	case 0x6: // LD Vx, nn
		vm.regV[x] = nn
	case 0x7: // ADD Vx, nn
		vm.regV[x] += nn
	case 0x8:
		return vm.executeALU(ins)
	case 0xA: // LD I, nnn
		vm.regI = nnn
	case 0xB: // JP V0, nnn
		if vm.quirks.JumpUsesVx {
			vm.pc = nnn + uint16(vm.regV[x])
		} else {
			vm.pc = nnn + uint16(vm.regV[0])
		}
	case 0xC: // RND Vx, nn
		vm.regV[x] = vm.random.RandomByte() & nn
	case 0xD: // DRW Vx, Vy, n
		return vm.drawSprite(x, y, ins.N)
	case 0xE:
		switch nn {
		case 0x9E: // SKP Vx
			if vm.isKeyPressed(vm.regV[x]) {
				vm.pc += 2
			}
		case 0xA1: // SKNP Vx
			if !vm.isKeyPressed(vm.regV[x]) {
				vm.pc += 2
			}
		default:
			return illegal(ins)
		}
	case 0xF:
		return vm.executeMisc(ins)
	default:
		// unreachable, the opcode is a nibble
		return illegal(ins)
	}
	return nil
}

func illegal(ins Instruction) error {
	return fmt.Errorf("%w: %04X", ErrIllegalInstruction, ins.Word)
}

func (vm *C8VM) call(addr uint16) error {
	if int(vm.sp) >= StackSize {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, StackSize)
	}
	vm.stack[vm.sp] = vm.pc
	vm.sp++
	vm.pc = addr
	return nil
}

func (vm *C8VM) ret() error {
	if vm.sp == 0 {
		if vm.logger != nil {
			vm.logger.Error("Return with empty call stack",
				log.Hex("address", vm.pc-2))
		}
		return ErrStackUnderflow
	}
	vm.sp--
	vm.pc = vm.stack[vm.sp]
	return nil
}

// skipCompare handles the conditional skips 3xnn, 4xnn, 5xy0 and 9xy0.
func (vm *C8VM) skipCompare(ins Instruction) error {
	var skip bool
	switch {
	case ins.Opcode == 0x3: // SE Vx, nn
		skip = vm.regV[ins.X] == ins.NN
	case ins.Opcode == 0x4: // SNE Vx, nn
		skip = vm.regV[ins.X] != ins.NN
	case ins.Opcode == 0x5 && ins.N == 0: // SE Vx, Vy
		skip = vm.regV[ins.X] == vm.regV[ins.Y]
	case ins.Opcode == 0x9 && ins.N == 0: // SNE Vx, Vy
		skip = vm.regV[ins.X] != vm.regV[ins.Y]
	default:
		return illegal(ins)
	}
	if skip {
		vm.pc += 2
	}
	return nil
}

// executeALU handles the 8xyn register to register operations. Every
// operation that sets VF writes Vx first, so VF holds the flag even when x is F.
func (vm *C8VM) executeALU(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.N {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vm.regV[y]
	case 0x1: // OR Vx, Vy
		vm.regV[x] |= vm.regV[y]
	case 0x2: // AND Vx, Vy
		vm.regV[x] &= vm.regV[y]
	case 0x3: // XOR Vx, Vy
		vm.regV[x] ^= vm.regV[y]
	case 0x4: // ADD Vx, Vy
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.regV[x] = uint8(sum)
		vm.regV[flagRegister] = boolToFlag(sum > 0xFF)
	case 0x5, 0x7:
		return vm.subtract(ins)
	case 0x6, 0xE:
		return vm.shift(ins)
	default:
		return illegal(ins)
	}
	return nil
}

// subtract handles SUB (8xy5) and SUBN (8xy7). VF is 1 when no borrow occurred.
func (vm *C8VM) subtract(ins Instruction) error {
	x, y := ins.X, ins.Y

	var notBorrow bool
	switch ins.N {
	case 0x5: // SUB Vx, Vy
		notBorrow = vm.regV[x] >= vm.regV[y]
		vm.regV[x] -= vm.regV[y]
	case 0x7: // SUBN Vx, Vy
		notBorrow = vm.regV[y] >= vm.regV[x]
		vm.regV[x] = vm.regV[y] - vm.regV[x]
	default:
		return illegal(ins)
	}
	vm.regV[flagRegister] = boolToFlag(notBorrow)
	return nil
}

// shift handles SHR (8xy6) and SHL (8xyE). With the ShiftUsesVy quirk Vy is
// copied into Vx first; the shifted out bit is captured after that copy.
func (vm *C8VM) shift(ins Instruction) error {
	x := ins.X
	if vm.quirks.ShiftUsesVy {
		vm.regV[x] = vm.regV[ins.Y]
	}
	value := vm.regV[x]

	var carry uint8
	switch ins.N {
	case 0x6: // SHR Vx {, Vy}
		carry = value & 0x01
		vm.regV[x] = value >> 1
	case 0xE: // SHL Vx {, Vy}
		carry = (value & 0x80) >> 7
		vm.regV[x] = value << 1
	default:
		return illegal(ins)
	}
	vm.regV[flagRegister] = carry
	return nil
}

// executeMisc handles the Fxnn timer, keypad and memory instructions.
func (vm *C8VM) executeMisc(ins Instruction) error {
	x := ins.X

	switch ins.NN {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		key, ok := vm.lowestPressedKey()
		if !ok {
			// run this instruction again on the next step
			vm.pc -= 2
			return nil
		}
		vm.regV[x] = key
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		// saturates, a wrapped I would pass the range checks as low memory
		vm.regI = uint16(min(uint32(vm.regI)+uint32(vm.regV[x]), 0xFFFF))
	case 0x29: // LD F, Vx
		vm.regI = fontStartAddr + uint16(vm.regV[x]&0xF)*fontCharSize
	case 0x33: // LD B, Vx
		if err := checkRange(vm.regI, 3); err != nil {
			return err
		}
		value := vm.regV[x]
		vm.memory[vm.regI] = value / 100
		vm.memory[vm.regI+1] = (value / 10) % 10
		vm.memory[vm.regI+2] = value % 10
	case 0x55: // LD [I], Vx
		if err := checkRange(vm.regI, int(x)+1); err != nil {
			return err
		}
		copy(vm.memory[vm.regI:], vm.regV[:x+1])
	case 0x65: // LD Vx, [I]
		if err := checkRange(vm.regI, int(x)+1); err != nil {
			return err
		}
		copy(vm.regV[:x+1], vm.memory[vm.regI:])
	default:
		return illegal(ins)
	}
	return nil
}

func (vm *C8VM) lowestPressedKey() (uint8, bool) {
	for k := uint8(0); k < KeyCount; k++ {
		if vm.keys.Contains(k) {
			return k, true
		}
	}
	return 0, false
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
