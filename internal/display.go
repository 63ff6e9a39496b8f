package internal

const spriteWidth = 8

func (vm *C8VM) clearScreen() {
	vm.pixels = [DisplaySize]bool{}
	vm.displayChanged = true
}

// drawSprite XORs an n row sprite read from I onto the display at (Vx, Vy).
// The start position wraps around the screen, the sprite itself is clipped
// at the right and bottom edges. VF is set when a lit pixel gets erased.
func (vm *C8VM) drawSprite(x, y, n uint8) error {
	if err := checkRange(vm.regI, int(n)); err != nil {
		return err
	}

	startX := int(vm.regV[x]) % ScreenWidth
	startY := int(vm.regV[y]) % ScreenHeight
	vm.regV[flagRegister] = 0

	for row := 0; row < int(n); row++ {
		py := startY + row
		if py >= ScreenHeight {
			break
		}
		spriteByte := vm.memory[int(vm.regI)+row]
		for col := 0; col < spriteWidth; col++ {
			px := startX + col
			if px >= ScreenWidth {
				break
			}
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			idx := px + py*ScreenWidth
			if vm.pixels[idx] {
				vm.regV[flagRegister] = 1
			}
			vm.pixels[idx] = !vm.pixels[idx]
		}
	}

	vm.displayChanged = true
	return nil
}
