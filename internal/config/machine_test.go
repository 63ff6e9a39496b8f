package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mnafees/chopper8/internal"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func writeProgram(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNewVM(t *testing.T) {
	opts := Options{
		Program:    writeProgram(t, []byte{0x63, 0x2A}), // LD V3, 2A
		JumpUsesVx: true,
	}

	vm, err := NewVM(opts, log.NewTestLogger(t))
	assert.NoError(t, err)
	assert.True(t, vm.Quirks().JumpUsesVx)
	assert.False(t, vm.Quirks().ShiftUsesVy)

	assert.NoError(t, vm.Step())
	assert.Equal(t, uint8(0x2A), vm.Register(3))
}

func TestNewVMMissingFile(t *testing.T) {
	opts := Options{Program: filepath.Join(t.TempDir(), "missing.ch8")}

	_, err := NewVM(opts, nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewVMProgramTooLarge(t *testing.T) {
	opts := Options{Program: writeProgram(t, make([]byte, internal.MemorySize))}

	_, err := NewVM(opts, nil)
	assert.True(t, errors.Is(err, internal.ErrLoadTooLarge))
}
