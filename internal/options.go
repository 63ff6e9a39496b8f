package internal

import (
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// Quirks selects between historically divergent behaviors of single instructions.
type Quirks struct {
	// ShiftUsesVy copies Vy into Vx before 8xy6 and 8xyE shift.
	ShiftUsesVy bool
	// JumpUsesVx makes Bnnn jump to nnn + Vx, x being the high nibble of nnn,
	// instead of nnn + V0.
	JumpUsesVx bool
}

// ByteSource produces the random bytes consumed by the Cxnn instruction.
type ByteSource interface {
	RandomByte() byte
}

// ByteSourceFunc adapts a function to the ByteSource interface.
type ByteSourceFunc func() byte

// RandomByte returns f().
func (f ByteSourceFunc) RandomByte() byte {
	return f()
}

type defaultRandomSource struct{}

func (defaultRandomSource) RandomByte() byte {
	return byte(rand.UintN(256))
}

// Option configures a VM at construction time.
type Option func(vm *C8VM)

// WithQuirks sets the quirk configuration.
func WithQuirks(q Quirks) Option {
	return func(vm *C8VM) {
		vm.quirks = q
	}
}

// WithRandomSource replaces the source of random bytes.
func WithRandomSource(src ByteSource) Option {
	return func(vm *C8VM) {
		vm.random = src
	}
}

// WithLogger sets the logger used for fatal error diagnostics.
// Without a logger the VM does not log at all.
func WithLogger(logger *log.Logger) Option {
	return func(vm *C8VM) {
		vm.logger = logger
	}
}
