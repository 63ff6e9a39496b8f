package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when an instruction addresses memory outside of the 4 KB space.
	ErrOutOfBounds = errors.New("memory access out of bounds")
	// ErrStackUnderflow is returned by a return instruction executed with an empty call stack.
	ErrStackUnderflow = errors.New("return with empty call stack")
	// ErrStackOverflow is returned by a call instruction executed with a full call stack.
	ErrStackOverflow = errors.New("call stack overflow")
	// ErrIllegalInstruction is returned for opcodes that are not part of the instruction set.
	ErrIllegalInstruction = errors.New("illegal instruction")
	// ErrLoadTooLarge is returned by Load when the program does not fit into memory.
	ErrLoadTooLarge = errors.New("program size exceeds the maximum size")
	// ErrInvalidOption is returned by NewC8VM for unusable options.
	ErrInvalidOption = errors.New("invalid option")
)

// InstructionError describes a failed Step.
type InstructionError struct {
	Opcode  uint16 // instruction word, zero if the fetch itself failed
	Address uint16 // address the instruction was fetched from
	Err     error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %04X at %03X: %v", e.Opcode, e.Address, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}
