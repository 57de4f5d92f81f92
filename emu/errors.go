package emu

import "errors"

// Machine faults. They are never transient: each one means the program is
// invalid, so the run stops immediately.
var (
	// ErrIllegalOpcode is returned when a word with an undefined opcode
	// would execute.
	ErrIllegalOpcode = errors.New("illegal opcode")

	// ErrPCOutOfBounds is returned when the program counter leaves the
	// address space.
	ErrPCOutOfBounds = errors.New("pc went out of the memory range")

	// ErrAddressOutOfBounds is returned when a load or store computes an
	// address outside the address space.
	ErrAddressOutOfBounds = errors.New("address out of bounds")

	// ErrInstructionLimit is returned when a configured instruction or
	// cycle budget runs out before HALT.
	ErrInstructionLimit = errors.New("execution limit reached")
)
