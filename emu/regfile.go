// Package emu provides functional LC-2K emulation.
package emu

import "github.com/sarchlab/lcsim/insts"

// RegFile represents the LC-2K register file.
// It holds eight general-purpose registers and the program counter.
// Register 0 is an ordinary register; it is not hard-wired to zero.
type RegFile struct {
	// R holds registers 0-7.
	R [insts.NumRegs]int32

	// PC is the program counter (a word address).
	PC int32
}

// ReadReg reads a register value.
func (r *RegFile) ReadReg(reg uint8) int32 {
	return r.R[reg&0x7]
}

// WriteReg writes a value to a register.
func (r *RegFile) WriteReg(reg uint8, value int32) {
	r.R[reg&0x7] = value
}
