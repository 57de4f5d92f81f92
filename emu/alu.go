// Package emu provides functional LC-2K emulation.
package emu

// Add returns a + b with two's complement wrap-around.
func Add(a, b int32) int32 {
	return a + b
}

// Nand returns ^(a & b).
func Nand(a, b int32) int32 {
	return ^(a & b)
}

// ALU implements the LC-2K R-type operations against a register file.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs R[dest] = R[regA] + R[regB].
func (a *ALU) ADD(regA, regB, dest uint8) {
	a.regFile.WriteReg(dest, Add(a.regFile.ReadReg(regA), a.regFile.ReadReg(regB)))
}

// NAND performs R[dest] = ^(R[regA] & R[regB]).
func (a *ALU) NAND(regA, regB, dest uint8) {
	a.regFile.WriteReg(dest, Nand(a.regFile.ReadReg(regA), a.regFile.ReadReg(regB)))
}
