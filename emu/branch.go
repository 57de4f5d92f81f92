// Package emu provides functional LC-2K emulation.
package emu

// BranchUnit implements BEQ and JALR.
//
// Both operate on a PC that has already been advanced past the branch, so
// targets are relative to pc+1.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// BEQ adds offset to the PC when R[regA] == R[regB]. It reports whether the
// branch was taken.
func (b *BranchUnit) BEQ(regA, regB uint8, offset int32) bool {
	if b.regFile.ReadReg(regA) != b.regFile.ReadReg(regB) {
		return false
	}
	b.regFile.PC += offset
	return true
}

// JALR saves the return address in regB, then jumps to R[regA]. regB is
// written before regA is read, so "jalr r r" continues at pc+1.
func (b *BranchUnit) JALR(regA, regB uint8) {
	b.regFile.WriteReg(regB, b.regFile.PC)
	b.regFile.PC = b.regFile.ReadReg(regA)
}
